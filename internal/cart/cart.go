package cart

import (
	"fmt"
	"strings"

	"github.com/linemk/storefront/internal/domain/models"
)

// Line is one product's snapshot plus quantity. The snapshot is an owned copy
// taken at first add and is never re-synced to later catalog changes: the price
// a customer saw when adding stays locked for the rest of the session.
type Line struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// Cart is the per-session shopping cart: at most one line per product id.
// It is not safe for concurrent use; each session runs one request at a time,
// and the owning Manager serializes access to the session registry itself.
type Cart struct {
	lines map[int64]*Line
	order []int64 // product ids in first-add order, keeps Summarize deterministic
}

func New() *Cart {
	return &Cart{lines: make(map[int64]*Line)}
}

// AddItem puts the product into the cart. If a line for the product already
// exists its quantity is incremented and the stored snapshot is left untouched.
func (c *Cart) AddItem(p models.Product) {
	if line, ok := c.lines[p.ID]; ok {
		line.Quantity++
		return
	}
	c.lines[p.ID] = &Line{Product: p, Quantity: 1}
	c.order = append(c.order, p.ID)
}

// ChangeQuantity adds delta to the line's quantity. A missing product id is a
// no-op. A resulting quantity <= 0 removes the line entirely; a line is never
// kept at zero.
func (c *Cart) ChangeQuantity(productID int64, delta int) {
	line, ok := c.lines[productID]
	if !ok {
		return
	}
	line.Quantity += delta
	if line.Quantity <= 0 {
		c.remove(productID)
	}
}

func (c *Cart) remove(productID int64) {
	delete(c.lines, productID)
	for i, id := range c.order {
		if id == productID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// Clear removes all lines unconditionally.
func (c *Cart) Clear() {
	c.lines = make(map[int64]*Line)
	c.order = nil
}

// Total is the sum of price*quantity over all lines; 0 for an empty cart.
func (c *Cart) Total() int {
	total := 0
	for _, line := range c.lines {
		total += line.Product.Price * line.Quantity
	}
	return total
}

// Summarize renders the lines as "{name} x{quantity}" tokens joined by ", ",
// in first-add order. This string is stored verbatim on the order row.
func (c *Cart) Summarize() string {
	tokens := make([]string, 0, len(c.order))
	for _, id := range c.order {
		line := c.lines[id]
		tokens = append(tokens, fmt.Sprintf("%s x%d", line.Product.Name, line.Quantity))
	}
	return strings.Join(tokens, ", ")
}

// Lines returns the cart lines in first-add order.
func (c *Cart) Lines() []Line {
	out := make([]Line, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.lines[id])
	}
	return out
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.lines)
}
