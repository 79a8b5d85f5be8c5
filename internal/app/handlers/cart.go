package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/linemk/storefront/internal/cart"
	"github.com/linemk/storefront/internal/lib/format"
	"github.com/linemk/storefront/internal/security/jwtmiddleware"
	"github.com/linemk/storefront/internal/service"
	"github.com/linemk/storefront/internal/storage"
)

// CartLineView is one cart line in the HTTP cart view.
type CartLineView struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int    `json:"price"`
	Quantity  int    `json:"quantity"`
	LineTotal int    `json:"line_total"`
}

// CartResponse is the full cart view.
type CartResponse struct {
	Lines        []CartLineView `json:"lines"`
	Total        int            `json:"total"`
	TotalDisplay string         `json:"total_display"`
}

// AddToCartRequest identifies the product to add; the server takes the
// snapshot from the catalog at this moment.
type AddToCartRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
}

// UpdateCartRequest applies a quantity delta to an existing line.
type UpdateCartRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Delta     int   `json:"delta" validate:"required"`
}

func cartResponse(c *cart.Cart) CartResponse {
	lines := c.Lines()
	views := make([]CartLineView, 0, len(lines))
	for _, line := range lines {
		views = append(views, CartLineView{
			ProductID: line.Product.ID,
			Name:      line.Product.Name,
			Price:     line.Product.Price,
			Quantity:  line.Quantity,
			LineTotal: line.Product.Price * line.Quantity,
		})
	}
	total := c.Total()
	return CartResponse{Lines: views, Total: total, TotalDisplay: format.Amount(total)}
}

func sessionCart(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*cart.Cart, bool) {
	c, ok := jwtmiddleware.CartFromContext(r.Context())
	if !ok {
		logger.Error("cart not found in context")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return nil, false
	}
	return c, true
}

// GetCartHandler handles GET /api/cart.
func GetCartHandler(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetCartHandler"
		logger := log.With(slog.String("op", op))

		c, ok := sessionCart(w, r, logger)
		if !ok {
			return
		}
		writeJSON(w, logger, cartResponse(c))
	}
}

// AddToCartHandler handles POST /api/cart/add.
func AddToCartHandler(log *slog.Logger, catalogService service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AddToCartHandler"
		logger := log.With(slog.String("op", op))

		var req AddToCartRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			http.Error(w, "validation error", http.StatusBadRequest)
			return
		}

		c, ok := sessionCart(w, r, logger)
		if !ok {
			return
		}

		product, err := catalogService.GetProduct(r.Context(), req.ProductID)
		if err != nil {
			if errors.Is(err, storage.ErrProductNotFound) {
				http.Error(w, "product not found", http.StatusNotFound)
				return
			}
			logger.Error("failed to get product", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		c.AddItem(*product)
		writeJSON(w, logger, cartResponse(c))
	}
}

// UpdateCartHandler handles POST /api/cart/update. An unknown product id is a
// no-op and still returns the current cart.
func UpdateCartHandler(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateCartHandler"
		logger := log.With(slog.String("op", op))

		var req UpdateCartRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			http.Error(w, "validation error", http.StatusBadRequest)
			return
		}

		c, ok := sessionCart(w, r, logger)
		if !ok {
			return
		}

		c.ChangeQuantity(req.ProductID, req.Delta)
		writeJSON(w, logger, cartResponse(c))
	}
}

// ClearCartHandler handles POST /api/cart/clear.
func ClearCartHandler(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ClearCartHandler"
		logger := log.With(slog.String("op", op))

		c, ok := sessionCart(w, r, logger)
		if !ok {
			return
		}

		c.Clear()
		writeJSON(w, logger, cartResponse(c))
	}
}
