package models

import "time"

// Order is the durable snapshot written at checkout. Append-only except for Status.
type Order struct {
	ID              int64       `json:"id"`
	OrderDate       time.Time   `json:"order_date"`
	Username        string      `json:"username"` // buyer account reference
	CustomerName    string      `json:"customer_name"`
	CustomerEmail   string      `json:"customer_email"`
	CustomerAddress string      `json:"customer_address"`
	TotalAmount     int         `json:"total_amount"`
	ItemsSummary    string      `json:"items_summary"` // e.g. "Widget x2, Gadget x1"
	Status          OrderStatus `json:"status"`
}
