package models

// OrderStatus is the lifecycle label of an order.
type OrderStatus string

const (
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusCompleted  OrderStatus = "Completed"
	StatusCancelled  OrderStatus = "Cancelled"
)

// AllOrderStatuses returns the status labels in the order the admin UI lists them.
func AllOrderStatuses() []OrderStatus {
	return []OrderStatus{StatusProcessing, StatusShipped, StatusCompleted, StatusCancelled}
}

// IsValid reports whether s is one of the four known labels.
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusProcessing, StatusShipped, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
