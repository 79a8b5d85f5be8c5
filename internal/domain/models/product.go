package models

// Product represents a catalog item available in the shop
type Product struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    int    `json:"price"` // smallest currency unit, no fractions
	Image    string `json:"image"` // image URL, not validated for reachability
}
