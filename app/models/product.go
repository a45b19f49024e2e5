package models

// Product is an entry of products.json.
type Product struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       Price  `json:"price"`
	Image       string `json:"image,omitempty"`
}
