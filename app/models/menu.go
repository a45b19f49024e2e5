package models

// MenuItem is one entry of a category document such as home.json.
type MenuItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       Price  `json:"price"`
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
}

// Menu maps a category name to its items, in document order.
type Menu map[string][]MenuItem
