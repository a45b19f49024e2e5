package models

// MaxLineQuantity bounds the quantity accepted by a single add or update.
const MaxLineQuantity = 50

// CartLine is one item in a user's cart. Name and Price are copied from the
// menu when the line is created and are not refreshed afterwards.
type CartLine struct {
	ItemID   string `json:"itemId"`
	Name     string `json:"name"`
	Price    Price  `json:"price"`
	Quantity int    `json:"quantity"`
}

// Subtotal is price × quantity.
func (l CartLine) Subtotal() float64 { return l.Price.Float() * float64(l.Quantity) }

// CartStore is the whole cart.json document: user id → lines. An absent key
// is an empty cart; keys are never deleted, only emptied.
type CartStore map[string][]CartLine

// Lines returns the user's cart, never nil.
func (s CartStore) Lines(userID string) []CartLine {
	if lines, ok := s[userID]; ok && lines != nil {
		return lines
	}
	return []CartLine{}
}

// Total sums the subtotals of lines.
func Total(lines []CartLine) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.Subtotal()
	}
	return sum
}
