package models

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Status is an order's lifecycle state. Any status may move to any other.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Statuses lists every valid status.
var Statuses = []Status{StatusPending, StatusConfirmed, StatusDelivered, StatusCancelled, StatusCompleted}

// IsValid reports whether s is one of Statuses.
func (s Status) IsValid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// DeliveryDetails are the customer fields attached to an order.
type DeliveryDetails struct {
	ClientName     string `json:"clientName,omitempty"`
	ClientContact  string `json:"clientContact,omitempty"`
	ClientEmail    string `json:"clientEmail,omitempty"`
	ClientAddress  string `json:"clientAddress,omitempty"`
	ClientBuilding string `json:"clientBuilding,omitempty"`
	ClientFloor    string `json:"clientFloor,omitempty"`
}

// FirstMissing returns the wire name of the first empty field, checked in
// the order the checkout form presents them, or "" when all are set.
func (d DeliveryDetails) FirstMissing() string {
	fields := []struct {
		name, value string
	}{
		{"clientName", d.ClientName},
		{"clientContact", d.ClientContact},
		{"clientEmail", d.ClientEmail},
		{"clientAddress", d.ClientAddress},
		{"clientBuilding", d.ClientBuilding},
		{"clientFloor", d.ClientFloor},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return f.name
		}
	}
	return ""
}

// Order is one entry of orders.json.
type Order struct {
	OrderID string `json:"orderId"`
	UserID  string `json:"userId"`
	DeliveryDetails
	Items        []CartLine `json:"items"`
	Total        float64    `json:"total"`
	PaymentImage string     `json:"paymentImage,omitempty"`
	Timestamp    time.Time  `json:"timestamp"`
	Status       Status     `json:"status"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

// OrderStats summarizes the ledger for the admin dashboard.
type OrderStats struct {
	TotalOrders     int     `json:"totalOrders"`
	PendingOrders   int     `json:"pendingOrders"`
	CompletedOrders int     `json:"completedOrders"`
	TotalRevenue    float64 `json:"totalRevenue"`
}

// Stats computes dashboard figures over orders.
func Stats(orders []Order) OrderStats {
	st := OrderStats{TotalOrders: len(orders)}
	for _, o := range orders {
		switch o.Status {
		case StatusPending:
			st.PendingOrders++
		case StatusCompleted:
			st.CompletedOrders++
		}
		st.TotalRevenue += o.Total
	}
	return st
}

var (
	errItemsNotJSON  = errors.New("items is not valid JSON")
	errItemsNotArray = errors.New("items must be a non-empty array")
	errItemNumbers   = errors.New("item price and quantity must be numbers")
	errItemFraction  = errors.New("item quantity must be a whole number")
)

// ParseOrderItems decodes the items of a direct submission. raw is either a
// JSON array or a JSON string whose content is a JSON array, since multipart
// forms can only carry the list as text.
func ParseOrderItems(raw string) ([]CartLine, error) {
	raw = strings.TrimSpace(raw)
	if !gjson.Valid(raw) {
		return nil, errItemsNotJSON
	}
	res := gjson.Parse(raw)
	if res.Type == gjson.String {
		inner := res.String()
		if !gjson.Valid(inner) {
			return nil, errItemsNotJSON
		}
		res = gjson.Parse(inner)
	}
	if !res.IsArray() {
		return nil, errItemsNotArray
	}

	elems := res.Array()
	if len(elems) == 0 {
		return nil, errItemsNotArray
	}
	lines := make([]CartLine, 0, len(elems))
	for _, e := range elems {
		price, qty := e.Get("price"), e.Get("quantity")
		if price.Type != gjson.Number || qty.Type != gjson.Number {
			return nil, errItemNumbers
		}
		if qty.Num != math.Trunc(qty.Num) {
			return nil, errItemFraction
		}
		lines = append(lines, CartLine{
			ItemID:   e.Get("itemId").String(),
			Name:     e.Get("name").String(),
			Price:    Price(price.Num),
			Quantity: int(qty.Num),
		})
	}
	return lines, nil
}
