package domain

import "time"

type CartItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
}

// CartLine is one cart entry joined with the current product catalog row. It
// is read once at checkout time and its prices are what get frozen into the
// order, so it must come from the same transaction that reserves stock.
type CartLine struct {
	ProductID      string `json:"productId"`
	ProductName    string `json:"productName"`
	ProductImage   string `json:"productImage,omitempty"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
}

func (l CartLine) SubtotalCents() int64 {
	return l.UnitPriceCents * int64(l.Quantity)
}
