package domain

import "time"

type Product struct {
	ID         string    `json:"id"`
	SKU        string    `json:"sku"`
	Name       string    `json:"name"`
	ImageURL   string    `json:"imageUrl,omitempty"`
	PriceCents int64     `json:"priceCents"`
	Stock      int       `json:"stock"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
