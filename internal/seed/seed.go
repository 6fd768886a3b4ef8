package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	SKU        string
	Name       string
	ImageURL   string
	PriceCents int64
	Stock      int
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			SKU:        "SKU-LATTE",
			Name:       "Oat Latte",
			ImageURL:   "/images/oat-latte.jpg",
			PriceCents: 550,
			Stock:      120,
		},
		{
			SKU:        "SKU-COLD-BREW",
			Name:       "Cold Brew",
			ImageURL:   "/images/cold-brew.jpg",
			PriceCents: 480,
			Stock:      80,
		},
		{
			SKU:        "SKU-CROISSANT",
			Name:       "Butter Croissant",
			ImageURL:   "/images/croissant.jpg",
			PriceCents: 390,
			Stock:      40,
		},
		{
			SKU:        "SKU-BEANS-250",
			Name:       "House Blend Beans 250g",
			ImageURL:   "/images/beans-250.jpg",
			PriceCents: 1450,
			Stock:      25,
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.SKU, err)
		}
	}

	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (sku, name, image_url, price_cents, stock)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (sku)
DO UPDATE SET name = EXCLUDED.name, image_url = EXCLUDED.image_url, price_cents = EXCLUDED.price_cents
`
	_, err := pool.Exec(ctx, q, p.SKU, p.Name, p.ImageURL, p.PriceCents, p.Stock)
	return err
}
