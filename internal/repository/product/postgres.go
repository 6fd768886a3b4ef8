package product

import (
	"context"
	"errors"
	"io"
	"log"

	"storefront-orders/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	const q = `
SELECT id::text, sku, name, COALESCE(image_url, ''), price_cents, stock, created_at, updated_at
FROM products
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.ImageURL, &p.PriceCents, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT id::text, sku, name, COALESCE(image_url, ''), price_cents, stock, created_at, updated_at
FROM products
WHERE id = $1
`
	var p domain.Product
	err := r.pool.QueryRow(ctx, q, id).Scan(&p.ID, &p.SKU, &p.Name, &p.ImageURL, &p.PriceCents, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Create(ctx context.Context, in CreateProductInput) (*domain.Product, error) {
	const q = `
INSERT INTO products (sku, name, image_url, price_cents, stock)
VALUES ($1, $2, NULLIF($3, ''), $4, $5)
RETURNING id::text, sku, name, COALESCE(image_url, ''), price_cents, stock, created_at, updated_at
`
	var p domain.Product
	err := r.pool.QueryRow(ctx, q, in.SKU, in.Name, in.ImageURL, in.PriceCents, in.Stock).Scan(
		&p.ID, &p.SKU, &p.Name, &p.ImageURL, &p.PriceCents, &p.Stock, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		r.logger.Printf("product repo: create sku=%s error=%v", in.SKU, err)
		return nil, err
	}
	return &p, nil
}
