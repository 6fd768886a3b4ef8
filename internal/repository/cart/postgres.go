package cart

import (
	"context"

	"storefront-orders/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const linesQuery = `
SELECT ci.product_id::text, p.name, COALESCE(p.image_url, ''), ci.quantity, p.price_cents
FROM cart_items ci
JOIN products p ON p.id = ci.product_id
WHERE ci.user_id = $1
ORDER BY ci.created_at ASC
`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

// querier covers both pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func scanLines(ctx context.Context, q querier, userID string) ([]domain.CartLine, error) {
	rows, err := q.Query(ctx, linesQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(&line.ProductID, &line.ProductName, &line.ProductImage, &line.Quantity, &line.UnitPriceCents); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *postgresRepo) ListLines(ctx context.Context, userID string) ([]domain.CartLine, error) {
	return scanLines(ctx, r.pool, userID)
}

func (r *postgresRepo) SnapshotForUser(ctx context.Context, tx pgx.Tx, userID string) ([]domain.CartLine, error) {
	return scanLines(ctx, tx, userID)
}

func (r *postgresRepo) UpsertItem(ctx context.Context, userID, productID string, quantity int) error {
	const q = `
INSERT INTO cart_items (user_id, product_id, quantity)
VALUES ($1, $2, $3)
ON CONFLICT (user_id, product_id)
DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
`
	_, err := r.pool.Exec(ctx, q, userID, productID, quantity)
	return err
}

func (r *postgresRepo) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	const q = `
UPDATE cart_items
SET quantity = $3
WHERE user_id = $1 AND product_id = $2
`
	ct, err := r.pool.Exec(ctx, q, userID, productID, quantity)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) RemoveItem(ctx context.Context, userID, productID string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Clear(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	return err
}

func (r *postgresRepo) ClearTx(ctx context.Context, tx pgx.Tx, userID string) error {
	_, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	return err
}
