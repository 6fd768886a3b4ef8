package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"storefront-orders/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderColumns = `
id::text, order_number, user_id, status, delivery_type,
COALESCE(delivery_address, ''), COALESCE(pickup_name, ''), COALESCE(pickup_phone, ''), COALESCE(remark, ''),
subtotal_cents, delivery_fee_cents, discount_cents, total_cents, created_at, updated_at`

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

func (r *postgresRepo) CreateTx(ctx context.Context, tx pgx.Tx, o *domain.Order) (*domain.Order, error) {
	const q = `
INSERT INTO orders (order_number, user_id, status, delivery_type, delivery_address, pickup_name, pickup_phone, remark,
                    subtotal_cents, delivery_fee_cents, discount_cents, total_cents)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), $9, $10, $11, $12)
RETURNING ` + orderColumns

	created := *o
	err := tx.QueryRow(ctx, q,
		o.OrderNumber, o.UserID, o.Status, o.DeliveryType, o.DeliveryAddress, o.PickupName, o.PickupPhone, o.Remark,
		o.SubtotalCents, o.DeliveryFeeCents, o.DiscountCents, o.TotalCents,
	).Scan(
		&created.ID, &created.OrderNumber, &created.UserID, &created.Status, &created.DeliveryType,
		&created.DeliveryAddress, &created.PickupName, &created.PickupPhone, &created.Remark,
		&created.SubtotalCents, &created.DeliveryFeeCents, &created.DiscountCents, &created.TotalCents,
		&created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	created.Lines = make([]domain.OrderLine, 0, len(o.Lines))
	for _, line := range o.Lines {
		const lq = `
INSERT INTO order_items (order_id, product_id, product_name, product_image, quantity, unit_price_cents, subtotal_cents)
VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)
RETURNING id::text
`
		inserted := line
		inserted.OrderID = created.ID
		if err := tx.QueryRow(ctx, lq,
			created.ID, line.ProductID, line.ProductName, line.ProductImage,
			line.Quantity, line.UnitPriceCents, line.SubtotalCents,
		).Scan(&inserted.ID); err != nil {
			return nil, err
		}
		created.Lines = append(created.Lines, inserted)
	}

	return &created, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}
	o.Lines, err = r.fetchLines(ctx, r.pool, o.ID)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) GetForUpdateTx(ctx context.Context, tx pgx.Tx, id string) (*domain.Order, error) {
	row := tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}
	o.Lines, err = r.fetchLines(ctx, tx, o.ID)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) UpdateStatusTx(ctx context.Context, tx pgx.Tx, id string, to domain.Status) error {
	ct, err := tx.Exec(ctx, `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`, id, to)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, in ListInput) ([]domain.Order, int, error) {
	countQuery := `SELECT COUNT(*) FROM orders WHERE user_id = $1`
	listQuery := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1`
	args := []any{in.UserID}

	if in.Status != "" {
		countQuery += ` AND status = $2`
		listQuery += ` AND status = $2`
		args = append(args, in.Status)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery += ` ORDER BY created_at DESC`
	if in.Limit > 0 {
		args = append(args, in.Limit, in.Offset)
		n := len(args)
		listQuery += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, n-1, n)
	}

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		r.logger.Printf("order repo: list user_id=%s error=%v", in.UserID, err)
		return nil, 0, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range orders {
		orders[i].Lines, err = r.fetchLines(ctx, r.pool, orders[i].ID)
		if err != nil {
			return nil, 0, err
		}
	}
	return orders, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.Status, &o.DeliveryType,
		&o.DeliveryAddress, &o.PickupName, &o.PickupPhone, &o.Remark,
		&o.SubtotalCents, &o.DeliveryFeeCents, &o.DiscountCents, &o.TotalCents,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *postgresRepo) fetchLines(ctx context.Context, q querier, orderID string) ([]domain.OrderLine, error) {
	const lq = `
SELECT id::text, order_id::text, product_id::text, product_name, COALESCE(product_image, ''), quantity, unit_price_cents, subtotal_cents
FROM order_items
WHERE order_id = $1
ORDER BY id
`
	rows, err := q.Query(ctx, lq, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.ProductName, &line.ProductImage,
			&line.Quantity, &line.UnitPriceCents, &line.SubtotalCents); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
