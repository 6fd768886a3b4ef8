package stock

import (
	"context"
	"errors"
	"io"
	"log"

	"storefront-orders/internal/domain"
	"github.com/jackc/pgx/v5"
)

type postgresLedger struct {
	logger *log.Logger
}

func NewPostgres(logger *log.Logger) Ledger {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresLedger{logger: logger}
}

func (l *postgresLedger) Reserve(ctx context.Context, tx pgx.Tx, productID string, quantity int) error {
	// FOR UPDATE serializes concurrent reservations on the same product row;
	// the read and the decrement below see the same locked value.
	var available int
	err := tx.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1 FOR UPDATE`, productID).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	if available < quantity {
		return &domain.InsufficientStockError{ProductID: productID, Requested: quantity, Available: available}
	}

	_, err = tx.Exec(ctx, `UPDATE products SET stock = stock - $2, updated_at = now() WHERE id = $1`, productID, quantity)
	if err != nil {
		l.logger.Printf("stock ledger: reserve product_id=%s qty=%d error=%v", productID, quantity, err)
		return err
	}
	return nil
}

func (l *postgresLedger) Release(ctx context.Context, tx pgx.Tx, productID string, quantity int) error {
	ct, err := tx.Exec(ctx, `UPDATE products SET stock = stock + $2, updated_at = now() WHERE id = $1`, productID, quantity)
	if err != nil {
		l.logger.Printf("stock ledger: release product_id=%s qty=%d error=%v", productID, quantity, err)
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
