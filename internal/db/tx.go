package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxManager hands the services a transaction boundary without exposing the
// pool itself.
type TxManager struct {
	pool *pgxpool.Pool
}

func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{pool: pool}
}

func (m *TxManager) InTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return InTx(ctx, m.pool, fn)
}

// InTx runs fn inside a single transaction. Any error from fn rolls the
// transaction back; a nil return commits it. Checkout and cancellation use
// this as their one atomicity boundary.
func InTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
