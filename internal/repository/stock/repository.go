package stock

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Ledger owns per-product available quantity. Both operations run inside the
// caller's transaction and never commit on their own: reservation is only
// durable once the surrounding checkout commits, and a rollback undoes it.
type Ledger interface {
	// Reserve decrements available stock, failing with
	// *domain.InsufficientStockError when quantity exceeds what is left.
	Reserve(ctx context.Context, tx pgx.Tx, productID string, quantity int) error
	// Release increments available stock back. Idempotency is the caller's
	// responsibility; a missing product yields domain.ErrNotFound.
	Release(ctx context.Context, tx pgx.Tx, productID string, quantity int) error
}
