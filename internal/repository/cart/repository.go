package cart

import (
	"context"

	"storefront-orders/internal/domain"
	"github.com/jackc/pgx/v5"
)

type Repository interface {
	// ListLines reads the user's cart joined with current product data.
	ListLines(ctx context.Context, userID string) ([]domain.CartLine, error)
	// SnapshotForUser is the same read, but inside the checkout transaction so
	// the prices frozen into the order match what was reserved.
	SnapshotForUser(ctx context.Context, tx pgx.Tx, userID string) ([]domain.CartLine, error)
	UpsertItem(ctx context.Context, userID, productID string, quantity int) error
	SetQuantity(ctx context.Context, userID, productID string, quantity int) error
	RemoveItem(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
	// ClearTx empties the cart as part of checkout commit.
	ClearTx(ctx context.Context, tx pgx.Tx, userID string) error
}
