package order

import (
	"context"

	"storefront-orders/internal/domain"
	"github.com/jackc/pgx/v5"
)

type ListInput struct {
	UserID string
	Status domain.Status
	Limit  int
	Offset int
}

type Repository interface {
	// CreateTx persists the order and its lines inside the checkout
	// transaction. The returned order carries generated IDs and timestamps.
	CreateTx(ctx context.Context, tx pgx.Tx, o *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// GetForUpdateTx reads the order (with lines) under a row lock so a
	// status check and the following write cannot race another transition.
	GetForUpdateTx(ctx context.Context, tx pgx.Tx, id string) (*domain.Order, error)
	UpdateStatusTx(ctx context.Context, tx pgx.Tx, id string, to domain.Status) error
	ListByUser(ctx context.Context, in ListInput) ([]domain.Order, int, error)
}
