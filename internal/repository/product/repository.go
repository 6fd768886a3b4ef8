package product

import (
	"context"

	"storefront-orders/internal/domain"
)

type CreateProductInput struct {
	SKU        string
	Name       string
	ImageURL   string
	PriceCents int64
	Stock      int
}

type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, in CreateProductInput) (*domain.Product, error)
}
