package cart

import (
	"context"
	"io"
	"log"

	"storefront-orders/internal/cache"
	"storefront-orders/internal/domain"
)

type cartRepo interface {
	ListLines(ctx context.Context, userID string) ([]domain.CartLine, error)
	UpsertItem(ctx context.Context, userID, productID string, quantity int) error
	SetQuantity(ctx context.Context, userID, productID string, quantity int) error
	RemoveItem(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

// Service manages cart contents before checkout. Stock is not enforced here;
// only the checkout reservation decides whether quantities can be honored.
type Service struct {
	repo     cartRepo
	products productRepo
	cache    *cache.Invalidator
	logger   *log.Logger
}

func New(repo cartRepo, products productRepo, inv *cache.Invalidator, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if inv == nil {
		inv = cache.New("", logger)
	}
	return &Service{repo: repo, products: products, cache: inv, logger: logger}
}

// Cart is the user-facing cart view.
type Cart struct {
	Lines      []domain.CartLine `json:"lines"`
	TotalCents int64             `json:"totalCents"`
}

func (s *Service) Get(ctx context.Context, userID string) (*Cart, error) {
	lines, err := s.repo.ListLines(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart := &Cart{Lines: lines}
	if cart.Lines == nil {
		cart.Lines = []domain.CartLine{}
	}
	for _, line := range lines {
		cart.TotalCents += line.SubtotalCents()
	}
	return cart, nil
}

func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int) (*Cart, error) {
	if quantity <= 0 {
		return nil, &domain.ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	if err := s.repo.UpsertItem(ctx, userID, productID, quantity); err != nil {
		return nil, err
	}
	s.cache.InvalidateCart(ctx, userID)
	return s.Get(ctx, userID)
}

// UpdateQuantity sets an absolute quantity; zero or less removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*Cart, error) {
	var err error
	if quantity <= 0 {
		err = s.repo.RemoveItem(ctx, userID, productID)
	} else {
		err = s.repo.SetQuantity(ctx, userID, productID, quantity)
	}
	if err != nil {
		return nil, err
	}
	s.cache.InvalidateCart(ctx, userID)
	return s.Get(ctx, userID)
}

func (s *Service) RemoveItem(ctx context.Context, userID, productID string) (*Cart, error) {
	if err := s.repo.RemoveItem(ctx, userID, productID); err != nil {
		return nil, err
	}
	s.cache.InvalidateCart(ctx, userID)
	return s.Get(ctx, userID)
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return err
	}
	s.cache.InvalidateCart(ctx, userID)
	return nil
}
