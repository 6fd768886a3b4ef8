package order

import (
	"context"
	"errors"
	"io"
	"log"

	"storefront-orders/internal/cache"
	"storefront-orders/internal/domain"
	orderrepo "storefront-orders/internal/repository/order"
	"github.com/jackc/pgx/v5"
)

type txRunner interface {
	InTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

type orderRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetForUpdateTx(ctx context.Context, tx pgx.Tx, id string) (*domain.Order, error)
	UpdateStatusTx(ctx context.Context, tx pgx.Tx, id string, to domain.Status) error
	ListByUser(ctx context.Context, in orderrepo.ListInput) ([]domain.Order, int, error)
}

type stockLedger interface {
	Release(ctx context.Context, tx pgx.Tx, productID string, quantity int) error
}

// Service owns every status change after checkout: the user pay/confirm
// flows, the admin force-status flow and cancellation with stock release.
type Service struct {
	tx     txRunner
	orders orderRepo
	ledger stockLedger
	cache  *cache.Invalidator
	logger *log.Logger
}

func New(tx txRunner, orders orderRepo, ledger stockLedger, inv *cache.Invalidator, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if inv == nil {
		inv = cache.New("", logger)
	}
	return &Service{tx: tx, orders: orders, ledger: ledger, cache: inv, logger: logger}
}

// Get returns the order with lines. Orders of other users surface as not
// found rather than forbidden so their existence is not leaked.
func (s *Service) Get(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

type ListInput struct {
	UserID   string
	Status   domain.Status
	Page     int
	PageSize int
}

func (s *Service) List(ctx context.Context, in ListInput) ([]domain.Order, int, error) {
	if in.Status != "" && !domain.IsValidStatus(in.Status) {
		return nil, 0, &domain.ValidationError{Field: "status", Reason: "unknown order status"}
	}
	if in.Page < 1 {
		in.Page = 1
	}
	if in.PageSize < 1 || in.PageSize > 100 {
		in.PageSize = 20
	}
	return s.orders.ListByUser(ctx, orderrepo.ListInput{
		UserID: in.UserID,
		Status: in.Status,
		Limit:  in.PageSize,
		Offset: (in.Page - 1) * in.PageSize,
	})
}

// AdvanceStatus moves an order to target if the transition table allows it.
// The status is re-read under a row lock inside the transaction, so two
// concurrent transitions cannot both pass validation against a stale value.
func (s *Service) AdvanceStatus(ctx context.Context, orderID string, target domain.Status) (*domain.Order, error) {
	if !domain.IsValidStatus(target) {
		return nil, &domain.ValidationError{Field: "status", Reason: "unknown order status"}
	}

	var updated *domain.Order
	err := s.tx.InTx(ctx, func(tx pgx.Tx) error {
		o, err := s.orders.GetForUpdateTx(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if !domain.CanTransition(o.Status, target) {
			return &domain.IllegalTransitionError{From: o.Status, To: target}
		}
		if err := s.orders.UpdateStatusTx(ctx, tx, orderID, target); err != nil {
			return err
		}
		o.Status = target
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateOrder(ctx, orderID)
	s.logger.Printf("order: status advanced order_id=%s status=%s", orderID, target)
	return updated, nil
}

// Pay simulates payment for the caller's pending order.
func (s *Service) Pay(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	return s.advanceOwned(ctx, orderID, userID, domain.StatusPaid)
}

// Confirm marks the caller's ready order as completed.
func (s *Service) Confirm(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	return s.advanceOwned(ctx, orderID, userID, domain.StatusCompleted)
}

func (s *Service) advanceOwned(ctx context.Context, orderID, userID string, target domain.Status) (*domain.Order, error) {
	var updated *domain.Order
	err := s.tx.InTx(ctx, func(tx pgx.Tx) error {
		o, err := s.orders.GetForUpdateTx(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if o.UserID != userID {
			return domain.ErrForbidden
		}
		if !domain.CanTransition(o.Status, target) {
			return &domain.IllegalTransitionError{From: o.Status, To: target}
		}
		if err := s.orders.UpdateStatusTx(ctx, tx, orderID, target); err != nil {
			return err
		}
		o.Status = target
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateOrder(ctx, orderID)
	return updated, nil
}

// Cancel cancels the caller's pending order and releases every reserved
// line. A line whose product has since left the catalog is logged and
// skipped: one missing item must not block compensation for the rest.
func (s *Service) Cancel(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	var cancelled *domain.Order
	err := s.tx.InTx(ctx, func(tx pgx.Tx) error {
		o, err := s.orders.GetForUpdateTx(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if o.UserID != userID {
			return domain.ErrForbidden
		}
		if o.Status != domain.StatusPending {
			return &domain.IllegalTransitionError{From: o.Status, To: domain.StatusCancelled}
		}

		for _, line := range o.Lines {
			if err := s.ledger.Release(ctx, tx, line.ProductID, line.Quantity); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					s.logger.Printf("order: cancel release skipped, product gone order_id=%s product_id=%s qty=%d",
						orderID, line.ProductID, line.Quantity)
					continue
				}
				return err
			}
		}

		if err := s.orders.UpdateStatusTx(ctx, tx, orderID, domain.StatusCancelled); err != nil {
			return err
		}
		o.Status = domain.StatusCancelled
		cancelled = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateOrder(ctx, orderID)
	s.cache.InvalidateProducts(ctx)
	s.logger.Printf("order: cancelled order_id=%s user_id=%s", orderID, userID)
	return cancelled, nil
}
