package checkout

import (
	"context"
	"io"
	"log"
	"strings"
	"time"

	"storefront-orders/internal/cache"
	"storefront-orders/internal/domain"
	"storefront-orders/internal/notify"
	"github.com/jackc/pgx/v5"
)

type txRunner interface {
	InTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

type cartRepo interface {
	ListLines(ctx context.Context, userID string) ([]domain.CartLine, error)
	SnapshotForUser(ctx context.Context, tx pgx.Tx, userID string) ([]domain.CartLine, error)
	ClearTx(ctx context.Context, tx pgx.Tx, userID string) error
}

type orderRepo interface {
	CreateTx(ctx context.Context, tx pgx.Tx, o *domain.Order) (*domain.Order, error)
}

type stockLedger interface {
	Reserve(ctx context.Context, tx pgx.Tx, productID string, quantity int) error
}

// Service converts a cart into a persisted order inside one transaction:
// snapshot -> reserve stock per line -> persist order -> clear cart.
type Service struct {
	tx       txRunner
	carts    cartRepo
	orders   orderRepo
	ledger   stockLedger
	cache    *cache.Invalidator
	notifier *notify.Publisher
	logger   *log.Logger
	now      func() time.Time
}

func New(tx txRunner, carts cartRepo, orders orderRepo, ledger stockLedger, inv *cache.Invalidator, notifier *notify.Publisher, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if inv == nil {
		inv = cache.New("", logger)
	}
	if notifier == nil {
		notifier = notify.NewPublisher(nil, logger)
	}
	return &Service{
		tx:       tx,
		carts:    carts,
		orders:   orders,
		ledger:   ledger,
		cache:    inv,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

type Input struct {
	DeliveryType    domain.DeliveryType `json:"deliveryType"`
	DeliveryAddress string              `json:"deliveryAddress,omitempty"`
	PickupName      string              `json:"pickupName,omitempty"`
	PickupPhone     string              `json:"pickupPhone,omitempty"`
	Remark          string              `json:"remark,omitempty"`
}

func validateInput(in Input) error {
	switch in.DeliveryType {
	case domain.DeliveryTypeDelivery:
		if strings.TrimSpace(in.DeliveryAddress) == "" {
			return &domain.ValidationError{Field: "deliveryAddress", Reason: "required for delivery orders"}
		}
	case domain.DeliveryTypePickup:
		if strings.TrimSpace(in.PickupName) == "" {
			return &domain.ValidationError{Field: "pickupName", Reason: "required for pickup orders"}
		}
		if strings.TrimSpace(in.PickupPhone) == "" {
			return &domain.ValidationError{Field: "pickupPhone", Reason: "required for pickup orders"}
		}
	default:
		return &domain.ValidationError{Field: "deliveryType", Reason: "must be delivery or pickup"}
	}
	return nil
}

// Checkout runs the whole conversion atomically. Stock for line i is only
// reserved after lines 0..i-1 succeeded; the first shortage aborts the
// transaction so no partial reservation survives. Cache invalidation and the
// order-created notification happen after commit and never fail the checkout.
func (s *Service) Checkout(ctx context.Context, userID string, in Input) (*domain.Order, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	var created *domain.Order
	err := s.tx.InTx(ctx, func(tx pgx.Tx) error {
		lines, err := s.carts.SnapshotForUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return domain.ErrEmptyCart
		}

		amounts := CalculateAmounts(lines, in.DeliveryType)
		order := assembleOrder(userID, in, lines, amounts, s.now())

		for _, line := range lines {
			if err := s.ledger.Reserve(ctx, tx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}

		created, err = s.orders.CreateTx(ctx, tx, order)
		if err != nil {
			return err
		}

		return s.carts.ClearTx(ctx, tx, userID)
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateProducts(ctx)
	s.cache.InvalidateCart(ctx, userID)
	s.notifier.PublishOrderCreated(ctx, notify.OrderCreated{
		OrderID:     created.ID,
		OrderNumber: created.OrderNumber,
		UserID:      created.UserID,
		TotalCents:  created.TotalCents,
	})

	s.logger.Printf("checkout: order created order_id=%s order_number=%s user_id=%s total_cents=%d",
		created.ID, created.OrderNumber, created.UserID, created.TotalCents)
	return created, nil
}

// Preview computes the amount breakdown for the current cart without
// creating an order.
func (s *Service) Preview(ctx context.Context, userID string, deliveryType domain.DeliveryType) (Amounts, error) {
	if deliveryType != domain.DeliveryTypeDelivery && deliveryType != domain.DeliveryTypePickup {
		return Amounts{}, &domain.ValidationError{Field: "deliveryType", Reason: "must be delivery or pickup"}
	}
	lines, err := s.carts.ListLines(ctx, userID)
	if err != nil {
		return Amounts{}, err
	}
	if len(lines) == 0 {
		return Amounts{}, domain.ErrEmptyCart
	}
	return CalculateAmounts(lines, deliveryType), nil
}
