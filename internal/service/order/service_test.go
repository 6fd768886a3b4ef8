package order

import (
	"context"
	"errors"
	"testing"

	"storefront-orders/internal/domain"
	orderrepo "storefront-orders/internal/repository/order"
	"github.com/jackc/pgx/v5"
)

type stubTx struct {
	commits int
}

func (s *stubTx) InTx(_ context.Context, fn func(tx pgx.Tx) error) error {
	if err := fn(nil); err != nil {
		return err
	}
	s.commits++
	return nil
}

type stubOrderRepo struct {
	order        *domain.Order
	getErr       error
	updateErr    error
	updatedTo    domain.Status
	updateCalls  int
	listedOrders []domain.Order
	listedTotal  int
}

func (s *stubOrderRepo) GetByID(_ context.Context, _ string) (*domain.Order, error) {
	return s.order, s.getErr
}

func (s *stubOrderRepo) GetForUpdateTx(_ context.Context, _ pgx.Tx, _ string) (*domain.Order, error) {
	return s.order, s.getErr
}

func (s *stubOrderRepo) UpdateStatusTx(_ context.Context, _ pgx.Tx, _ string, to domain.Status) error {
	s.updateCalls++
	s.updatedTo = to
	return s.updateErr
}

func (s *stubOrderRepo) ListByUser(_ context.Context, _ orderrepo.ListInput) ([]domain.Order, int, error) {
	return s.listedOrders, s.listedTotal, nil
}

type releaseCall struct {
	productID string
	quantity  int
}

type stubLedger struct {
	failOn   string
	failWith error
	releases []releaseCall
}

func (s *stubLedger) Release(_ context.Context, _ pgx.Tx, productID string, quantity int) error {
	if productID == s.failOn {
		return s.failWith
	}
	s.releases = append(s.releases, releaseCall{productID: productID, quantity: quantity})
	return nil
}

func pendingOrder(userID string) *domain.Order {
	return &domain.Order{
		ID:     "o1",
		UserID: userID,
		Status: domain.StatusPending,
		Lines: []domain.OrderLine{
			{ProductID: "itemA", Quantity: 2},
			{ProductID: "itemB", Quantity: 1},
		},
	}
}

func TestGetHidesForeignOrders(t *testing.T) {
	repo := &stubOrderRepo{order: pendingOrder("owner")}
	svc := New(&stubTx{}, repo, &stubLedger{}, nil, nil)
	_, err := svc.Get(context.Background(), "o1", "someone-else")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAdvanceStatusLegal(t *testing.T) {
	tx := &stubTx{}
	repo := &stubOrderRepo{order: pendingOrder("owner")}
	svc := New(tx, repo, &stubLedger{}, nil, nil)

	updated, err := svc.AdvanceStatus(context.Background(), "o1", domain.StatusPreparing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != domain.StatusPreparing {
		t.Fatalf("status = %s, want preparing", updated.Status)
	}
	if repo.updatedTo != domain.StatusPreparing || tx.commits != 1 {
		t.Fatalf("expected committed preparing write")
	}
}

func TestAdvanceStatusIllegal(t *testing.T) {
	tx := &stubTx{}
	repo := &stubOrderRepo{order: &domain.Order{ID: "o1", UserID: "owner", Status: domain.StatusCompleted}}
	svc := New(tx, repo, &stubLedger{}, nil, nil)

	_, err := svc.AdvanceStatus(context.Background(), "o1", domain.StatusPreparing)
	var transitionErr *domain.IllegalTransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected illegal transition error, got %v", err)
	}
	if transitionErr.From != domain.StatusCompleted || transitionErr.To != domain.StatusPreparing {
		t.Fatalf("unexpected transition error: %+v", transitionErr)
	}
	if repo.updateCalls != 0 || tx.commits != 0 {
		t.Fatalf("illegal transition must leave status unchanged")
	}
}

func TestAdvanceStatusUnknownTarget(t *testing.T) {
	svc := New(&stubTx{}, &stubOrderRepo{order: pendingOrder("owner")}, &stubLedger{}, nil, nil)
	_, err := svc.AdvanceStatus(context.Background(), "o1", domain.Status("shipped"))
	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAdvanceStatusNotFound(t *testing.T) {
	repo := &stubOrderRepo{getErr: domain.ErrNotFound}
	svc := New(&stubTx{}, repo, &stubLedger{}, nil, nil)
	_, err := svc.AdvanceStatus(context.Background(), "missing", domain.StatusPaid)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPayFromPending(t *testing.T) {
	repo := &stubOrderRepo{order: pendingOrder("owner")}
	svc := New(&stubTx{}, repo, &stubLedger{}, nil, nil)

	updated, err := svc.Pay(context.Background(), "o1", "owner")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != domain.StatusPaid {
		t.Fatalf("status = %s, want paid", updated.Status)
	}
}

func TestPayForbiddenForNonOwner(t *testing.T) {
	repo := &stubOrderRepo{order: pendingOrder("owner")}
	svc := New(&stubTx{}, repo, &stubLedger{}, nil, nil)

	_, err := svc.Pay(context.Background(), "o1", "intruder")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if repo.updateCalls != 0 {
		t.Fatalf("forbidden request must not write")
	}
}

func TestConfirmFromReady(t *testing.T) {
	repo := &stubOrderRepo{order: &domain.Order{ID: "o1", UserID: "owner", Status: domain.StatusReady}}
	svc := New(&stubTx{}, repo, &stubLedger{}, nil, nil)

	updated, err := svc.Confirm(context.Background(), "o1", "owner")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != domain.StatusCompleted {
		t.Fatalf("status = %s, want completed", updated.Status)
	}
}

func TestConfirmRejectedFromPending(t *testing.T) {
	repo := &stubOrderRepo{order: pendingOrder("owner")}
	svc := New(&stubTx{}, repo, &stubLedger{}, nil, nil)

	_, err := svc.Confirm(context.Background(), "o1", "owner")
	var transitionErr *domain.IllegalTransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected illegal transition error, got %v", err)
	}
}

func TestCancelReleasesEveryLine(t *testing.T) {
	tx := &stubTx{}
	repo := &stubOrderRepo{order: pendingOrder("owner")}
	ledger := &stubLedger{}
	svc := New(tx, repo, ledger, nil, nil)

	cancelled, err := svc.Cancel(context.Background(), "o1", "owner")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cancelled.Status != domain.StatusCancelled {
		t.Fatalf("status = %s, want cancelled", cancelled.Status)
	}
	want := []releaseCall{{productID: "itemA", quantity: 2}, {productID: "itemB", quantity: 1}}
	if len(ledger.releases) != len(want) {
		t.Fatalf("releases = %v, want %v", ledger.releases, want)
	}
	for i, call := range want {
		if ledger.releases[i] != call {
			t.Fatalf("release %d = %v, want %v", i, ledger.releases[i], call)
		}
	}
	if repo.updatedTo != domain.StatusCancelled || tx.commits != 1 {
		t.Fatalf("expected committed cancellation")
	}
}

func TestCancelSkipsMissingProduct(t *testing.T) {
	repo := &stubOrderRepo{order: pendingOrder("owner")}
	ledger := &stubLedger{failOn: "itemA", failWith: domain.ErrNotFound}
	svc := New(&stubTx{}, repo, ledger, nil, nil)

	cancelled, err := svc.Cancel(context.Background(), "o1", "owner")
	if err != nil {
		t.Fatalf("a vanished catalog item must not block compensation, got %v", err)
	}
	if cancelled.Status != domain.StatusCancelled {
		t.Fatalf("status = %s, want cancelled", cancelled.Status)
	}
	if len(ledger.releases) != 1 || ledger.releases[0].productID != "itemB" {
		t.Fatalf("remaining lines must still release, got %v", ledger.releases)
	}
}

func TestCancelForbiddenForNonOwner(t *testing.T) {
	tx := &stubTx{}
	repo := &stubOrderRepo{order: pendingOrder("owner")}
	ledger := &stubLedger{}
	svc := New(tx, repo, ledger, nil, nil)

	_, err := svc.Cancel(context.Background(), "o1", "intruder")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if len(ledger.releases) != 0 || repo.updateCalls != 0 || tx.commits != 0 {
		t.Fatalf("forbidden cancel must perform no state change")
	}
}

func TestCancelRejectedAfterPending(t *testing.T) {
	repo := &stubOrderRepo{order: &domain.Order{ID: "o1", UserID: "owner", Status: domain.StatusPreparing}}
	ledger := &stubLedger{}
	svc := New(&stubTx{}, repo, ledger, nil, nil)

	_, err := svc.Cancel(context.Background(), "o1", "owner")
	var transitionErr *domain.IllegalTransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected illegal transition error, got %v", err)
	}
	if len(ledger.releases) != 0 {
		t.Fatalf("no stock may be released for a non-pending cancel")
	}
}

func TestListValidatesStatusFilter(t *testing.T) {
	svc := New(&stubTx{}, &stubOrderRepo{}, &stubLedger{}, nil, nil)
	_, _, err := svc.List(context.Background(), ListInput{UserID: "u1", Status: domain.Status("bogus")})
	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
