package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront-orders/internal/domain"
	checkoutsvc "storefront-orders/internal/service/checkout"
	ordersvc "storefront-orders/internal/service/order"
	"github.com/gin-gonic/gin"
)

type stubCheckoutService struct {
	order   *domain.Order
	amounts checkoutsvc.Amounts
	err     error
}

func (s *stubCheckoutService) Checkout(_ context.Context, _ string, _ checkoutsvc.Input) (*domain.Order, error) {
	return s.order, s.err
}

func (s *stubCheckoutService) Preview(_ context.Context, _ string, _ domain.DeliveryType) (checkoutsvc.Amounts, error) {
	return s.amounts, s.err
}

type stubOrderService struct {
	order *domain.Order
	err   error
}

func (s *stubOrderService) Get(_ context.Context, _, _ string) (*domain.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) List(_ context.Context, _ ordersvc.ListInput) ([]domain.Order, int, error) {
	return nil, 0, s.err
}

func (s *stubOrderService) AdvanceStatus(_ context.Context, _ string, _ domain.Status) (*domain.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) Pay(_ context.Context, _, _ string) (*domain.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) Confirm(_ context.Context, _, _ string) (*domain.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) Cancel(_ context.Context, _, _ string) (*domain.Order, error) {
	return s.order, s.err
}

func newTestRouter(checkout checkoutService, orders orderService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	authed := router.Group("/", userIdentity())
	authed.POST("/orders", checkoutHandler(checkout))
	authed.POST("/orders/:orderID/cancel", cancelOrderHandler(orders))
	authed.PUT("/admin/orders/:orderID/status", forceStatusHandler(orders))
	return router
}

func TestUserIdentityRequired(t *testing.T) {
	router := newTestRouter(&stubCheckoutService{}, &stubOrderService{})

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCheckoutCreated(t *testing.T) {
	svc := &stubCheckoutService{order: &domain.Order{ID: "o1", OrderNumber: "ORD1", Status: domain.StatusPending}}
	router := newTestRouter(svc, &stubOrderService{})

	body := `{"deliveryType":"pickup","pickupName":"Ana","pickupPhone":"555-0100"}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	req.Header.Set(userIDHeader, "u1")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCheckoutInsufficientStockMapsToConflict(t *testing.T) {
	svc := &stubCheckoutService{err: &domain.InsufficientStockError{ProductID: "p1", Requested: 5, Available: 2}}
	router := newTestRouter(svc, &stubOrderService{})

	body := `{"deliveryType":"pickup","pickupName":"Ana","pickupPhone":"555-0100"}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	req.Header.Set(userIDHeader, "u1")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if payload["productId"] != "p1" || payload["available"] != float64(2) {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestCheckoutEmptyCartMapsToBadRequest(t *testing.T) {
	svc := &stubCheckoutService{err: domain.ErrEmptyCart}
	router := newTestRouter(svc, &stubOrderService{})

	body := `{"deliveryType":"pickup","pickupName":"Ana","pickupPhone":"555-0100"}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	req.Header.Set(userIDHeader, "u1")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCancelForbiddenMapsTo403(t *testing.T) {
	router := newTestRouter(&stubCheckoutService{}, &stubOrderService{err: domain.ErrForbidden})

	req := httptest.NewRequest(http.MethodPost, "/orders/o1/cancel", nil)
	req.Header.Set(userIDHeader, "intruder")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestForceStatusIllegalTransitionMapsToConflict(t *testing.T) {
	svc := &stubOrderService{err: &domain.IllegalTransitionError{From: domain.StatusCompleted, To: domain.StatusPending}}
	router := newTestRouter(&stubCheckoutService{}, svc)

	req := httptest.NewRequest(http.MethodPut, "/admin/orders/o1/status", strings.NewReader(`{"status":"pending"}`))
	req.Header.Set(userIDHeader, "admin")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestForceStatusNotFoundMapsTo404(t *testing.T) {
	router := newTestRouter(&stubCheckoutService{}, &stubOrderService{err: domain.ErrNotFound})

	req := httptest.NewRequest(http.MethodPut, "/admin/orders/missing/status", strings.NewReader(`{"status":"paid"}`))
	req.Header.Set(userIDHeader, "admin")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
