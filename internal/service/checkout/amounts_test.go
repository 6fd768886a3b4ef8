package checkout

import (
	"testing"
	"time"

	"storefront-orders/internal/domain"
)

func TestCalculateAmountsPickup(t *testing.T) {
	lines := []domain.CartLine{
		{ProductID: "p42", ProductName: "Oat Latte", Quantity: 3, UnitPriceCents: 1000},
	}
	got := CalculateAmounts(lines, domain.DeliveryTypePickup)
	want := Amounts{SubtotalCents: 3000, DeliveryFeeCents: 0, DiscountCents: 0, TotalCents: 3000}
	if got != want {
		t.Fatalf("unexpected amounts: %+v", got)
	}
}

func TestCalculateAmountsDeliveryFee(t *testing.T) {
	lines := []domain.CartLine{
		{ProductID: "a", Quantity: 2, UnitPriceCents: 550},
		{ProductID: "b", Quantity: 1, UnitPriceCents: 390},
	}
	got := CalculateAmounts(lines, domain.DeliveryTypeDelivery)
	if got.SubtotalCents != 1490 {
		t.Fatalf("subtotal = %d, want 1490", got.SubtotalCents)
	}
	if got.DeliveryFeeCents != DeliveryFeeCents {
		t.Fatalf("delivery fee = %d, want %d", got.DeliveryFeeCents, DeliveryFeeCents)
	}
	if got.TotalCents != 1490+DeliveryFeeCents {
		t.Fatalf("total = %d, want %d", got.TotalCents, 1490+DeliveryFeeCents)
	}
}

func TestCalculateAmountsIdempotent(t *testing.T) {
	lines := []domain.CartLine{
		{ProductID: "a", Quantity: 2, UnitPriceCents: 550},
		{ProductID: "b", Quantity: 5, UnitPriceCents: 1450},
	}
	first := CalculateAmounts(lines, domain.DeliveryTypeDelivery)
	second := CalculateAmounts(lines, domain.DeliveryTypeDelivery)
	if first != second {
		t.Fatalf("amounts not idempotent: %+v vs %+v", first, second)
	}
}

func TestCalculateAmountsEmpty(t *testing.T) {
	got := CalculateAmounts(nil, domain.DeliveryTypePickup)
	if got.TotalCents != 0 || got.SubtotalCents != 0 {
		t.Fatalf("expected zero amounts, got %+v", got)
	}
}

func TestAssembleOrderSnapshotsLines(t *testing.T) {
	lines := []domain.CartLine{
		{ProductID: "p1", ProductName: "Cold Brew", ProductImage: "/img/cb.jpg", Quantity: 2, UnitPriceCents: 480},
	}
	in := Input{DeliveryType: domain.DeliveryTypePickup, PickupName: "Ana", PickupPhone: "555-0100"}
	amounts := CalculateAmounts(lines, in.DeliveryType)
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	order := assembleOrder("u1", in, lines, amounts, now)

	if order.Status != domain.StatusPending {
		t.Fatalf("status = %s, want pending", order.Status)
	}
	if order.TotalCents != 960 {
		t.Fatalf("total = %d, want 960", order.TotalCents)
	}
	if len(order.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(order.Lines))
	}
	line := order.Lines[0]
	if line.ProductName != "Cold Brew" || line.ProductImage != "/img/cb.jpg" || line.UnitPriceCents != 480 || line.SubtotalCents != 960 {
		t.Fatalf("line snapshot mismatch: %+v", line)
	}
	if len(order.OrderNumber) != len("ORD20260314092653ABCD") {
		t.Fatalf("unexpected order number format: %q", order.OrderNumber)
	}
	if order.OrderNumber[:17] != "ORD20260314092653" {
		t.Fatalf("order number prefix mismatch: %q", order.OrderNumber)
	}
}

func TestGenerateOrderNumberFormat(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	n := generateOrderNumber(now)
	if len(n) != 21 {
		t.Fatalf("order number %q has length %d, want 21", n, len(n))
	}
	if n[:17] != "ORD20260102030405" {
		t.Fatalf("order number prefix mismatch: %q", n)
	}
	for _, r := range n[17:] {
		if !(r >= '0' && r <= '9' || r >= 'A' && r <= 'F') {
			t.Fatalf("suffix not uppercase hex: %q", n)
		}
	}
}
