package checkout

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"storefront-orders/internal/domain"
)

// generateOrderNumber builds the human-readable order number shown to
// customers: ORD + timestamp + random suffix. Never reused, never changed.
func generateOrderNumber(now time.Time) string {
	suffix := make([]byte, 2)
	_, _ = rand.Read(suffix)
	return "ORD" + now.Format("20060102150405") + strings.ToUpper(hex.EncodeToString(suffix))
}

// assembleOrder materializes the order and its lines from a cart snapshot.
// Pure record building; persistence belongs to the orchestrator.
func assembleOrder(userID string, in Input, lines []domain.CartLine, amounts Amounts, now time.Time) *domain.Order {
	order := &domain.Order{
		OrderNumber:      generateOrderNumber(now),
		UserID:           userID,
		Status:           domain.StatusPending,
		DeliveryType:     in.DeliveryType,
		DeliveryAddress:  in.DeliveryAddress,
		PickupName:       in.PickupName,
		PickupPhone:      in.PickupPhone,
		Remark:           in.Remark,
		SubtotalCents:    amounts.SubtotalCents,
		DeliveryFeeCents: amounts.DeliveryFeeCents,
		DiscountCents:    amounts.DiscountCents,
		TotalCents:       amounts.TotalCents,
		Lines:            make([]domain.OrderLine, 0, len(lines)),
	}

	for _, line := range lines {
		order.Lines = append(order.Lines, domain.OrderLine{
			ProductID:      line.ProductID,
			ProductName:    line.ProductName,
			ProductImage:   line.ProductImage,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			SubtotalCents:  line.SubtotalCents(),
		})
	}

	return order
}
