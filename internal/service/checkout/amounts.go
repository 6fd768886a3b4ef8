package checkout

import "storefront-orders/internal/domain"

// DeliveryFeeCents is the flat fee applied to delivery orders.
const DeliveryFeeCents int64 = 500

// Amounts is the price breakdown frozen into an order at creation time.
type Amounts struct {
	SubtotalCents    int64 `json:"subtotalCents"`
	DeliveryFeeCents int64 `json:"deliveryFeeCents"`
	DiscountCents    int64 `json:"discountCents"`
	TotalCents       int64 `json:"totalCents"`
}

// CalculateAmounts computes the breakdown for a cart snapshot. Discount is a
// named zero until a coupon engine populates it.
func CalculateAmounts(lines []domain.CartLine, deliveryType domain.DeliveryType) Amounts {
	var subtotal int64
	for _, line := range lines {
		subtotal += line.SubtotalCents()
	}

	var fee int64
	if deliveryType == domain.DeliveryTypeDelivery {
		fee = DeliveryFeeCents
	}

	var discount int64

	return Amounts{
		SubtotalCents:    subtotal,
		DeliveryFeeCents: fee,
		DiscountCents:    discount,
		TotalCents:       subtotal + fee - discount,
	}
}
