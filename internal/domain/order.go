package domain

import "time"

// Status is an order fulfillment state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// allowedTransitions is the full status machine. pending -> preparing is a
// deliberate direct jump: pay-on-pickup flows skip the paid acknowledgment.
var allowedTransitions = map[Status]map[Status]bool{
	StatusPending:   {StatusPaid: true, StatusPreparing: true, StatusCancelled: true},
	StatusPaid:      {StatusPreparing: true, StatusCancelled: true},
	StatusPreparing: {StatusReady: true, StatusCancelled: true},
	StatusReady:     {StatusCompleted: true, StatusCancelled: true},
	StatusCompleted: {},
	StatusCancelled: {},
}

// CanTransition reports whether from -> to is a legal status change.
func CanTransition(from, to Status) bool {
	return allowedTransitions[from][to]
}

// IsValidStatus reports whether s names a known order status.
func IsValidStatus(s Status) bool {
	_, ok := allowedTransitions[s]
	return ok
}

type DeliveryType string

const (
	DeliveryTypeDelivery DeliveryType = "delivery"
	DeliveryTypePickup   DeliveryType = "pickup"
)

type Order struct {
	ID               string       `json:"id"`
	OrderNumber      string       `json:"orderNumber"`
	UserID           string       `json:"userId"`
	Status           Status       `json:"status"`
	DeliveryType     DeliveryType `json:"deliveryType"`
	DeliveryAddress  string       `json:"deliveryAddress,omitempty"`
	PickupName       string       `json:"pickupName,omitempty"`
	PickupPhone      string       `json:"pickupPhone,omitempty"`
	Remark           string       `json:"remark,omitempty"`
	SubtotalCents    int64        `json:"subtotalCents"`
	DeliveryFeeCents int64        `json:"deliveryFeeCents"`
	DiscountCents    int64        `json:"discountCents"`
	TotalCents       int64        `json:"totalCents"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
	Lines            []OrderLine  `json:"lines,omitempty"`
}

// OrderLine freezes one cart entry at order creation time. Name, image and
// unit price are snapshots; later catalog edits never touch them.
type OrderLine struct {
	ID             string `json:"id"`
	OrderID        string `json:"orderId"`
	ProductID      string `json:"productId"`
	ProductName    string `json:"productName"`
	ProductImage   string `json:"productImage,omitempty"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	SubtotalCents  int64  `json:"subtotalCents"`
}
