package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// ORDER STATUS CONSTANTS
// =====================================================
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipping   = "shipping"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusReturned   = "returned"
)

// DefaultCompletedStatuses là các trạng thái được tính vào doanh thu
// (đã xác nhận trở đi, trừ cancelled/returned). Override bằng STATS_COMPLETED_STATUSES.
var DefaultCompletedStatuses = []string{
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusShipping,
	OrderStatusDelivered,
}

// IsKnownStatus checks a status against the order lifecycle.
func IsKnownStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipping, OrderStatusDelivered, OrderStatusCancelled, OrderStatusReturned:
		return true
	}
	return false
}

// =====================================================
// STATUS SET
// =====================================================

// StatusSet is the set of statuses that count toward revenue.
type StatusSet map[string]struct{}

func NewStatusSet(statuses ...string) StatusSet {
	set := make(StatusSet, len(statuses))
	for _, s := range statuses {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		set[s] = struct{}{}
	}
	return set
}

func (s StatusSet) Has(status string) bool {
	_, ok := s[status]
	return ok
}

// Slice returns the members in lifecycle order, unknown statuses last.
func (s StatusSet) Slice() []string {
	order := []string{
		OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipping, OrderStatusDelivered, OrderStatusCancelled, OrderStatusReturned,
	}
	out := make([]string, 0, len(s))
	for _, st := range order {
		if s.Has(st) {
			out = append(out, st)
		}
	}
	for st := range s {
		if !IsKnownStatus(st) {
			out = append(out, st)
		}
	}
	return out
}

// =====================================================
// ENTITY: Order (ledger view)
// =====================================================

// Order is the read-only ledger view of an order used by reporting.
// FinalAmount = TotalAmount - DiscountAmount.
type Order struct {
	ID             uuid.UUID       `json:"id"`
	OrderNumber    string          `json:"order_number"`
	UserID         uuid.UUID       `json:"user_id"`
	Status         string          `json:"status"`
	Items          []OrderItem     `json:"items"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalAmount    decimal.Decimal `json:"final_amount"`
	ShippingFee    decimal.Decimal `json:"shipping_fee"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ItemQuantity sums quantities across all line items.
func (o *Order) ItemQuantity() int64 {
	var total int64
	for _, it := range o.Items {
		total += int64(it.Quantity)
	}
	return total
}

// =====================================================
// ENTITY: OrderItem
// =====================================================
type OrderItem struct {
	OrderID    uuid.UUID       `json:"order_id"`
	BookID     uuid.UUID       `json:"book_id"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	FinalPrice decimal.Decimal `json:"final_price"`
}

// Revenue is the discount-aware line revenue: FinalPrice x Quantity.
func (oi *OrderItem) Revenue() decimal.Decimal {
	return oi.FinalPrice.Mul(decimal.NewFromInt(int64(oi.Quantity)))
}
