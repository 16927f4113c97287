package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusInTransit  OrderStatus = "in_transit"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type RefundStatus string

const (
	RefundStatusNotSent  RefundStatus = "not_sent"
	RefundStatusPending  RefundStatus = "pending"
	RefundStatusApproved RefundStatus = "approved"
	RefundStatusRejected RefundStatus = "rejected"
)

func NormalizeOrderStatus(raw string) OrderStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "processing":
		return OrderStatusProcessing
	case "in_transit", "intransit":
		return OrderStatusInTransit
	case "delivered":
		return OrderStatusDelivered
	default:
		return ""
	}
}

type Order struct {
	OrderID         uuid.UUID
	UserID          uuid.UUID
	ItemIDs         []uuid.UUID
	ShippingAddress string
	PaymentRef      string

	// TotalPrice is the sum of each item's effective price at the instant the
	// order was created. It is frozen then and never recomputed.
	TotalPrice float64

	Status       OrderStatus
	RefundStatus RefundStatus

	RefundItemIDs []uuid.UUID

	OrderedAt   time.Time
	UpdatedAt   time.Time
	DeliveredAt *time.Time
}

// NextOrderStatus returns the immediate successor in the fulfillment
// progression. Delivered and cancelled are terminal.
func NextOrderStatus(current OrderStatus) (OrderStatus, bool) {
	switch current {
	case OrderStatusProcessing:
		return OrderStatusInTransit, true
	case OrderStatusInTransit:
		return OrderStatusDelivered, true
	default:
		return "", false
	}
}

// ValidateStatusAdvance enforces the monotonic progression: the target must be
// the immediate successor of the current status. Skipping and regression both
// fail.
func ValidateStatusAdvance(current, target OrderStatus) error {
	next, ok := NextOrderStatus(current)
	if !ok || next != target {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, target)
	}
	return nil
}

// ValidateRefundTransition enforces not_sent -> pending -> {approved, rejected}
// with approved/rejected terminal.
func ValidateRefundTransition(current, target RefundStatus) error {
	allowed := map[RefundStatus][]RefundStatus{
		RefundStatusNotSent: {RefundStatusPending},
		RefundStatusPending: {RefundStatusApproved, RefundStatusRejected},
	}
	for _, next := range allowed[current] {
		if next == target {
			return nil
		}
	}
	return fmt.Errorf("%w: refund %s -> %s", ErrInvalidTransition, current, target)
}

// ContainsItem reports whether the order includes the given item.
func (o Order) ContainsItem(itemID uuid.UUID) bool {
	for _, id := range o.ItemIDs {
		if id == itemID {
			return true
		}
	}
	return false
}
