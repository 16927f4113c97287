package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestValidateStatusAdvance(t *testing.T) {
	t.Parallel()

	if err := ValidateStatusAdvance(OrderStatusProcessing, OrderStatusInTransit); err != nil {
		t.Fatalf("expected processing -> in_transit to be valid, got %v", err)
	}
	if err := ValidateStatusAdvance(OrderStatusInTransit, OrderStatusDelivered); err != nil {
		t.Fatalf("expected in_transit -> delivered to be valid, got %v", err)
	}
	if err := ValidateStatusAdvance(OrderStatusProcessing, OrderStatusDelivered); err == nil {
		t.Fatalf("expected skip to fail")
	}
	if err := ValidateStatusAdvance(OrderStatusDelivered, OrderStatusInTransit); err == nil {
		t.Fatalf("expected regression to fail")
	}
	if err := ValidateStatusAdvance(OrderStatusCancelled, OrderStatusInTransit); err == nil {
		t.Fatalf("expected advance from cancelled to fail")
	}
	if err := ValidateStatusAdvance(OrderStatusProcessing, OrderStatusDelivered); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestNextOrderStatus(t *testing.T) {
	t.Parallel()

	next, ok := NextOrderStatus(OrderStatusProcessing)
	if !ok || next != OrderStatusInTransit {
		t.Fatalf("expected in_transit, got %s ok=%v", next, ok)
	}
	if _, ok := NextOrderStatus(OrderStatusDelivered); ok {
		t.Fatalf("delivered must be terminal")
	}
	if _, ok := NextOrderStatus(OrderStatusCancelled); ok {
		t.Fatalf("cancelled must be terminal")
	}
}

func TestValidateRefundTransition(t *testing.T) {
	t.Parallel()

	if err := ValidateRefundTransition(RefundStatusNotSent, RefundStatusPending); err != nil {
		t.Fatalf("expected not_sent -> pending to be valid, got %v", err)
	}
	if err := ValidateRefundTransition(RefundStatusPending, RefundStatusApproved); err != nil {
		t.Fatalf("expected pending -> approved to be valid, got %v", err)
	}
	if err := ValidateRefundTransition(RefundStatusPending, RefundStatusRejected); err != nil {
		t.Fatalf("expected pending -> rejected to be valid, got %v", err)
	}
	if err := ValidateRefundTransition(RefundStatusNotSent, RefundStatusApproved); err == nil {
		t.Fatalf("expected not_sent -> approved to fail")
	}
	if err := ValidateRefundTransition(RefundStatusApproved, RefundStatusRejected); err == nil {
		t.Fatalf("expected approved to be terminal")
	}
	if err := ValidateRefundTransition(RefundStatusRejected, RefundStatusPending); err == nil {
		t.Fatalf("expected rejected to be terminal")
	}
}

func TestOrderContainsItem(t *testing.T) {
	t.Parallel()

	inOrder := uuid.New()
	order := Order{ItemIDs: []uuid.UUID{uuid.New(), inOrder}}
	if !order.ContainsItem(inOrder) {
		t.Fatalf("expected item to be found")
	}
	if order.ContainsItem(uuid.New()) {
		t.Fatalf("expected unknown item to be absent")
	}
}

func TestNormalizeOrderStatus(t *testing.T) {
	t.Parallel()

	if got := NormalizeOrderStatus(" In_Transit "); got != OrderStatusInTransit {
		t.Fatalf("expected in_transit, got %q", got)
	}
	if got := NormalizeOrderStatus("shipped"); got != "" {
		t.Fatalf("expected unknown status to normalize to empty, got %q", got)
	}
}
