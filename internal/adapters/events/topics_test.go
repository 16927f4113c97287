package events

import (
	"testing"

	"github.com/susold/marketplace-core/internal/domain"
)

func TestDefaultTopicByEventCoversAllEventTypes(t *testing.T) {
	t.Parallel()
	topics := DefaultTopicByEvent()
	eventTypes := []string{
		domain.EventItemPriced,
		domain.EventItemDiscounted,
		domain.EventOrderCreated,
		domain.EventOrderStatusChange,
		domain.EventOrderCancelled,
		domain.EventRefundRequested,
		domain.EventRefundResolved,
		domain.EventFeedbackSubmitted,
		domain.EventFeedbackApproved,
	}
	for _, eventType := range eventTypes {
		if topics[eventType] == "" {
			t.Errorf("no topic routed for %s", eventType)
		}
	}
}

func TestRefundEventsShareTheOrdersTopic(t *testing.T) {
	t.Parallel()
	topics := DefaultTopicByEvent()
	ordersTopic := topics[domain.EventOrderCreated]
	for _, eventType := range []string{domain.EventRefundRequested, domain.EventRefundResolved} {
		if topics[eventType] != ordersTopic {
			t.Errorf("%s routed to %q, want the orders topic %q for per-order ordering", eventType, topics[eventType], ordersTopic)
		}
	}
}
