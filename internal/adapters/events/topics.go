package events

import "github.com/susold/marketplace-core/internal/domain"

// DefaultTopicByEvent routes each event type to its Kafka topic. Events that
// share a partition key share a topic so per-key ordering holds: refund
// events land on the orders topic because they are keyed by order id, same
// as the order lifecycle events.
func DefaultTopicByEvent() map[string]string {
	return map[string]string{
		domain.EventItemPriced:        "marketplace.items",
		domain.EventItemDiscounted:    "marketplace.items",
		domain.EventOrderCreated:      "marketplace.orders",
		domain.EventOrderStatusChange: "marketplace.orders",
		domain.EventOrderCancelled:    "marketplace.orders",
		domain.EventRefundRequested:   "marketplace.orders",
		domain.EventRefundResolved:    "marketplace.orders",
		domain.EventFeedbackSubmitted: "marketplace.feedback",
		domain.EventFeedbackApproved:  "marketplace.feedback",
	}
}
