package domain

const (
	EventItemPriced        = "item.priced"
	EventItemDiscounted    = "item.discounted"
	EventOrderCreated      = "order.created"
	EventOrderStatusChange = "order.status_changed"
	EventOrderCancelled    = "order.cancelled"
	EventRefundRequested   = "refund.requested"
	EventRefundResolved    = "refund.resolved"
	EventFeedbackSubmitted = "feedback.submitted"
	EventFeedbackApproved  = "feedback.approved"
)
