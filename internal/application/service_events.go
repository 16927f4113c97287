package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/susold/marketplace-core/internal/domain"
	"github.com/susold/marketplace-core/internal/ports"
)

const eventSchemaVersion = "v1"

// enqueue writes an event to the transactional outbox. Delivery is the
// worker's job; enqueue failures never fail the operation that produced the
// event, callers discard the error after logging at the adapter edge.
func (s *Service) enqueue(ctx context.Context, eventType, partitionKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.outbox.Enqueue(ctx, ports.OutboxEvent{
		EventID:       uuid.New(),
		EventType:     eventType,
		PartitionKey:  partitionKey,
		Payload:       body,
		OccurredAt:    s.nowFn(),
		SchemaVersion: eventSchemaVersion,
	})
}

type itemPricedEvent struct {
	ItemID     uuid.UUID `json:"item_id"`
	SellerID   uuid.UUID `json:"seller_id"`
	Price      float64   `json:"price"`
	AssignedBy uuid.UUID `json:"assigned_by"`
	At         time.Time `json:"at"`
}

func (s *Service) enqueueItemPriced(ctx context.Context, item domain.Item, actor Actor) error {
	var price float64
	if item.Price != nil {
		price = *item.Price
	}
	return s.enqueue(ctx, domain.EventItemPriced, item.ItemID.String(), itemPricedEvent{
		ItemID:     item.ItemID,
		SellerID:   item.SellerID,
		Price:      price,
		AssignedBy: actor.UserID,
		At:         s.nowFn(),
	})
}

type itemDiscountedEvent struct {
	ItemID          uuid.UUID `json:"item_id"`
	DiscountRate    float64   `json:"discount_rate"`
	DiscountedPrice float64   `json:"discounted_price"`
	AppliedBy       uuid.UUID `json:"applied_by"`
	At              time.Time `json:"at"`
}

func (s *Service) enqueueItemDiscounted(ctx context.Context, item domain.Item, rate float64, actor Actor) error {
	var discounted float64
	if item.DiscountedPrice != nil {
		discounted = *item.DiscountedPrice
	}
	return s.enqueue(ctx, domain.EventItemDiscounted, item.ItemID.String(), itemDiscountedEvent{
		ItemID:          item.ItemID,
		DiscountRate:    rate,
		DiscountedPrice: discounted,
		AppliedBy:       actor.UserID,
		At:              s.nowFn(),
	})
}

type orderEvent struct {
	OrderID    uuid.UUID   `json:"order_id"`
	UserID     uuid.UUID   `json:"user_id"`
	ItemIDs    []uuid.UUID `json:"item_ids"`
	TotalPrice float64     `json:"total_price"`
	Status     string      `json:"status"`
	PrevStatus string      `json:"prev_status,omitempty"`
	ActorID    uuid.UUID   `json:"actor_id"`
	At         time.Time   `json:"at"`
}

func (s *Service) enqueueOrderCreated(ctx context.Context, order domain.Order, actor Actor) error {
	return s.enqueue(ctx, domain.EventOrderCreated, order.OrderID.String(), orderEvent{
		OrderID:    order.OrderID,
		UserID:     order.UserID,
		ItemIDs:    order.ItemIDs,
		TotalPrice: order.TotalPrice,
		Status:     string(order.Status),
		ActorID:    actor.UserID,
		At:         s.nowFn(),
	})
}

func (s *Service) enqueueOrderStatusChanged(ctx context.Context, order domain.Order, prev domain.OrderStatus, actor Actor) error {
	return s.enqueue(ctx, domain.EventOrderStatusChange, order.OrderID.String(), orderEvent{
		OrderID:    order.OrderID,
		UserID:     order.UserID,
		ItemIDs:    order.ItemIDs,
		TotalPrice: order.TotalPrice,
		Status:     string(order.Status),
		PrevStatus: string(prev),
		ActorID:    actor.UserID,
		At:         s.nowFn(),
	})
}

func (s *Service) enqueueOrderCancelled(ctx context.Context, order domain.Order, actor Actor) error {
	return s.enqueue(ctx, domain.EventOrderCancelled, order.OrderID.String(), orderEvent{
		OrderID:    order.OrderID,
		UserID:     order.UserID,
		ItemIDs:    order.ItemIDs,
		TotalPrice: order.TotalPrice,
		Status:     string(order.Status),
		ActorID:    actor.UserID,
		At:         s.nowFn(),
	})
}

type refundEvent struct {
	OrderID      uuid.UUID   `json:"order_id"`
	UserID       uuid.UUID   `json:"user_id"`
	ItemIDs      []uuid.UUID `json:"item_ids"`
	RefundStatus string      `json:"refund_status"`
	ActorID      uuid.UUID   `json:"actor_id"`
	At           time.Time   `json:"at"`
}

func (s *Service) enqueueRefundRequested(ctx context.Context, order domain.Order, actor Actor) error {
	return s.enqueue(ctx, domain.EventRefundRequested, order.OrderID.String(), refundEvent{
		OrderID:      order.OrderID,
		UserID:       order.UserID,
		ItemIDs:      order.RefundItemIDs,
		RefundStatus: string(order.RefundStatus),
		ActorID:      actor.UserID,
		At:           s.nowFn(),
	})
}

func (s *Service) enqueueRefundResolved(ctx context.Context, order domain.Order, actor Actor) error {
	return s.enqueue(ctx, domain.EventRefundResolved, order.OrderID.String(), refundEvent{
		OrderID:      order.OrderID,
		UserID:       order.UserID,
		ItemIDs:      order.RefundItemIDs,
		RefundStatus: string(order.RefundStatus),
		ActorID:      actor.UserID,
		At:           s.nowFn(),
	})
}

type feedbackEvent struct {
	FeedbackID uuid.UUID `json:"feedback_id"`
	SenderID   uuid.UUID `json:"sender_id"`
	ReceiverID uuid.UUID `json:"receiver_id"`
	ItemID     uuid.UUID `json:"item_id"`
	OrderID    uuid.UUID `json:"order_id"`
	HasRating  bool      `json:"has_rating"`
	Approved   bool      `json:"approved"`
	At         time.Time `json:"at"`
}

func (s *Service) enqueueFeedbackSubmitted(ctx context.Context, fb domain.Feedback, actor Actor) error {
	return s.enqueue(ctx, domain.EventFeedbackSubmitted, fb.ReceiverID.String(), feedbackEvent{
		FeedbackID: fb.FeedbackID,
		SenderID:   fb.SenderID,
		ReceiverID: fb.ReceiverID,
		ItemID:     fb.ItemID,
		OrderID:    fb.OrderID,
		HasRating:  fb.Rating != nil,
		Approved:   fb.Approved,
		At:         s.nowFn(),
	})
}

func (s *Service) enqueueFeedbackApproved(ctx context.Context, fb domain.Feedback, actor Actor) error {
	return s.enqueue(ctx, domain.EventFeedbackApproved, fb.ReceiverID.String(), feedbackEvent{
		FeedbackID: fb.FeedbackID,
		SenderID:   fb.SenderID,
		ReceiverID: fb.ReceiverID,
		ItemID:     fb.ItemID,
		OrderID:    fb.OrderID,
		HasRating:  fb.Rating != nil,
		Approved:   fb.Approved,
		At:         s.nowFn(),
	})
}

// hashCheckoutRequest fingerprints a checkout attempt for idempotency
// matching: same user, same shipping details. Basket contents are excluded
// on purpose; the winning checkout empties the basket, and a retry with the
// same key must still match.
func hashCheckoutRequest(userID uuid.UUID, in CreateOrderInput) string {
	h := sha256.New()
	h.Write([]byte(userID.String()))
	h.Write([]byte(in.ShippingAddress))
	h.Write([]byte(in.PaymentRef))
	return hex.EncodeToString(h.Sum(nil))
}
