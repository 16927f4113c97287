package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/susold/marketplace-core/internal/domain"
)

type ItemFilter struct {
	Title       string
	Category    string
	Subcategory string
	Brand       string
	Condition   domain.Condition
	MinPrice    *float64
	MaxPrice    *float64
	Verified    *bool
	InStock     *bool
	Returnable  *bool
	SellerID    *uuid.UUID
	SortBy      string
	Limit       int
	Offset      int
}

type UpdateItemParams struct {
	ItemID      uuid.UUID
	Title       *string
	Description *string
	Category    *string
	Subcategory *string
	Brand       *string
	Condition   *domain.Condition
	AgeYears    *int
	Returnable  *bool
	Images      []string
	UpdatedAt   time.Time
}

type ItemRepository interface {
	Create(ctx context.Context, item domain.Item) error
	GetByID(ctx context.Context, itemID uuid.UUID) (domain.Item, error)
	GetBatch(ctx context.Context, itemIDs []uuid.UUID) ([]domain.Item, error)
	List(ctx context.Context, filter ItemFilter) ([]domain.Item, error)
	ListUnpriced(ctx context.Context, limit int) ([]domain.Item, error)
	Update(ctx context.Context, params UpdateItemParams) (domain.Item, error)
	Delete(ctx context.Context, itemID uuid.UUID) error
	SetStock(ctx context.Context, itemID uuid.UUID, inStock bool, at time.Time) error

	// AssignPriceIfUnset sets the price only when none exists yet; returns
	// ErrConflict when a price is already assigned. Pricing is one-time.
	AssignPriceIfUnset(ctx context.Context, itemID uuid.UUID, price float64, at time.Time) (domain.Item, error)
	// SetDiscount overwrites any prior discount (last-write-wins).
	SetDiscount(ctx context.Context, itemID uuid.UUID, rate, discountedPrice float64, at time.Time) (domain.Item, error)

	// Reserve atomically flips the item out of stock and binds it to the
	// order; returns ErrOutOfStock when the item is not reservable. This is
	// the check-and-set that prevents double-sale under concurrent checkouts.
	Reserve(ctx context.Context, itemID, orderID uuid.UUID, at time.Time) error
	// Release undoes a reservation, returning the item to stock.
	Release(ctx context.Context, itemID uuid.UUID, at time.Time) error
}

type CreateOrderParams struct {
	OrderID         uuid.UUID
	UserID          uuid.UUID
	ItemIDs         []uuid.UUID
	ShippingAddress string
	PaymentRef      string
	TotalPrice      float64
	OrderedAt       time.Time
}

type OrderRepository interface {
	Create(ctx context.Context, params CreateOrderParams) (domain.Order, error)
	GetByID(ctx context.Context, orderID uuid.UUID) (domain.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Order, error)
	ListByOrderedRange(ctx context.Context, from, to time.Time) ([]domain.Order, error)
	ListByRefundStatus(ctx context.Context, status domain.RefundStatus, limit int) ([]domain.Order, error)

	// UpdateStatusIf advances fulfillment only when the stored status still
	// equals expected; returns ErrInvalidTransition otherwise.
	UpdateStatusIf(ctx context.Context, orderID uuid.UUID, expected, target domain.OrderStatus, at time.Time) (domain.Order, error)
	// UpdateRefundStatusIf is the same check-and-set for the refund sub-state;
	// it prevents double-approval of a pending refund.
	UpdateRefundStatusIf(ctx context.Context, orderID uuid.UUID, expected, target domain.RefundStatus, refundItemIDs []uuid.UUID, at time.Time) (domain.Order, error)
}

type FeedbackRepository interface {
	Create(ctx context.Context, fb domain.Feedback) error
	GetByID(ctx context.Context, feedbackID uuid.UUID) (domain.Feedback, error)
	ListByReceiver(ctx context.Context, receiverID uuid.UUID) ([]domain.Feedback, error)
	ListUnapproved(ctx context.Context, limit int) ([]domain.Feedback, error)
	SetApproved(ctx context.Context, feedbackID uuid.UUID) (domain.Feedback, error)
	Delete(ctx context.Context, feedbackID uuid.UUID) error
}

type OutboxEvent struct {
	EventID          uuid.UUID
	EventType        string
	PartitionKey     string
	PartitionKeyPath string
	Payload          []byte
	OccurredAt       time.Time
	SchemaVersion    string
}

type OutboxRecord struct {
	OutboxID     uuid.UUID
	EventType    string
	PartitionKey string
	Payload      []byte
	RetryCount   int
	PublishedAt  *time.Time
	LastError    *string
	LastErrorAt  *time.Time
	FirstSeenAt  time.Time
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, event OutboxEvent) error
	FetchUnpublished(ctx context.Context, limit int) ([]OutboxRecord, error)
	MarkPublished(ctx context.Context, outboxID uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, outboxID uuid.UUID, errMsg string, at time.Time) error
}

type IdempotencyRecord struct {
	Key          string
	RequestHash  string
	Status       string
	ResponseCode int
	ResponseBody []byte
	ExpiresAt    time.Time
}

type IdempotencyRepository interface {
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	Reserve(ctx context.Context, key, requestHash string, expiresAt time.Time) error
	Complete(ctx context.Context, key string, responseCode int, responseBody []byte, at time.Time) error
}
