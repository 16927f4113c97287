package postgres

import (
	"time"

	"github.com/google/uuid"
)

type itemModel struct {
	ItemID            uuid.UUID  `gorm:"column:item_id;type:uuid;primaryKey"`
	SellerID          uuid.UUID  `gorm:"column:seller_id"`
	Title             string     `gorm:"column:title"`
	Description       string     `gorm:"column:description"`
	Category          string     `gorm:"column:category"`
	Subcategory       string     `gorm:"column:subcategory"`
	Brand             string     `gorm:"column:brand"`
	Condition         string     `gorm:"column:condition"`
	AgeYears          int        `gorm:"column:age_years"`
	Price             *float64   `gorm:"column:price"`
	DiscountRate      *float64   `gorm:"column:discount_rate"`
	DiscountedPrice   *float64   `gorm:"column:discounted_price"`
	InStock           bool       `gorm:"column:in_stock"`
	Verified          bool       `gorm:"column:verified"`
	Returnable        bool       `gorm:"column:returnable"`
	Images            string     `gorm:"column:images"`
	ReservedByOrderID *uuid.UUID `gorm:"column:reserved_by_order_id"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at"`
}

func (itemModel) TableName() string { return "items" }

type orderModel struct {
	OrderID         uuid.UUID  `gorm:"column:order_id;type:uuid;primaryKey"`
	UserID          uuid.UUID  `gorm:"column:user_id"`
	ItemIDs         string     `gorm:"column:item_ids"`
	ShippingAddress string     `gorm:"column:shipping_address"`
	PaymentRef      string     `gorm:"column:payment_ref"`
	TotalPrice      float64    `gorm:"column:total_price"`
	Status          string     `gorm:"column:status"`
	RefundStatus    string     `gorm:"column:refund_status"`
	RefundItemIDs   *string    `gorm:"column:refund_item_ids"`
	OrderedAt       time.Time  `gorm:"column:ordered_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
	DeliveredAt     *time.Time `gorm:"column:delivered_at"`
}

func (orderModel) TableName() string { return "orders" }

type feedbackModel struct {
	FeedbackID uuid.UUID `gorm:"column:feedback_id;type:uuid;primaryKey"`
	SenderID   uuid.UUID `gorm:"column:sender_id"`
	ReceiverID uuid.UUID `gorm:"column:receiver_id"`
	ItemID     uuid.UUID `gorm:"column:item_id"`
	OrderID    uuid.UUID `gorm:"column:order_id"`
	Rating     *int      `gorm:"column:rating"`
	Comment    string    `gorm:"column:comment"`
	Approved   bool      `gorm:"column:approved"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (feedbackModel) TableName() string { return "feedback" }

type outboxModel struct {
	OutboxID      uuid.UUID  `gorm:"column:outbox_id;type:uuid;primaryKey"`
	EventType     string     `gorm:"column:event_type"`
	PartitionKey  string     `gorm:"column:partition_key"`
	Payload       string     `gorm:"column:payload"`
	SchemaVersion string     `gorm:"column:schema_version"`
	RetryCount    int        `gorm:"column:retry_count"`
	PublishedAt   *time.Time `gorm:"column:published_at"`
	LastError     *string    `gorm:"column:last_error"`
	LastErrorAt   *time.Time `gorm:"column:last_error_at"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	FirstSeenAt   time.Time  `gorm:"column:first_seen_at"`
}

func (outboxModel) TableName() string { return "outbox_events" }

type idempotencyModel struct {
	IdempotencyKey string    `gorm:"column:idempotency_key;primaryKey"`
	RequestHash    string    `gorm:"column:request_hash"`
	Status         string    `gorm:"column:status"`
	ResponseCode   int       `gorm:"column:response_code"`
	ResponseBody   *string   `gorm:"column:response_body"`
	ExpiresAt      time.Time `gorm:"column:expires_at"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (idempotencyModel) TableName() string { return "idempotency_keys" }
