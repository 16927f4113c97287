package application

import (
	"time"

	"github.com/google/uuid"
	"github.com/susold/marketplace-core/internal/domain"
	"github.com/susold/marketplace-core/internal/ports"
)

type Config struct {
	ServiceName    string
	ListLimit      int
	IdempotencyTTL time.Duration
}

// Actor is the per-request identity: subject plus the resolved role
// capability set. Operations never re-fetch roles.
type Actor struct {
	UserID         uuid.UUID
	Roles          []string
	RequestID      string
	IdempotencyKey string
}

func (a Actor) Authenticated() bool {
	return a.UserID != uuid.Nil
}

func (a Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type CreateItemInput struct {
	Title       string
	Description string
	Category    string
	Subcategory string
	Brand       string
	Condition   string
	AgeYears    int
	Returnable  bool
	Images      []string
}

type UpdateItemInput struct {
	Title       *string
	Description *string
	Category    *string
	Subcategory *string
	Brand       *string
	Condition   *string
	AgeYears    *int
	Returnable  *bool
	Images      []string
}

type ListItemsInput struct {
	Title       string
	Category    string
	Subcategory string
	Brand       string
	Condition   string
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

// ItemView is an item annotated with per-request read-time joins: the
// caller's favorite flag and the fulfillment status derived from the owning
// order when the item is reserved.
type ItemView struct {
	Item        domain.Item
	IsFavorite  bool
	Fulfillment domain.OrderStatus
}

type MergeLocalBasketInput struct {
	LocalItemIDs []uuid.UUID
}

// MergeLocalBasketResult reports the merged basket and tells the caller to
// discard its local copy; the server basket is the source of truth after
// login.
type MergeLocalBasketResult struct {
	BasketItemIDs    []uuid.UUID
	SkippedItemIDs   []uuid.UUID
	DiscardLocalList bool
}

type ToggleResult struct {
	ItemID uuid.UUID
	Added  bool
}

type CreateOrderInput struct {
	ShippingAddress string
	PaymentRef      string
}

type RequestRefundInput struct {
	ItemIDs []uuid.UUID
}

type SubmitFeedbackInput struct {
	OrderID uuid.UUID
	ItemID  uuid.UUID
	Rating  *int
	Comment string
}

// SellerFeedbackView renders a feedback entry for public display; unapproved
// or absent comments read as "no comment".
type SellerFeedbackView struct {
	FeedbackID uuid.UUID
	Rating     *int
	Comment    string
	CreatedAt  time.Time
}

type SellerFeedbackPage struct {
	Entries []SellerFeedbackView
	Rating  domain.SellerRating
}

type SalesReportInput struct {
	From time.Time
	To   time.Time
}

type SalesReport struct {
	From         time.Time
	To           time.Time
	OrderCount   int
	TotalRevenue float64
	Orders       []domain.Order
}

type Service struct {
	cfg Config

	items    ports.ItemRepository
	orders   ports.OrderRepository
	feedback ports.FeedbackRepository

	basket    ports.BasketStore
	favorites ports.FavoritesStore

	outbox      ports.OutboxRepository
	idempotency ports.IdempotencyRepository

	nowFn func() time.Time
}

type Dependencies struct {
	Config Config

	Items    ports.ItemRepository
	Orders   ports.OrderRepository
	Feedback ports.FeedbackRepository

	Basket    ports.BasketStore
	Favorites ports.FavoritesStore

	Outbox      ports.OutboxRepository
	Idempotency ports.IdempotencyRepository
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "marketplace-core"
	}
	if cfg.ListLimit <= 0 {
		cfg.ListLimit = 50
	}
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = 24 * time.Hour
	}
	return &Service{
		cfg:         cfg,
		items:       deps.Items,
		orders:      deps.Orders,
		feedback:    deps.Feedback,
		basket:      deps.Basket,
		favorites:   deps.Favorites,
		outbox:      deps.Outbox,
		idempotency: deps.Idempotency,
		nowFn:       func() time.Time { return time.Now().UTC() },
	}
}
