// Package contracts defines the JSON wire shapes of the HTTP API. Handlers
// decode requests into these types and encode domain results out of them;
// domain types never cross the wire directly.
package contracts

import (
	"time"

	"github.com/google/uuid"
	"github.com/susold/marketplace-core/internal/application"
	"github.com/susold/marketplace-core/internal/domain"
)

type CreateItemRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Brand       string   `json:"brand"`
	Condition   string   `json:"condition"`
	AgeYears    int      `json:"age_years"`
	Returnable  bool     `json:"returnable"`
	Images      []string `json:"images"`
}

type UpdateItemRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Subcategory *string  `json:"subcategory"`
	Brand       *string  `json:"brand"`
	Condition   *string  `json:"condition"`
	AgeYears    *int     `json:"age_years"`
	Returnable  *bool    `json:"returnable"`
	Images      []string `json:"images"`
}

type AssignPriceRequest struct {
	Price float64 `json:"price"`
}

type ApplyDiscountRequest struct {
	Rate float64 `json:"rate"`
}

type ToggleRequest struct {
	ItemID uuid.UUID `json:"item_id"`
}

type MergeBasketRequest struct {
	ItemIDs []uuid.UUID `json:"item_ids"`
}

type CreateOrderRequest struct {
	ShippingAddress string `json:"shipping_address"`
	PaymentRef      string `json:"payment_ref"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

type RefundRequest struct {
	ItemIDs []uuid.UUID `json:"item_ids"`
}

type ResolveRefundRequest struct {
	Approve bool `json:"approve"`
}

type SubmitFeedbackRequest struct {
	OrderID uuid.UUID `json:"order_id"`
	ItemID  uuid.UUID `json:"item_id"`
	Rating  *int      `json:"rating"`
	Comment string    `json:"comment"`
}

type ItemResponse struct {
	ItemID          uuid.UUID `json:"item_id"`
	SellerID        uuid.UUID `json:"seller_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	Category        string    `json:"category"`
	Subcategory     string    `json:"subcategory,omitempty"`
	Brand           string    `json:"brand,omitempty"`
	Condition       string    `json:"condition"`
	AgeYears        int       `json:"age_years"`
	Price           *float64  `json:"price"`
	DiscountRate    *float64  `json:"discount_rate,omitempty"`
	DiscountedPrice *float64  `json:"discounted_price,omitempty"`
	InStock         bool      `json:"in_stock"`
	AvailableNow    bool      `json:"available_now"`
	Verified        bool      `json:"verified"`
	Returnable      bool      `json:"returnable"`
	Images          []string  `json:"images,omitempty"`
	IsFavorite      bool      `json:"is_favorite"`
	Fulfillment     string    `json:"fulfillment,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func ItemFromDomain(item domain.Item) ItemResponse {
	return ItemResponse{
		ItemID:          item.ItemID,
		SellerID:        item.SellerID,
		Title:           item.Title,
		Description:     item.Description,
		Category:        item.Category,
		Subcategory:     item.Subcategory,
		Brand:           item.Brand,
		Condition:       string(item.Condition),
		AgeYears:        item.AgeYears,
		Price:           item.Price,
		DiscountRate:    item.DiscountRate,
		DiscountedPrice: item.DiscountedPrice,
		InStock:         item.InStock,
		AvailableNow:    item.AvailableNow(),
		Verified:        item.Verified,
		Returnable:      item.Returnable,
		Images:          item.Images,
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
	}
}

func ItemFromView(view application.ItemView) ItemResponse {
	resp := ItemFromDomain(view.Item)
	resp.IsFavorite = view.IsFavorite
	resp.Fulfillment = string(view.Fulfillment)
	return resp
}

func ItemsFromViews(views []application.ItemView) []ItemResponse {
	out := make([]ItemResponse, 0, len(views))
	for _, v := range views {
		out = append(out, ItemFromView(v))
	}
	return out
}

type OrderResponse struct {
	OrderID         uuid.UUID   `json:"order_id"`
	UserID          uuid.UUID   `json:"user_id"`
	ItemIDs         []uuid.UUID `json:"item_ids"`
	ShippingAddress string      `json:"shipping_address"`
	TotalPrice      float64     `json:"total_price"`
	Status          string      `json:"status"`
	RefundStatus    string      `json:"refund_status"`
	RefundItemIDs   []uuid.UUID `json:"refund_item_ids,omitempty"`
	OrderedAt       time.Time   `json:"ordered_at"`
	DeliveredAt     *time.Time  `json:"delivered_at,omitempty"`
}

func OrderFromDomain(order domain.Order) OrderResponse {
	return OrderResponse{
		OrderID:         order.OrderID,
		UserID:          order.UserID,
		ItemIDs:         order.ItemIDs,
		ShippingAddress: order.ShippingAddress,
		TotalPrice:      order.TotalPrice,
		Status:          string(order.Status),
		RefundStatus:    string(order.RefundStatus),
		RefundItemIDs:   order.RefundItemIDs,
		OrderedAt:       order.OrderedAt,
		DeliveredAt:     order.DeliveredAt,
	}
}

func OrdersFromDomain(orders []domain.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, OrderFromDomain(o))
	}
	return out
}

type FeedbackResponse struct {
	FeedbackID uuid.UUID `json:"feedback_id"`
	SenderID   uuid.UUID `json:"sender_id"`
	ReceiverID uuid.UUID `json:"receiver_id"`
	ItemID     uuid.UUID `json:"item_id"`
	OrderID    uuid.UUID `json:"order_id"`
	Rating     *int      `json:"rating"`
	Comment    string    `json:"comment"`
	Approved   bool      `json:"approved"`
	CreatedAt  time.Time `json:"created_at"`
}

func FeedbackFromDomain(fb domain.Feedback) FeedbackResponse {
	return FeedbackResponse{
		FeedbackID: fb.FeedbackID,
		SenderID:   fb.SenderID,
		ReceiverID: fb.ReceiverID,
		ItemID:     fb.ItemID,
		OrderID:    fb.OrderID,
		Rating:     fb.Rating,
		Comment:    fb.Comment,
		Approved:   fb.Approved,
		CreatedAt:  fb.CreatedAt,
	}
}

type SellerFeedbackEntry struct {
	FeedbackID uuid.UUID `json:"feedback_id"`
	Rating     *int      `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

type SellerFeedbackResponse struct {
	Entries       []SellerFeedbackEntry `json:"entries"`
	AverageRating float64               `json:"average_rating"`
	RatingCount   int                   `json:"rating_count"`
}

func SellerFeedbackFromPage(page application.SellerFeedbackPage) SellerFeedbackResponse {
	resp := SellerFeedbackResponse{
		Entries:       make([]SellerFeedbackEntry, 0, len(page.Entries)),
		AverageRating: page.Rating.Average,
		RatingCount:   page.Rating.Count,
	}
	for _, e := range page.Entries {
		resp.Entries = append(resp.Entries, SellerFeedbackEntry{
			FeedbackID: e.FeedbackID,
			Rating:     e.Rating,
			Comment:    e.Comment,
			CreatedAt:  e.CreatedAt,
		})
	}
	return resp
}

type BasketResponse struct {
	Items []ItemResponse `json:"items"`
	Total float64        `json:"total"`
}

type MergeBasketResponse struct {
	BasketItemIDs    []uuid.UUID `json:"basket_item_ids"`
	SkippedItemIDs   []uuid.UUID `json:"skipped_item_ids,omitempty"`
	DiscardLocalList bool        `json:"discard_local_list"`
}

type ToggleResponse struct {
	ItemID uuid.UUID `json:"item_id"`
	Added  bool      `json:"added"`
}

type SalesReportResponse struct {
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
	OrderCount   int             `json:"order_count"`
	TotalRevenue float64         `json:"total_revenue"`
	Orders       []OrderResponse `json:"orders"`
}
