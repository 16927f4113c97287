package postgres

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/susold/marketplace-core/internal/domain"
)

// Variable-length collections (image urls, order item lists) are stored as
// jsonb columns rather than join tables; the row is always read and written
// as a unit.

func encodeStrings(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

func decodeStrings(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

func encodeUUIDs(ids []uuid.UUID) string {
	if len(ids) == 0 {
		return "[]"
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

func decodeUUIDs(raw string) []uuid.UUID {
	if raw == "" {
		return nil
	}
	var out []uuid.UUID
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

func toDomainItem(m itemModel) domain.Item {
	return domain.Item{
		ItemID: m.ItemID, SellerID: m.SellerID, Title: m.Title, Description: m.Description,
		Category: m.Category, Subcategory: m.Subcategory, Brand: m.Brand,
		Condition: domain.Condition(m.Condition), AgeYears: m.AgeYears,
		Price: m.Price, DiscountRate: m.DiscountRate, DiscountedPrice: m.DiscountedPrice,
		InStock: m.InStock, Verified: m.Verified, Returnable: m.Returnable,
		Images: decodeStrings(m.Images), ReservedByOrderID: m.ReservedByOrderID,
		CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

func toDomainOrder(m orderModel) domain.Order {
	order := domain.Order{
		OrderID: m.OrderID, UserID: m.UserID, ItemIDs: decodeUUIDs(m.ItemIDs),
		ShippingAddress: m.ShippingAddress, PaymentRef: m.PaymentRef, TotalPrice: m.TotalPrice,
		Status: domain.OrderStatus(m.Status), RefundStatus: domain.RefundStatus(m.RefundStatus),
		OrderedAt: m.OrderedAt, UpdatedAt: m.UpdatedAt, DeliveredAt: m.DeliveredAt,
	}
	if m.RefundItemIDs != nil {
		order.RefundItemIDs = decodeUUIDs(*m.RefundItemIDs)
	}
	return order
}

func toDomainFeedback(m feedbackModel) domain.Feedback {
	return domain.Feedback{
		FeedbackID: m.FeedbackID, SenderID: m.SenderID, ReceiverID: m.ReceiverID,
		ItemID: m.ItemID, OrderID: m.OrderID, Rating: m.Rating, Comment: m.Comment,
		Approved: m.Approved, CreatedAt: m.CreatedAt,
	}
}
