// Package memory provides mutex-guarded map implementations of the
// persistence ports. They preserve the same conditional-update semantics as
// the postgres adapters and back the unit tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/susold/marketplace-core/internal/domain"
	"github.com/susold/marketplace-core/internal/ports"
)

type ItemRepository struct {
	mu    sync.Mutex
	items map[uuid.UUID]domain.Item
}

func NewItemRepository() *ItemRepository {
	return &ItemRepository{items: map[uuid.UUID]domain.Item{}}
}

func (r *ItemRepository) Create(_ context.Context, item domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ItemID]; ok {
		return domain.ErrConflict
	}
	r.items[item.ItemID] = item
	return nil
}

func (r *ItemRepository) GetByID(_ context.Context, itemID uuid.UUID) (domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok {
		return domain.Item{}, domain.ErrNotFound
	}
	return item, nil
}

func (r *ItemRepository) GetBatch(_ context.Context, itemIDs []uuid.UUID) ([]domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Item, 0, len(itemIDs))
	for _, id := range itemIDs {
		if item, ok := r.items[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *ItemRepository) List(_ context.Context, filter ports.ItemFilter) ([]domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Item
	for _, item := range r.items {
		if !matchesFilter(item, filter) {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return []domain.Item{}, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func matchesFilter(item domain.Item, filter ports.ItemFilter) bool {
	if filter.Title != "" && !strings.Contains(strings.ToLower(item.Title), strings.ToLower(filter.Title)) {
		return false
	}
	if filter.Category != "" && item.Category != filter.Category {
		return false
	}
	if filter.Subcategory != "" && item.Subcategory != filter.Subcategory {
		return false
	}
	if filter.Brand != "" && item.Brand != filter.Brand {
		return false
	}
	if filter.Condition != "" && item.Condition != filter.Condition {
		return false
	}
	effective := item.Price
	if item.DiscountedPrice != nil {
		effective = item.DiscountedPrice
	}
	if filter.MinPrice != nil && (effective == nil || *effective < *filter.MinPrice) {
		return false
	}
	if filter.MaxPrice != nil && (effective == nil || *effective > *filter.MaxPrice) {
		return false
	}
	if filter.Verified != nil && item.Verified != *filter.Verified {
		return false
	}
	if filter.InStock != nil && item.InStock != *filter.InStock {
		return false
	}
	if filter.Returnable != nil && item.Returnable != *filter.Returnable {
		return false
	}
	if filter.SellerID != nil && item.SellerID != *filter.SellerID {
		return false
	}
	return true
}

func (r *ItemRepository) ListUnpriced(_ context.Context, limit int) ([]domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Item
	for _, item := range r.items {
		if item.Price == nil && item.InStock {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ItemRepository) Update(_ context.Context, params ports.UpdateItemParams) (domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[params.ItemID]
	if !ok {
		return domain.Item{}, domain.ErrNotFound
	}
	if params.Title != nil {
		item.Title = *params.Title
	}
	if params.Description != nil {
		item.Description = *params.Description
	}
	if params.Category != nil {
		item.Category = *params.Category
	}
	if params.Subcategory != nil {
		item.Subcategory = *params.Subcategory
	}
	if params.Brand != nil {
		item.Brand = *params.Brand
	}
	if params.Condition != nil {
		item.Condition = *params.Condition
	}
	if params.AgeYears != nil {
		item.AgeYears = *params.AgeYears
	}
	if params.Returnable != nil {
		item.Returnable = *params.Returnable
	}
	if params.Images != nil {
		item.Images = params.Images
	}
	item.UpdatedAt = params.UpdatedAt
	r.items[params.ItemID] = item
	return item, nil
}

func (r *ItemRepository) Delete(_ context.Context, itemID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[itemID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, itemID)
	return nil
}

func (r *ItemRepository) SetStock(_ context.Context, itemID uuid.UUID, inStock bool, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok {
		return domain.ErrNotFound
	}
	item.InStock = inStock
	item.UpdatedAt = at
	r.items[itemID] = item
	return nil
}

func (r *ItemRepository) AssignPriceIfUnset(_ context.Context, itemID uuid.UUID, price float64, at time.Time) (domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok {
		return domain.Item{}, domain.ErrNotFound
	}
	if item.Price != nil {
		return domain.Item{}, domain.ErrConflict
	}
	item.Price = &price
	item.UpdatedAt = at
	r.items[itemID] = item
	return item, nil
}

func (r *ItemRepository) SetDiscount(_ context.Context, itemID uuid.UUID, rate, discountedPrice float64, at time.Time) (domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok {
		return domain.Item{}, domain.ErrNotFound
	}
	item.DiscountRate = &rate
	item.DiscountedPrice = &discountedPrice
	item.UpdatedAt = at
	r.items[itemID] = item
	return item, nil
}

func (r *ItemRepository) Reserve(_ context.Context, itemID, orderID uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok {
		return domain.ErrNotFound
	}
	if !item.InStock || item.ReservedByOrderID != nil {
		return domain.ErrOutOfStock
	}
	item.InStock = false
	item.ReservedByOrderID = &orderID
	item.UpdatedAt = at
	r.items[itemID] = item
	return nil
}

func (r *ItemRepository) Release(_ context.Context, itemID uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok {
		return domain.ErrNotFound
	}
	if item.ReservedByOrderID == nil {
		return nil
	}
	item.InStock = true
	item.ReservedByOrderID = nil
	item.UpdatedAt = at
	r.items[itemID] = item
	return nil
}

type OrderRepository struct {
	mu     sync.Mutex
	orders map[uuid.UUID]domain.Order
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: map[uuid.UUID]domain.Order{}}
}

func (r *OrderRepository) Create(_ context.Context, params ports.CreateOrderParams) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[params.OrderID]; ok {
		return domain.Order{}, domain.ErrConflict
	}
	order := domain.Order{
		OrderID:         params.OrderID,
		UserID:          params.UserID,
		ItemIDs:         append([]uuid.UUID(nil), params.ItemIDs...),
		ShippingAddress: params.ShippingAddress,
		PaymentRef:      params.PaymentRef,
		TotalPrice:      params.TotalPrice,
		Status:          domain.OrderStatusProcessing,
		RefundStatus:    domain.RefundStatusNotSent,
		OrderedAt:       params.OrderedAt,
		UpdatedAt:       params.OrderedAt,
	}
	r.orders[params.OrderID] = order
	return order, nil
}

func (r *OrderRepository) GetByID(_ context.Context, orderID uuid.UUID) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return domain.Order{}, domain.ErrNotFound
	}
	return order, nil
}

func (r *OrderRepository) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			out = append(out, order)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderedAt.After(out[j].OrderedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *OrderRepository) ListByOrderedRange(_ context.Context, from, to time.Time) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for _, order := range r.orders {
		if !order.OrderedAt.Before(from) && !order.OrderedAt.After(to) {
			out = append(out, order)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderedAt.Before(out[j].OrderedAt) })
	return out, nil
}

func (r *OrderRepository) ListByRefundStatus(_ context.Context, status domain.RefundStatus, limit int) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for _, order := range r.orders {
		if order.RefundStatus == status {
			out = append(out, order)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.Before(out[j].UpdatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *OrderRepository) UpdateStatusIf(_ context.Context, orderID uuid.UUID, expected, target domain.OrderStatus, at time.Time) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return domain.Order{}, domain.ErrNotFound
	}
	if order.Status != expected {
		return domain.Order{}, domain.ErrInvalidTransition
	}
	order.Status = target
	order.UpdatedAt = at
	if target == domain.OrderStatusDelivered {
		deliveredAt := at
		order.DeliveredAt = &deliveredAt
	}
	r.orders[orderID] = order
	return order, nil
}

func (r *OrderRepository) UpdateRefundStatusIf(_ context.Context, orderID uuid.UUID, expected, target domain.RefundStatus, refundItemIDs []uuid.UUID, at time.Time) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return domain.Order{}, domain.ErrNotFound
	}
	if order.RefundStatus != expected {
		return domain.Order{}, domain.ErrInvalidTransition
	}
	order.RefundStatus = target
	order.RefundItemIDs = append([]uuid.UUID(nil), refundItemIDs...)
	order.UpdatedAt = at
	r.orders[orderID] = order
	return order, nil
}

type FeedbackRepository struct {
	mu      sync.Mutex
	entries map[uuid.UUID]domain.Feedback
}

func NewFeedbackRepository() *FeedbackRepository {
	return &FeedbackRepository{entries: map[uuid.UUID]domain.Feedback{}}
}

func (r *FeedbackRepository) Create(_ context.Context, fb domain.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.entries {
		if existing.SenderID == fb.SenderID && existing.OrderID == fb.OrderID && existing.ItemID == fb.ItemID {
			return domain.ErrConflict
		}
	}
	r.entries[fb.FeedbackID] = fb
	return nil
}

func (r *FeedbackRepository) GetByID(_ context.Context, feedbackID uuid.UUID) (domain.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fb, ok := r.entries[feedbackID]
	if !ok {
		return domain.Feedback{}, domain.ErrNotFound
	}
	return fb, nil
}

func (r *FeedbackRepository) ListByReceiver(_ context.Context, receiverID uuid.UUID) ([]domain.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Feedback
	for _, fb := range r.entries {
		if fb.ReceiverID == receiverID {
			out = append(out, fb)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *FeedbackRepository) ListUnapproved(_ context.Context, limit int) ([]domain.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Feedback
	for _, fb := range r.entries {
		if !fb.Approved {
			out = append(out, fb)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *FeedbackRepository) SetApproved(_ context.Context, feedbackID uuid.UUID) (domain.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fb, ok := r.entries[feedbackID]
	if !ok {
		return domain.Feedback{}, domain.ErrNotFound
	}
	fb.Approved = true
	r.entries[feedbackID] = fb
	return fb, nil
}

func (r *FeedbackRepository) Delete(_ context.Context, feedbackID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[feedbackID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.entries, feedbackID)
	return nil
}

type OutboxRepository struct {
	mu      sync.Mutex
	records []ports.OutboxRecord
}

func NewOutboxRepository() *OutboxRepository {
	return &OutboxRepository{}
}

func (r *OutboxRepository) Enqueue(_ context.Context, event ports.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, ports.OutboxRecord{
		OutboxID:     event.EventID,
		EventType:    event.EventType,
		PartitionKey: event.PartitionKey,
		Payload:      event.Payload,
		FirstSeenAt:  event.OccurredAt,
	})
	return nil
}

func (r *OutboxRepository) FetchUnpublished(_ context.Context, limit int) ([]ports.OutboxRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ports.OutboxRecord
	for _, rec := range r.records {
		if rec.PublishedAt == nil {
			out = append(out, rec)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *OutboxRepository) MarkPublished(_ context.Context, outboxID uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.records {
		if r.records[i].OutboxID == outboxID {
			published := at
			r.records[i].PublishedAt = &published
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *OutboxRepository) MarkFailed(_ context.Context, outboxID uuid.UUID, errMsg string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.records {
		if r.records[i].OutboxID == outboxID {
			r.records[i].RetryCount++
			msg := errMsg
			failedAt := at
			r.records[i].LastError = &msg
			r.records[i].LastErrorAt = &failedAt
			return nil
		}
	}
	return domain.ErrNotFound
}

// EventTypes returns the enqueued event types in order, for assertions.
func (r *OutboxRepository) EventTypes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec.EventType)
	}
	return out
}

type IdempotencyRepository struct {
	mu      sync.Mutex
	records map[string]ports.IdempotencyRecord
}

func NewIdempotencyRepository() *IdempotencyRepository {
	return &IdempotencyRepository{records: map[string]ports.IdempotencyRecord{}}
}

func (r *IdempotencyRepository) Get(_ context.Context, key string) (*ports.IdempotencyRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[key]
	if !ok {
		return nil, nil
	}
	out := rec
	return &out, nil
}

func (r *IdempotencyRepository) Reserve(_ context.Context, key, requestHash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[key]; ok {
		return domain.ErrIdempotencyConflict
	}
	r.records[key] = ports.IdempotencyRecord{
		Key:         key,
		RequestHash: requestHash,
		Status:      "reserved",
		ExpiresAt:   expiresAt,
	}
	return nil
}

func (r *IdempotencyRepository) Complete(_ context.Context, key string, responseCode int, responseBody []byte, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[key]
	if !ok {
		return domain.ErrNotFound
	}
	rec.Status = "completed"
	rec.ResponseCode = responseCode
	rec.ResponseBody = append([]byte(nil), responseBody...)
	r.records[key] = rec
	return nil
}
