package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/susold/marketplace-core/internal/domain"
	"github.com/susold/marketplace-core/internal/ports"
)

// CreateOrder checks out the caller's entire basket as one order. Every item
// must be priced, in stock, and not the caller's own listing; the reserve step
// is an atomic check-and-set per item, so under concurrent checkouts of the
// same item exactly one order wins. The total is frozen from each item's
// effective price at this instant.
func (s *Service) CreateOrder(ctx context.Context, actor Actor, in CreateOrderInput) (domain.Order, error) {
	if !actor.Authenticated() {
		return domain.Order{}, domain.ErrUnauthorized
	}
	if in.ShippingAddress == "" {
		return domain.Order{}, fmt.Errorf("%w: shipping address required", domain.ErrInvalidInput)
	}

	// Idempotency resolves before the basket is read: a successful checkout
	// empties the basket, so a retry must replay the stored order rather
	// than see an empty basket.
	if actor.IdempotencyKey != "" {
		replayed, done, err := s.replayOrder(ctx, actor, in)
		if err != nil {
			return domain.Order{}, err
		}
		if done {
			return replayed, nil
		}
	}

	itemIDs, err := s.basket.Members(ctx, actor.UserID)
	if err != nil {
		return domain.Order{}, err
	}
	if len(itemIDs) == 0 {
		return domain.Order{}, domain.ErrEmptyBasket
	}

	items, err := s.items.GetBatch(ctx, itemIDs)
	if err != nil {
		return domain.Order{}, err
	}
	if len(items) != len(itemIDs) {
		return domain.Order{}, fmt.Errorf("%w: basket references missing items", domain.ErrNotFound)
	}

	var total float64
	for _, item := range items {
		if item.SellerID == actor.UserID {
			return domain.Order{}, fmt.Errorf("%w: cannot purchase own listing", domain.ErrNotEligible)
		}
		price, err := domain.EffectivePrice(item)
		if err != nil {
			return domain.Order{}, err
		}
		total += price
	}

	now := s.nowFn()
	orderID := uuid.New()

	// Reserve item by item; any failure rolls back the reservations already
	// taken so a losing checkout leaves no items stranded.
	reserved := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if err := s.items.Reserve(ctx, item.ItemID, orderID, now); err != nil {
			for _, id := range reserved {
				_ = s.items.Release(ctx, id, now)
			}
			if errors.Is(err, domain.ErrOutOfStock) {
				return domain.Order{}, fmt.Errorf("%w: item %s", domain.ErrOutOfStock, item.ItemID)
			}
			return domain.Order{}, err
		}
		reserved = append(reserved, item.ItemID)
	}

	order, err := s.orders.Create(ctx, ports.CreateOrderParams{
		OrderID:         orderID,
		UserID:          actor.UserID,
		ItemIDs:         itemIDs,
		ShippingAddress: in.ShippingAddress,
		PaymentRef:      in.PaymentRef,
		TotalPrice:      total,
		OrderedAt:       now,
	})
	if err != nil {
		for _, id := range reserved {
			_ = s.items.Release(ctx, id, now)
		}
		return domain.Order{}, err
	}

	for _, id := range itemIDs {
		_ = s.basket.Remove(ctx, actor.UserID, id)
	}

	_ = s.enqueueOrderCreated(ctx, order, actor)

	if actor.IdempotencyKey != "" {
		s.completeOrderIdempotency(ctx, actor.IdempotencyKey, order)
	}
	return order, nil
}

// replayOrder resolves the idempotency key before any side effect. A
// completed record with a matching request hash replays the stored order; a
// key reused with a different payload is a hard conflict.
func (s *Service) replayOrder(ctx context.Context, actor Actor, in CreateOrderInput) (domain.Order, bool, error) {
	hash := hashCheckoutRequest(actor.UserID, in)
	record, err := s.idempotency.Get(ctx, actor.IdempotencyKey)
	if err != nil {
		return domain.Order{}, false, err
	}
	if record != nil {
		if record.RequestHash != hash {
			return domain.Order{}, false, domain.ErrIdempotencyConflict
		}
		if record.Status == "completed" {
			var order domain.Order
			if err := json.Unmarshal(record.ResponseBody, &order); err != nil {
				return domain.Order{}, false, err
			}
			return order, true, nil
		}
		// Still pending under the same hash: a concurrent attempt holds it.
		return domain.Order{}, false, domain.ErrIdempotencyConflict
	}
	if err := s.idempotency.Reserve(ctx, actor.IdempotencyKey, hash, s.nowFn().Add(s.cfg.IdempotencyTTL)); err != nil {
		return domain.Order{}, false, err
	}
	return domain.Order{}, false, nil
}

func (s *Service) completeOrderIdempotency(ctx context.Context, key string, order domain.Order) {
	body, err := json.Marshal(order)
	if err != nil {
		return
	}
	_ = s.idempotency.Complete(ctx, key, 201, body, s.nowFn())
}

func (s *Service) GetOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (domain.Order, error) {
	if !actor.Authenticated() {
		return domain.Order{}, domain.ErrUnauthorized
	}
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if order.UserID != actor.UserID &&
		!actor.HasRole(domain.RoleProductManager) && !actor.HasRole(domain.RoleSalesManager) {
		return domain.Order{}, domain.ErrForbidden
	}
	return order, nil
}

func (s *Service) ListMyOrders(ctx context.Context, actor Actor) ([]domain.Order, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	return s.orders.ListByUser(ctx, actor.UserID, s.cfg.ListLimit)
}

// AdvanceOrderStatus moves fulfillment one step forward. The target must be
// the immediate successor of the current status, and the write itself is
// conditional on the status being unchanged, so two managers advancing the
// same order race to exactly one winner.
func (s *Service) AdvanceOrderStatus(ctx context.Context, actor Actor, orderID uuid.UUID, rawTarget string) (domain.Order, error) {
	if !actor.Authenticated() {
		return domain.Order{}, domain.ErrUnauthorized
	}
	if !actor.HasRole(domain.RoleProductManager) {
		return domain.Order{}, domain.ErrForbidden
	}
	target := domain.NormalizeOrderStatus(rawTarget)
	if target == "" {
		return domain.Order{}, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, rawTarget)
	}
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if err := domain.ValidateStatusAdvance(order.Status, target); err != nil {
		return domain.Order{}, err
	}
	updated, err := s.orders.UpdateStatusIf(ctx, orderID, order.Status, target, s.nowFn())
	if err != nil {
		return domain.Order{}, err
	}
	_ = s.enqueueOrderStatusChanged(ctx, updated, order.Status, actor)
	return updated, nil
}

// CancelOrder is buyer-initiated and only allowed while the order is still
// processing. Cancellation releases every reserved item back to stock.
func (s *Service) CancelOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (domain.Order, error) {
	if !actor.Authenticated() {
		return domain.Order{}, domain.ErrUnauthorized
	}
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if order.UserID != actor.UserID {
		return domain.Order{}, domain.ErrForbidden
	}
	if order.Status != domain.OrderStatusProcessing {
		return domain.Order{}, fmt.Errorf("%w: only processing orders can be cancelled", domain.ErrInvalidTransition)
	}
	now := s.nowFn()
	updated, err := s.orders.UpdateStatusIf(ctx, orderID, domain.OrderStatusProcessing, domain.OrderStatusCancelled, now)
	if err != nil {
		return domain.Order{}, err
	}
	for _, itemID := range updated.ItemIDs {
		_ = s.items.Release(ctx, itemID, now)
	}
	_ = s.enqueueOrderCancelled(ctx, updated, actor)
	return updated, nil
}

// RequestRefund opens a refund on a delivered order for a subset of its
// items. One refund per order; a second request fails because the refund
// state already left not_sent.
func (s *Service) RequestRefund(ctx context.Context, actor Actor, orderID uuid.UUID, in RequestRefundInput) (domain.Order, error) {
	if !actor.Authenticated() {
		return domain.Order{}, domain.ErrUnauthorized
	}
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if order.UserID != actor.UserID {
		return domain.Order{}, domain.ErrForbidden
	}
	if order.Status != domain.OrderStatusDelivered {
		return domain.Order{}, fmt.Errorf("%w: refunds require a delivered order", domain.ErrInvalidTransition)
	}
	if len(in.ItemIDs) == 0 {
		return domain.Order{}, fmt.Errorf("%w: refund item list is empty", domain.ErrInvalidInput)
	}
	seen := map[uuid.UUID]bool{}
	for _, itemID := range in.ItemIDs {
		if seen[itemID] {
			return domain.Order{}, fmt.Errorf("%w: duplicate refund item %s", domain.ErrInvalidInput, itemID)
		}
		seen[itemID] = true
		if !order.ContainsItem(itemID) {
			return domain.Order{}, fmt.Errorf("%w: item %s is not part of the order", domain.ErrInvalidInput, itemID)
		}
	}
	if err := domain.ValidateRefundTransition(order.RefundStatus, domain.RefundStatusPending); err != nil {
		return domain.Order{}, err
	}
	updated, err := s.orders.UpdateRefundStatusIf(ctx, orderID, domain.RefundStatusNotSent, domain.RefundStatusPending, in.ItemIDs, s.nowFn())
	if err != nil {
		return domain.Order{}, err
	}
	_ = s.enqueueRefundRequested(ctx, updated, actor)
	return updated, nil
}

// ResolveRefund approves or rejects a pending refund. The write is
// conditional on the refund still being pending, so two managers resolving
// the same request cannot both win. Approval returns the refunded items to
// stock.
func (s *Service) ResolveRefund(ctx context.Context, actor Actor, orderID uuid.UUID, approve bool) (domain.Order, error) {
	if !actor.Authenticated() {
		return domain.Order{}, domain.ErrUnauthorized
	}
	if !actor.HasRole(domain.RoleSalesManager) {
		return domain.Order{}, domain.ErrForbidden
	}
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	target := domain.RefundStatusRejected
	if approve {
		target = domain.RefundStatusApproved
	}
	if err := domain.ValidateRefundTransition(order.RefundStatus, target); err != nil {
		return domain.Order{}, err
	}
	now := s.nowFn()
	updated, err := s.orders.UpdateRefundStatusIf(ctx, orderID, domain.RefundStatusPending, target, order.RefundItemIDs, now)
	if err != nil {
		return domain.Order{}, err
	}
	if approve {
		for _, itemID := range updated.RefundItemIDs {
			_ = s.items.Release(ctx, itemID, now)
		}
	}
	_ = s.enqueueRefundResolved(ctx, updated, actor)
	return updated, nil
}

// ListRefundRequests is the sales-manager queue of refunds awaiting a
// decision.
func (s *Service) ListRefundRequests(ctx context.Context, actor Actor) ([]domain.Order, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	if !actor.HasRole(domain.RoleSalesManager) {
		return nil, domain.ErrForbidden
	}
	return s.orders.ListByRefundStatus(ctx, domain.RefundStatusPending, s.cfg.ListLimit)
}

// SalesReport aggregates orders placed inside [from, to]. Cancelled orders
// are listed but excluded from revenue.
func (s *Service) GetSalesReport(ctx context.Context, actor Actor, in SalesReportInput) (SalesReport, error) {
	if !actor.Authenticated() {
		return SalesReport{}, domain.ErrUnauthorized
	}
	if !actor.HasRole(domain.RoleSalesManager) {
		return SalesReport{}, domain.ErrForbidden
	}
	if in.From.IsZero() || in.To.IsZero() || in.To.Before(in.From) {
		return SalesReport{}, fmt.Errorf("%w: invalid report range", domain.ErrInvalidInput)
	}
	orders, err := s.orders.ListByOrderedRange(ctx, in.From, in.To)
	if err != nil {
		return SalesReport{}, err
	}
	report := SalesReport{From: in.From, To: in.To, Orders: orders, OrderCount: len(orders)}
	for _, order := range orders {
		if order.Status != domain.OrderStatusCancelled {
			report.TotalRevenue += order.TotalPrice
		}
	}
	return report, nil
}
