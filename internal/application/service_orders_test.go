package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/susold/marketplace-core/internal/domain"
)

func TestCreateOrderFreezesTotal(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()
	buyer := buyerActor()
	seller := sellerActor()
	manager := salesManagerActor()
	lamp := seedItem(t, f, seller, floatPtr(100))
	book := seedItem(t, f, seller, floatPtr(60))
	if _, err := f.svc.ApplyDiscount(ctx, manager, book.ItemID, 0.5); err != nil {
		t.Fatalf("discount: %v", err)
	}

	order := checkout(t, f, buyer, lamp.ItemID, book.ItemID)
	if order.TotalPrice != 130 {
		t.Fatalf("expected frozen total 130 (100 plus discounted 30), got %v", order.TotalPrice)
	}
	if order.Status != domain.OrderStatusProcessing {
		t.Fatalf("expected new order to be processing, got %s", order.Status)
	}
	if order.RefundStatus != domain.RefundStatusNotSent {
		t.Fatalf("expected refund status not_sent, got %s", order.RefundStatus)
	}

	// A later price change never touches the stored total.
	if _, err := f.svc.ApplyDiscount(ctx, manager, lamp.ItemID, 0.9); err != nil {
		t.Fatalf("late discount: %v", err)
	}
	reloaded, err := f.svc.GetOrder(ctx, buyer, order.OrderID)
	if err != nil || reloaded.TotalPrice != 130 {
		t.Fatalf("expected total to stay 130, got %v %v", reloaded.TotalPrice, err)
	}

	// Basket is emptied and items leave stock.
	members, _ := f.basket.Members(ctx, buyer.UserID)
	if len(members) != 0 {
		t.Fatalf("expected basket cleared after checkout, got %d", len(members))
	}
	item, _ := f.items.GetByID(ctx, lamp.ItemID)
	if item.InStock || item.ReservedByOrderID == nil || *item.ReservedByOrderID != order.OrderID {
		t.Fatalf("expected item reserved by order, got %+v", item)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()
	buyer := buyerActor()

	if _, err := f.svc.CreateOrder(ctx, buyer, CreateOrderInput{ShippingAddress: "12 Campus Way"}); !errors.Is(err, domain.ErrEmptyBasket) {
		t.Fatalf("expected ErrEmptyBasket, got %v", err)
	}
	if _, err := f.svc.CreateOrder(ctx, buyer, CreateOrderInput{}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing address, got %v", err)
	}

	// An unpriced item blocks the whole checkout.
	unpriced := seedItem(t, f, sellerActor(), nil)
	_ = f.basket.Add(ctx, buyer.UserID, unpriced.ItemID)
	if _, err := f.svc.CreateOrder(ctx, buyer, CreateOrderInput{ShippingAddress: "12 Campus Way"}); !errors.Is(err, domain.ErrUnpriced) {
		t.Fatalf("expected ErrUnpriced, got %v", err)
	}
}

func TestCreateOrderRejectsSelfPurchase(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()
	seller := sellerActor()
	item := seedItem(t, f, seller, floatPtr(10))
	_ = f.basket.Add(ctx, seller.UserID, item.ItemID)

	if _, err := f.svc.CreateOrder(ctx, seller, CreateOrderInput{ShippingAddress: "12 Campus Way"}); !errors.Is(err, domain.ErrNotEligible) {
		t.Fatalf("expected ErrNotEligible for own listing, got %v", err)
	}
}

func TestConcurrentCheckoutSingleWinner(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()
	item := seedItem(t, f, sellerActor(), floatPtr(75))

	buyers := make([]Actor, 4)
	for i := range buyers {
		buyers[i] = buyerActor()
		if err := f.basket.Add(ctx, buyers[i].UserID, item.ItemID); err != nil {
			t.Fatalf("fill basket: %v", err)
		}
	}

	var wg sync.WaitGroup
	results := make([]error, len(buyers))
	for i, buyer := range buyers {
		wg.Add(1)
		go func(i int, buyer Actor) {
			defer wg.Done()
			_, results[i] = f.svc.CreateOrder(ctx, buyer, CreateOrderInput{ShippingAddress: "12 Campus Way"})
		}(i, buyer)
	}
	wg.Wait()

	wins, losses := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domain.ErrOutOfStock):
			losses++
		default:
			t.Fatalf("unexpected checkout error: %v", err)
		}
	}
	if wins != 1 || losses != len(buyers)-1 {
		t.Fatalf("expected exactly one winning checkout, got %d wins %d losses", wins, losses)
	}
}

func TestCreateOrderIdempotencyReplay(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()
	buyer := buyerActor()
	buyer.IdempotencyKey = "checkout-" + uuid.NewString()
	item := seedItem(t, f, sellerActor(), floatPtr(50))
	_ = f.basket.Add(ctx, buyer.UserID, item.ItemID)

	first, err := f.svc.CreateOrder(ctx, buyer, CreateOrderInput{ShippingAddress: "12 Campus Way"})
	if err != nil {
		t.Fatalf("first checkout: %v", err)
	}

	// Retry with the same key replays the stored order even though the
	// basket is now empty.
	replay, err := f.svc.CreateOrder(ctx, buyer, CreateOrderInput{ShippingAddress: "12 Campus Way"})
	if err != nil {
		t.Fatalf("replay checkout: %v", err)
	}
	if replay.OrderID != first.OrderID {
		t.Fatalf("expected replayed order %s, got %s", first.OrderID, replay.OrderID)
	}

	// Same key with a different payload is a conflict.
	if _, err := f.svc.CreateOrder(ctx, buyer, CreateOrderInput{ShippingAddress: "99 Other St"}); !errors.Is(err, domain.ErrIdempotencyConflict) {
		t.Fatalf("expected ErrIdempotencyConflict, got %v", err)
	}
}

func TestAdvanceOrderStatus(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()
	buyer := buyerActor()
	item := seedItem(t, f, sellerActor(), floatPtr(20))
	order := checkout(t, f, buyer, item.ItemID)
	pm := productManagerActor()

	if _, err := f.svc.AdvanceOrderStatus(ctx, buyer, order.OrderID, "in_transit"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for buyer, got %v", err)
	}
	if _, err := f.svc.AdvanceOrderStatus(ctx, pm, order.OrderID, "delivered"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected skip to fail, got %v", err)
	}

	updated, err := f.svc.AdvanceOrderStatus(ctx, pm, order.OrderID, "in_transit")
	if err != nil || updated.Status != domain.OrderStatusInTransit {
		t.Fatalf("expected in_transit, got %s %v", updated.Status, err)
	}
	updated, err = f.svc.AdvanceOrderStatus(ctx, pm, order.OrderID, "delivered")
	if err != nil || updated.Status != domain.OrderStatusDelivered {
		t.Fatalf("expected delivered, got %s %v", updated.Status, err)
	}
	if updated.DeliveredAt == nil {
		t.Fatalf("expected delivered_at to be set")
	}
	if _, err := f.svc.AdvanceOrderStatus(ctx, pm, order.OrderID, "in_transit"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected regression to fail, got %v", err)
	}
}

func TestCancelOrderReleasesItems(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()
	buyer := buyerActor()
	item := seedItem(t, f, sellerActor(), floatPtr(20))
	order := checkout(t, f, buyer, item.ItemID)

	if _, err := f.svc.CancelOrder(ctx, buyerActor(), order.OrderID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for stranger, got %v", err)
	}

	cancelled, err := f.svc.CancelOrder(ctx, buyer, order.OrderID)
	if err != nil || cancelled.Status != domain.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s %v", cancelled.Status, err)
	}
	reloaded, _ := f.items.GetByID(ctx, item.ItemID)
	if !reloaded.InStock || reloaded.ReservedByOrderID != nil {
		t.Fatalf("expected item back in stock after cancel, got %+v", reloaded)
	}

	// Only processing orders can be cancelled.
	second := checkout(t, f, buyer, item.ItemID)
	deliver(t, f, second.OrderID)
	if _, err := f.svc.CancelOrder(ctx, buyer, second.OrderID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected cancel after delivery to fail, got %v", err)
	}
}

func TestRefundLifecycle(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()
	buyer := buyerActor()
	item := seedItem(t, f, sellerActor(), floatPtr(80))
	order := checkout(t, f, buyer, item.ItemID)
	manager := salesManagerActor()

	// Requesting a refund before delivery is a transition error, not an
	// eligibility one.
	if _, err := f.svc.RequestRefund(ctx, buyer, order.OrderID, RequestRefundInput{ItemIDs: order.ItemIDs}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition before delivery, got %v", err)
	}
	deliver(t, f, order.OrderID)

	// Item ids must belong to the order.
	if _, err := f.svc.RequestRefund(ctx, buyer, order.OrderID, RequestRefundInput{ItemIDs: []uuid.UUID{uuid.New()}}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for foreign item, got %v", err)
	}

	pending, err := f.svc.RequestRefund(ctx, buyer, order.OrderID, RequestRefundInput{ItemIDs: order.ItemIDs})
	if err != nil || pending.RefundStatus != domain.RefundStatusPending {
		t.Fatalf("expected pending refund, got %s %v", pending.RefundStatus, err)
	}

	// One refund per order.
	if _, err := f.svc.RequestRefund(ctx, buyer, order.OrderID, RequestRefundInput{ItemIDs: order.ItemIDs}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected second request to fail, got %v", err)
	}

	queue, err := f.svc.ListRefundRequests(ctx, manager)
	if err != nil || len(queue) != 1 {
		t.Fatalf("expected one pending refund in queue, got %d %v", len(queue), err)
	}

	approved, err := f.svc.ResolveRefund(ctx, manager, order.OrderID, true)
	if err != nil || approved.RefundStatus != domain.RefundStatusApproved {
		t.Fatalf("expected approved refund, got %s %v", approved.RefundStatus, err)
	}
	reloaded, _ := f.items.GetByID(ctx, item.ItemID)
	if !reloaded.InStock {
		t.Fatalf("expected refunded item back in stock")
	}

	// Approved is terminal; a second resolution fails.
	if _, err := f.svc.ResolveRefund(ctx, manager, order.OrderID, false); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected double resolution to fail, got %v", err)
	}
}

func TestResolveRefundAuthorization(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()
	buyer := buyerActor()
	item := seedItem(t, f, sellerActor(), floatPtr(40))
	order := checkout(t, f, buyer, item.ItemID)
	deliver(t, f, order.OrderID)
	if _, err := f.svc.RequestRefund(ctx, buyer, order.OrderID, RequestRefundInput{ItemIDs: order.ItemIDs}); err != nil {
		t.Fatalf("request refund: %v", err)
	}

	if _, err := f.svc.ResolveRefund(ctx, buyer, order.OrderID, true); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for buyer, got %v", err)
	}
	if _, err := f.svc.ResolveRefund(ctx, productManagerActor(), order.OrderID, true); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for product manager, got %v", err)
	}
}

func TestSalesReport(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()
	seller := sellerActor()
	buyer := buyerActor()
	first := checkout(t, f, buyer, seedItem(t, f, seller, floatPtr(100)).ItemID)
	second := checkout(t, f, buyer, seedItem(t, f, seller, floatPtr(50)).ItemID)
	if _, err := f.svc.CancelOrder(ctx, buyer, second.OrderID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	from := first.OrderedAt.Add(-time.Minute)
	to := first.OrderedAt.Add(time.Minute)
	report, err := f.svc.GetSalesReport(ctx, salesManagerActor(), SalesReportInput{From: from, To: to})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.OrderCount != 2 {
		t.Fatalf("expected 2 orders in range, got %d", report.OrderCount)
	}
	if report.TotalRevenue != 100 {
		t.Fatalf("expected cancelled order excluded from revenue, got %v", report.TotalRevenue)
	}

	if _, err := f.svc.GetSalesReport(ctx, buyer, SalesReportInput{From: from, To: to}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for buyer, got %v", err)
	}
	if _, err := f.svc.GetSalesReport(ctx, salesManagerActor(), SalesReportInput{From: to, To: from}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for inverted range, got %v", err)
	}
}

func TestOrderVisibility(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()
	buyer := buyerActor()
	order := checkout(t, f, buyer, seedItem(t, f, sellerActor(), floatPtr(10)).ItemID)

	if _, err := f.svc.GetOrder(ctx, buyerActor(), order.OrderID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for stranger, got %v", err)
	}
	if _, err := f.svc.GetOrder(ctx, productManagerActor(), order.OrderID); err != nil {
		t.Fatalf("expected product manager to see order, got %v", err)
	}
	mine, err := f.svc.ListMyOrders(ctx, buyer)
	if err != nil || len(mine) != 1 {
		t.Fatalf("expected one own order, got %d %v", len(mine), err)
	}
}
