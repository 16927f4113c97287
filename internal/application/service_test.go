package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/susold/marketplace-core/internal/adapters/memory"
	"github.com/susold/marketplace-core/internal/domain"
)

type fixture struct {
	svc       *Service
	items     *memory.ItemRepository
	orders    *memory.OrderRepository
	feedback  *memory.FeedbackRepository
	basket    *memory.SetStore
	favorites *memory.SetStore
	outbox    *memory.OutboxRepository
}

func newFixture() *fixture {
	items := memory.NewItemRepository()
	orders := memory.NewOrderRepository()
	feedback := memory.NewFeedbackRepository()
	basket := memory.NewSetStore()
	favorites := memory.NewSetStore()
	outbox := memory.NewOutboxRepository()
	svc := NewService(Dependencies{
		Items:       items,
		Orders:      orders,
		Feedback:    feedback,
		Basket:      basket,
		Favorites:   favorites,
		Outbox:      outbox,
		Idempotency: memory.NewIdempotencyRepository(),
	})
	return &fixture{
		svc: svc, items: items, orders: orders, feedback: feedback,
		basket: basket, favorites: favorites, outbox: outbox,
	}
}

func buyerActor() Actor {
	return Actor{UserID: uuid.New(), Roles: []string{domain.RoleBuyer}}
}

func sellerActor() Actor {
	return Actor{UserID: uuid.New(), Roles: []string{domain.RoleSeller}}
}

func salesManagerActor() Actor {
	return Actor{UserID: uuid.New(), Roles: []string{domain.RoleSalesManager}}
}

func productManagerActor() Actor {
	return Actor{UserID: uuid.New(), Roles: []string{domain.RoleProductManager}}
}

// seedItem creates a listing for the seller and optionally assigns a price.
func seedItem(t *testing.T, f *fixture, seller Actor, price *float64) domain.Item {
	t.Helper()
	item, err := f.svc.CreateItem(context.Background(), seller, CreateItemInput{
		Title:     "Dorm Desk Lamp",
		Category:  "furniture",
		Condition: "good",
	})
	if err != nil {
		t.Fatalf("seed item: %v", err)
	}
	if price != nil {
		item, err = f.svc.AssignPrice(context.Background(), salesManagerActor(), item.ItemID, *price)
		if err != nil {
			t.Fatalf("seed price: %v", err)
		}
	}
	return item
}

// checkout puts the items into the buyer's basket and creates the order.
func checkout(t *testing.T, f *fixture, buyer Actor, itemIDs ...uuid.UUID) domain.Order {
	t.Helper()
	ctx := context.Background()
	if err := f.basket.Add(ctx, buyer.UserID, itemIDs...); err != nil {
		t.Fatalf("fill basket: %v", err)
	}
	order, err := f.svc.CreateOrder(ctx, buyer, CreateOrderInput{ShippingAddress: "12 Campus Way"})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}

// deliver walks the order through in_transit to delivered.
func deliver(t *testing.T, f *fixture, orderID uuid.UUID) domain.Order {
	t.Helper()
	ctx := context.Background()
	pm := productManagerActor()
	if _, err := f.svc.AdvanceOrderStatus(ctx, pm, orderID, "in_transit"); err != nil {
		t.Fatalf("advance to in_transit: %v", err)
	}
	order, err := f.svc.AdvanceOrderStatus(ctx, pm, orderID, "delivered")
	if err != nil {
		t.Fatalf("advance to delivered: %v", err)
	}
	return order
}

func floatPtr(v float64) *float64 { return &v }
