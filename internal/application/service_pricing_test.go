package application

import (
	"context"
	"errors"
	"testing"

	"github.com/susold/marketplace-core/internal/domain"
)

func TestAssignPriceOneTime(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()
	item := seedItem(t, f, sellerActor(), nil)
	manager := salesManagerActor()

	priced, err := f.svc.AssignPrice(ctx, manager, item.ItemID, 120)
	if err != nil {
		t.Fatalf("assign price: %v", err)
	}
	if priced.Price == nil || *priced.Price != 120 {
		t.Fatalf("expected price 120, got %v", priced.Price)
	}

	// Re-pricing is not supported.
	if _, err := f.svc.AssignPrice(ctx, manager, item.ItemID, 99); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected second assignment to fail with ErrInvalidInput, got %v", err)
	}
	got, err := f.items.GetByID(ctx, item.ItemID)
	if err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if *got.Price != 120 {
		t.Fatalf("price must survive a rejected re-assignment, got %v", *got.Price)
	}
}

func TestAssignPriceAuthorization(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()
	item := seedItem(t, f, sellerActor(), nil)

	if _, err := f.svc.AssignPrice(ctx, buyerActor(), item.ItemID, 10); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for buyer, got %v", err)
	}
	if _, err := f.svc.AssignPrice(ctx, Actor{}, item.ItemID, 10); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for anonymous, got %v", err)
	}
	if _, err := f.svc.AssignPrice(ctx, salesManagerActor(), item.ItemID, -1); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative price, got %v", err)
	}
}

func TestApplyDiscount(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()
	manager := salesManagerActor()
	item := seedItem(t, f, sellerActor(), floatPtr(200))

	discounted, err := f.svc.ApplyDiscount(ctx, manager, item.ItemID, 0.25)
	if err != nil {
		t.Fatalf("apply discount: %v", err)
	}
	if discounted.DiscountedPrice == nil || *discounted.DiscountedPrice != 150 {
		t.Fatalf("expected discounted price 150, got %v", discounted.DiscountedPrice)
	}

	// Reapplying overwrites; always computed from the base price.
	discounted, err = f.svc.ApplyDiscount(ctx, manager, item.ItemID, 0.5)
	if err != nil {
		t.Fatalf("reapply discount: %v", err)
	}
	if *discounted.DiscountedPrice != 100 {
		t.Fatalf("expected discounted price 100 after overwrite, got %v", *discounted.DiscountedPrice)
	}
}

func TestApplyDiscountRequiresPrice(t *testing.T) {
	t.Parallel()
	f := newFixture()
	item := seedItem(t, f, sellerActor(), nil)

	if _, err := f.svc.ApplyDiscount(context.Background(), salesManagerActor(), item.ItemID, 0.2); !errors.Is(err, domain.ErrUnpriced) {
		t.Fatalf("expected ErrUnpriced, got %v", err)
	}
}

func TestListUnpricedItems(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()
	seller := sellerActor()
	unpriced := seedItem(t, f, seller, nil)
	seedItem(t, f, seller, floatPtr(40))

	items, err := f.svc.ListUnpricedItems(ctx, salesManagerActor())
	if err != nil {
		t.Fatalf("list unpriced: %v", err)
	}
	if len(items) != 1 || items[0].ItemID != unpriced.ItemID {
		t.Fatalf("expected exactly the unpriced item, got %d items", len(items))
	}

	if _, err := f.svc.ListUnpricedItems(ctx, buyerActor()); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for buyer, got %v", err)
	}
}
