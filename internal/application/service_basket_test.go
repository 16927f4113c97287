package application

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/susold/marketplace-core/internal/domain"
)

func TestToggleBasketItem(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()
	buyer := buyerActor()
	item := seedItem(t, f, sellerActor(), floatPtr(30))

	result, err := f.svc.ToggleBasketItem(ctx, buyer, item.ItemID)
	if err != nil || !result.Added {
		t.Fatalf("expected first toggle to add, got %+v %v", result, err)
	}
	result, err = f.svc.ToggleBasketItem(ctx, buyer, item.ItemID)
	if err != nil || result.Added {
		t.Fatalf("expected second toggle to remove, got %+v %v", result, err)
	}
	members, _ := f.basket.Members(ctx, buyer.UserID)
	if len(members) != 0 {
		t.Fatalf("expected empty basket after remove, got %d", len(members))
	}
}

func TestToggleBasketItemOutOfStock(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()
	seller := sellerActor()
	item := seedItem(t, f, seller, floatPtr(30))
	if err := f.svc.MarkOutOfStock(ctx, seller, item.ItemID); err != nil {
		t.Fatalf("mark out of stock: %v", err)
	}

	if _, err := f.svc.ToggleBasketItem(ctx, buyerActor(), item.ItemID); !errors.Is(err, domain.ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock, got %v", err)
	}
}

func TestMergeLocalBasket(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()
	buyer := buyerActor()
	seller := sellerActor()
	kept := seedItem(t, f, seller, floatPtr(10))
	gone := seedItem(t, f, seller, floatPtr(20))
	if err := f.svc.MarkOutOfStock(ctx, seller, gone.ItemID); err != nil {
		t.Fatalf("mark out of stock: %v", err)
	}
	unknown := uuid.New()

	// Server basket already holds one item; the local list overlaps it.
	already := seedItem(t, f, seller, floatPtr(5))
	if _, err := f.svc.ToggleBasketItem(ctx, buyer, already.ItemID); err != nil {
		t.Fatalf("prefill basket: %v", err)
	}

	in := MergeLocalBasketInput{LocalItemIDs: []uuid.UUID{kept.ItemID, gone.ItemID, unknown, already.ItemID, kept.ItemID}}
	result, err := f.svc.MergeLocalBasket(ctx, buyer, in)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if !result.DiscardLocalList {
		t.Fatalf("merge must instruct the client to discard its local list")
	}
	if len(result.BasketItemIDs) != 2 {
		t.Fatalf("expected 2 items in merged basket, got %d", len(result.BasketItemIDs))
	}
	if len(result.SkippedItemIDs) != 2 {
		t.Fatalf("expected out-of-stock and unknown ids to be skipped, got %v", result.SkippedItemIDs)
	}

	// Merging the same list again changes nothing.
	again, err := f.svc.MergeLocalBasket(ctx, buyer, in)
	if err != nil {
		t.Fatalf("second merge: %v", err)
	}
	if len(again.BasketItemIDs) != 2 {
		t.Fatalf("expected merge to be idempotent, got %d items", len(again.BasketItemIDs))
	}
}

func TestGetBasketDropsMissingItems(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()
	buyer := buyerActor()
	seller := sellerActor()
	item := seedItem(t, f, seller, floatPtr(15))
	if _, err := f.svc.ToggleBasketItem(ctx, buyer, item.ItemID); err != nil {
		t.Fatalf("fill basket: %v", err)
	}
	if err := f.svc.RemoveItem(ctx, seller, item.ItemID); err != nil {
		t.Fatalf("remove listing: %v", err)
	}

	items, err := f.svc.GetBasket(ctx, buyer)
	if err != nil {
		t.Fatalf("get basket: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected deleted listing to drop out of the basket, got %d", len(items))
	}
	members, _ := f.basket.Members(ctx, buyer.UserID)
	if len(members) != 0 {
		t.Fatalf("expected stale id to be pruned from the store")
	}
}

func TestToggleFavoriteIgnoresStock(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()
	buyer := buyerActor()
	seller := sellerActor()
	item := seedItem(t, f, seller, floatPtr(25))
	if err := f.svc.MarkOutOfStock(ctx, seller, item.ItemID); err != nil {
		t.Fatalf("mark out of stock: %v", err)
	}

	result, err := f.svc.ToggleFavorite(ctx, buyer, item.ItemID)
	if err != nil || !result.Added {
		t.Fatalf("expected out-of-stock item to be favoritable, got %+v %v", result, err)
	}

	views, err := f.svc.ListFavorites(ctx, buyer)
	if err != nil || len(views) != 1 {
		t.Fatalf("expected one favorite, got %d %v", len(views), err)
	}
	if !views[0].IsFavorite {
		t.Fatalf("favorite view must carry the flag")
	}

	if _, err := f.svc.ToggleFavorite(ctx, buyer, uuid.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown item, got %v", err)
	}
}
