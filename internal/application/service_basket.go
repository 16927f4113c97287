package application

import (
	"context"

	"github.com/google/uuid"
	"github.com/susold/marketplace-core/internal/domain"
)

// ToggleBasketItem removes the item when present, else adds it. Adding
// requires the item to be in stock at call time; removal is unconditional.
func (s *Service) ToggleBasketItem(ctx context.Context, actor Actor, itemID uuid.UUID) (ToggleResult, error) {
	if !actor.Authenticated() {
		return ToggleResult{}, domain.ErrUnauthorized
	}
	present, err := s.basket.Contains(ctx, actor.UserID, itemID)
	if err != nil {
		return ToggleResult{}, err
	}
	if present {
		if err := s.basket.Remove(ctx, actor.UserID, itemID); err != nil {
			return ToggleResult{}, err
		}
		return ToggleResult{ItemID: itemID, Added: false}, nil
	}
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return ToggleResult{}, err
	}
	if !item.InStock {
		return ToggleResult{}, domain.ErrOutOfStock
	}
	if err := s.basket.Add(ctx, actor.UserID, itemID); err != nil {
		return ToggleResult{}, err
	}
	return ToggleResult{ItemID: itemID, Added: true}, nil
}

// MergeLocalBasket folds a client-held (pre-login) basket into the server
// basket as a set union. Ids that are unknown or out of stock are skipped.
// The operation is idempotent; repeating it with the same list is safe, and
// the caller must discard its local copy afterwards.
func (s *Service) MergeLocalBasket(ctx context.Context, actor Actor, in MergeLocalBasketInput) (MergeLocalBasketResult, error) {
	if !actor.Authenticated() {
		return MergeLocalBasketResult{}, domain.ErrUnauthorized
	}
	var skipped []uuid.UUID
	seen := map[uuid.UUID]bool{}
	for _, itemID := range in.LocalItemIDs {
		if itemID == uuid.Nil || seen[itemID] {
			continue
		}
		seen[itemID] = true
		item, err := s.items.GetByID(ctx, itemID)
		if err != nil || !item.InStock {
			skipped = append(skipped, itemID)
			continue
		}
		if err := s.basket.Add(ctx, actor.UserID, itemID); err != nil {
			return MergeLocalBasketResult{}, err
		}
	}
	merged, err := s.basket.Members(ctx, actor.UserID)
	if err != nil {
		return MergeLocalBasketResult{}, err
	}
	return MergeLocalBasketResult{BasketItemIDs: merged, SkippedItemIDs: skipped, DiscardLocalList: true}, nil
}

// GetBasket hydrates the caller's basket into item rows. Ids whose items have
// disappeared are dropped from the store on the way through.
func (s *Service) GetBasket(ctx context.Context, actor Actor) ([]domain.Item, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	ids, err := s.basket.Members(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []domain.Item{}, nil
	}
	items, err := s.items.GetBatch(ctx, ids)
	if err != nil {
		return nil, err
	}
	found := map[uuid.UUID]bool{}
	for _, item := range items {
		found[item.ItemID] = true
	}
	for _, id := range ids {
		if !found[id] {
			_ = s.basket.Remove(ctx, actor.UserID, id)
		}
	}
	return items, nil
}
