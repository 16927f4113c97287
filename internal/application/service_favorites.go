package application

import (
	"context"

	"github.com/google/uuid"
	"github.com/susold/marketplace-core/internal/domain"
)

// ToggleFavorite flips the caller's favorite flag for an item. Unlike the
// basket there is no stock gate; sold items may stay favorited.
func (s *Service) ToggleFavorite(ctx context.Context, actor Actor, itemID uuid.UUID) (ToggleResult, error) {
	if !actor.Authenticated() {
		return ToggleResult{}, domain.ErrUnauthorized
	}
	present, err := s.favorites.Contains(ctx, actor.UserID, itemID)
	if err != nil {
		return ToggleResult{}, err
	}
	if present {
		if err := s.favorites.Remove(ctx, actor.UserID, itemID); err != nil {
			return ToggleResult{}, err
		}
		return ToggleResult{ItemID: itemID, Added: false}, nil
	}
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		return ToggleResult{}, err
	}
	if err := s.favorites.Add(ctx, actor.UserID, itemID); err != nil {
		return ToggleResult{}, err
	}
	return ToggleResult{ItemID: itemID, Added: true}, nil
}

func (s *Service) ListFavorites(ctx context.Context, actor Actor) ([]ItemView, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	ids, err := s.favorites.Members(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []ItemView{}, nil
	}
	items, err := s.items.GetBatch(ctx, ids)
	if err != nil {
		return nil, err
	}
	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, ItemView{Item: item, IsFavorite: true, Fulfillment: s.deriveFulfillment(ctx, item)})
	}
	return views, nil
}
