package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/susold/marketplace-core/internal/domain"
)

// AssignPrice gives an unpriced item its one-time base price. Re-pricing is
// deliberately not supported; a second assignment fails.
func (s *Service) AssignPrice(ctx context.Context, actor Actor, itemID uuid.UUID, price float64) (domain.Item, error) {
	if !actor.Authenticated() {
		return domain.Item{}, domain.ErrUnauthorized
	}
	if !actor.HasRole(domain.RoleSalesManager) {
		return domain.Item{}, domain.ErrForbidden
	}
	if err := domain.ValidatePrice(price); err != nil {
		return domain.Item{}, err
	}
	item, err := s.items.AssignPriceIfUnset(ctx, itemID, price, s.nowFn())
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.Item{}, fmt.Errorf("%w: price already assigned", domain.ErrInvalidInput)
		}
		return domain.Item{}, err
	}
	_ = s.enqueueItemPriced(ctx, item, actor)
	return item, nil
}

// ApplyDiscount sets discounted_price = price * (1 - rate). Reapplying
// overwrites the prior discount; no history is kept.
func (s *Service) ApplyDiscount(ctx context.Context, actor Actor, itemID uuid.UUID, rate float64) (domain.Item, error) {
	if !actor.Authenticated() {
		return domain.Item{}, domain.ErrUnauthorized
	}
	if !actor.HasRole(domain.RoleSalesManager) {
		return domain.Item{}, domain.ErrForbidden
	}
	if err := domain.ValidateDiscountRate(rate); err != nil {
		return domain.Item{}, err
	}
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return domain.Item{}, err
	}
	if item.Price == nil {
		return domain.Item{}, domain.ErrUnpriced
	}
	discounted := *item.Price * (1 - rate)
	updated, err := s.items.SetDiscount(ctx, itemID, rate, discounted, s.nowFn())
	if err != nil {
		return domain.Item{}, err
	}
	_ = s.enqueueItemDiscounted(ctx, updated, rate, actor)
	return updated, nil
}

// ListUnpricedItems surfaces the sales-manager work queue of items still
// waiting for a base price.
func (s *Service) ListUnpricedItems(ctx context.Context, actor Actor) ([]domain.Item, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	if !actor.HasRole(domain.RoleSalesManager) {
		return nil, domain.ErrForbidden
	}
	return s.items.ListUnpriced(ctx, s.cfg.ListLimit)
}
