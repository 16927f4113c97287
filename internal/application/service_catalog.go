package application

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/susold/marketplace-core/internal/domain"
	"github.com/susold/marketplace-core/internal/ports"
)

func (s *Service) CreateItem(ctx context.Context, actor Actor, in CreateItemInput) (domain.Item, error) {
	if !actor.Authenticated() {
		return domain.Item{}, domain.ErrUnauthorized
	}
	if err := domain.ValidateItemTitle(in.Title); err != nil {
		return domain.Item{}, err
	}
	if err := domain.ValidateItemDescription(in.Description); err != nil {
		return domain.Item{}, err
	}
	condition := domain.NormalizeCondition(in.Condition)
	if condition == "" {
		return domain.Item{}, domain.ErrInvalidInput
	}
	if strings.TrimSpace(in.Category) == "" || in.AgeYears < 0 {
		return domain.Item{}, domain.ErrInvalidInput
	}
	now := s.nowFn()
	item := domain.Item{
		ItemID:       uuid.New(),
		SellerID:     actor.UserID,
		Title:        strings.TrimSpace(in.Title),
		Description:  strings.TrimSpace(in.Description),
		Category:     strings.TrimSpace(in.Category),
		Subcategory:  strings.TrimSpace(in.Subcategory),
		Brand:        strings.TrimSpace(in.Brand),
		Condition:    condition,
		AgeYears:     in.AgeYears,
		InStock:      true,
		Verified:     actor.HasRole(domain.RoleSeller),
		Returnable:   in.Returnable,
		Images:       in.Images,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return domain.Item{}, err
	}
	return item, nil
}

func (s *Service) GetItem(ctx context.Context, actor Actor, itemID uuid.UUID) (ItemView, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return ItemView{}, err
	}
	view := ItemView{Item: item}
	if actor.Authenticated() {
		if fav, favErr := s.favorites.Contains(ctx, actor.UserID, item.ItemID); favErr == nil {
			view.IsFavorite = fav
		}
	}
	view.Fulfillment = s.deriveFulfillment(ctx, item)
	return view, nil
}

func (s *Service) ListItems(ctx context.Context, actor Actor, in ListItemsInput) ([]ItemView, error) {
	filter := ports.ItemFilter{
		Title:       strings.TrimSpace(in.Title),
		Category:    strings.TrimSpace(in.Category),
		Subcategory: strings.TrimSpace(in.Subcategory),
		Brand:       strings.TrimSpace(in.Brand),
		MinPrice:    in.MinPrice,
		MaxPrice:    in.MaxPrice,
		Verified:    in.Verified,
		InStock:     in.InStock,
		Returnable:  in.Returnable,
		SellerID:    in.SellerID,
		SortBy:      strings.TrimSpace(in.SortBy),
		Limit:       in.Limit,
		Offset:      in.Offset,
	}
	if raw := strings.TrimSpace(in.Condition); raw != "" {
		condition := domain.NormalizeCondition(raw)
		if condition == "" {
			return nil, domain.ErrInvalidInput
		}
		filter.Condition = condition
	}
	if filter.Limit <= 0 || filter.Limit > s.cfg.ListLimit {
		filter.Limit = s.cfg.ListLimit
	}
	items, err := s.items.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	// isFavorite is a read-time join against the caller's favorites set,
	// never a stored property of the item.
	favoriteSet := map[uuid.UUID]bool{}
	if actor.Authenticated() {
		if ids, favErr := s.favorites.Members(ctx, actor.UserID); favErr == nil {
			for _, id := range ids {
				favoriteSet[id] = true
			}
		}
	}

	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, ItemView{
			Item:        item,
			IsFavorite:  favoriteSet[item.ItemID],
			Fulfillment: s.deriveFulfillment(ctx, item),
		})
	}
	return views, nil
}

func (s *Service) UpdateItem(ctx context.Context, actor Actor, itemID uuid.UUID, in UpdateItemInput) (domain.Item, error) {
	if !actor.Authenticated() {
		return domain.Item{}, domain.ErrUnauthorized
	}
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return domain.Item{}, err
	}
	if item.SellerID != actor.UserID {
		return domain.Item{}, domain.ErrForbidden
	}
	params := ports.UpdateItemParams{ItemID: itemID, AgeYears: in.AgeYears, Returnable: in.Returnable, Images: in.Images, UpdatedAt: s.nowFn()}
	if in.Title != nil {
		if err := domain.ValidateItemTitle(*in.Title); err != nil {
			return domain.Item{}, err
		}
		trimmed := strings.TrimSpace(*in.Title)
		params.Title = &trimmed
	}
	if in.Description != nil {
		if err := domain.ValidateItemDescription(*in.Description); err != nil {
			return domain.Item{}, err
		}
		params.Description = in.Description
	}
	if in.Category != nil {
		params.Category = in.Category
	}
	if in.Subcategory != nil {
		params.Subcategory = in.Subcategory
	}
	if in.Brand != nil {
		params.Brand = in.Brand
	}
	if in.Condition != nil {
		condition := domain.NormalizeCondition(*in.Condition)
		if condition == "" {
			return domain.Item{}, domain.ErrInvalidInput
		}
		params.Condition = &condition
	}
	if in.AgeYears != nil && *in.AgeYears < 0 {
		return domain.Item{}, domain.ErrInvalidInput
	}
	return s.items.Update(ctx, params)
}

func (s *Service) RemoveItem(ctx context.Context, actor Actor, itemID uuid.UUID) error {
	if !actor.Authenticated() {
		return domain.ErrUnauthorized
	}
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item.SellerID != actor.UserID && !actor.HasRole(domain.RoleProductManager) {
		return domain.ErrForbidden
	}
	if item.ReservedByOrderID != nil {
		return domain.ErrConflict
	}
	return s.items.Delete(ctx, itemID)
}

func (s *Service) MarkOutOfStock(ctx context.Context, actor Actor, itemID uuid.UUID) error {
	if !actor.Authenticated() {
		return domain.ErrUnauthorized
	}
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item.SellerID != actor.UserID && !actor.HasRole(domain.RoleProductManager) {
		return domain.ErrForbidden
	}
	if item.ReservedByOrderID != nil {
		return domain.ErrConflict
	}
	return s.items.SetStock(ctx, itemID, false, s.nowFn())
}

// deriveFulfillment resolves the display status of a reserved item from its
// owning order. The order is the authority; the item stores no fulfillment
// state of its own.
func (s *Service) deriveFulfillment(ctx context.Context, item domain.Item) domain.OrderStatus {
	if item.ReservedByOrderID == nil {
		return ""
	}
	order, err := s.orders.GetByID(ctx, *item.ReservedByOrderID)
	if err != nil {
		return ""
	}
	return order.Status
}
