package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/susold/marketplace-core/internal/domain"
	"github.com/susold/marketplace-core/internal/ports"
	"gorm.io/gorm"
)

type itemRepository struct {
	db *gorm.DB
}

func (r *itemRepository) Create(ctx context.Context, item domain.Item) error {
	rec := itemModel{
		ItemID: item.ItemID, SellerID: item.SellerID, Title: item.Title, Description: item.Description,
		Category: item.Category, Subcategory: item.Subcategory, Brand: item.Brand,
		Condition: string(item.Condition), AgeYears: item.AgeYears,
		Price: item.Price, DiscountRate: item.DiscountRate, DiscountedPrice: item.DiscountedPrice,
		InStock: item.InStock, Verified: item.Verified,
		Returnable: item.Returnable, Images: encodeStrings(item.Images),
		ReservedByOrderID: item.ReservedByOrderID,
		CreatedAt:         item.CreatedAt, UpdatedAt: item.UpdatedAt,
	}
	err := r.db.WithContext(ctx).Create(&rec).Error
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}
	return err
}

func (r *itemRepository) GetByID(ctx context.Context, itemID uuid.UUID) (domain.Item, error) {
	var rec itemModel
	if err := r.db.WithContext(ctx).Where("item_id = ?", itemID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Item{}, domain.ErrNotFound
		}
		return domain.Item{}, err
	}
	return toDomainItem(rec), nil
}

func (r *itemRepository) GetBatch(ctx context.Context, itemIDs []uuid.UUID) ([]domain.Item, error) {
	if len(itemIDs) == 0 {
		return []domain.Item{}, nil
	}
	var rows []itemModel
	if err := r.db.WithContext(ctx).Where("item_id IN ?", itemIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Item, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainItem(row))
	}
	return out, nil
}

func (r *itemRepository) List(ctx context.Context, filter ports.ItemFilter) ([]domain.Item, error) {
	q := r.db.WithContext(ctx).Model(&itemModel{})
	if filter.Title != "" {
		q = q.Where("title ILIKE ?", "%"+filter.Title+"%")
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Subcategory != "" {
		q = q.Where("subcategory = ?", filter.Subcategory)
	}
	if filter.Brand != "" {
		q = q.Where("brand = ?", filter.Brand)
	}
	if filter.Condition != "" {
		q = q.Where("condition = ?", string(filter.Condition))
	}
	if filter.MinPrice != nil {
		q = q.Where("COALESCE(discounted_price, price) >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("COALESCE(discounted_price, price) <= ?", *filter.MaxPrice)
	}
	if filter.Verified != nil {
		q = q.Where("verified = ?", *filter.Verified)
	}
	if filter.InStock != nil {
		q = q.Where("in_stock = ?", *filter.InStock)
	}
	if filter.Returnable != nil {
		q = q.Where("returnable = ?", *filter.Returnable)
	}
	if filter.SellerID != nil {
		q = q.Where("seller_id = ?", *filter.SellerID)
	}
	switch strings.ToLower(filter.SortBy) {
	case "price_asc":
		q = q.Order("COALESCE(discounted_price, price) ASC NULLS LAST")
	case "price_desc":
		q = q.Order("COALESCE(discounted_price, price) DESC NULLS LAST")
	default:
		q = q.Order("created_at DESC")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	var rows []itemModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Item, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainItem(row))
	}
	return out, nil
}

func (r *itemRepository) ListUnpriced(ctx context.Context, limit int) ([]domain.Item, error) {
	var rows []itemModel
	q := r.db.WithContext(ctx).Where("price IS NULL AND in_stock = TRUE").Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Item, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainItem(row))
	}
	return out, nil
}

func (r *itemRepository) Update(ctx context.Context, params ports.UpdateItemParams) (domain.Item, error) {
	updates := map[string]any{"updated_at": params.UpdatedAt}
	if params.Title != nil {
		updates["title"] = *params.Title
	}
	if params.Description != nil {
		updates["description"] = *params.Description
	}
	if params.Category != nil {
		updates["category"] = *params.Category
	}
	if params.Subcategory != nil {
		updates["subcategory"] = *params.Subcategory
	}
	if params.Brand != nil {
		updates["brand"] = *params.Brand
	}
	if params.Condition != nil {
		updates["condition"] = string(*params.Condition)
	}
	if params.AgeYears != nil {
		updates["age_years"] = *params.AgeYears
	}
	if params.Returnable != nil {
		updates["returnable"] = *params.Returnable
	}
	if params.Images != nil {
		updates["images"] = encodeStrings(params.Images)
	}
	res := r.db.WithContext(ctx).Model(&itemModel{}).Where("item_id = ?", params.ItemID).Updates(updates)
	if res.Error != nil {
		return domain.Item{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Item{}, domain.ErrNotFound
	}
	return r.GetByID(ctx, params.ItemID)
}

func (r *itemRepository) Delete(ctx context.Context, itemID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("item_id = ?", itemID).Delete(&itemModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *itemRepository) SetStock(ctx context.Context, itemID uuid.UUID, inStock bool, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&itemModel{}).Where("item_id = ?", itemID).
		Updates(map[string]any{"in_stock": inStock, "updated_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AssignPriceIfUnset is a conditional update keyed on price being NULL; a
// concurrent second assignment hits zero rows and maps to the conflict.
func (r *itemRepository) AssignPriceIfUnset(ctx context.Context, itemID uuid.UUID, price float64, at time.Time) (domain.Item, error) {
	res := r.db.WithContext(ctx).Model(&itemModel{}).
		Where("item_id = ? AND price IS NULL", itemID).
		Updates(map[string]any{"price": price, "updated_at": at})
	if res.Error != nil {
		return domain.Item{}, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, itemID); err != nil {
			return domain.Item{}, err
		}
		return domain.Item{}, domain.ErrConflict
	}
	return r.GetByID(ctx, itemID)
}

func (r *itemRepository) SetDiscount(ctx context.Context, itemID uuid.UUID, rate, discountedPrice float64, at time.Time) (domain.Item, error) {
	res := r.db.WithContext(ctx).Model(&itemModel{}).Where("item_id = ?", itemID).
		Updates(map[string]any{"discount_rate": rate, "discounted_price": discountedPrice, "updated_at": at})
	if res.Error != nil {
		return domain.Item{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Item{}, domain.ErrNotFound
	}
	return r.GetByID(ctx, itemID)
}

// Reserve flips the item out of stock and binds it to the order in one
// conditional update. Of any number of concurrent checkouts for the same
// item, exactly one affects a row; the rest see out-of-stock.
func (r *itemRepository) Reserve(ctx context.Context, itemID, orderID uuid.UUID, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&itemModel{}).
		Where("item_id = ? AND in_stock = TRUE AND reserved_by_order_id IS NULL", itemID).
		Updates(map[string]any{"in_stock": false, "reserved_by_order_id": orderID, "updated_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, itemID); err != nil {
			return err
		}
		return domain.ErrOutOfStock
	}
	return nil
}

func (r *itemRepository) Release(ctx context.Context, itemID uuid.UUID, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&itemModel{}).
		Where("item_id = ? AND reserved_by_order_id IS NOT NULL", itemID).
		Updates(map[string]any{"in_stock": true, "reserved_by_order_id": nil, "updated_at": at})
	if res.Error != nil {
		return res.Error
	}
	return nil
}
