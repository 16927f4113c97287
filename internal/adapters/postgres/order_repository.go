package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/susold/marketplace-core/internal/domain"
	"github.com/susold/marketplace-core/internal/ports"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

func (r *orderRepository) Create(ctx context.Context, params ports.CreateOrderParams) (domain.Order, error) {
	rec := orderModel{
		OrderID:         params.OrderID,
		UserID:          params.UserID,
		ItemIDs:         encodeUUIDs(params.ItemIDs),
		ShippingAddress: params.ShippingAddress,
		PaymentRef:      params.PaymentRef,
		TotalPrice:      params.TotalPrice,
		Status:          string(domain.OrderStatusProcessing),
		RefundStatus:    string(domain.RefundStatusNotSent),
		OrderedAt:       params.OrderedAt,
		UpdatedAt:       params.OrderedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.Order{}, domain.ErrConflict
		}
		return domain.Order{}, err
	}
	return toDomainOrder(rec), nil
}

func (r *orderRepository) GetByID(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	var rec orderModel
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Order{}, domain.ErrNotFound
		}
		return domain.Order{}, err
	}
	return toDomainOrder(rec), nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Order, error) {
	var rows []orderModel
	q := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("ordered_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainOrder(row))
	}
	return out, nil
}

func (r *orderRepository) ListByOrderedRange(ctx context.Context, from, to time.Time) ([]domain.Order, error) {
	var rows []orderModel
	if err := r.db.WithContext(ctx).
		Where("ordered_at >= ? AND ordered_at <= ?", from, to).
		Order("ordered_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainOrder(row))
	}
	return out, nil
}

func (r *orderRepository) ListByRefundStatus(ctx context.Context, status domain.RefundStatus, limit int) ([]domain.Order, error) {
	var rows []orderModel
	q := r.db.WithContext(ctx).Where("refund_status = ?", string(status)).Order("updated_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainOrder(row))
	}
	return out, nil
}

// UpdateStatusIf is a conditional update keyed on the current status; a
// concurrent advance that lost the race affects zero rows and maps to the
// transition error.
func (r *orderRepository) UpdateStatusIf(ctx context.Context, orderID uuid.UUID, expected, target domain.OrderStatus, at time.Time) (domain.Order, error) {
	updates := map[string]any{"status": string(target), "updated_at": at}
	if target == domain.OrderStatusDelivered {
		updates["delivered_at"] = at
	}
	res := r.db.WithContext(ctx).Model(&orderModel{}).
		Where("order_id = ? AND status = ?", orderID, string(expected)).
		Updates(updates)
	if res.Error != nil {
		return domain.Order{}, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, orderID); err != nil {
			return domain.Order{}, err
		}
		return domain.Order{}, domain.ErrInvalidTransition
	}
	return r.GetByID(ctx, orderID)
}

func (r *orderRepository) UpdateRefundStatusIf(ctx context.Context, orderID uuid.UUID, expected, target domain.RefundStatus, refundItemIDs []uuid.UUID, at time.Time) (domain.Order, error) {
	encoded := encodeUUIDs(refundItemIDs)
	res := r.db.WithContext(ctx).Model(&orderModel{}).
		Where("order_id = ? AND refund_status = ?", orderID, string(expected)).
		Updates(map[string]any{"refund_status": string(target), "refund_item_ids": encoded, "updated_at": at})
	if res.Error != nil {
		return domain.Order{}, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, orderID); err != nil {
			return domain.Order{}, err
		}
		return domain.Order{}, domain.ErrInvalidTransition
	}
	return r.GetByID(ctx, orderID)
}
