package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/susold/marketplace-core/internal/domain"
	"gorm.io/gorm"
)

type feedbackRepository struct {
	db *gorm.DB
}

func (r *feedbackRepository) Create(ctx context.Context, fb domain.Feedback) error {
	rec := feedbackModel{
		FeedbackID: fb.FeedbackID, SenderID: fb.SenderID, ReceiverID: fb.ReceiverID,
		ItemID: fb.ItemID, OrderID: fb.OrderID, Rating: fb.Rating, Comment: fb.Comment,
		Approved: fb.Approved, CreatedAt: fb.CreatedAt,
	}
	err := r.db.WithContext(ctx).Create(&rec).Error
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}
	return err
}

func (r *feedbackRepository) GetByID(ctx context.Context, feedbackID uuid.UUID) (domain.Feedback, error) {
	var rec feedbackModel
	if err := r.db.WithContext(ctx).Where("feedback_id = ?", feedbackID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Feedback{}, domain.ErrNotFound
		}
		return domain.Feedback{}, err
	}
	return toDomainFeedback(rec), nil
}

func (r *feedbackRepository) ListByReceiver(ctx context.Context, receiverID uuid.UUID) ([]domain.Feedback, error) {
	var rows []feedbackModel
	if err := r.db.WithContext(ctx).Where("receiver_id = ?", receiverID).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Feedback, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainFeedback(row))
	}
	return out, nil
}

func (r *feedbackRepository) ListUnapproved(ctx context.Context, limit int) ([]domain.Feedback, error) {
	var rows []feedbackModel
	q := r.db.WithContext(ctx).Where("approved = FALSE").Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Feedback, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainFeedback(row))
	}
	return out, nil
}

func (r *feedbackRepository) SetApproved(ctx context.Context, feedbackID uuid.UUID) (domain.Feedback, error) {
	res := r.db.WithContext(ctx).Model(&feedbackModel{}).Where("feedback_id = ?", feedbackID).Update("approved", true)
	if res.Error != nil {
		return domain.Feedback{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Feedback{}, domain.ErrNotFound
	}
	return r.GetByID(ctx, feedbackID)
}

func (r *feedbackRepository) Delete(ctx context.Context, feedbackID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("feedback_id = ?", feedbackID).Delete(&feedbackModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
