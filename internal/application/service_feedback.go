package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/susold/marketplace-core/internal/domain"
)

// SubmitFeedback records buyer feedback on a delivered purchase. Eligibility
// is strict: the caller must own the order, the order must be delivered, and
// the item must be part of it. Comments start unapproved and stay hidden
// until a product manager approves them.
func (s *Service) SubmitFeedback(ctx context.Context, actor Actor, in SubmitFeedbackInput) (domain.Feedback, error) {
	if !actor.Authenticated() {
		return domain.Feedback{}, domain.ErrUnauthorized
	}
	if err := domain.ValidateFeedbackInput(in.Rating, in.Comment); err != nil {
		return domain.Feedback{}, err
	}
	order, err := s.orders.GetByID(ctx, in.OrderID)
	if err != nil {
		return domain.Feedback{}, err
	}
	if order.UserID != actor.UserID {
		return domain.Feedback{}, domain.ErrForbidden
	}
	if order.Status != domain.OrderStatusDelivered {
		return domain.Feedback{}, fmt.Errorf("%w: feedback requires a delivered order", domain.ErrNotEligible)
	}
	if !order.ContainsItem(in.ItemID) {
		return domain.Feedback{}, fmt.Errorf("%w: item %s is not part of the order", domain.ErrInvalidInput, in.ItemID)
	}
	item, err := s.items.GetByID(ctx, in.ItemID)
	if err != nil {
		return domain.Feedback{}, err
	}
	fb := domain.Feedback{
		FeedbackID: uuid.New(),
		SenderID:   actor.UserID,
		ReceiverID: item.SellerID,
		ItemID:     in.ItemID,
		OrderID:    in.OrderID,
		Rating:     in.Rating,
		Comment:    strings.TrimSpace(in.Comment),
		Approved:   false,
		CreatedAt:  s.nowFn(),
	}
	if err := s.feedback.Create(ctx, fb); err != nil {
		return domain.Feedback{}, err
	}
	_ = s.enqueueFeedbackSubmitted(ctx, fb, actor)
	return fb, nil
}

// ListSellerFeedback is the public view of a seller's feedback. Ratings are
// always visible; comments read as "no comment" until approved. The rating
// summary averages approved entries only.
func (s *Service) ListSellerFeedback(ctx context.Context, sellerID uuid.UUID) (SellerFeedbackPage, error) {
	entries, err := s.feedback.ListByReceiver(ctx, sellerID)
	if err != nil {
		return SellerFeedbackPage{}, err
	}
	page := SellerFeedbackPage{
		Entries: make([]SellerFeedbackView, 0, len(entries)),
		Rating:  domain.AggregateSellerRating(entries),
	}
	for _, fb := range entries {
		comment := "no comment"
		if fb.Approved && fb.Comment != "" {
			comment = fb.Comment
		}
		page.Entries = append(page.Entries, SellerFeedbackView{
			FeedbackID: fb.FeedbackID,
			Rating:     fb.Rating,
			Comment:    comment,
			CreatedAt:  fb.CreatedAt,
		})
	}
	return page, nil
}

// ListPendingFeedback is the product-manager moderation queue.
func (s *Service) ListPendingFeedback(ctx context.Context, actor Actor) ([]domain.Feedback, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	if !actor.HasRole(domain.RoleProductManager) {
		return nil, domain.ErrForbidden
	}
	return s.feedback.ListUnapproved(ctx, s.cfg.ListLimit)
}

// ApproveFeedback publishes the comment.
func (s *Service) ApproveFeedback(ctx context.Context, actor Actor, feedbackID uuid.UUID) (domain.Feedback, error) {
	if !actor.Authenticated() {
		return domain.Feedback{}, domain.ErrUnauthorized
	}
	if !actor.HasRole(domain.RoleProductManager) {
		return domain.Feedback{}, domain.ErrForbidden
	}
	fb, err := s.feedback.SetApproved(ctx, feedbackID)
	if err != nil {
		return domain.Feedback{}, err
	}
	_ = s.enqueueFeedbackApproved(ctx, fb, actor)
	return fb, nil
}

// RejectFeedback deletes the entry outright; rejected feedback keeps no
// tombstone and its rating no longer counts.
func (s *Service) RejectFeedback(ctx context.Context, actor Actor, feedbackID uuid.UUID) error {
	if !actor.Authenticated() {
		return domain.ErrUnauthorized
	}
	if !actor.HasRole(domain.RoleProductManager) {
		return domain.ErrForbidden
	}
	if _, err := s.feedback.GetByID(ctx, feedbackID); err != nil {
		return err
	}
	return s.feedback.Delete(ctx, feedbackID)
}
