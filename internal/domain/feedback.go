package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Feedback struct {
	FeedbackID uuid.UUID
	SenderID   uuid.UUID
	ReceiverID uuid.UUID
	ItemID     uuid.UUID
	OrderID    uuid.UUID

	Rating  *int
	Comment string

	Approved  bool
	CreatedAt time.Time
}

// ValidateFeedbackInput requires at least one of rating/comment and a rating
// in 1-5 when present.
func ValidateFeedbackInput(rating *int, comment string) error {
	trimmed := strings.TrimSpace(comment)
	if rating == nil && trimmed == "" {
		return fmt.Errorf("%w: at least one of rating or comment is required", ErrInvalidInput)
	}
	if rating != nil && (*rating < 1 || *rating > 5) {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}
	if len(trimmed) > 1000 {
		return fmt.Errorf("%w: comment must be <= 1000 chars", ErrInvalidInput)
	}
	return nil
}

// SellerRating aggregates approved ratings for a seller profile.
type SellerRating struct {
	Average float64
	Count   int
}

// AggregateSellerRating averages the ratings of approved feedback entries.
// Comment-only feedback does not affect the average.
func AggregateSellerRating(entries []Feedback) SellerRating {
	sum, count := 0, 0
	for _, fb := range entries {
		if !fb.Approved || fb.Rating == nil {
			continue
		}
		sum += *fb.Rating
		count++
	}
	if count == 0 {
		return SellerRating{}
	}
	return SellerRating{Average: float64(sum) / float64(count), Count: count}
}
