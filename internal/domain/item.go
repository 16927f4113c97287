package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Condition string

const (
	ConditionNew      Condition = "new"
	ConditionLikeNew  Condition = "like_new"
	ConditionVeryGood Condition = "very_good"
	ConditionGood     Condition = "good"
	ConditionFair     Condition = "fair"
	ConditionPoor     Condition = "poor"
)

// NormalizeCondition maps raw client input to a known condition value,
// returning "" for anything unrecognized.
func NormalizeCondition(raw string) Condition {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "new":
		return ConditionNew
	case "like_new", "likenew":
		return ConditionLikeNew
	case "very_good", "verygood":
		return ConditionVeryGood
	case "good":
		return ConditionGood
	case "fair":
		return ConditionFair
	case "poor":
		return ConditionPoor
	default:
		return ""
	}
}

type Item struct {
	ItemID      uuid.UUID
	SellerID    uuid.UUID
	Title       string
	Description string
	Category    string
	Subcategory string
	Brand       string
	Condition   Condition
	AgeYears    int

	// Price is nil until a sales manager assigns it; an unpriced item is
	// visible but cannot be basketed for checkout or purchased.
	Price           *float64
	DiscountRate    *float64
	DiscountedPrice *float64

	InStock    bool
	Verified   bool
	Returnable bool
	Images     []string

	// ReservedByOrderID is set when checkout reserves the item. Fulfillment
	// status is owned by that order; any per-item display status is derived
	// from it at read time.
	ReservedByOrderID *uuid.UUID

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectivePrice returns the discounted price when a discount is active and
// actually lower than the base price, else the base price. Items without a
// price have no effective price.
func EffectivePrice(item Item) (float64, error) {
	if item.Price == nil {
		return 0, ErrUnpriced
	}
	if item.DiscountedPrice != nil && *item.DiscountedPrice < *item.Price {
		return *item.DiscountedPrice, nil
	}
	return *item.Price, nil
}

// AvailableNow reports whether the item is on the shelf: in stock and not
// reserved by an order. Availability is never stored; it follows from the
// stock flag and the reservation.
func (i Item) AvailableNow() bool {
	return i.InStock && i.ReservedByOrderID == nil
}

// Purchasable reports whether the item can enter a checkout right now.
func (i Item) Purchasable() bool {
	return i.Price != nil && i.AvailableNow()
}

func ValidatePrice(price float64) error {
	if price <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrInvalidInput)
	}
	return nil
}

func ValidateDiscountRate(rate float64) error {
	if rate <= 0 || rate >= 1 {
		return fmt.Errorf("%w: discount rate must be in (0,1)", ErrInvalidInput)
	}
	return nil
}

func ValidateItemTitle(title string) error {
	trimmed := strings.TrimSpace(title)
	if len(trimmed) < 2 || len(trimmed) > 120 {
		return fmt.Errorf("%w: title must be 2-120 chars", ErrInvalidInput)
	}
	return nil
}

func ValidateItemDescription(description string) error {
	if len(description) > 2000 {
		return fmt.Errorf("%w: description must be <= 2000 chars", ErrInvalidInput)
	}
	return nil
}
