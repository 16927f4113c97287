package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func ptr(v float64) *float64 { return &v }

func TestEffectivePrice(t *testing.T) {
	t.Parallel()

	if _, err := EffectivePrice(Item{}); !errors.Is(err, ErrUnpriced) {
		t.Fatalf("expected ErrUnpriced for item without price, got %v", err)
	}

	price, err := EffectivePrice(Item{Price: ptr(100)})
	if err != nil || price != 100 {
		t.Fatalf("expected base price 100, got %v %v", price, err)
	}

	price, err = EffectivePrice(Item{Price: ptr(100), DiscountedPrice: ptr(80)})
	if err != nil || price != 80 {
		t.Fatalf("expected discounted price 80, got %v %v", price, err)
	}

	// A stale discount above the base price never wins.
	price, err = EffectivePrice(Item{Price: ptr(50), DiscountedPrice: ptr(80)})
	if err != nil || price != 50 {
		t.Fatalf("expected base price 50, got %v %v", price, err)
	}
}

func TestPurchasable(t *testing.T) {
	t.Parallel()

	item := Item{Price: ptr(10), InStock: true}
	if !item.Purchasable() {
		t.Fatalf("expected priced in-stock item to be purchasable")
	}
	if (Item{InStock: true}).Purchasable() {
		t.Fatalf("unpriced item must not be purchasable")
	}
	if (Item{Price: ptr(10)}).Purchasable() {
		t.Fatalf("out-of-stock item must not be purchasable")
	}
}

func TestAvailableNowDerivedFromReservation(t *testing.T) {
	t.Parallel()

	if !(Item{InStock: true}).AvailableNow() {
		t.Fatalf("expected unreserved in-stock item to be available")
	}
	if (Item{}).AvailableNow() {
		t.Fatalf("out-of-stock item must not be available")
	}
	orderID := uuid.New()
	reserved := Item{InStock: true, ReservedByOrderID: &orderID}
	if reserved.AvailableNow() {
		t.Fatalf("reserved item must not be available")
	}
	if reserved.Purchasable() {
		t.Fatalf("reserved item must not be purchasable")
	}
}

func TestValidatePrice(t *testing.T) {
	t.Parallel()

	if err := ValidatePrice(19.90); err != nil {
		t.Fatalf("expected valid price, got %v", err)
	}
	if err := ValidatePrice(0); err == nil {
		t.Fatalf("expected zero price to fail")
	}
	if err := ValidatePrice(-5); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestValidateDiscountRate(t *testing.T) {
	t.Parallel()

	if err := ValidateDiscountRate(0.25); err != nil {
		t.Fatalf("expected valid rate, got %v", err)
	}
	for _, rate := range []float64{0, 1, -0.1, 1.5} {
		if err := ValidateDiscountRate(rate); err == nil {
			t.Fatalf("expected rate %v to fail", rate)
		}
	}
}

func TestNormalizeCondition(t *testing.T) {
	t.Parallel()

	if got := NormalizeCondition(" LikeNew "); got != ConditionLikeNew {
		t.Fatalf("expected like_new, got %q", got)
	}
	if got := NormalizeCondition("mint"); got != "" {
		t.Fatalf("expected unknown condition to normalize to empty, got %q", got)
	}
}

func TestValidateItemTitle(t *testing.T) {
	t.Parallel()

	if err := ValidateItemTitle("Calculus Textbook"); err != nil {
		t.Fatalf("expected valid title, got %v", err)
	}
	if err := ValidateItemTitle("x"); err == nil {
		t.Fatalf("expected short title to fail")
	}
}
