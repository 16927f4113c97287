package ports

import (
	"context"

	"github.com/google/uuid"
)

// SetStore holds a per-user set of item ids. Basket and favorites are both
// instances of it; add/remove are idempotent set operations.
type SetStore interface {
	Add(ctx context.Context, userID uuid.UUID, itemIDs ...uuid.UUID) error
	Remove(ctx context.Context, userID uuid.UUID, itemIDs ...uuid.UUID) error
	Contains(ctx context.Context, userID, itemID uuid.UUID) (bool, error)
	Members(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type BasketStore interface {
	SetStore
}

type FavoritesStore interface {
	SetStore
}
