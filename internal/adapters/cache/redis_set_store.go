package cache

import (
	"context"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisSetStore keeps one Redis set of item ids per user under
// <prefix>:<user_id>. Basket and favorites are two instances with different
// prefixes; SADD/SREM make add and remove naturally idempotent.
type RedisSetStore struct {
	client *redis.Client
	prefix string
}

func NewRedisBasketStore(client *redis.Client) *RedisSetStore {
	return &RedisSetStore{client: client, prefix: "basket"}
}

func NewRedisFavoritesStore(client *redis.Client) *RedisSetStore {
	return &RedisSetStore{client: client, prefix: "favorites"}
}

func (s *RedisSetStore) key(userID uuid.UUID) string {
	return s.prefix + ":" + userID.String()
}

func (s *RedisSetStore) Add(ctx context.Context, userID uuid.UUID, itemIDs ...uuid.UUID) error {
	if len(itemIDs) == 0 {
		return nil
	}
	members := make([]any, 0, len(itemIDs))
	for _, id := range itemIDs {
		members = append(members, id.String())
	}
	return s.client.SAdd(ctx, s.key(userID), members...).Err()
}

func (s *RedisSetStore) Remove(ctx context.Context, userID uuid.UUID, itemIDs ...uuid.UUID) error {
	if len(itemIDs) == 0 {
		return nil
	}
	members := make([]any, 0, len(itemIDs))
	for _, id := range itemIDs {
		members = append(members, id.String())
	}
	return s.client.SRem(ctx, s.key(userID), members...).Err()
}

func (s *RedisSetStore) Contains(ctx context.Context, userID, itemID uuid.UUID) (bool, error) {
	return s.client.SIsMember(ctx, s.key(userID), itemID.String()).Result()
}

func (s *RedisSetStore) Members(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	raw, err := s.client.SMembers(ctx, s.key(userID)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]uuid.UUID, 0, len(raw))
	for _, member := range raw {
		id, parseErr := uuid.Parse(member)
		if parseErr != nil {
			continue
		}
		out = append(out, id)
	}
	return out, nil
}
