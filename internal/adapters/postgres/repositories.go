package postgres

import (
	"github.com/susold/marketplace-core/internal/ports"
	"gorm.io/gorm"
)

type Repositories struct {
	Items       ports.ItemRepository
	Orders      ports.OrderRepository
	Feedback    ports.FeedbackRepository
	Outbox      ports.OutboxRepository
	Idempotency ports.IdempotencyRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Items:       &itemRepository{db: db},
		Orders:      &orderRepository{db: db},
		Feedback:    &feedbackRepository{db: db},
		Outbox:      &outboxRepository{db: db},
		Idempotency: &idempotencyRepository{db: db},
	}
}
