package memory

import (
	"context"
	"sync"

	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/notification"
)

type NotificationRepository struct {
	mu    sync.RWMutex
	items []notification.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) CreateBatch(_ context.Context, notifications []notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, notifications...)
	return nil
}

func (r *NotificationRepository) ListByRecipient(_ context.Context, recipientID string, limit int) ([]notification.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []notification.Notification
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].RecipientID == recipientID {
			out = append(out, r.items[i])
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}
