package notification

import "context"

// NotificationRepository persists delivered notifications.
type NotificationRepository interface {
	// CreateBatch inserts a batch of notifications.
	CreateBatch(ctx context.Context, notifications []Notification) error

	// ListByRecipient retrieves a recipient's notifications, newest first.
	ListByRecipient(ctx context.Context, recipientID string, limit int) ([]Notification, error)
}
