package notification

import "context"

// Service is a fire-and-forget side channel. Queue never blocks the caller
// and never surfaces a failure: a full queue or a storage error is logged,
// not propagated, because attendance recording must never be held up by a
// notification.
type Service interface {
	// QueueNotification enqueues a notification for asynchronous delivery.
	QueueNotification(ctx context.Context, req CreateNotificationRequest) error

	// Stop flushes pending notifications and stops the background workers.
	Stop()
}
