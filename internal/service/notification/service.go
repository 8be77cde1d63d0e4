// Package notification delivers attendance events to employees off the hot
// path. Requests are queued, batched by background workers, and flushed to
// storage; a delivery failure is logged and never reaches the caller.
package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/notification"
)

const flushTimeout = 30 * time.Second

type Config struct {
	BatchSize     int
	FlushInterval time.Duration
	WorkerCount   int
	QueueSize     int
}

func (c Config) withDefaults() Config {
	if c.BatchSize == 0 {
		c.BatchSize = 100
	}
	if c.FlushInterval == 0 {
		c.FlushInterval = 5 * time.Second
	}
	if c.WorkerCount == 0 {
		c.WorkerCount = 2
	}
	if c.QueueSize == 0 {
		c.QueueSize = 1000
	}
	return c
}

type service struct {
	repo   notification.NotificationRepository
	config Config

	queue  chan notification.CreateNotificationRequest
	wg     sync.WaitGroup
	stopCh chan struct{}
}

// NewNotificationService starts the background workers and returns the
// queue-facing service.
func NewNotificationService(repo notification.NotificationRepository, cfg Config) notification.Service {
	cfg = cfg.withDefaults()

	s := &service{
		repo:   repo,
		config: cfg,
		queue:  make(chan notification.CreateNotificationRequest, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("notification service started",
		"workers", cfg.WorkerCount, "batch_size", cfg.BatchSize, "flush_interval", cfg.FlushInterval)

	return s
}

func (s *service) worker(id int) {
	defer s.wg.Done()

	batch := make([]notification.CreateNotificationRequest, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case req := <-s.queue:
			batch = append(batch, req)
			if len(batch) >= s.config.BatchSize {
				batch = s.flush(id, batch)
			}
		case <-ticker.C:
			batch = s.flush(id, batch)
		case <-s.stopCh:
			// Drain whatever is still queued before the final flush.
			for {
				select {
				case req := <-s.queue:
					batch = append(batch, req)
				default:
					s.flush(id, batch)
					return
				}
			}
		}
	}
}

// flush writes the batch and returns the reusable empty slice. Failures are
// logged; the batch is discarded either way so a poison message cannot wedge
// the worker.
func (s *service) flush(worker int, batch []notification.CreateNotificationRequest) []notification.CreateNotificationRequest {
	if len(batch) == 0 {
		return batch
	}

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	now := time.Now()
	notifications := make([]notification.Notification, len(batch))
	for i, req := range batch {
		notifications[i] = notification.Notification{
			ID:          uuid.New().String(),
			RecipientID: req.RecipientID,
			Type:        req.Type,
			Title:       req.Title,
			Message:     req.Message,
			Data:        req.Data,
			CreatedAt:   now,
		}
	}

	if err := s.repo.CreateBatch(ctx, notifications); err != nil {
		slog.Error("failed to batch insert notifications",
			"worker", worker, "count", len(notifications), "error", err)
	}

	return batch[:0]
}

// QueueNotification implements notification.Service. A full queue drops the
// notification with a log line rather than blocking the attendance operation
// that triggered it.
func (s *service) QueueNotification(_ context.Context, req notification.CreateNotificationRequest) error {
	select {
	case s.queue <- req:
	default:
		slog.Warn("notification queue full, dropping",
			"recipient_id", req.RecipientID, "type", req.Type)
	}
	return nil
}

// Stop implements notification.Service.
func (s *service) Stop() {
	close(s.stopCh)
	s.wg.Wait()
	slog.Info("notification service stopped")
}
