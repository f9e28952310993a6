package worker

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/events"
)

// NotificationWorker drains the Redis notification channel and delivers each
// event. Delivery is currently a structured log line carrying the configured
// sender address; a mail transport can slot in behind deliver.
type NotificationWorker struct {
	redis  *redis.Client
	logger *zap.Logger
	cfg    config.NotificationConfig
}

// NewNotificationWorker builds the worker.
func NewNotificationWorker(client *redis.Client, logger *zap.Logger, cfg config.NotificationConfig) *NotificationWorker {
	return &NotificationWorker{redis: client, logger: logger, cfg: cfg}
}

// Start subscribes and consumes until the context is cancelled.
func (w *NotificationWorker) Start(ctx context.Context) {
	if w.redis == nil {
		return
	}
	sub := w.redis.Subscribe(ctx, w.cfg.RedisChannel)
	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				w.deliver(msg.Payload)
			}
		}
	}()
	w.logger.Info("notification worker started", zap.String("channel", w.cfg.RedisChannel))
}

func (w *NotificationWorker) deliver(payload string) {
	var event events.Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		w.logger.Error("notification decode failed", zap.Error(err))
		return
	}
	w.logger.Info("notification delivered",
		zap.String("event_id", event.ID),
		zap.String("event_type", event.Type),
		zap.String("from", w.cfg.EmailFrom))
}
