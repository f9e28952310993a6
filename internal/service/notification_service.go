package service

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/events"
)

// NotificationServiceDeps bundles the collaborators of NotificationService.
type NotificationServiceDeps struct {
	Redis  *redis.Client
	Logger *zap.Logger
	Config config.NotificationConfig
}

// NotificationService relays domain events onto the Redis notification
// channel, where the worker picks them up for delivery. Relay failures are
// logged and swallowed; notifications never fail the triggering request.
type NotificationService struct {
	redis   *redis.Client
	logger  *zap.Logger
	channel string
}

// NewNotificationService wires the service.
func NewNotificationService(deps NotificationServiceDeps) *NotificationService {
	return &NotificationService{
		redis:   deps.Redis,
		logger:  deps.Logger,
		channel: deps.Config.RedisChannel,
	}
}

// RegisterHandlers subscribes the relay to every event type worth notifying
// about.
func (s *NotificationService) RegisterHandlers(dispatcher *events.Dispatcher) {
	for _, eventType := range []string{
		events.EventTicketCreated,
		events.EventTicketAssigned,
		events.EventTicketStatusChanged,
		events.EventCommentPosted,
		events.EventUserRightsChanged,
	} {
		dispatcher.Subscribe(eventType, s.relay)
	}
}

func (s *NotificationService) relay(ctx context.Context, event events.Event) {
	s.logger.Info("notification queued",
		zap.String("event_id", event.ID),
		zap.String("event_type", event.Type),
		zap.String("actor", event.Actor))

	if s.redis == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("notification encode failed", zap.Error(err))
		return
	}
	if err := s.redis.Publish(ctx, s.channel, data).Err(); err != nil {
		s.logger.Warn("notification publish failed",
			zap.String("channel", s.channel),
			zap.Error(err))
	}
}
