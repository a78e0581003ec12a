package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/fieldops-service/internal/config"
	"github.com/spec-kit/fieldops-service/internal/events"
)

// NotificationService fans domain events out to hub subscribers over Redis
// pub/sub. Delivery is at-most-once and fire-and-forget: a failed publish is
// logged and swallowed, never retried, and never rolls back the mutation that
// produced it.
type NotificationService struct {
	dispatcher events.Dispatcher
	client     *redis.Client
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, client *redis.Client, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		client:     client,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to every event type that reaches subscribers.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventWorkOrderCreated,
		events.EventWorkOrderStatusChanged,
		events.EventWorkOrderAssigned,
		events.EventFileVisibilityChanged,
		events.EventHubMessagePosted,
		events.EventContactGrantAdded,
		events.EventContactGrantRemoved,
		events.EventChecklistItemToggled,
	} {
		n.dispatcher.Subscribe(eventType, n.handleEvent)
	}
}

func (n *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	n.logger.Info("domain event",
		zap.String("type", string(event.Type)),
		zap.String("work_order_id", event.WorkOrderID))

	if n.client == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Warn("marshal event", zap.Error(err))
		return nil
	}
	channel := fmt.Sprintf("%s:%s", n.cfg.ChannelPrefix, event.WorkOrderID)
	if err := n.client.Publish(ctx, channel, payload).Err(); err != nil {
		n.logger.Warn("notification publish failed",
			zap.String("channel", channel),
			zap.Error(err))
	}
	return nil
}
