package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/notes-service/internal/config"
	"github.com/spec-kit/notes-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventNoteCreated, n.handleNoteCreated)
	n.dispatcher.Subscribe(events.EventNoteUpdated, n.handleNoteUpdated)
	n.dispatcher.Subscribe(events.EventNoteDeleted, n.handleNoteDeleted)
}

func (n *NotificationService) handleNoteCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("NoteCreated", zap.String("note_id", event.NoteID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleNoteUpdated(ctx context.Context, event events.Event) error {
	n.logger.Info("NoteUpdated", zap.String("note_id", event.NoteID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleNoteDeleted(ctx context.Context, event events.Event) error {
	n.logger.Info("NoteDeleted", zap.String("note_id", event.NoteID))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("note_id", event.NoteID),
		zap.String("event_type", string(event.Type)))
}
