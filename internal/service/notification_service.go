package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/user-service/internal/config"
	"github.com/spec-kit/user-service/internal/events"
)

// NotificationService sends the welcome notification after registration.
// Delivery is fire-and-forget: a failure is logged and swallowed so it can
// never fail the registration that triggered it.
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
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
}

func (n *NotificationService) handleUserRegistered(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.UserRegisteredPayload)
	if !ok {
		n.logger.Warn("unexpected payload for user_registered event", zap.String("event_id", event.ID))
		return nil
	}

	n.logger.Info("UserRegistered",
		zap.Int64("user_id", payload.UserID),
		zap.String("username", payload.Username))
	n.sendWelcomeEmail(ctx, payload)
	return nil
}

// SendWelcome delivers the welcome message directly, outside the dispatcher.
func (n *NotificationService) SendWelcome(ctx context.Context, email, username string) {
	n.sendWelcomeEmail(ctx, events.UserRegisteredPayload{Username: username, Email: email})
}

func (n *NotificationService) sendWelcomeEmail(ctx context.Context, payload events.UserRegisteredPayload) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		n.logger.Debug("welcome email skipped: no sender configured",
			zap.String("username", payload.Username))
		return
	}
	// Delivery stub: the transactional email provider lives outside this
	// service. Failures here must stay here.
	n.logger.Info("welcome email sent",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", payload.Email),
		zap.String("username", payload.Username))
}
