// Package notification delivers out-of-band alerts for CRITICAL audit entries.
package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/option"

	"coffeexport/config"
	"coffeexport/internal/domain/entity"
	"coffeexport/internal/domain/service"
)

const defaultAlertTopic = "compliance-critical"

// messageSender is the subset of the FCM client the notifier uses.
type messageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// firebaseAlertNotifier pushes CRITICAL entries to an FCM topic the compliance
// officers' devices subscribe to
type firebaseAlertNotifier struct {
	client messageSender
	topic  string
	logger *slog.Logger
}

// NewFirebaseAlertNotifier creates a notifier from a service account credentials file
func NewFirebaseAlertNotifier(ctx context.Context, cfg *config.AlertsConfig, logger *slog.Logger) (service.AlertNotifier, error) {
	var firebaseConfig *firebase.Config
	if cfg.ProjectID != "" {
		firebaseConfig = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, firebaseConfig, option.WithCredentialsFile(cfg.CredentialsPath))
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize Firebase app")
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get messaging client")
	}

	topic := cfg.Topic
	if topic == "" {
		topic = defaultAlertTopic
	}

	return &firebaseAlertNotifier{client: client, topic: topic, logger: logger}, nil
}

// alertMessage builds the topic message for an entry. Data values must be strings.
func alertMessage(topic string, entry *entity.AuditLog) *messaging.Message {
	data := map[string]string{
		"audit_id":    entry.ID.String(),
		"action":      string(entry.Action),
		"severity":    string(entry.Severity),
		"entity_type": string(entry.EntityType),
		"entity_id":   entry.EntityID,
		"user_id":     entry.UserID.String(),
		"actor_role":  string(entry.ActorRole),
		"created_at":  entry.CreatedAt.UTC().Format(time.RFC3339),
	}
	if entry.ExportID != nil {
		data["export_id"] = entry.ExportID.String()
	}

	body := entry.Description
	if body == "" {
		body = fmt.Sprintf("%s on %s %s", entry.Action, entry.EntityType, entry.EntityID)
	}

	return &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title: fmt.Sprintf("CRITICAL: %s", entry.Action),
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}
}

func (n *firebaseAlertNotifier) NotifyCritical(ctx context.Context, entry *entity.AuditLog) error {
	messageID, err := n.client.Send(ctx, alertMessage(n.topic, entry))
	if err != nil {
		return errors.Wrap(err, "failed to send critical alert")
	}

	n.logger.Info("Critical audit alert sent",
		slog.String("auditID", entry.ID.String()),
		slog.String("messageID", messageID),
	)

	return nil
}

// logAlertNotifier writes alerts to the error log when no push channel is configured.
type logAlertNotifier struct {
	logger *slog.Logger
}

// NewLogAlertNotifier returns a notifier that only logs.
func NewLogAlertNotifier(logger *slog.Logger) service.AlertNotifier {
	return &logAlertNotifier{logger: logger}
}

func (n *logAlertNotifier) NotifyCritical(_ context.Context, entry *entity.AuditLog) error {
	n.logger.Error("CRITICAL audit event",
		slog.String("auditID", entry.ID.String()),
		slog.String("action", string(entry.Action)),
		slog.String("entityType", string(entry.EntityType)),
		slog.String("entityID", entry.EntityID),
		slog.String("userID", entry.UserID.String()),
		slog.String("actorRole", string(entry.ActorRole)),
		slog.String("description", entry.Description),
	)

	return nil
}

// AlertParams holds dependencies for AlertNotifier, injected by Fx
type AlertParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewAlertNotifier uses Firebase when credentials are configured and the log otherwise.
func NewAlertNotifier(params AlertParams) (service.AlertNotifier, error) {
	cfg := params.Config.Alerts
	if cfg == nil || cfg.CredentialsPath == "" {
		params.Logger.Info("Alert push not configured, critical alerts go to the log")

		return NewLogAlertNotifier(params.Logger), nil
	}

	return NewFirebaseAlertNotifier(params.Ctx, cfg, params.Logger)
}

// Module provides the alert notifier FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewAlertNotifier),
)
