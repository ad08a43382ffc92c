package notification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"coffeexport/internal/domain/entity"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, message *messaging.Message) (string, error) {
	args := m.Called(ctx, message)

	return args.String(0), args.Error(1)
}

func criticalEntry() *entity.AuditLog {
	exportID := uuid.New()

	return &entity.AuditLog{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		ActorRole:   entity.RoleExporter,
		EntityType:  entity.AuditEntityExport,
		EntityID:    exportID.String(),
		ExportID:    &exportID,
		Action:      entity.AuditActionUnauthorizedAccess,
		Severity:    entity.SeverityCritical,
		Description: "export belongs to another exporter",
		CreatedAt:   time.Now().UTC(),
	}
}

func TestAlertMessage(t *testing.T) {
	entry := criticalEntry()

	msg := alertMessage("compliance", entry)

	assert.Equal(t, "compliance", msg.Topic)
	assert.Equal(t, "CRITICAL: UNAUTHORIZED_ACCESS", msg.Notification.Title)
	assert.Equal(t, entry.Description, msg.Notification.Body)
	assert.Equal(t, entry.ExportID.String(), msg.Data["export_id"])
	assert.Equal(t, "EXPORTER", msg.Data["actor_role"])
	assert.Equal(t, "high", msg.Android.Priority)
}

func TestFirebaseAlertNotifier_NotifyCritical(t *testing.T) {
	sender := new(mockSender)
	notifier := &firebaseAlertNotifier{
		client: sender,
		topic:  defaultAlertTopic,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	entry := criticalEntry()

	sender.On("Send", mock.Anything, mock.MatchedBy(func(m *messaging.Message) bool {
		return m.Topic == defaultAlertTopic && m.Data["audit_id"] == entry.ID.String()
	})).Return("projects/p/messages/1", nil).Once()

	require.NoError(t, notifier.NotifyCritical(context.Background(), entry))
	sender.AssertExpectations(t)
}

func TestFirebaseAlertNotifier_SendFailure(t *testing.T) {
	sender := new(mockSender)
	notifier := &firebaseAlertNotifier{
		client: sender,
		topic:  defaultAlertTopic,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	sender.On("Send", mock.Anything, mock.Anything).Return("", errors.New("unavailable")).Once()

	err := notifier.NotifyCritical(context.Background(), criticalEntry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send critical alert")
}
