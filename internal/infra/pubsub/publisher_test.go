package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coffeexport/internal/domain/service"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)

	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true

	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleEvent() *service.ExportEvent {
	return &service.ExportEvent{
		RequestID:  "req-1",
		ExportID:   "8c7b3c52-3a5e-4a53-9f4e-0b9a0c0f1c11",
		ExporterID: "0f0e5e1b-7f83-4d37-9a7d-5a1a6e1b2c3d",
		Action:     "APPROVE_FX",
		OldStatus:  "QUALITY_CERTIFIED",
		NewStatus:  "FX_APPROVED",
		ActorID:    "a1b2c3d4-0000-0000-0000-000000000001",
		ActorRole:  "NATIONAL_BANK",
		OccurredAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestKafkaPublisher_KeysByExport(t *testing.T) {
	writer := &fakeWriter{}
	publisher := newKafkaPublisherWithWriter(writer, testLogger())

	event := sampleEvent()
	require.NoError(t, publisher.PublishExportEvent(context.Background(), event))
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, event.ExportID, string(msg.Key))

	var decoded service.ExportEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.NewStatus, decoded.NewStatus)

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "req-1", headers["request_id"])
	assert.Equal(t, "APPROVE_FX", headers["action"])

	require.NoError(t, publisher.Close())
	assert.True(t, writer.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	writer := &fakeWriter{err: io.ErrClosedPipe}
	publisher := newKafkaPublisherWithWriter(writer, testLogger())

	err := publisher.PublishExportEvent(context.Background(), sampleEvent())
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}

func TestLocalHTTPPublisher_PushEnvelope(t *testing.T) {
	var received PushMessage
	var requestID string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-Id")
		_ = json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, testLogger())
	require.NoError(t, publisher.PublishExportEvent(context.Background(), sampleEvent()))

	assert.Equal(t, "req-1", requestID)
	assert.Equal(t, "FX_APPROVED", received.Message.Attributes["new_status"])

	data, err := base64.StdEncoding.DecodeString(received.Message.Data)
	require.NoError(t, err)

	var decoded service.ExportEvent
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "QUALITY_CERTIFIED", decoded.OldStatus)
}

func TestLocalHTTPPublisher_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, testLogger())
	err := publisher.PublishExportEvent(context.Background(), sampleEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
