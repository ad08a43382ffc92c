package pubsub

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"

	"coffeexport/internal/domain/service"
)

// rabbitMQPublisher implements EventPublisher on a durable RabbitMQ queue
type rabbitMQPublisher struct {
	conn   *amqp.Connection
	mu     sync.Mutex // amqp channels are not safe for concurrent publishing
	chn    *amqp.Channel
	queue  string
	logger *slog.Logger
}

// NewRabbitMQPublisher dials the broker and declares the durable event queue
func NewRabbitMQPublisher(url, queue string, logger *slog.Logger) (service.EventPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "dial rabbitmq")
	}

	chn, err := conn.Channel()
	if err != nil {
		conn.Close()

		return nil, errors.Wrap(err, "open rabbitmq channel")
	}

	if _, err := chn.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		chn.Close()
		conn.Close()

		return nil, errors.Wrapf(err, "declare queue %s", queue)
	}

	return &rabbitMQPublisher{
		conn:   conn,
		chn:    chn,
		queue:  queue,
		logger: logger,
	}, nil
}

func (p *rabbitMQPublisher) PublishExportEvent(ctx context.Context, event *service.ExportEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errors.WithStack(err)
	}

	headers := amqp.Table{}
	for key, val := range eventAttributes(event) {
		headers[key] = val
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.chn.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		MessageId:     uuid.NewString(),
		CorrelationId: event.RequestID,
		Timestamp:     event.OccurredAt,
		Headers:       headers,
		Body:          body,
	})
	if err != nil {
		return errors.Wrap(err, "rabbitmq publish")
	}

	p.logger.Debug("[RabbitMQ] Export event published",
		slog.String("export_id", event.ExportID),
		slog.String("action", event.Action),
	)

	return nil
}

func (p *rabbitMQPublisher) Close() error {
	if err := p.chn.Close(); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(p.conn.Close())
}
