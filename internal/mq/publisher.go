package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/stemd/internal/domain"
)

// MessageType — тип сообщения на шине.
type MessageType string

// Типы сообщений.
const (
	MessageTypeJobSubmit    MessageType = "job.submit"
	MessageTypeJobCompleted MessageType = "job.completed"
)

// Message — конверт сообщения.
type Message struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — тип сообщения.
	Type MessageType `json:"type"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// JobSubmitPayload — заявка на обработку, пришедшая через очередь.
type JobSubmitPayload struct {
	SourceAddress      string `json:"source_address"`
	DestinationAddress string `json:"destination_address"`
}

// JobCompletedPayload — событие терминального состояния задачи.
type JobCompletedPayload struct {
	JobID              string `json:"job_id"`
	SourceAddress      string `json:"source_address"`
	DestinationAddress string `json:"destination_address"`
	Status             string `json:"status"` // SUCCEEDED или FAILED
	Error              string `json:"error,omitempty"`
}

// Publisher публикует сообщения в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Publish публикует сообщение в обменник с ключом маршрутизации.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(exchange),
			string(routingKey),
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent, // событие переживёт рестарт RabbitMQ
				MessageId:    msg.ID,
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
		}

		p.logger.Debug("published message",
			"exchange", exchange,
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)

		return nil
	})
}

// PublishJobCompleted публикует событие завершения задачи.
// Статус выводится из ошибки: nil — SUCCEEDED, иначе FAILED с текстом.
func (p *Publisher) PublishJobCompleted(ctx context.Context, jobID string, req domain.Request, jobErr error) error {
	payload := JobCompletedPayload{
		JobID:              jobID,
		SourceAddress:      req.SourceAddress,
		DestinationAddress: req.DestinationAddress,
		Status:             "SUCCEEDED",
	}
	if jobErr != nil {
		payload.Status = "FAILED"
		payload.Error = jobErr.Error()
	}

	msg := &Message{
		ID:        uuid.NewString(),
		Type:      MessageTypeJobCompleted,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, ExchangeJobs, RoutingKeyCompleted, msg)
}
