package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ProfileCompletedPayload é publicado quando um cliente termina o fluxo.
type ProfileCompletedPayload struct {
	EventID           string    `json:"event_id"`
	CustomerID        int64     `json:"customer_id"`
	PhoneNumber       string    `json:"phone_number"`
	Name              string    `json:"name"`
	DateOfBirth       string    `json:"date_of_birth"`       // YYYY-MM-DD
	DateOfAnniversary string    `json:"date_of_anniversary"` // YYYY-MM-DD
	Variant           string    `json:"variant"`             // reactive | campaign
	OccurredAt        time.Time `json:"occurred_at"`
}

// publisher é o subconjunto de *amqp.Channel usado pelo Producer.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch publisher
}

func NewProducer(ch publisher) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishProfileCompleted(ctx context.Context, payload ProfileCompletedPayload) error {
	if payload.EventID == "" {
		payload.EventID = uuid.New().String()
	}
	if payload.OccurredAt.IsZero() {
		payload.OccurredAt = time.Now().UTC()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    payload.EventID,
			Timestamp:    payload.OccurredAt,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}

	return nil
}
