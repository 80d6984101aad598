package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ProfileNotifier recebe os eventos de perfil completo (e-mail ao operador).
type ProfileNotifier interface {
	NotifyProfileCompleted(ctx context.Context, payload ProfileCompletedPayload) error
}

// acknowledger é o subconjunto de amqp.Delivery usado pelo Worker.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

type Worker struct {
	Channel  *amqp.Channel
	Notifier ProfileNotifier
	logger   *zap.Logger
}

func NewWorker(ch *amqp.Channel, notifier ProfileNotifier, logger *zap.Logger) *Worker {
	return &Worker{
		Channel:  ch,
		Notifier: notifier,
		logger:   logger,
	}
}

// Start consome a fila até o contexto ser cancelado ou o canal fechar.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.ConsumeWithContext(ctx,
		queueName,
		"",    // consumer
		false, // auto-ack (manual)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	w.logger.Info("worker aguardando eventos", zap.String("queue", queueName))

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("canal de consumo fechado")
			}
			w.handleDelivery(ctx, d.Body, &d)
		}
	}
}

func (w *Worker) handleDelivery(ctx context.Context, body []byte, ack acknowledger) {
	var payload ProfileCompletedPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		// Mensagem podre: rejeita sem requeue para não travar a fila.
		w.logger.Error("evento com JSON inválido", zap.Error(err))
		ack.Nack(false, false)
		return
	}

	if err := w.Notifier.NotifyProfileCompleted(ctx, payload); err != nil {
		w.logger.Error("falha ao notificar perfil completo",
			zap.String("event_id", payload.EventID),
			zap.String("phone", payload.PhoneNumber),
			zap.Error(err))
		ack.Nack(false, false)
		return
	}

	w.logger.Info("perfil completo notificado",
		zap.String("event_id", payload.EventID),
		zap.Int64("customer_id", payload.CustomerID))
	ack.Ack(false)
}
