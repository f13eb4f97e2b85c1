package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/antonligaev/premium-platform/internal/lib/sl"
)

// maxInFlight ограничивает число одновременно обрабатываемых сообщений,
// согласовано с prefetch-окном канала.
const maxInFlight = 10

// Consume подписывается на очередь и обрабатывает каждое сообщение в
// отдельной горутине. Ошибка обработчика возвращает сообщение в очередь
// через Nack с requeue. Подписка живёт до отмены ctx или закрытия канала.
func Consume(ctx context.Context, ch *amqp.Channel, queueName string, log *slog.Logger, handler func([]byte) error) error {
	const op = "rabbitmq.Consume"

	deliveries, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	go dispatch(ctx, deliveries, log, handler)
	return nil
}

func dispatch(ctx context.Context, deliveries <-chan amqp.Delivery, log *slog.Logger, handler func([]byte) error) {
	sem := make(chan struct{}, maxInFlight)
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			sem <- struct{}{}
			go func(d amqp.Delivery) {
				defer func() { <-sem }()
				handleDelivery(d, log, handler)
			}(d)
		}
	}
}

func handleDelivery(d amqp.Delivery, log *slog.Logger, handler func([]byte) error) {
	if err := handler(d.Body); err != nil {
		log.Error("message handler failed, requeueing", sl.Err(err),
			slog.String("routing_key", d.RoutingKey))
		if nackErr := d.Nack(false, true); nackErr != nil {
			log.Error("failed to nack message", sl.Err(nackErr))
		}
		return
	}
	if ackErr := d.Ack(false); ackErr != nil {
		log.Error("failed to ack message", sl.Err(ackErr))
	}
}
