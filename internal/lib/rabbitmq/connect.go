// Package rabbitmq содержит подключение к брокеру сообщений,
// объявление очередей, публикацию и потребление сообщений.
package rabbitmq

import (
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// notificationsExchange — topic-обменник, через который проходят все
// события платформы.
const notificationsExchange = "notifications"

// Connect подключается к RabbitMQ, повторяя попытку retries раз с
// паузой delay. Возвращается последняя ошибка дозвона.
func Connect(connection string, retries int, delay time.Duration) (*amqp.Connection, error) {
	const op = "rabbitmq.Connect"

	var lastErr error
	for range retries {
		conn, err := amqp.Dial(connection)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("%s: %w", op, lastErr)
}

// SetupChannel открывает канал, объявляет topic-обменник notifications
// и привязывает к нему переданные очереди.
func SetupChannel(conn *amqp.Connection, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(maxInFlight, 0, false); err != nil {
		return nil, fmt.Errorf("%s: set qos: %w", op, err)
	}

	err = ch.ExchangeDeclare(notificationsExchange, "topic", true, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: declare exchange: %w", op, err)
	}

	for _, q := range queues {
		if err := bindQueue(ch, q); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return ch, nil
}

func bindQueue(ch *amqp.Channel, q QueueConfig) error {
	if _, err := ch.QueueDeclare(q.QueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", q.QueueName, err)
	}
	if err := ch.QueueBind(q.QueueName, q.RoutingKey, notificationsExchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s to %s: %w", q.QueueName, q.RoutingKey, err)
	}
	return nil
}
