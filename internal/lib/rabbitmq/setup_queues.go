package rabbitmq

// QueueConfig описывает очередь и ключ маршрутизации для её привязки.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди сервиса уведомлений.
// Ключ "subscription.*" покрывает created, cancelled и plan_changed.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notification.subscription", RoutingKey: "subscription.*"},
	}
}
