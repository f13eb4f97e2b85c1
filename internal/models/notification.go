package models

// Виды событий жизненного цикла подписки, публикуемых в RabbitMQ.
const (
	SubscriptionCreated     = "created"
	SubscriptionCancelled   = "cancelled"
	SubscriptionPlanChanged = "plan_changed"
)

// SubscriptionEvent сообщение о событии подписки для сервиса уведомлений.
type SubscriptionEvent struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	PlanName    string `json:"plan_name"`
	Kind        string `json:"kind"`
}
