package models

import "time"

// Subscription представляет подписку пользователя на тариф.
// Поле Cost — копия стоимости тарифа на момент оформления,
// последующие изменения каталога её не затрагивают.
// На пользователя допускается не более одной активной подписки,
// инвариант закреплён частичным уникальным индексом в базе.
type Subscription struct {
	ID                     int       // Идентификатор подписки
	UserUID                string    // UID пользователя-владельца
	PlanCode               string    // Код тарифа из каталога
	Cost                   string    // Стоимость на момент оформления
	ExternalSubscriptionID string    // Идентификатор подписки у платёжного провайдера
	IsActive               bool      // Признак активной подписки
	CreatedAt              time.Time // Дата оформления
}

// PendingPlanChange — короткоживущая запись о незавершённой смене тарифа.
// Создаётся на шаге initiate, читается и удаляется на шаге confirm
// (одноразовая семантика). Хранится в Redis с TTL.
type PendingPlanChange struct {
	SubscriptionID         int    `json:"subscription_id"`          // Локальный ID подписки
	ExternalSubscriptionID string `json:"external_subscription_id"` // ID подписки у провайдера
	ExternalPlanID         string `json:"external_plan_id"`         // Целевой тариф у провайдера
}
