package models

// PlanChoice представляет запись каталога тарифов.
// Справочные данные: заполняются миграциями и не меняются
// пользовательскими операциями.
type PlanChoice struct {
	Code           string // Код тарифа (уникальный ключ каталога)
	Name           string // Отображаемое название
	Cost           string // Стоимость в месяц, десятичная строка, например "3.00"
	ExternalPlanID string // Идентификатор тарифа у платёжного провайдера
	IsPremium      bool   // Открывает ли тариф доступ к премиальным статьям
	IsActive       bool   // Предлагается ли тариф новым подписчикам
}
