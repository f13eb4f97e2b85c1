package paymentprovider

// TokenResponse представляет ответ OAuth2 client-credentials обмена.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// CancelRequest представляет тело запроса на отмену подписки.
type CancelRequest struct {
	Reason string `json:"reason"`
}

// ReviseRequest представляет запрос на смену тарифа подписки.
// ApplicationContext содержит callback-ссылки, на которые провайдер
// вернёт браузер пользователя после подтверждения.
type ReviseRequest struct {
	PlanID             string `json:"plan_id"`
	ApplicationContext struct {
		ReturnURL string `json:"return_url"`
		CancelURL string `json:"cancel_url"`
	} `json:"application_context"`
}

// Link — типизированная ссылка из ответа провайдера.
// Интересующая операцию смены тарифа ссылка имеет rel = "approve".
type Link struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
	Meth string `json:"method"`
}

// ReviseResponse представляет ответ на запрос смены тарифа.
type ReviseResponse struct {
	PlanID string `json:"plan_id"`
	Links  []Link `json:"links"`
}

// SubscriptionDetails представляет текущее состояние подписки у провайдера.
type SubscriptionDetails struct {
	ID     string `json:"id"`
	Status string `json:"status"`  // Например "ACTIVE" или "CANCELLED"
	PlanID string `json:"plan_id"` // Текущий тариф у провайдера
}

// StatusActive — статус подписки у провайдера, при котором смена тарифа
// считается подтверждённой.
const StatusActive = "ACTIVE"
