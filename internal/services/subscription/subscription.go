// Package subscription реализует оркестратор жизненного цикла подписки:
// оформление, отмену и двухшаговую смену тарифа через платёжного провайдера.
//
// Провайдер считается источником истины: каждая локальная мутация
// выполняется только после успешного подтверждения на его стороне.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/antonligaev/premium-platform/internal/models"
	"github.com/antonligaev/premium-platform/internal/paymentprovider"
	"github.com/antonligaev/premium-platform/internal/storage/repository"
)

// Ошибки оркестратора, преобразуемые обработчиками в ответы пользователю.
var (
	// ErrPlanNotFound — неизвестный или неактивный код тарифа.
	ErrPlanNotFound = errors.New("plan not found")
	// ErrSubscriptionExists — у пользователя уже есть активная подписка.
	ErrSubscriptionExists = errors.New("subscription already exists")
	// ErrSamePlan — запрошенный тариф совпадает с текущим.
	ErrSamePlan = errors.New("new plan matches the current one")
	// ErrNoPendingChange — шаг confirm вызван без предшествующего initiate
	// (или запись истекла / уже была использована).
	ErrNoPendingChange = errors.New("no pending plan change")
	// ErrProviderStateMismatch — провайдер не подтвердил смену тарифа.
	ErrProviderStateMismatch = errors.New("provider state does not match pending change")
)

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	CreateSubscription(ctx context.Context, sub models.Subscription) (int, error)
	GetActiveSubscriptionByUserUID(ctx context.Context, userUID string) (*models.Subscription, error)
	GetLatestSubscriptionByUserUID(ctx context.Context, userUID string) (*models.Subscription, error)
	UpdateSubscriptionPlan(ctx context.Context, id int, planCode, cost string) (int64, error)
	RemoveSubscription(ctx context.Context, id int) (int64, error)
}

// PlanRepository определяет методы для работы с каталогом тарифов.
type PlanRepository interface {
	ListActivePlans(ctx context.Context) ([]*models.PlanChoice, error)
	GetPlanByCode(ctx context.Context, code string) (*models.PlanChoice, error)
	GetPlanByExternalID(ctx context.Context, externalPlanID string) (*models.PlanChoice, error)
}

// UserGetter возвращает пользователя по UID. Нужен для писем-уведомлений.
type UserGetter interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// Provider описывает используемую часть API платёжного провайдера.
type Provider interface {
	GetAccessToken(ctx context.Context) (string, error)
	CancelSubscription(ctx context.Context, accessToken, subscriptionID, reason string) error
	ReviseSubscription(ctx context.Context, accessToken, subscriptionID, planID, returnURL, cancelURL string) (string, error)
	GetSubscription(ctx context.Context, accessToken, subscriptionID string) (*paymentprovider.SubscriptionDetails, error)
}

// PendingStore хранит короткоживущие записи о незавершённой смене тарифа.
type PendingStore interface {
	Set(key string, value any, expiration time.Duration) error
	// TakeOnce читает и удаляет запись; повторное чтение возвращает false.
	TakeOnce(key string, result any) (bool, error)
}

// EventPublisher публикует события жизненного цикла подписки.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// Service реализует бизнес-логику подписок.
type Service struct {
	subs       SubscriptionRepository
	plans      PlanRepository
	users      UserGetter
	provider   Provider
	pending    PendingStore
	events     EventPublisher
	pendingTTL time.Duration
	log        *slog.Logger
}

// New создает новый экземпляр Service.
func New(subs SubscriptionRepository, plans PlanRepository, users UserGetter,
	provider Provider, pending PendingStore, events EventPublisher,
	pendingTTL time.Duration, log *slog.Logger) *Service {
	return &Service{
		subs:       subs,
		plans:      plans,
		users:      users,
		provider:   provider,
		pending:    pending,
		events:     events,
		pendingTTL: pendingTTL,
		log:        log,
	}
}

func pendingKey(userUID string) string {
	return fmt.Sprintf("pendingplan:%s", userUID)
}

// ListPlans возвращает тарифы, доступные новым подписчикам.
func (s *Service) ListPlans(ctx context.Context) ([]*models.PlanChoice, error) {
	return s.plans.ListActivePlans(ctx)
}

// ActiveSubscription возвращает активную подписку пользователя
// вместе с тарифом или (nil, nil), если подписки нет.
func (s *Service) ActiveSubscription(ctx context.Context, userUID string) (*models.Subscription, *models.PlanChoice, error) {
	sub, err := s.subs.GetActiveSubscriptionByUserUID(ctx, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	plan, err := s.plans.GetPlanByCode(ctx, sub.PlanCode)
	if err != nil {
		return nil, nil, err
	}
	return sub, plan, nil
}

// LatestSubscription возвращает последнюю подписку пользователя вместе
// с тарифом независимо от её состояния или (nil, nil), если подписок не было.
// Панель клиента показывает неактивную подписку с пометкой.
func (s *Service) LatestSubscription(ctx context.Context, userUID string) (*models.Subscription, *models.PlanChoice, error) {
	sub, err := s.subs.GetLatestSubscriptionByUserUID(ctx, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	plan, err := s.plans.GetPlanByCode(ctx, sub.PlanCode)
	if err != nil {
		return nil, nil, err
	}
	return sub, plan, nil
}

// Create оформляет подписку после завершения checkout на стороне провайдера.
// providerSubID — идентификатор, выданный провайдером; planCode — код тарифа.
// Стоимость тарифа копируется в запись подписки на момент оформления.
func (s *Service) Create(ctx context.Context, userUID, providerSubID, planCode string) (*models.Subscription, error) {
	existing, err := s.subs.GetActiveSubscriptionByUserUID(ctx, userUID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSubscriptionExists
	}

	plan, err := s.plans.GetPlanByCode(ctx, planCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if !plan.IsActive {
		return nil, ErrPlanNotFound
	}

	sub := models.Subscription{
		UserUID:                userUID,
		PlanCode:               plan.Code,
		Cost:                   plan.Cost,
		ExternalSubscriptionID: providerSubID,
		IsActive:               true,
	}
	id, err := s.subs.CreateSubscription(ctx, sub)
	if err != nil {
		if errors.Is(err, repository.ErrActiveSubscriptionExists) {
			return nil, ErrSubscriptionExists
		}
		return nil, err
	}
	sub.ID = id

	s.log.Info("created new subscription",
		slog.Int("id", id), slog.String("plan", plan.Code))
	s.publishEvent(ctx, userUID, plan.Name, models.SubscriptionCreated)

	return &sub, nil
}

// Cancel отменяет подписку: сперва у провайдера, затем локально.
// При любой ошибке провайдера локальная запись остаётся нетронутой,
// иначе провайдер продолжил бы списания по уже забытой подписке.
func (s *Service) Cancel(ctx context.Context, sub *models.Subscription, reason string) error {
	token, err := s.provider.GetAccessToken(ctx)
	if err != nil {
		return err
	}
	if err := s.provider.CancelSubscription(ctx, token, sub.ExternalSubscriptionID, reason); err != nil {
		return err
	}

	if _, err := s.subs.RemoveSubscription(ctx, sub.ID); err != nil {
		return err
	}

	s.log.Info("cancelled subscription", slog.Int("id", sub.ID))

	planName := sub.PlanCode
	if plan, planErr := s.plans.GetPlanByCode(ctx, sub.PlanCode); planErr == nil {
		planName = plan.Name
	}
	s.publishEvent(ctx, sub.UserUID, planName, models.SubscriptionCancelled)

	return nil
}

// InitiatePlanChange начинает смену тарифа: запрашивает у провайдера
// approve-ссылку и сохраняет короткоживущую запись о незавершённой операции.
// Возвращает approve-ссылку, на которую нужно направить пользователя.
func (s *Service) InitiatePlanChange(ctx context.Context, sub *models.Subscription, newPlanCode, returnURL, cancelURL string) (string, error) {
	plan, err := s.plans.GetPlanByCode(ctx, newPlanCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrPlanNotFound
		}
		return "", err
	}
	if !plan.IsActive {
		return "", ErrPlanNotFound
	}
	if plan.Code == sub.PlanCode {
		return "", ErrSamePlan
	}

	token, err := s.provider.GetAccessToken(ctx)
	if err != nil {
		return "", err
	}
	approveURL, err := s.provider.ReviseSubscription(ctx, token,
		sub.ExternalSubscriptionID, plan.ExternalPlanID, returnURL, cancelURL)
	if err != nil {
		return "", err
	}

	pending := models.PendingPlanChange{
		SubscriptionID:         sub.ID,
		ExternalSubscriptionID: sub.ExternalSubscriptionID,
		ExternalPlanID:         plan.ExternalPlanID,
	}
	if err := s.pending.Set(pendingKey(sub.UserUID), pending, s.pendingTTL); err != nil {
		return "", err
	}

	s.log.Info("initiated plan change",
		slog.Int("subscription_id", sub.ID), slog.String("new_plan", plan.Code))

	return approveURL, nil
}

// ConfirmPlanChange завершает смену тарифа после возврата пользователя
// от провайдера. Запись о незавершённой операции одноразовая: она
// удаляется при первом чтении, повторный confirm вернёт ErrNoPendingChange.
// Локальная подписка меняется только если провайдер сообщает статус ACTIVE
// и тариф, совпадающий с сохранённым целевым.
func (s *Service) ConfirmPlanChange(ctx context.Context, userUID string) (*models.PlanChoice, error) {
	var pending models.PendingPlanChange
	found, err := s.pending.TakeOnce(pendingKey(userUID), &pending)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNoPendingChange
	}

	token, err := s.provider.GetAccessToken(ctx)
	if err != nil {
		return nil, err
	}
	details, err := s.provider.GetSubscription(ctx, token, pending.ExternalSubscriptionID)
	if err != nil {
		return nil, err
	}
	if details.Status != paymentprovider.StatusActive || details.PlanID != pending.ExternalPlanID {
		s.log.Error("provider state mismatch on confirm",
			slog.String("status", details.Status),
			slog.String("plan_id", details.PlanID),
			slog.String("expected_plan_id", pending.ExternalPlanID))
		return nil, ErrProviderStateMismatch
	}

	plan, err := s.plans.GetPlanByExternalID(ctx, pending.ExternalPlanID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	if _, err := s.subs.UpdateSubscriptionPlan(ctx, pending.SubscriptionID, plan.Code, plan.Cost); err != nil {
		return nil, err
	}

	s.log.Info("confirmed plan change",
		slog.Int("subscription_id", pending.SubscriptionID), slog.String("plan", plan.Code))
	s.publishEvent(ctx, userUID, plan.Name, models.SubscriptionPlanChanged)

	return plan, nil
}

// publishEvent отправляет событие в брокер. Ошибки только логируются:
// уведомления не должны ломать основную операцию.
func (s *Service) publishEvent(ctx context.Context, userUID, planName, kind string) {
	if s.events == nil {
		return
	}
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		s.log.Warn("failed to load user for notification", slog.Any("err", err))
		return
	}
	event := models.SubscriptionEvent{
		Email:       user.Email,
		DisplayName: user.DisplayName,
		PlanName:    planName,
		Kind:        kind,
	}
	if err := s.events.Publish("subscription."+kind, event); err != nil {
		s.log.Warn("failed to publish subscription event", slog.Any("err", err))
	}
}
