// Package sender отправляет письма о событиях подписки.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/antonligaev/premium-platform/internal/lib/sl"
	smtplib "github.com/antonligaev/premium-platform/internal/lib/smtp"
	"github.com/antonligaev/premium-platform/internal/models"
)

// SenderService составляет и отправляет уведомления по электронной почте.
type SenderService struct {
	transport smtplib.Transporter
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport smtplib.Transporter) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// HandleSubscriptionEvent обрабатывает сообщение о событии подписки из очереди.
func (s *SenderService) HandleSubscriptionEvent(body []byte) error {
	var event models.SubscriptionEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("Failed to unmarshal message body", "error", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	var subject, bodyText string
	switch event.Kind {
	case models.SubscriptionCreated:
		subject = "Подписка оформлена"
		bodyText = fmt.Sprintf("Здравствуйте, %s!\n\nВаша подписка на тариф %s успешно оформлена.\n\nТеперь вам доступны материалы вашего тарифа.",
			event.DisplayName, event.PlanName)
	case models.SubscriptionCancelled:
		subject = "Подписка отменена"
		bodyText = fmt.Sprintf("Здравствуйте, %s!\n\nВаша подписка на тариф %s отменена.\n\nДоступ к платным материалам прекращен.",
			event.DisplayName, event.PlanName)
	case models.SubscriptionPlanChanged:
		subject = "Тариф подписки изменен"
		bodyText = fmt.Sprintf("Здравствуйте, %s!\n\nВаша подписка переведена на тариф %s.",
			event.DisplayName, event.PlanName)
	default:
		s.log.Error("unknown subscription event kind", "kind", event.Kind)
		return fmt.Errorf("unknown subscription event kind: %s", event.Kind)
	}

	return s.sendEmail([]string{event.Email}, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("Failed to connect to SMTP server", "error", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("Failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("Failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("Failed to get Data writer", "error", sl.Err(err))
		return err
	}

	_, err = wc.Write([]byte(msg))
	if err != nil {
		s.log.Error("Failed to write email body", "error", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("Failed to close Data writer", "error", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("Failed to quit SMTP client", "error", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
