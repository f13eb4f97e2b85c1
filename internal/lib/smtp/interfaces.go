// Package smtp предоставляет транспорт для отправки писем через
// SMTP-сервер с обязательным STARTTLS.
package smtp

import "io"

// Client покрывает подмножество *smtp.Client, нужное для отправки
// одного письма. Узкий интерфейс позволяет подменять клиента в тестах.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// Transporter открывает аутентифицированные SMTP-сессии.
type Transporter interface {
	Connect() (Client, error)
	GetSMTPUser() string
}
