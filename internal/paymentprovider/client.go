// Package paymentprovider реализует HTTP-клиент платёжного провайдера
// (PayPal Subscriptions API): обмен client-credentials на access token,
// отмену подписки, запрос смены тарифа и чтение состояния подписки.
//
// Все вызовы выполняются с таймаутом и ограниченным числом повторов:
// повторяются сетевые ошибки и ответы 5xx, ответы 4xx возвращаются сразу.
package paymentprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/antonligaev/premium-platform/internal/config"
)

// ErrNoApproveLink возвращается, когда ответ на запрос смены тарифа
// не содержит ссылки с rel = "approve".
var ErrNoApproveLink = errors.New("revise response contains no approve link")

// StatusError описывает ответ провайдера с кодом вне 2xx.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return "unexpected status: " + e.Status
}

// Client — клиент API подписок платёжного провайдера.
type Client struct {
	clientID   string
	secretKey  string
	authURL    string
	baseURL    string
	maxRetries int
	retryDelay time.Duration
	httpClient *http.Client
}

// New создаёт клиент провайдера из настроек конфига.
func New(cfg config.PayPalAPI) *Client {
	return &Client{
		clientID:   cfg.ClientID,
		secretKey:  cfg.SecretKey,
		authURL:    cfg.AuthURL,
		baseURL:    strings.TrimRight(cfg.BillingSubscriptionsURL, "/"),
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
	}
}

// GetAccessToken выполняет OAuth2 client-credentials обмен и возвращает access token.
func (c *Client) GetAccessToken(ctx context.Context) (string, error) {
	const op = "paymentprovider.GetAccessToken"

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	req.SetBasicAuth(c.clientID, c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	var tokenResp TokenResponse
	if err := c.do(req, &tokenResp); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("%s: empty access token in response", op)
	}
	return tokenResp.AccessToken, nil
}

// CancelSubscription отменяет подписку у провайдера.
// Возвращает nil только при ответе 2xx: вызывающая сторона удаляет
// локальную запись лишь после успешной отмены на стороне провайдера.
func (c *Client) CancelSubscription(ctx context.Context, accessToken, subscriptionID, reason string) error {
	const op = "paymentprovider.CancelSubscription"

	req, err := c.newRequest(ctx, http.MethodPost,
		c.baseURL+"/"+subscriptionID+"/cancel", accessToken, CancelRequest{Reason: reason})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ReviseSubscription запрашивает у провайдера смену тарифа подписки
// и возвращает approve-ссылку, на которую нужно направить пользователя.
func (c *Client) ReviseSubscription(ctx context.Context, accessToken, subscriptionID, planID, returnURL, cancelURL string) (string, error) {
	const op = "paymentprovider.ReviseSubscription"

	var reviseReq ReviseRequest
	reviseReq.PlanID = planID
	reviseReq.ApplicationContext.ReturnURL = returnURL
	reviseReq.ApplicationContext.CancelURL = cancelURL

	req, err := c.newRequest(ctx, http.MethodPost,
		c.baseURL+"/"+subscriptionID+"/revise", accessToken, reviseReq)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var reviseResp ReviseResponse
	if err := c.do(req, &reviseResp); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	for _, link := range reviseResp.Links {
		if link.Rel == "approve" {
			return link.Href, nil
		}
	}
	return "", fmt.Errorf("%s: %w", op, ErrNoApproveLink)
}

// GetSubscription возвращает текущее состояние подписки у провайдера.
func (c *Client) GetSubscription(ctx context.Context, accessToken, subscriptionID string) (*SubscriptionDetails, error) {
	const op = "paymentprovider.GetSubscription"

	req, err := c.newRequest(ctx, http.MethodGet, c.baseURL+"/"+subscriptionID, accessToken, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var details SubscriptionDetails
	if err := c.do(req, &details); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &details, nil
}

func (c *Client) newRequest(ctx context.Context, method, rawURL, accessToken string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do выполняет запрос с повторами на сетевых ошибках и 5xx.
// Тело запроса буферизовано в newRequest, поэтому повтор безопасен.
func (c *Client) do(req *http.Request, result any) error {
	var lastErr error
	attempts := c.maxRetries
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-req.Context().Done():
				return req.Context().Err()
			case <-time.After(c.retryDelay):
			}
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return err
				}
				req.Body = body
			}
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 {
			lastErr = &StatusError{Code: resp.StatusCode, Status: resp.Status}
			_ = resp.Body.Close()
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			_ = resp.Body.Close()
			return &StatusError{Code: resp.StatusCode, Status: resp.Status}
		}

		if result != nil {
			err = json.NewDecoder(resp.Body).Decode(result)
			_ = resp.Body.Close()
			if err != nil {
				return err
			}
			return nil
		}
		_ = resp.Body.Close()
		return nil
	}
	return lastErr
}
