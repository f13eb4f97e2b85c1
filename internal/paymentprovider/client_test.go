package paymentprovider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antonligaev/premium-platform/internal/config"
)

func newTestClient(authURL, baseURL string) *Client {
	return New(config.PayPalAPI{
		ClientID:                "client-id",
		SecretKey:               "secret-key",
		AuthURL:                 authURL,
		BillingSubscriptionsURL: baseURL,
		RequestTimeout:          2 * time.Second,
		MaxRetries:              3,
		RetryDelay:              10 * time.Millisecond,
	})
}

func TestClient_GetAccessToken(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)

			user, pass, ok := r.BasicAuth()
			require.True(t, ok)
			assert.Equal(t, "client-id", user)
			assert.Equal(t, "secret-key", pass)

			require.NoError(t, r.ParseForm())
			assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))

			_ = json.NewEncoder(w).Encode(TokenResponse{AccessToken: "token-123", TokenType: "Bearer"})
		}))
		defer srv.Close()

		client := newTestClient(srv.URL, srv.URL)
		token, err := client.GetAccessToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "token-123", token)
	})

	t.Run("missing token in response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"token_type": "Bearer"})
		}))
		defer srv.Close()

		client := newTestClient(srv.URL, srv.URL)
		_, err := client.GetAccessToken(context.Background())
		require.Error(t, err)
	})
}

func TestClient_CancelSubscription(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/I-EXT1/cancel", r.URL.Path)
			assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))

			var body CancelRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Cancelled by user.", body.Reason)

			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		client := newTestClient(srv.URL, srv.URL)
		err := client.CancelSubscription(context.Background(), "token-123", "I-EXT1", "Cancelled by user.")
		require.NoError(t, err)
	})

	t.Run("provider rejects with 4xx", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
		}))
		defer srv.Close()

		client := newTestClient(srv.URL, srv.URL)
		err := client.CancelSubscription(context.Background(), "token-123", "I-EXT1", "reason")
		require.Error(t, err)

		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusUnprocessableEntity, statusErr.Code)
	})

	t.Run("retries on 5xx then succeeds", func(t *testing.T) {
		var calls int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls++
			if calls < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		client := newTestClient(srv.URL, srv.URL)
		err := client.CancelSubscription(context.Background(), "token-123", "I-EXT1", "reason")
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		var calls int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls++
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := newTestClient(srv.URL, srv.URL)
		err := client.CancelSubscription(context.Background(), "token-123", "I-EXT1", "reason")
		require.Error(t, err)
		assert.Equal(t, 3, calls)
	})
}

func TestClient_ReviseSubscription(t *testing.T) {
	t.Run("returns approve link", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/I-EXT1/revise", r.URL.Path)

			var body ReviseRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "P-NEW", body.PlanID)
			assert.Equal(t, "https://example.com/return", body.ApplicationContext.ReturnURL)

			_ = json.NewEncoder(w).Encode(ReviseResponse{
				PlanID: "P-NEW",
				Links: []Link{
					{Href: "https://provider.example/self", Rel: "self", Meth: "GET"},
					{Href: "https://provider.example/approve", Rel: "approve", Meth: "GET"},
				},
			})
		}))
		defer srv.Close()

		client := newTestClient(srv.URL, srv.URL)
		approveURL, err := client.ReviseSubscription(context.Background(),
			"token-123", "I-EXT1", "P-NEW", "https://example.com/return", "https://example.com/cancel")
		require.NoError(t, err)
		assert.Equal(t, "https://provider.example/approve", approveURL)
	})

	t.Run("no approve link", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(ReviseResponse{
				Links: []Link{{Href: "https://provider.example/self", Rel: "self", Meth: "GET"}},
			})
		}))
		defer srv.Close()

		client := newTestClient(srv.URL, srv.URL)
		_, err := client.ReviseSubscription(context.Background(),
			"token-123", "I-EXT1", "P-NEW", "r", "c")
		require.ErrorIs(t, err, ErrNoApproveLink)
	})
}

func TestClient_GetSubscription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/I-EXT1", r.URL.Path)
		_ = json.NewEncoder(w).Encode(SubscriptionDetails{
			ID:     "I-EXT1",
			Status: StatusActive,
			PlanID: "P-NEW",
		})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, srv.URL)
	details, err := client.GetSubscription(context.Background(), "token-123", "I-EXT1")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, details.Status)
	assert.Equal(t, "P-NEW", details.PlanID)
}
