package messaging_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitepass/notifier/pkg/messaging"
)

func newGatewayServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server
}

func newGatewayClient(t *testing.T, server *httptest.Server) *messaging.Client {
	t.Helper()

	client, err := messaging.NewClient(messaging.Config{
		BaseURL:  server.URL,
		APIToken: "test-token",
	})
	require.NoError(t, err)

	return client
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	t.Run("requires base url", func(t *testing.T) {
		t.Parallel()

		_, err := messaging.NewClient(messaging.Config{APIToken: "token"})
		assert.ErrorIs(t, err, messaging.ErrInvalidConfig)
	})

	t.Run("requires api token", func(t *testing.T) {
		t.Parallel()

		_, err := messaging.NewClient(messaging.Config{BaseURL: "https://gateway.example.com"})
		assert.ErrorIs(t, err, messaging.ErrInvalidConfig)
	})

	t.Run("must variant panics on invalid config", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			messaging.MustNewClient(messaging.Config{})
		})
	})
}

func TestSendMessageParams_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, messaging.SendMessageParams{SendTo: "+15551234567", Body: "gate code 1234"}.Validate())
	assert.ErrorIs(t, messaging.SendMessageParams{Body: "x"}.Validate(), messaging.ErrInvalidParams)
	assert.ErrorIs(t, messaging.SendMessageParams{SendTo: "+15551234567"}.Validate(), messaging.ErrInvalidParams)
}

func TestClient_SendMessage(t *testing.T) {
	t.Parallel()

	params := messaging.SendMessageParams{SendTo: "+15551234567", Body: "Your gate code is 1234"}

	t.Run("posts the message payload", func(t *testing.T) {
		t.Parallel()

		var got struct {
			To   string `json:"to"`
			Body string `json:"body"`
		}
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"message_id":"msg_1"}`))
		}))
		t.Cleanup(server.Close)

		client := newGatewayClient(t, server)
		require.NoError(t, client.SendMessage(context.Background(), params))
		assert.Equal(t, params.SendTo, got.To)
		assert.Equal(t, params.Body, got.Body)
	})

	t.Run("accepted with 202", func(t *testing.T) {
		t.Parallel()

		client := newGatewayClient(t, newGatewayServer(t, http.StatusAccepted, `{"message_id":"msg_2"}`))
		require.NoError(t, client.SendMessage(context.Background(), params))
	})

	t.Run("unauthorized maps to invalid credentials", func(t *testing.T) {
		t.Parallel()

		client := newGatewayClient(t, newGatewayServer(t, http.StatusUnauthorized, `{"error":"bad token"}`))
		err := client.SendMessage(context.Background(), params)
		assert.ErrorIs(t, err, messaging.ErrInvalidCredentials)
		assert.Contains(t, err.Error(), "bad token")
	})

	t.Run("too many requests maps to rate limited", func(t *testing.T) {
		t.Parallel()

		client := newGatewayClient(t, newGatewayServer(t, http.StatusTooManyRequests, `{"error":"slow down"}`))
		err := client.SendMessage(context.Background(), params)
		assert.ErrorIs(t, err, messaging.ErrRateLimited)
	})

	t.Run("server error maps to provider unavailable", func(t *testing.T) {
		t.Parallel()

		client := newGatewayClient(t, newGatewayServer(t, http.StatusBadGateway, "upstream down"))
		err := client.SendMessage(context.Background(), params)
		assert.ErrorIs(t, err, messaging.ErrProviderUnavailable)
		assert.Contains(t, err.Error(), "upstream down")
	})

	t.Run("bad request maps to recipient rejected", func(t *testing.T) {
		t.Parallel()

		client := newGatewayClient(t, newGatewayServer(t, http.StatusBadRequest, `{"error":"invalid phone number"}`))
		err := client.SendMessage(context.Background(), params)
		assert.ErrorIs(t, err, messaging.ErrRecipientRejected)
	})

	t.Run("unreachable gateway maps to send failure", func(t *testing.T) {
		t.Parallel()

		server := newGatewayServer(t, http.StatusOK, "{}")
		server.Close()

		client := newGatewayClient(t, server)
		err := client.SendMessage(context.Background(), params)
		assert.ErrorIs(t, err, messaging.ErrFailedToSendMessage)
	})

	t.Run("invalid params never reach the gateway", func(t *testing.T) {
		t.Parallel()

		called := false
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		t.Cleanup(server.Close)

		client := newGatewayClient(t, server)
		err := client.SendMessage(context.Background(), messaging.SendMessageParams{})
		assert.ErrorIs(t, err, messaging.ErrInvalidParams)
		assert.False(t, called)
	})
}
