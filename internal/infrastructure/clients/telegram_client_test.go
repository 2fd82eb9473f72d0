package clients_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botto/internal/config"
	domainerrors "botto/internal/domain/errors"
	"botto/internal/infrastructure/clients"
	"botto/pkg"
)

func testConfig(gatewayURL string) *config.Config {
	return &config.Config{
		BotToken:               "TESTTOKEN",
		GatewayURL:             gatewayURL,
		ExternalRequestTimeout: 2 * time.Second,
		SendRatePerSecond:      100,
		RetryCount:             0,
		RetryBackoff:           time.Millisecond,
		CBSlidingWindowSize:    10,
		CBMinimumRequiredCalls: 100,
		CBFailureRateThreshold: 50,

		CBPermittedCallsInHalfOpen: 1,
		CBWaitDurationInOpenState:  time.Second,
	}
}

func TestTelegramClient_GetUpdates_ColdStartOmitsOffset(t *testing.T) {
	var gotOffset []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTESTTOKEN/getUpdates", r.URL.Path)
		gotOffset = r.URL.Query()["offset"]

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"ok": true,
			"result": []map[string]interface{}{
				{
					"update_id": 7,
					"message": map[string]interface{}{
						"message_id": 1,
						"text":       "Hi",
						"chat":       map[string]interface{}{"id": 42},
					},
				},
			},
		})
	}))
	defer server.Close()

	client := clients.NewTelegramClient(testConfig(server.URL), pkg.NewDiscardLogger())

	updates, err := client.GetUpdates(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, gotOffset)
	require.Len(t, updates, 1)
	assert.Equal(t, int64(7), updates[0].UpdateID)
	require.NotNil(t, updates[0].Message)
	assert.Equal(t, "Hi", updates[0].Message.Text)
	require.NotNil(t, updates[0].Message.Chat)
	assert.Equal(t, int64(42), updates[0].Message.Chat.ID)
}

func TestTelegramClient_GetUpdates_OffsetIsExclusive(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "101", r.URL.Query().Get("offset"))

		_ = json.NewEncoder(w).Encode(map[string]interface{}{"ok": true, "result": []interface{}{}})
	}))
	defer server.Close()

	client := clients.NewTelegramClient(testConfig(server.URL), pkg.NewDiscardLogger())

	cursor := int64(100)
	updates, err := client.GetUpdates(context.Background(), &cursor)

	require.NoError(t, err)
	assert.Empty(t, updates)
}

func TestTelegramClient_GetUpdates_NotFoundMeansBadToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := clients.NewTelegramClient(testConfig(server.URL), pkg.NewDiscardLogger())

	_, err := client.GetUpdates(context.Background(), nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, &domainerrors.ErrInvalidBotToken{})
}

func TestTelegramClient_GetUpdates_NotOKShortCircuits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"ok": false, "result": []interface{}{}})
	}))
	defer server.Close()

	client := clients.NewTelegramClient(testConfig(server.URL), pkg.NewDiscardLogger())

	updates, err := client.GetUpdates(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, updates)
}

func TestTelegramClient_SendMessage(t *testing.T) {
	var body map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTESTTOKEN/sendMessage", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		_ = json.NewEncoder(w).Encode(map[string]interface{}{"ok": true})
	}))
	defer server.Close()

	client := clients.NewTelegramClient(testConfig(server.URL), pkg.NewDiscardLogger())

	err := client.SendMessage(context.Background(), 42, "Hello")

	require.NoError(t, err)
	assert.Equal(t, float64(42), body["chat_id"])
	assert.Equal(t, "Hello", body["text"])
}

func TestTelegramClient_SendMessage_EmptyTextIsNoOp(t *testing.T) {
	calls := 0

	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		calls++
	}))
	defer server.Close()

	client := clients.NewTelegramClient(testConfig(server.URL), pkg.NewDiscardLogger())

	err := client.SendMessage(context.Background(), 42, "")

	require.NoError(t, err)
	assert.Zero(t, calls)
}
