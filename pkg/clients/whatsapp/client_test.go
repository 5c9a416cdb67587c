package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuttybrothers/fleetdesk/internal/config"
	"github.com/kuttybrothers/fleetdesk/internal/domain/models"
)

func TestSendTextMessage(t *testing.T) {
	var (
		gotPath string
		gotAuth string
		gotBody map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	}))
	defer srv.Close()

	client := NewClient(config.WhatsAppConfig{
		AccessToken:   "token",
		PhoneNumberID: "12345",
		BaseURL:       srv.URL + "/",
		APIVersion:    "v20.0",
	})

	resp, err := client.SendTextMessage(context.Background(), SendTextMessageRequest{To: "919800000000", Body: "hello"})
	require.NoError(t, err)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "wamid.1", resp.Messages[0].ID)

	assert.Equal(t, "/v20.0/12345/messages", gotPath)
	assert.Equal(t, "Bearer token", gotAuth)
	assert.Equal(t, "919800000000", gotBody["to"])
	assert.Equal(t, "text", gotBody["type"])
}

func TestSendTextMessageAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid OAuth access token","code":190}}`))
	}))
	defer srv.Close()

	client := NewClient(config.WhatsAppConfig{BaseURL: srv.URL, APIVersion: "v20.0", PhoneNumberID: "1"})

	_, err := client.SendTextMessage(context.Background(), SendTextMessageRequest{To: "1", Body: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code=190")
	assert.Contains(t, err.Error(), "Invalid OAuth access token")

	_, err = client.SendTextMessage(context.Background(), SendTextMessageRequest{Body: "x"})
	assert.Error(t, err)
}

type recordingClient struct {
	got SendTextMessageRequest
}

func (c *recordingClient) SendTextMessage(_ context.Context, req SendTextMessageRequest) (*SendTextMessageResponse, error) {
	c.got = req
	return &SendTextMessageResponse{}, nil
}

func TestNotifier(t *testing.T) {
	client := &recordingClient{}
	notifier := NewNotifier(client)

	err := notifier.Notify(context.Background(), models.Notification{To: "91", Message: "Stock report"})
	require.NoError(t, err)
	assert.Equal(t, "91", client.got.To)
	assert.Equal(t, "Stock report", client.got.Body)
}
