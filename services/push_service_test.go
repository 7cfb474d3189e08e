package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flavor_ai/config"
	"flavor_ai/utils"
)

func newPusher(url string) *HTTPFeedbackPusher {
	cfg := config.Defaults()
	cfg.ExternalAPI.FeedbackPushURL = url
	cfg.ExternalAPI.APIKey = "secret"
	p := NewHTTPFeedbackPusher(cfg)
	p.now = func() time.Time { return time.UnixMilli(1700000002779) }
	return p
}

func TestHTTPFeedbackPusher_PushFeedbackRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "1700000002779", r.Header.Get("timestamp"))
		assert.Equal(t, utils.CalculateMD5("secret2779"), r.Header.Get("Authorization"))
		assert.Equal(t, "secret", r.Header.Get("apiKey"))

		var payload FeedbackPushPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "u1", payload.UserID)
		assert.Equal(t, "Philippe The Original", payload.RestaurantName)
		assert.Contains(t, payload.Message, "Philippe The Original")

		w.Write([]byte(`{"errCode": 200, "msg": "ok", "success": true}`))
	}))
	defer srv.Close()

	err := newPusher(srv.URL).PushFeedbackRequest(context.Background(), "u1", "Philippe The Original")
	assert.NoError(t, err)
}

func TestHTTPFeedbackPusher_Failures(t *testing.T) {
	testcases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "非200状态码",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
		},
		{
			name: "推送服务返回失败",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"errCode": 500, "msg": "device offline", "success": false}`))
			},
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()
			assert.Error(t, newPusher(srv.URL).PushFeedbackRequest(context.Background(), "u1", "A"))
		})
	}
}

func TestHTTPFeedbackPusher_NotConfigured(t *testing.T) {
	err := newPusher("").PushFeedbackRequest(context.Background(), "u1", "A")
	assert.ErrorIs(t, err, ErrPushNotConfigured)
}
