package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flavor_ai/config"
)

func newPlacesClient(t *testing.T, handler http.HandlerFunc) *GooglePlacesClient {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Defaults()
	cfg.Places.BaseURL = srv.URL
	cfg.Places.APIKey = "test-key"
	cfg.Places.ResultCap = 2
	return NewGooglePlacesClient(cfg)
}

func TestRadiusToMeters(t *testing.T) {
	testcases := []struct {
		unit   string
		want   float64
		wantOK bool
	}{
		{unit: "miles", want: 3218.68, wantOK: true},
		{unit: "MI", want: 3218.68, wantOK: true},
		{unit: "kilometers", want: 2000, wantOK: true},
		{unit: "km", want: 2000, wantOK: true},
		{unit: "furlongs", want: 0, wantOK: false},
	}
	for _, tc := range testcases {
		t.Run(tc.unit, func(t *testing.T) {
			got, ok := RadiusToMeters(2, tc.unit)
			assert.Equal(t, tc.wantOK, ok)
			assert.InDelta(t, tc.want, got, 1e-6)
		})
	}
}

func TestGooglePlacesClient_FindNearby(t *testing.T) {
	client := newPlacesClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/nearbysearch/json", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "restaurant", q.Get("type"))
		assert.Equal(t, "test-key", q.Get("key"))
		assert.Equal(t, "34.052235,-118.243683", q.Get("location"))
		assert.Equal(t, "3218.68", q.Get("radius"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "OK",
			"results": [
				{"place_id": "p1", "name": "Philippe The Original", "vicinity": "1001 N Alameda St", "opening_hours": {"open_now": true}},
				{"place_id": "p2", "name": "Burger Bonanza", "vicinity": "Main St"},
				{"place_id": "p3", "name": "Third Place", "vicinity": "Elsewhere"}
			]
		}`))
	})

	got := client.FindNearby(context.Background(), 34.052235, -118.243683, 3218.68)
	require.Len(t, got, 2)
	assert.Equal(t, "p1", got[0].ID)
	assert.Equal(t, "Philippe The Original", got[0].Name)
	assert.Equal(t, "1001 N Alameda St", got[0].Vicinity)
	require.NotNil(t, got[0].OpenNow)
	assert.True(t, *got[0].OpenNow)
	assert.Nil(t, got[1].OpenNow)
	assert.Nil(t, got[1].Flavor)
}

func TestGooglePlacesClient_FindNearbyFailures(t *testing.T) {
	testcases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "HTTP错误",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "错误状态",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"status": "REQUEST_DENIED", "error_message": "bad key", "results": []}`))
			},
		},
		{
			name: "响应无法解析",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>oops</html>`))
			},
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			got := newPlacesClient(t, tc.handler).FindNearby(context.Background(), 0, 0, 100)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestGooglePlacesClient_Reviews(t *testing.T) {
	client := newPlacesClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/details/json", r.URL.Path)
		assert.Equal(t, "reviews", r.URL.Query().Get("fields"))
		if r.URL.Query().Get("placeid") != "p1" {
			w.Write([]byte(`{"status": "NOT_FOUND"}`))
			return
		}
		w.Write([]byte(`{"status": "OK", "result": {"reviews": [{"text": "Great dip", "rating": 5}, {"text": "Too salty", "rating": 3}]}}`))
	})

	got := client.Reviews(context.Background(), "p1")
	require.Len(t, got, 2)
	assert.Equal(t, "Great dip", got[0].Text)
	assert.Equal(t, 3.0, got[1].Rating)

	assert.Empty(t, client.Reviews(context.Background(), "missing"))
}
