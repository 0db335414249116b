package photo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/deppfellow/users-service/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, timeout time.Duration) (*Client, *int32) {
	t.Helper()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	logger := zerolog.Nop()
	client := NewClient(config.IntegrationConfig{
		ProfilePhotoURL:     srv.URL,
		ProfilePhotoTimeout: timeout,
	}, &logger)

	return client, &hits
}

func TestClient_Fetch(t *testing.T) {
	jpeg := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10}

	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(jpeg)
	}, time.Second)

	assert.Equal(t, jpeg, client.Fetch(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestClient_FetchNonOK(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("try later"))
	}, time.Second)

	assert.Nil(t, client.Fetch(context.Background()))
}

func TestClient_FetchEmptyBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, time.Second)

	assert.Nil(t, client.Fetch(context.Background()))
}

func TestClient_FetchTimeout(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, 50*time.Millisecond)

	start := time.Now()
	assert.Nil(t, client.Fetch(context.Background()))
	assert.Less(t, time.Since(start), time.Second)
}

func TestClient_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, time.Second)

	for i := 0; i < 5; i++ {
		assert.Nil(t, client.Fetch(context.Background()))
	}
	assert.Equal(t, int32(5), atomic.LoadInt32(hits))

	assert.Nil(t, client.Fetch(context.Background()))
	assert.Equal(t, int32(5), atomic.LoadInt32(hits), "open breaker must not reach the upstream")
}
