package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	t.Parallel()

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	doRequest := func(handler http.Handler, remoteAddr string) int {
		req := httptest.NewRequest(http.MethodPost, "/users/login", nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	t.Run("allows requests within the burst", func(t *testing.T) {
		t.Parallel()
		rl := NewRateLimiter(1, 3)
		defer rl.Stop()
		handler := rl.Limit(okHandler)

		for i := 0; i < 3; i++ {
			assert.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.1:1234"))
		}
	})

	t.Run("rejects requests past the burst", func(t *testing.T) {
		t.Parallel()
		rl := NewRateLimiter(0.001, 2)
		defer rl.Stop()
		handler := rl.Limit(okHandler)

		assert.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.1:1234"))
		assert.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.1:1234"))
		assert.Equal(t, http.StatusTooManyRequests, doRequest(handler, "10.0.0.1:1234"))
	})

	t.Run("limits are tracked per client IP", func(t *testing.T) {
		t.Parallel()
		rl := NewRateLimiter(0.001, 1)
		defer rl.Stop()
		handler := rl.Limit(okHandler)

		assert.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.1:1234"))
		assert.Equal(t, http.StatusTooManyRequests, doRequest(handler, "10.0.0.1:5678"),
			"same IP on a new port shares the limiter")
		assert.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.2:1234"),
			"a different IP gets its own limiter")
	})

	t.Run("stop terminates the cleanup goroutine", func(t *testing.T) {
		t.Parallel()
		rl := NewRateLimiter(1, 1)
		rl.Stop()

		done := make(chan struct{})
		go func() {
			rl.cleanup()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("cleanup did not exit after Stop")
		}
	})
}
