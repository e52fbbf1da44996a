package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestKeyByIP(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"203.0.113.7:51234", "203.0.113.7"},
		{"[2001:db8::1]:443", "2001:db8::1"},
		{"203.0.113.7", "203.0.113.7"},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/weather/Paris", nil)
		r.RemoteAddr = tt.remote
		if got := KeyByIP(r); got != tt.want {
			t.Fatalf("KeyByIP(%q) = %q, want %q", tt.remote, got, tt.want)
		}
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	rl := New(nil, "rl", LimiterConfig{})
	if rl.Config.RPS != 5 || rl.Config.Burst != 10 {
		t.Fatalf("unexpected defaults: %+v", rl.Config)
	}
	rl = New(nil, "rl", LimiterConfig{RPS: 2, Burst: 3})
	if rl.Config.RPS != 2 || rl.Config.Burst != 3 {
		t.Fatalf("explicit config overridden: %+v", rl.Config)
	}
}

func TestMiddlewareFailsOpenWhenRedisIsDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	rl := New(client, "weather", LimiterConfig{RPS: 1, Burst: 1})
	called := false
	h := rl.Middleware(KeyByIP)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/weather/Paris", nil))
	if !called || rr.Code != http.StatusOK {
		t.Fatalf("expected request to pass through, called=%v status=%d", called, rr.Code)
	}
}
