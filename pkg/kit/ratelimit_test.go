package kit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
}

func hit(h http.Handler, remote, xff string) int {
	req := httptest.NewRequest(http.MethodGet, "/reserve_product/1", nil)
	req.RemoteAddr = remote
	if xff != "" {
		req.Header.Set("X-Forwarded-For", xff)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestIPRateLimiter_PerClientBudget(t *testing.T) {
	h := NewIPRateLimiter(2, time.Minute).Middleware(okHandler())

	for i := 0; i < 2; i++ {
		if code := hit(h, "10.0.0.1:5000", ""); code != http.StatusOK {
			t.Fatalf("hit %d status=%d", i, code)
		}
	}
	if code := hit(h, "10.0.0.1:5001", ""); code != http.StatusTooManyRequests {
		t.Fatalf("third hit status=%d want=429", code)
	}
	if code := hit(h, "10.0.0.2:5000", ""); code != http.StatusOK {
		t.Fatalf("other client status=%d", code)
	}
}

func TestIPRateLimiter_UsesForwardedFor(t *testing.T) {
	h := NewIPRateLimiter(1, time.Minute).Middleware(okHandler())

	if code := hit(h, "10.0.0.1:5000", "203.0.113.7, 10.0.0.1"); code != http.StatusOK {
		t.Fatalf("status=%d", code)
	}
	if code := hit(h, "10.0.0.9:5000", "203.0.113.7"); code != http.StatusTooManyRequests {
		t.Fatalf("status=%d want=429", code)
	}
}

func TestPrune(t *testing.T) {
	now := time.Now()
	ts := []time.Time{now.Add(-2 * time.Minute), now.Add(-time.Second), now}

	got := prune(ts, now.Add(-time.Minute))
	if len(got) != 2 {
		t.Fatalf("len=%d want=2", len(got))
	}
}

func TestRedisRateLimiter_FailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	h := NewRedisRateLimiter(client, "reserve", 1, time.Minute, zap.NewNop()).Middleware(okHandler())

	for i := 0; i < 3; i++ {
		if code := hit(h, "10.0.0.1:5000", ""); code != http.StatusOK {
			t.Fatalf("hit %d status=%d", i, code)
		}
	}
}

func TestIPRateLimiter_EvictsIdleClients(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := NewIPRateLimiter(5, time.Minute)
	l.now = func() time.Time { return now }
	h := l.Middleware(okHandler())

	hit(h, "10.0.0.1:5000", "")
	hit(h, "10.0.0.2:5000", "")
	if len(l.hits) != 2 {
		t.Fatalf("tracked=%d want=2", len(l.hits))
	}

	now = now.Add(2 * time.Minute)
	hit(h, "10.0.0.3:5000", "")

	if len(l.hits) != 1 {
		t.Fatalf("tracked=%d want=1 after idle window", len(l.hits))
	}
	if _, ok := l.hits["10.0.0.3"]; !ok {
		t.Fatalf("active client evicted")
	}
}
