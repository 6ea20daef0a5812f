//go:build integration
// +build integration

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	baseURL   = getenv("E2E_BASE_URL", "http://localhost:1245")
	redisAddr = getenv("E2E_REDIS_ADDR", "localhost:6379")
)

// Item 3 ("Suitcase 650") starts with 2 units.
const itemID = "3"

func TestSystem_E2E_ReserveUntilExhausted(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")
	resetReservation(t, ctx, "item."+itemID)

	var products []map[string]any
	getJSON(t, baseURL+"/list_products", &products)
	if len(products) == 0 {
		t.Fatalf("expected non-empty products")
	}

	for i := 0; i < 2; i++ {
		var got map[string]any
		getJSON(t, baseURL+"/reserve_product/"+itemID, &got)
		if got["status"] != "Reservation confirmed" {
			t.Fatalf("reservation %d: %#v", i+1, got)
		}
	}

	var got map[string]any
	getJSON(t, baseURL+"/reserve_product/"+itemID, &got)
	if got["status"] != "Not enough stock available" {
		t.Fatalf("third reservation: %#v", got)
	}

	assertCurrentQuantity(t, 0)

	if os.Getenv("E2E_RESTART_STOCK") == "1" {
		restartStockContainer(t, ctx)
		waitReady(t, ctx, baseURL+"/readyz")
		assertCurrentQuantity(t, 0)
	}
}

func TestSystem_E2E_UnknownProduct(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")

	var got map[string]any
	getJSON(t, baseURL+"/list_products/99", &got)
	if got["status"] != "Product not found" {
		t.Fatalf("unexpected body: %#v", got)
	}
}

func assertCurrentQuantity(t *testing.T, want float64) {
	t.Helper()

	var p map[string]any
	getJSON(t, baseURL+"/list_products/"+itemID, &p)
	if p["currentQuantity"] != want {
		t.Fatalf("currentQuantity=%v want=%v", p["currentQuantity"], want)
	}
}

func resetReservation(t *testing.T, ctx context.Context, key string) {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer client.Close()

	if err := client.Del(ctx, key).Err(); err != nil {
		t.Fatalf("reset %s: %v", key, err)
	}
}

func waitReady(t *testing.T, ctx context.Context, url string) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}

	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := client.Do(req)
		if err == nil && resp != nil && resp.StatusCode == 200 {
			_ = resp.Body.Close()
			return
		}
		if resp != nil {
			_ = resp.Body.Close()
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("service not ready: %s", url)
}

func getJSON(t *testing.T, url string, out any) {
	t.Helper()

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status=%d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
