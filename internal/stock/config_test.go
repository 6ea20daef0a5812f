package stock

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"StockReserve/internal/reservation"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Port != "1245" || cfg.StoreDriver != DriverRedis || cfg.RedisAddr != "localhost:6379" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.ReserveMode != reservation.ModeReadWrite {
		t.Fatalf("mode=%s", cfg.ReserveMode)
	}
	if cfg.ReserveRateWindow != time.Minute || cfg.ReserveRateLimit != 0 {
		t.Fatalf("rate limit defaults: %d/%s", cfg.ReserveRateLimit, cfg.ReserveRateWindow)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stock.yaml")
	data := []byte("port: \"9000\"\nreserve_mode: atomic\nstore_driver: memory\nreserve_rate_limit: 5\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("PORT", "9100")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "9100" {
		t.Fatalf("port=%s want=9100", cfg.Port)
	}
	if cfg.ReserveMode != reservation.ModeAtomic || cfg.StoreDriver != DriverMemory || cfg.ReserveRateLimit != 5 {
		t.Fatalf("file values not applied: %+v", cfg)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"STORE_DRIVER":       "etcd",
		"RESERVE_MODE":       "optimistic",
		"RESERVE_RATE_LIMIT": "-1",
	}

	for env, val := range cases {
		t.Run(env, func(t *testing.T) {
			t.Setenv(env, val)
			if _, err := LoadConfig(""); err == nil {
				t.Fatalf("%s=%s accepted", env, val)
			}
		})
	}
}
