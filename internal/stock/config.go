package stock

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"StockReserve/internal/reservation"
)

const (
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

type Config struct {
	Port     string
	LogLevel string

	StoreDriver   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ReserveMode reservation.Mode
	CatalogDSN  string

	ReserveRateLimit  int
	ReserveRateWindow time.Duration

	MetricsEnabled bool
	MetricsToken   string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "1245")
	v.SetDefault("log_level", "info")
	v.SetDefault("store_driver", DriverRedis)
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("reserve_mode", string(reservation.ModeReadWrite))
	v.SetDefault("catalog_dsn", "")
	v.SetDefault("reserve_rate_limit", 0)
	v.SetDefault("reserve_rate_window", "60s")
	v.SetDefault("metrics_enabled", true)
	v.SetDefault("metrics_token", "")
}

// LoadConfig reads defaults, then the optional config file, then the
// environment (PORT, REDIS_ADDR, ...), later sources winning.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	mode, err := reservation.ParseMode(v.GetString("reserve_mode"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:              v.GetString("port"),
		LogLevel:          v.GetString("log_level"),
		StoreDriver:       v.GetString("store_driver"),
		RedisAddr:         v.GetString("redis_addr"),
		RedisPassword:     v.GetString("redis_password"),
		RedisDB:           v.GetInt("redis_db"),
		ReserveMode:       mode,
		CatalogDSN:        v.GetString("catalog_dsn"),
		ReserveRateLimit:  v.GetInt("reserve_rate_limit"),
		ReserveRateWindow: v.GetDuration("reserve_rate_window"),
		MetricsEnabled:    v.GetBool("metrics_enabled"),
		MetricsToken:      v.GetString("metrics_token"),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StoreDriver {
	case DriverRedis, DriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.ReserveRateLimit < 0 {
		return fmt.Errorf("reserve_rate_limit must not be negative")
	}
	if c.ReserveRateLimit > 0 && c.ReserveRateWindow <= 0 {
		return fmt.Errorf("reserve_rate_window must be positive")
	}
	return nil
}
