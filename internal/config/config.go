package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/brightsmile/scheduling-api/internal/repository/postgres"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Backend   BackendConfig   `mapstructure:"backend"`
	Payment   PaymentConfig   `mapstructure:"payment"`
	Booking   BookingConfig   `mapstructure:"booking"`
	Database  postgres.Config `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port           int `mapstructure:"port"`
	TimeoutSeconds int `mapstructure:"timeoutSeconds"`
}

// BackendConfig points at the clinic management API this gateway fronts.
type BackendConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeoutSeconds"`
}

type PaymentConfig struct {
	BaseURL         string `mapstructure:"base_url"`
	KeyID           string `mapstructure:"key_id"`
	KeySecret       string `mapstructure:"key_secret"`
	Currency        string `mapstructure:"currency"`
	BookingFeeMinor int64  `mapstructure:"booking_fee_minor"`
	TimeoutSeconds  int    `mapstructure:"timeoutSeconds"`
}

type BookingConfig struct {
	CutoffHour       int     `mapstructure:"cutoff_hour"`
	HorizonDays      int     `mapstructure:"horizon_days"`
	Timezone         string  `mapstructure:"timezone"`
	MaxDurationHours float64 `mapstructure:"max_duration_hours"`
	SymptomsLimit    int     `mapstructure:"symptoms_limit"`
	CacheTTLSeconds  int     `mapstructure:"cache_ttl_seconds"`
}

type RedisConfig struct {
	URL          string `mapstructure:"url"`
	MaxRetries   int    `mapstructure:"max_retries"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

func (c ServerConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c BackendConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c PaymentConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c BookingConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
