package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config is everything the console needs to reach the backend.
type Config struct {
	BaseURL     string
	Token       string
	HTTPTimeout time.Duration
	StateDir    string
	Currency    string
}

// Load reads .env (when present) and the environment, environment winning.
func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.BindEnv("api.base_url", "API_BASE_URL")
	viper.BindEnv("api.token", "API_TOKEN")
	viper.BindEnv("api.timeout_seconds", "API_TIMEOUT_SECONDS")
	viper.BindEnv("state.dir", "STATE_DIR")
	viper.BindEnv("tenant.currency", "TENANT_CURRENCY")

	viper.SetDefault("api.base_url", "http://localhost:8000")
	viper.SetDefault("api.timeout_seconds", 30)
	viper.SetDefault("state.dir", ".oxmanage")
	viper.SetDefault("tenant.currency", "USD")

	// Missing .env is fine; the environment alone is enough.
	viper.ReadInConfig()

	return &Config{
		BaseURL:     viper.GetString("api.base_url"),
		Token:       viper.GetString("api.token"),
		HTTPTimeout: time.Duration(viper.GetInt("api.timeout_seconds")) * time.Second,
		StateDir:    viper.GetString("state.dir"),
		Currency:    viper.GetString("tenant.currency"),
	}
}
