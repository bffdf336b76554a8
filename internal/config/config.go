package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config groups the application configuration, read via Viper from the
// environment and optionally a config.yaml next to the binary.
type Config struct {
	Addr            string
	DatabaseURL     string
	RedisAddr       string
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	SchemaPath      string
	RateLimitRPS    float64
	RateLimitBurst  int
}

// Load reads configuration with sane local-dev defaults. DATABASE_URL has no
// default and must be provided.
func Load() (Config, error) {
	v := viper.New()
	v.SetDefault("addr", ":8080")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("jwt_secret", "dev-secret-change-me")
	v.SetDefault("access_token_ttl", 15*time.Minute)
	v.SetDefault("refresh_token_ttl", 7*24*time.Hour)
	v.SetDefault("schema_path", "")
	v.SetDefault("rate_limit_rps", 1.0)
	v.SetDefault("rate_limit_burst", 3)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	cfg := Config{
		Addr:            v.GetString("addr"),
		DatabaseURL:     v.GetString("database_url"),
		RedisAddr:       v.GetString("redis_addr"),
		JWTSecret:       v.GetString("jwt_secret"),
		AccessTokenTTL:  v.GetDuration("access_token_ttl"),
		RefreshTokenTTL: v.GetDuration("refresh_token_ttl"),
		SchemaPath:      v.GetString("schema_path"),
		RateLimitRPS:    v.GetFloat64("rate_limit_rps"),
		RateLimitBurst:  v.GetInt("rate_limit_burst"),
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	return cfg, nil
}
