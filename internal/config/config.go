// Package config loads runtime settings from the environment and an optional file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	Timezone        string
	StoreBackend    string
	StoreFileDir    string
	SeedDemo        bool
	RedisAddr       string
	DatabaseURL     string
	JWTSecret       string
	JWTTTL          time.Duration
	LoginRatePerSec float64
	LoginRateBurst  int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("APP_TIMEZONE", "Local")
	v.SetDefault("STORE_BACKEND", BackendMemory)
	v.SetDefault("STORE_FILE_DIR", "data")
	v.SetDefault("STORE_SEED_DEMO", true)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_SECRET", "super-secret-key")
	v.SetDefault("JWT_TTL", "15m")
	v.SetDefault("LOGIN_RATE_PER_SEC", 1.0)
	v.SetDefault("LOGIN_RATE_BURST", 3)
}

// Load reads configuration from the environment. When CONFIG_FILE is set,
// that file is read first and environment variables override it.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", file, err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	ttl, err := time.ParseDuration(v.GetString("JWT_TTL"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid JWT_TTL: %w", err)
	}

	cfg := Config{
		HTTPAddr:        v.GetString("HTTP_ADDR"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFormat:       v.GetString("LOG_FORMAT"),
		Timezone:        v.GetString("APP_TIMEZONE"),
		StoreBackend:    strings.ToLower(v.GetString("STORE_BACKEND")),
		StoreFileDir:    v.GetString("STORE_FILE_DIR"),
		SeedDemo:        v.GetBool("STORE_SEED_DEMO"),
		RedisAddr:       v.GetString("REDIS_ADDR"),
		DatabaseURL:     v.GetString("DATABASE_URL"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		JWTTTL:          ttl,
		LoginRatePerSec: v.GetFloat64("LOGIN_RATE_PER_SEC"),
		LoginRateBurst:  v.GetInt("LOGIN_RATE_BURST"),
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory, BackendFile, BackendRedis, BackendPostgres:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.StoreBackend == BackendPostgres && c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required for the postgres backend")
	}
	if c.StoreBackend == BackendFile && c.StoreFileDir == "" {
		return errors.New("STORE_FILE_DIR is required for the file backend")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if c.LoginRatePerSec <= 0 || c.LoginRateBurst <= 0 {
		return errors.New("login rate limit must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves APP_TIMEZONE. "Local" and "" mean the host zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}
