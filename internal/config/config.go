package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type AuthConfig struct {
	AccessSecret string
}

type ContractsConfig struct {
	DefaultCity     string
	Locale          string
	DefaultCurrency string
	SessionTTL      time.Duration
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Contracts   ContractsConfig
}

// LocaleTag parses the configured locale; Load guarantees it is valid.
func (c ContractsConfig) LocaleTag() language.Tag {
	return language.MustParse(c.Locale)
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Contracts: ContractsConfig{
			DefaultCity:     v.GetString("CONTRACTS_DEFAULT_CITY"),
			Locale:          v.GetString("CONTRACTS_LOCALE"),
			DefaultCurrency: v.GetString("CONTRACTS_DEFAULT_CURRENCY"),
			SessionTTL:      v.GetDuration("CONTRACTS_SESSION_TTL"),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if cfg.Contracts.DefaultCity == "" {
		cfg.Contracts.DefaultCity = "Santiago"
	}
	if cfg.Contracts.Locale == "" {
		cfg.Contracts.Locale = "es-CL"
	}
	if cfg.Contracts.DefaultCurrency == "" {
		cfg.Contracts.DefaultCurrency = "CLP"
	}
	if cfg.Contracts.SessionTTL == 0 {
		cfg.Contracts.SessionTTL = 2 * time.Hour
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if _, err := language.Parse(cfg.Contracts.Locale); err != nil {
		return fmt.Errorf("CONTRACTS_LOCALE is invalid: %w", err)
	}
	return nil
}
