package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/fx"
)

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// BackendConfig points at the external subscription/billing service the
// gateway proxies to.
type BackendConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type AuthConfig struct {
	// Secret verifies HS256 session tokens issued by the identity provider.
	Secret string `mapstructure:"secret"`
	// SignInURL is where unauthenticated purchase attempts are redirected.
	SignInURL string `mapstructure:"sign_in_url"`
}

// PaymentReturnConfig bounds the post-redirect payment status poll.
type PaymentReturnConfig struct {
	GraceDelaySeconds   int `mapstructure:"grace_delay_seconds"`
	PollIntervalSeconds int `mapstructure:"poll_interval_seconds"`
	MaxAttempts         int `mapstructure:"max_attempts"`
}

type SessionConfig struct {
	// BillingGranularityMinutes is the unit play time is rounded up to before
	// hours are deducted.
	BillingGranularityMinutes int `mapstructure:"billing_granularity_minutes"`
}

type Env string

const (
	EnvDev  Env = "dev"
	EnvProd Env = "prod"
)

type Config struct {
	Env           Env                 `mapstructure:"env"`
	Server        ServerConfig        `mapstructure:"server"`
	Backend       BackendConfig       `mapstructure:"backend"`
	Auth          AuthConfig          `mapstructure:"auth"`
	PaymentReturn PaymentReturnConfig `mapstructure:"payment_return"`
	Session       SessionConfig       `mapstructure:"session"`
	MetricsAddr   string              `mapstructure:"metrics_addr"`
}

func New() (*Config, error) {
	v := viper.New()
	// Allow overriding config file via env:
	// - APP_CONFIG_FILE: absolute or relative file path (e.g., /etc/app/prod.yaml)
	// - APP_CONFIG_NAME: config base name without extension (default: "config")
	if file := os.Getenv("APP_CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
	} else {
		cfgName := os.Getenv("APP_CONFIG_NAME")
		if cfgName == "" {
			cfgName = "config"
		}
		v.SetConfigName(cfgName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("env", "dev")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("backend.base_url", "http://localhost:3001")
	v.SetDefault("backend.timeout_seconds", 10)
	v.SetDefault("auth.sign_in_url", "/sign-in")
	v.SetDefault("payment_return.grace_delay_seconds", 2)
	v.SetDefault("payment_return.poll_interval_seconds", 3)
	v.SetDefault("payment_return.max_attempts", 20)
	v.SetDefault("session.billing_granularity_minutes", 15)
	v.SetDefault("metrics_addr", ":90")

	if err := v.ReadInConfig(); err != nil {
		_ = err
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &c, nil
}

var Module = fx.Options(
	fx.Provide(New),
)
