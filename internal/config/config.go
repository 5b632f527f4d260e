package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Email    EmailConfig
	Slots    SlotsConfig
	Outbox   OutboxConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Port           int     `mapstructure:"port" envconfig:"SERVER_PORT"`
	TimeoutSeconds int     `mapstructure:"timeoutSeconds" envconfig:"SERVER_TIMEOUT_SECONDS"`
	RateLimitRPS   float64 `mapstructure:"rateLimitRPS" envconfig:"SERVER_RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"rateLimitBurst" envconfig:"SERVER_RATE_LIMIT_BURST"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host" envconfig:"DB_HOST"`
	Port     int    `mapstructure:"port" envconfig:"DB_PORT"`
	User     string `mapstructure:"user" envconfig:"DB_USER"`
	Password string `mapstructure:"password" envconfig:"DB_PASSWORD"`
	Name     string `mapstructure:"name" envconfig:"DB_NAME"`
	SSLMode  string `mapstructure:"sslmode" envconfig:"DB_SSLMODE"`
}

type RedisConfig struct {
	URL          string `mapstructure:"url" envconfig:"REDIS_URL"`
	MaxRetries   int    `mapstructure:"max_retries" envconfig:"REDIS_MAX_RETRIES"`
	PoolSize     int    `mapstructure:"pool_size" envconfig:"REDIS_POOL_SIZE"`
	MinIdleConns int    `mapstructure:"min_idle_conns" envconfig:"REDIS_MIN_IDLE_CONNS"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret" envconfig:"JWT_SECRET"`
	ExpiryHours int    `mapstructure:"expiry_hours" envconfig:"JWT_EXPIRY_HOURS"`
}

type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled" envconfig:"EMAIL_ENABLED"`
	Host     string `mapstructure:"host" envconfig:"EMAIL_HOST"`
	Port     int    `mapstructure:"port" envconfig:"EMAIL_PORT"`
	Username string `mapstructure:"username" envconfig:"EMAIL_USERNAME"`
	Password string `mapstructure:"password" envconfig:"EMAIL_PASSWORD"`
	From     string `mapstructure:"from" envconfig:"EMAIL_FROM"`
}

// SlotsConfig describes the office's bookable day.
type SlotsConfig struct {
	OpenHour    int `mapstructure:"open_hour" envconfig:"SLOTS_OPEN_HOUR"`
	OpenMinute  int `mapstructure:"open_minute" envconfig:"SLOTS_OPEN_MINUTE"`
	CloseHour   int `mapstructure:"close_hour" envconfig:"SLOTS_CLOSE_HOUR"`
	CloseMinute int `mapstructure:"close_minute" envconfig:"SLOTS_CLOSE_MINUTE"`
	StepMinutes int `mapstructure:"step_minutes" envconfig:"SLOTS_STEP_MINUTES"`
}

type OutboxConfig struct {
	BatchSize           int `mapstructure:"batch_size" envconfig:"OUTBOX_BATCH_SIZE"`
	PollIntervalSeconds int `mapstructure:"poll_interval_seconds" envconfig:"OUTBOX_POLL_INTERVAL_SECONDS"`
	RetryAttempts       int `mapstructure:"retry_attempts" envconfig:"OUTBOX_RETRY_ATTEMPTS"`
	RetryDelaySeconds   int `mapstructure:"retry_delay_seconds" envconfig:"OUTBOX_RETRY_DELAY_SECONDS"`
	RetentionHours      int `mapstructure:"retention_hours" envconfig:"OUTBOX_RETENTION_HOURS"`
}

type LoggingConfig struct {
	Level   string `mapstructure:"level" envconfig:"LOG_LEVEL"`
	Console bool   `mapstructure:"console" envconfig:"LOG_CONSOLE"`
}

// LoadConfig reads config.yaml and applies AGENDA_* environment
// overrides on top.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process("agenda", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment overrides: %w", err)
	}

	return &config, nil
}

func (c *JWTConfig) Expiry() time.Duration {
	hours := c.ExpiryHours
	if hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

func (c *OutboxConfig) PollInterval() time.Duration {
	if c.PollIntervalSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

func (c *OutboxConfig) RetryDelay() time.Duration {
	if c.RetryDelaySeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.RetryDelaySeconds) * time.Second
}
