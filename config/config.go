package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Booking backend and content feeds.
	BookingAPIURL     string `mapstructure:"BOOKING_API_URL"`
	ContentFeedURL    string `mapstructure:"CONTENT_FEED_URL"`
	ReservationURL    string `mapstructure:"RESERVATION_URL"`
	FeedCurrency      string `mapstructure:"FEED_CURRENCY"`
	GatewayTimeoutSec int    `mapstructure:"GATEWAY_TIMEOUT_SEC"`

	// Assistant runtime.
	OpenAIAPIKey   string `mapstructure:"OPENAI_API_KEY"`
	AssistantID    string `mapstructure:"ASSISTANT_ID"`
	PollIntervalMS int    `mapstructure:"POLL_INTERVAL_MS"`
	RunDeadlineSec int    `mapstructure:"RUN_DEADLINE_SEC"`

	// When true, a connection failure while creating a booking degrades to
	// a mock success payload instead of an error. Off by default so real
	// and demo bookings never mix silently.
	DemoFallback bool `mapstructure:"DEMO_FALLBACK"`

	// Redis configuration for the conversation store.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8000")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("BOOKING_API_URL", "http://127.0.0.1:8080")
	viper.SetDefault("CONTENT_FEED_URL", "https://www.fourseasons.com/alt/apps/fshr/feeds")
	viper.SetDefault("RESERVATION_URL", "https://reservations.fourseasons.com")
	viper.SetDefault("FEED_CURRENCY", "INR")
	viper.SetDefault("GATEWAY_TIMEOUT_SEC", 10)
	viper.SetDefault("POLL_INTERVAL_MS", 1000)
	viper.SetDefault("RUN_DEADLINE_SEC", 120)
	viper.SetDefault("DEMO_FALLBACK", false)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// GatewayTimeout returns the bounded timeout applied to every backend and
// content feed call.
func GatewayTimeout() time.Duration {
	return time.Duration(AppConfig.GatewayTimeoutSec) * time.Second
}

// PollInterval returns the fixed delay between run status polls.
func PollInterval() time.Duration {
	return time.Duration(AppConfig.PollIntervalMS) * time.Millisecond
}

// RunDeadline returns the maximum time one turn may wait for a run to
// reach a terminal status.
func RunDeadline() time.Duration {
	return time.Duration(AppConfig.RunDeadlineSec) * time.Second
}
