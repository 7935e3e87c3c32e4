package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port             string
	DatabaseDriver   string
	DatabaseURL      string
	SQLitePath       string
	JWTSecret        string
	TokenTTL         time.Duration
	AllowedOrigins   []string
	DemoMode         bool
	BcryptCost       int
	NotifyDriver     string
	AMQPURL          string
	AMQPQueue        string
	DiscordToken     string
	DiscordChannelID string
}

var defaults = map[string]any{
	"PORT":            "8080",
	"DATABASE_DRIVER": "postgres",
	"SQLITE_PATH":     "pocketbook.db",
	"TOKEN_TTL":       "168h",
	"ALLOWED_ORIGINS": "http://localhost:3000",
	"DEMO_MODE":       false,
	"BCRYPT_COST":     12,
	"NOTIFY_DRIVER":   "log",
	"AMQP_QUEUE":      "budget_notifications",
}

// New returns a viper instance reading the environment, with a .env file
// loaded first if present. Command-line flags are bound onto it by the caller.
func New() *viper.Viper {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return v
}

func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port:             v.GetString("PORT"),
		DatabaseDriver:   strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseURL:      v.GetString("DATABASE_URL"),
		SQLitePath:       v.GetString("SQLITE_PATH"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		TokenTTL:         v.GetDuration("TOKEN_TTL"),
		AllowedOrigins:   splitList(v.GetString("ALLOWED_ORIGINS")),
		DemoMode:         v.GetBool("DEMO_MODE"),
		BcryptCost:       v.GetInt("BCRYPT_COST"),
		NotifyDriver:     strings.ToLower(v.GetString("NOTIFY_DRIVER")),
		AMQPURL:          v.GetString("AMQP_URL"),
		AMQPQueue:        v.GetString("AMQP_QUEUE"),
		DiscordToken:     v.GetString("DISCORD_BOT_TOKEN"),
		DiscordChannelID: v.GetString("DISCORD_CHANNEL_ID"),
	}

	switch cfg.DatabaseDriver {
	case "postgres":
		if cfg.DatabaseURL == "" {
			return cfg, fmt.Errorf("DATABASE_URL is required")
		}
	case "sqlite":
		if cfg.SQLitePath == "" {
			return cfg, fmt.Errorf("SQLITE_PATH is required")
		}
	default:
		return cfg, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}

	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.TokenTTL <= 0 {
		return cfg, fmt.Errorf("TOKEN_TTL must be positive")
	}
	if cfg.NotifyDriver == "amqp" && cfg.AMQPURL == "" {
		return cfg, fmt.Errorf("AMQP_URL is required for the amqp notify driver")
	}

	return cfg, nil
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
