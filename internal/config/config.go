// Package config manages application configuration from environment variables,
// an optional config.yaml file, and default values.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-telegram/bot/models"
	"github.com/spf13/viper"
)

// TelegramConfig holds the Telegram transport settings. BotInfo is filled in
// at startup from GetMe and is not part of the user-facing configuration.
type TelegramConfig struct {
	Token   string       `mapstructure:"token" validate:"required"`
	BotInfo *models.User `mapstructure:"-"`
}

// GeminiConfig holds the settings for the Gemini inference provider.
type GeminiConfig struct {
	APIKey      string        `mapstructure:"api_key" validate:"required"`
	Model       string        `mapstructure:"model" validate:"required"`
	Temperature float32       `mapstructure:"temperature" validate:"min=0,max=2"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"min=1s,max=10m"`
}

// CacheConfig controls the response cache. When disabled the bot calls the
// provider for every request and no database file is created.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Path    string        `mapstructure:"path"`
	TTL     time.Duration `mapstructure:"ttl" validate:"min=1m"`
}

// SchedulerConfig controls the periodic cache maintenance task.
type SchedulerConfig struct {
	MaintenanceInterval time.Duration `mapstructure:"maintenance_interval" validate:"min=1m"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level        string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON         bool   `mapstructure:"json"`
	DebugUpdates bool   `mapstructure:"debug_updates"`
}

// Messages holds the static user-facing reply texts.
type Messages struct {
	Welcome      string `mapstructure:"welcome" validate:"required"`
	ProviderFail string `mapstructure:"provider_fail" validate:"required"`
}

// Config is the full application configuration. Values can be set through
// environment variables prefixed with BOT_ (e.g. BOT_TELEGRAM_TOKEN,
// BOT_AUTHORIZED_GROUPS) or through config.yaml.
type Config struct {
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Log       LogConfig       `mapstructure:"log"`
	Messages  Messages        `mapstructure:"messages"`

	// AuthorizedGroupsRaw is the comma-separated chat ID list as configured.
	// AuthorizedGroups is the parsed policy; nil means all chats are allowed.
	AuthorizedGroupsRaw string      `mapstructure:"authorized_groups"`
	AuthorizedGroups    GroupPolicy `mapstructure:"-"`
}

// Load reads configuration from defaults, config.yaml, and BOT_* environment
// variables, then validates it. A missing config file is not an error; missing
// required values are.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// A malformed group list must not prevent startup; fall back to allowing
	// all chats and let the log entry surface the mistake.
	policy, err := ParsePolicyStrict(cfg.AuthorizedGroupsRaw)
	if err != nil {
		slog.Error("failed to parse authorized group list, allowing all chats",
			"value", cfg.AuthorizedGroupsRaw, "error", err)
		policy = nil
	}
	cfg.AuthorizedGroups = policy

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Registering every key (including required ones, as empty) is what lets
	// AutomaticEnv feed values into Unmarshal.
	v.SetDefault("telegram.token", "")

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("gemini.temperature", 1.0)
	v.SetDefault("gemini.timeout", 2*time.Minute)

	v.SetDefault("authorized_groups", "")

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.path", "cache.db")
	v.SetDefault("cache.ttl", 30*24*time.Hour)

	v.SetDefault("scheduler.maintenance_interval", 6*time.Hour)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.debug_updates", false)

	v.SetDefault("messages.welcome", "Hello! I explain memes. Mention me in a reply to a meme image!")
	v.SetDefault("messages.provider_fail", "Error processing meme: %s")
}
