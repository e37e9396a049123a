// Package config provides configuration loading and validation for the
// Postyar application: defaults, config.yaml, then BOT_* environment
// variables, validated with struct tags before use.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from defaults, an optional config.yaml in
// the working directory, and BOT_* environment variables, then
// validates the result. Secrets (telegram token, AI token) are expected
// from the environment: BOT_TELEGRAM_TOKEN, BOT_AI_TOKEN.
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
		// Missing config file is fine; defaults plus env cover it.
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.json", false)

	v.SetDefault("ai.backend", DefaultAIBackend)
	v.SetDefault("ai.base_url", DefaultAIBaseURL)
	v.SetDefault("ai.model", DefaultAIModel)
	v.SetDefault("ai.temperature", DefaultAITemperature)
	v.SetDefault("ai.max_tokens", DefaultAIMaxTokens)
	v.SetDefault("ai.timeout", DefaultAITimeout)
	v.SetDefault("ai.max_research_chars", DefaultAIMaxResearchChars)
	v.SetDefault("ai.retry_attempts", DefaultRetryAttempts)
	v.SetDefault("ai.retry_delay", DefaultRetryDelay)
	v.SetDefault("ai.breaker_max_failures", DefaultBreakerMaxFailures)
	v.SetDefault("ai.breaker_open_timeout", DefaultBreakerOpenTimeout)

	v.SetDefault("search.timeout", DefaultSearchTimeout)

	v.SetDefault("bot.daily_quota", DefaultDailyQuota)
	v.SetDefault("bot.min_topic_length", DefaultMinTopicLength)

	v.SetDefault("bot.messages.welcome", DefaultMessages.Welcome)
	v.SetDefault("bot.messages.help", DefaultMessages.Help)
	v.SetDefault("bot.messages.ask_topic", DefaultMessages.AskTopic)
	v.SetDefault("bot.messages.advanced_tips", DefaultMessages.AdvancedTips)
	v.SetDefault("bot.messages.cancelled", DefaultMessages.Cancelled)
	v.SetDefault("bot.messages.topic_too_short", DefaultMessages.TopicTooShort)
	v.SetDefault("bot.messages.quota_exceeded", DefaultMessages.QuotaExceeded)
	v.SetDefault("bot.messages.researching", DefaultMessages.Researching)
	v.SetDefault("bot.messages.generating", DefaultMessages.Generating)
	v.SetDefault("bot.messages.generation_failed", DefaultMessages.GenerationFailed)
	v.SetDefault("bot.messages.fallback_notice", DefaultMessages.FallbackNotice)
	v.SetDefault("bot.messages.done", DefaultMessages.Done)
	v.SetDefault("bot.messages.general_error", DefaultMessages.GeneralError)
	v.SetDefault("bot.messages.not_authorized", DefaultMessages.NotAuthorized)
	v.SetDefault("bot.messages.no_saved_content", DefaultMessages.NoSavedContent)
	v.SetDefault("bot.messages.sources_header", DefaultMessages.SourcesHeader)
	v.SetDefault("bot.messages.feedback_thanks", DefaultMessages.FeedbackThanks)

	v.SetDefault("database.path", DefaultDBPath)

	v.SetDefault("scheduler.tasks.sql_maintenance.enabled", true)
	v.SetDefault("scheduler.tasks.sql_maintenance.schedule", "0 4 * * *")
	v.SetDefault("scheduler.tasks.reminder_dispatch.enabled", true)
	v.SetDefault("scheduler.tasks.reminder_dispatch.schedule", "*/5 * * * *")
}
