package config

import (
	"time"

	"github.com/go-telegram/bot/models"
)

// Config is the root configuration for the Postyar application.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	AI        AIConfig        `mapstructure:"ai"`
	Search    SearchConfig    `mapstructure:"search"`
	Bot       BotConfig       `mapstructure:"bot"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// LogConfig controls slog output.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot token and admin identity. The token is
// environment-sourced (BOT_TELEGRAM_TOKEN); it is never embedded in
// source.
type TelegramConfig struct {
	Token       string `mapstructure:"token"         validate:"required"`
	AdminUserID int64  `mapstructure:"admin_user_id" validate:"required,gt=0"`

	// BotInfo is populated at startup from GetMe, not from config.
	BotInfo *models.User `mapstructure:"-"`
}

// AIConfig configures the chat-completion backend.
type AIConfig struct {
	Backend          string        `mapstructure:"backend"            validate:"oneof=openai gemini"`
	Token            string        `mapstructure:"token"              validate:"required"`
	BaseURL          string        `mapstructure:"base_url"           validate:"url"`
	Model            string        `mapstructure:"model"`
	Temperature      float32       `mapstructure:"temperature"        validate:"min=0,max=2"`
	MaxTokens        int           `mapstructure:"max_tokens"         validate:"min=1"`
	Timeout          time.Duration `mapstructure:"timeout"            validate:"min=1s,max=10m"`
	MaxResearchChars int           `mapstructure:"max_research_chars" validate:"min=500"`

	RetryAttempts      int           `mapstructure:"retry_attempts"       validate:"min=1,max=10"`
	RetryDelay         time.Duration `mapstructure:"retry_delay"          validate:"min=100ms"`
	BreakerMaxFailures uint32        `mapstructure:"breaker_max_failures"`
	BreakerOpenTimeout time.Duration `mapstructure:"breaker_open_timeout"`
}

// SearchConfig configures the scraping client.
type SearchConfig struct {
	Timeout time.Duration `mapstructure:"timeout" validate:"min=1s,max=2m"`
}

// BotConfig holds conversation behavior and user-facing messages.
type BotConfig struct {
	DailyQuota     int `mapstructure:"daily_quota"      validate:"min=1"`
	MinTopicLength int `mapstructure:"min_topic_length" validate:"min=1"`

	Messages Messages `mapstructure:"messages"`
}

// Messages are all user-facing strings, configurable so operators can
// localize without rebuilding.
type Messages struct {
	Welcome          string `mapstructure:"welcome"`
	Help             string `mapstructure:"help"`
	AskTopic         string `mapstructure:"ask_topic"`
	AdvancedTips     string `mapstructure:"advanced_tips"`
	Cancelled        string `mapstructure:"cancelled"`
	TopicTooShort    string `mapstructure:"topic_too_short"`
	QuotaExceeded    string `mapstructure:"quota_exceeded"`
	Researching      string `mapstructure:"researching"`
	Generating       string `mapstructure:"generating"`
	GenerationFailed string `mapstructure:"generation_failed"`
	FallbackNotice   string `mapstructure:"fallback_notice"`
	Done             string `mapstructure:"done"`
	GeneralError     string `mapstructure:"general_error"`
	NotAuthorized    string `mapstructure:"not_authorized"`
	NoSavedContent   string `mapstructure:"no_saved_content"`
	SourcesHeader    string `mapstructure:"sources_header"`
	FeedbackThanks   string `mapstructure:"feedback_thanks"`
}

// DatabaseConfig configures the SQLite store.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig enables one scheduled task with a cron expression.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}
