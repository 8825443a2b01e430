package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is loaded once at process start and is immutable afterwards.
type Config struct {
	DatabaseURL string `mapstructure:"database_url"`

	Telegram struct {
		BotToken  string `mapstructure:"bot_token"`
		ChannelID string `mapstructure:"channel_id"` // broadcast destination for reminders
		// AllowedUserIDs gates every conversational entry point.
		AllowedUserIDs []int64 `mapstructure:"allowed_user_ids"`
		PollTimeout    int     `mapstructure:"poll_timeout_seconds"`
	} `mapstructure:"telegram"`

	Scheduler struct {
		ScanInterval time.Duration `mapstructure:"scan_interval"`
		SendTimeout  time.Duration `mapstructure:"send_timeout"`
		SendDelay    time.Duration `mapstructure:"send_delay"`
	} `mapstructure:"scheduler"`

	OpenAIAPIKey string `mapstructure:"openai_api_key"`
	LogLevel     string `mapstructure:"log_level"`
}

// Load reads configs/config.yaml if present, then applies environment
// overrides. A .env file is honored for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile("configs/config.yaml")
	v.AutomaticEnv()

	v.SetDefault("log_level", "info")
	v.SetDefault("telegram.poll_timeout_seconds", 30)
	v.SetDefault("scheduler.scan_interval", time.Hour)
	v.SetDefault("scheduler.send_timeout", 10*time.Second)
	v.SetDefault("scheduler.send_delay", time.Second)

	// Config file is optional; env vars alone are enough to run.
	_ = v.ReadInConfig()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}

	if s := v.GetString("DATABASE_URL"); s != "" {
		cfg.DatabaseURL = s
	}
	if s := v.GetString("BOT_TOKEN"); s != "" {
		cfg.Telegram.BotToken = s
	}
	if s := v.GetString("TELEGRAM_CHANNEL_ID"); s != "" {
		cfg.Telegram.ChannelID = s
	}
	if s := v.GetString("OPENAI_API_KEY"); s != "" {
		cfg.OpenAIAPIKey = s
	}
	if s := v.GetString("LOG_LEVEL"); s != "" {
		cfg.LogLevel = s
	}
	if s := v.GetString("ALLOWED_USER_IDS"); s != "" {
		ids, err := ParseUserIDs(s)
		if err != nil {
			return nil, err
		}
		cfg.Telegram.AllowedUserIDs = ids
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	return &cfg, nil
}

// ParseUserIDs parses a comma-separated list of Telegram user ids,
// ignoring blank entries.
func ParseUserIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q in ALLOWED_USER_IDS", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
