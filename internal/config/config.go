// Package config loads runtime configuration from the environment and an
// optional .env file. The bot token and the OpenAI key are mandatory;
// everything else has a default.
package config

import (
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	TelegramToken string
	OpenAIKey     string

	Model          string
	BaseURL        string
	GatewayTimeout time.Duration

	DataDir  string
	WorkRoot string
	DBPath   string // empty disables the translation memory
}

// Load reads configuration. A .env file in the working directory is applied
// first when present; real environment variables win over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("subtran")
	v.AutomaticEnv()

	// Accept the conventional unprefixed names for the two credentials.
	_ = v.BindEnv("telegram_token", "SUBTRAN_TELEGRAM_TOKEN", "TELEGRAM_BOT_TOKEN")
	_ = v.BindEnv("openai_api_key", "SUBTRAN_OPENAI_API_KEY", "OPENAI_API_KEY")

	v.SetDefault("data_dir", "data")
	v.SetDefault("work_root", "work")
	v.SetDefault("db_path", "")
	v.SetDefault("model", "")
	v.SetDefault("base_url", "")
	v.SetDefault("gateway_timeout", time.Duration(0))

	cfg := &Config{
		TelegramToken:  v.GetString("telegram_token"),
		OpenAIKey:      v.GetString("openai_api_key"),
		Model:          v.GetString("model"),
		BaseURL:        v.GetString("base_url"),
		GatewayTimeout: v.GetDuration("gateway_timeout"),
		DataDir:        v.GetString("data_dir"),
		WorkRoot:       v.GetString("work_root"),
		DBPath:         v.GetString("db_path"),
	}

	if cfg.TelegramToken == "" || cfg.OpenAIKey == "" {
		return nil, errors.New("TELEGRAM_BOT_TOKEN and OPENAI_API_KEY must be set (see .env.example)")
	}

	return cfg, nil
}
