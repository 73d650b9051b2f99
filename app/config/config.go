package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log      Log      `yaml:"log"`
	Server   Server   `yaml:"server"`
	WhatsApp WhatsApp `yaml:"whatsapp"`
	OpenAI   OpenAI   `yaml:"openai"`
	Session  Session  `yaml:"session"`
}

type OpenAI struct {
	Reply  ModelConfig `yaml:"reply" validate:"required"`
	Intent ModelConfig `yaml:"intent" validate:"required"`
}

type ModelConfig struct {
	// OpenAI base url
	BaseURL string `yaml:"base_url" example:"https://openrouter.ai/api/v1" validate:"required"`
	// OpenAI token
	Token string `yaml:"token" example:"sk-proj-abc123456789DEF789ghi012JKL345mno678PQR901stu234VWX" validate:"required"`
	// OpenAI model
	Model string `yaml:"model" example:"deepseek/deepseek-chat-v3-0324:free" validate:"required"`
}

type WhatsApp struct {
	// Token the platform echoes back during webhook subscription
	VerifyToken string `yaml:"verify_token" example:"my-verify-token" validate:"required"`
	// Graph API bearer token of the bot account
	AccessToken string `yaml:"access_token" example:"EAAGm0PX4ZCpsBO123abc" validate:"required"`
	// Phone number id the bot sends from
	PhoneNumberID string `yaml:"phone_number_id" example:"106540352242922" validate:"required"`
	// Graph API base url
	BaseURL string `yaml:"base_url" example:"https://graph.facebook.com/v19.0"`
	// Do not actually send outbound messages, only log them
	DisableSending bool `yaml:"disable_sending" example:"false"`
}

type Server struct {
	// Address the webhook server listens on
	Addr string `yaml:"addr" example:":8080"`
}

type Session struct {
	// Evict sessions idle longer than this, 0 disables eviction
	IdleTTL time.Duration `yaml:"idle_ttl" example:"30m"`
}

type Log struct {
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

func Load() (*Config, error) {
	var result Config

	data, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if err = yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	if result.Server.Addr == "" {
		result.Server.Addr = ":8080"
	}
	if result.WhatsApp.BaseURL == "" {
		result.WhatsApp.BaseURL = "https://graph.facebook.com/v19.0"
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}
