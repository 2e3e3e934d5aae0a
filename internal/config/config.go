package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string `env:"BOT_TOKEN,required"`

	APIBaseURL      string `env:"API_BASE" envDefault:"https://api.forfriends.space/api/v1"`
	FlushCookiesURL string `env:"FLUSH_COOKIES_URL" envDefault:"https://forfriends.space/api/_flush_cookies"`

	// QRHost, when set, is prepended to the QR payload path so the code
	// encodes a full URL instead of a bare path.
	QRHost string `env:"QR_HOST"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"redis:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	FlowStateTTL       time.Duration `env:"FLOW_STATE_TTL" envDefault:"24h"`
	HTTPRequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`
	ResendCooldown     time.Duration `env:"RESEND_COOLDOWN" envDefault:"60s"`

	RegisterLanguage string `env:"REGISTER_LANGUAGE" envDefault:"ru"`
	RegisterTimezone string `env:"REGISTER_TIMEZONE" envDefault:"Europe/Moscow"`
}

func Load() (*Config, error) {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
