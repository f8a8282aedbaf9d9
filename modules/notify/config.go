package notify

import "time"

// Config points the dispatcher at the external Telegram bot service.
type Config struct {
	BotURL      string        `env:"TELEGRAM_BOT_URL" envDefault:"http://localhost:8081"`
	Timeout     time.Duration `env:"TELEGRAM_BOT_TIMEOUT" envDefault:"10s"`
	PingTimeout time.Duration `env:"TELEGRAM_BOT_PING_TIMEOUT" envDefault:"5s"`
	// Secret signs outgoing broadcasts when set.
	Secret string `env:"TELEGRAM_BOT_SECRET"`
}
