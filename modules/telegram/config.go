package telegram

// Config describes the BloodLink Telegram bot as users see it.
type Config struct {
	BotUsername string `env:"TELEGRAM_BOT_USERNAME" envDefault:"BloodLinkBot"`
	QRSize      int    `env:"TELEGRAM_QR_SIZE" envDefault:"256"`

	// Secret, when set, requires link requests to be signed by the bot.
	Secret string `env:"TELEGRAM_BOT_SECRET"`
}
