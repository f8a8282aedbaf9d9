package email

// Config selects and configures the mail backend. Without a Postmark server
// token messages are written to DevDir instead.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL" envDefault:"no-reply@bloodlink.local"`
	SupportEmail         string `env:"SUPPORT_EMAIL" envDefault:"support@bloodlink.local"`
	DevDir               string `env:"EMAIL_DEV_DIR" envDefault:"./tmp/emails"`
}

// UsePostmark reports whether a Postmark token is configured.
func (c Config) UsePostmark() bool {
	return c.PostmarkServerToken != ""
}
