package account

import "time"

type Config struct {
	JWTSecret       string        `env:"JWT_SECRET,notEmpty"`
	JWTIssuer       string        `env:"JWT_ISSUER" envDefault:"bloodlink"`
	AccessTokenTTL  time.Duration `env:"JWT_EXPIRES_IN" envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"JWT_REFRESH_EXPIRES_IN" envDefault:"168h"`

	// ResetSecret signs password reset tokens. Falls back to JWTSecret.
	ResetSecret   string        `env:"PASSWORD_RESET_SECRET"`
	ResetTokenTTL time.Duration `env:"PASSWORD_RESET_TTL" envDefault:"10m"`
	ResetURL      string        `env:"PASSWORD_RESET_URL" envDefault:"http://localhost:3000/reset-password"`

	BcryptCost int `env:"BCRYPT_COST" envDefault:"12"`

	// ExposeResetToken returns the reset token in the forgot-password
	// response. Development only.
	ExposeResetToken bool `env:"EXPOSE_RESET_TOKEN" envDefault:"false"`

	CleanupInterval time.Duration `env:"TOKEN_CLEANUP_INTERVAL" envDefault:"1h"`
}

func (c Config) resetSecret() string {
	if c.ResetSecret != "" {
		return c.ResetSecret
	}
	return c.JWTSecret
}
