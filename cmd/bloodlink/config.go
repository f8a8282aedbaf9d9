package main

import (
	"time"

	"github.com/bloodlink/bloodlink/pkg/logger"
)

type appConfig struct {
	Env         string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"bloodlink"`
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	RateLimitWindow  time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`
	RateLimitMax     int           `env:"RATE_LIMIT_MAX_REQUESTS" envDefault:"100"`
	AuthRateLimitMax int           `env:"AUTH_RATE_LIMIT_MAX_REQUESTS" envDefault:"5"`

	QueueCapacity    int           `env:"QUEUE_CAPACITY" envDefault:"256"`
	QueueConcurrency int           `env:"QUEUE_CONCURRENCY" envDefault:"4"`
	TaskTimeout      time.Duration `env:"QUEUE_TASK_TIMEOUT" envDefault:"30s"`

	HealthCheckTimeout time.Duration `env:"HEALTH_CHECK_TIMEOUT" envDefault:"3s"`
}

func (c appConfig) production() bool {
	return c.Env == logger.EnvProduction || c.Env == "prod"
}

// limits returns the API and auth request limits per window. Development
// gets ten times more headroom.
func (c appConfig) limits() (api, auth int) {
	if c.production() {
		return c.RateLimitMax, c.AuthRateLimitMax
	}
	return c.RateLimitMax * 10, c.AuthRateLimitMax * 10
}
