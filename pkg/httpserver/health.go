package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// Check is a named readiness probe.
type Check struct {
	Name string
	Fn   func(context.Context) error
}

type healthResponse struct {
	Status      string            `json:"status"`
	Timestamp   time.Time         `json:"timestamp"`
	Environment string            `json:"environment,omitempty"`
	Checks      map[string]string `json:"checks,omitempty"`
}

// HealthHandler reports "OK" with 200 when every check passes, and "DEGRADED"
// with 503 otherwise. Each check gets up to timeout.
func HealthHandler(env string, timeout time.Duration, log *slog.Logger, checks ...Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{
			Status:      "OK",
			Timestamp:   time.Now().UTC(),
			Environment: env,
		}
		code := http.StatusOK

		if len(checks) > 0 {
			resp.Checks = make(map[string]string, len(checks))
		}
		for _, c := range checks {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			err := c.Fn(ctx)
			cancel()

			if err != nil {
				resp.Checks[c.Name] = "down"
				resp.Status = "DEGRADED"
				code = http.StatusServiceUnavailable
				if log != nil {
					log.WarnContext(r.Context(), "health check failed", slog.String("check", c.Name), slog.Any("error", err))
				}
				continue
			}
			resp.Checks[c.Name] = "up"
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
