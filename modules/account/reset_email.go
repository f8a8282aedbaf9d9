package account

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"time"

	"github.com/a-h/templ"

	"github.com/bloodlink/bloodlink/pkg/email"
	"github.com/bloodlink/bloodlink/pkg/email/templates"
	"github.com/bloodlink/bloodlink/pkg/logger"
	"github.com/bloodlink/bloodlink/pkg/queue"
)

const resetEmailSubject = "Reset your BloodLink password"

func resetEmail(link string, expiresIn time.Duration) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html><body style="font-family:sans-serif">
<h2>Password reset</h2>
<p>We received a request to reset your BloodLink password.</p>
<p><a href="%s">Choose a new password</a></p>
<p>The link expires in %d minutes. If you did not ask for a reset, ignore this email.</p>
</body></html>`, templ.EscapeString(link), int(expiresIn.Minutes()))
		return err
	})
}

func resetEmailText(link string, expiresIn time.Duration) string {
	return fmt.Sprintf("Reset your BloodLink password: %s\nThe link expires in %d minutes.", link, int(expiresIn.Minutes()))
}

// NewResetEmailHandler delivers ResetEmailTask messages through sender.
func NewResetEmailHandler(cfg Config, sender email.EmailSender, log *slog.Logger) queue.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return queue.NewTaskHandler(func(ctx context.Context, task ResetEmailTask) error {
		link := cfg.ResetURL + "?token=" + url.QueryEscape(task.Token)
		body, err := templates.Render(ctx, resetEmail(link, cfg.ResetTokenTTL))
		if err != nil {
			return fmt.Errorf("render reset email: %w", err)
		}
		if err := sender.SendEmail(ctx, email.SendEmailParams{
			SendTo:   task.Email,
			Subject:  resetEmailSubject,
			BodyHTML: body,
			BodyText: resetEmailText(link, cfg.ResetTokenTTL),
			Tag:      "password-reset",
		}); err != nil {
			return err
		}
		log.InfoContext(ctx, "reset email sent", logger.UserID(task.UserID), logger.Component("account"))
		return nil
	})
}

// NewCleanupTask removes expired tokens on each scheduler tick.
func NewCleanupTask(s *Service) queue.Handler {
	return queue.NewPeriodicTaskHandler("account.cleanup_expired_tokens", s.CleanupExpired)
}
