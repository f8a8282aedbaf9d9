// Package webhook posts JSON payloads to HTTP endpoints.
//
// Each Send is a single attempt bounded by a timeout. Failures are returned as
// errors wrapping one of the package sentinels, so callers can classify them
// with errors.Is without parsing messages:
//
//	resp, err := sender.Send(ctx, "https://bot.internal/send-broadcast", payload,
//		webhook.WithTimeout(10*time.Second),
//	)
//	switch {
//	case errors.Is(err, webhook.ErrTimeout):
//	case errors.Is(err, webhook.ErrConnectionRefused):
//	case errors.Is(err, webhook.ErrUnexpectedStatus):
//	}
//
// When a secret is configured with WithSignature the request carries
// X-Webhook-Signature, X-Webhook-Timestamp and X-Webhook-ID headers that the
// receiver checks with VerifySignature.
package webhook
