// Package notify sends broadcast messages to donors through the Telegram bot
// service. Delivery is best-effort: failures are reported in Result, never
// returned as errors.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/pkg/logger"
	"github.com/bloodlink/bloodlink/pkg/webhook"
)

const (
	MessageSent       = "Notifications sent successfully"
	MessageNoChatIDs  = "No valid Telegram chat IDs found"
	messageTimeout    = "Telegram bot request timed out"
	messageRefused    = "Could not connect to Telegram bot server"
	messageNotFound   = "Telegram bot endpoint not found"
	messageServerFail = "Telegram bot server error"
	messageOther      = "Failed to send Telegram notifications"
)

// ErrorKind classifies a failed broadcast.
type ErrorKind string

const (
	ErrorTimeout           ErrorKind = "timeout"
	ErrorConnectionRefused ErrorKind = "connection-refused"
	ErrorNotFound          ErrorKind = "not-found"
	ErrorServer            ErrorKind = "server-error"
	ErrorOther             ErrorKind = "other"
)

// Recipient is a user that may have linked a Telegram chat.
type Recipient struct {
	UserID uuid.UUID
	ChatID string
}

// Result summarizes one broadcast.
type Result struct {
	UsersNotified  int             `json:"users_notified"`
	SuccessCount   int             `json:"success_count"`
	ErrorCount     int             `json:"error_count"`
	TotalAttempted int             `json:"total_attempted"`
	Message        string          `json:"message"`
	Error          string          `json:"error,omitempty"`
	ErrorKind      ErrorKind       `json:"error_kind,omitempty"`
	BotResponse    json.RawMessage `json:"bot_response,omitempty"`
	BotError       json.RawMessage `json:"bot_error,omitempty"`
}

// Failed reports whether the bot call did not succeed.
func (r Result) Failed() bool { return r.ErrorKind != "" }

// Transport is the outbound HTTP surface. Satisfied by *webhook.Sender.
type Transport interface {
	Send(ctx context.Context, url string, data any, opts ...webhook.SendOption) (*webhook.Response, error)
	Probe(ctx context.Context, url string, timeout time.Duration) (*webhook.Response, error)
}

type Dispatcher struct {
	cfg       Config
	transport Transport
	log       *slog.Logger
}

func NewDispatcher(cfg Config, transport Transport, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{
		cfg:       cfg,
		transport: transport,
		log:       log.With(logger.Component("notify")),
	}
}

type broadcastRequest struct {
	ChatIDs []int64 `json:"chat_ids"`
	Message string  `json:"message"`
}

type botReply struct {
	SuccessCount *int   `json:"success_count"`
	ErrorCount   *int   `json:"error_count"`
	Message      string `json:"message"`
}

// Broadcast sends message to every recipient with a valid chat id in a
// single call to the bot service.
func (d *Dispatcher) Broadcast(ctx context.Context, recipients []Recipient, message string) Result {
	chatIDs, linked := ChatIDs(recipients)
	if len(chatIDs) == 0 {
		d.log.InfoContext(ctx, "no valid chat ids, broadcast skipped",
			slog.Int("recipients", len(recipients)))
		return Result{Message: MessageNoChatIDs}
	}

	resp, err := d.transport.Send(ctx, d.endpoint("/send-broadcast"),
		broadcastRequest{ChatIDs: chatIDs, Message: message},
		webhook.WithTimeout(d.cfg.Timeout),
		webhook.WithSignature(d.cfg.Secret),
	)
	if err != nil {
		return d.failure(ctx, err, linked)
	}

	var reply botReply
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &reply); err != nil {
			return d.failure(ctx, errors.Join(webhook.ErrInvalidPayload, err), linked)
		}
	}

	res := Result{
		SuccessCount:   len(chatIDs),
		TotalAttempted: len(chatIDs),
		Message:        MessageSent,
		BotResponse:    json.RawMessage(resp.Body),
	}
	if reply.SuccessCount != nil {
		res.SuccessCount = *reply.SuccessCount
	}
	if reply.ErrorCount != nil {
		res.ErrorCount = *reply.ErrorCount
	}
	res.UsersNotified = res.SuccessCount

	d.log.InfoContext(ctx, "broadcast delivered",
		slog.Int("chat_ids", len(chatIDs)),
		slog.Int("success_count", res.SuccessCount),
		slog.Int("error_count", res.ErrorCount),
		logger.Duration(resp.Duration),
	)
	return res
}

// Ping checks that the bot service answers its health endpoint.
func (d *Dispatcher) Ping(ctx context.Context) error {
	_, err := d.transport.Probe(ctx, d.endpoint("/health"), d.cfg.PingTimeout)
	return err
}

func (d *Dispatcher) endpoint(path string) string {
	return strings.TrimRight(d.cfg.BotURL, "/") + path
}

func (d *Dispatcher) failure(ctx context.Context, err error, linked int) Result {
	kind, msg, body := Classify(err)
	d.log.ErrorContext(ctx, "broadcast failed",
		logger.Error(err),
		slog.String("error_kind", string(kind)),
		slog.Int("recipients", linked),
	)
	return Result{
		ErrorCount:     linked,
		TotalAttempted: linked,
		Message:        msg,
		Error:          msg,
		ErrorKind:      kind,
		BotError:       body,
	}
}

// Classify maps a transport error to a failure kind, a client-facing message
// and, for HTTP failures, the bot's JSON error body.
func Classify(err error) (ErrorKind, string, json.RawMessage) {
	switch {
	case errors.Is(err, webhook.ErrTimeout):
		return ErrorTimeout, messageTimeout, nil
	case errors.Is(err, webhook.ErrConnectionRefused):
		return ErrorConnectionRefused, messageRefused, nil
	}

	var se *webhook.StatusError
	if !errors.As(err, &se) {
		return ErrorOther, messageOther, nil
	}

	var body json.RawMessage
	if json.Valid([]byte(se.Body)) {
		body = json.RawMessage(se.Body)
	}
	switch {
	case se.StatusCode == http.StatusNotFound:
		return ErrorNotFound, messageNotFound, body
	case se.StatusCode >= http.StatusInternalServerError:
		return ErrorServer, messageServerFail, body
	}

	var reply botReply
	if body != nil && json.Unmarshal(body, &reply) == nil && reply.Message != "" {
		return ErrorOther, reply.Message, body
	}
	return ErrorOther, messageOther, body
}

// ChatIDs returns the recipients' chat ids that parse as positive integers,
// plus how many recipients had any chat id at all.
func ChatIDs(recipients []Recipient) ([]int64, int) {
	ids := make([]int64, 0, len(recipients))
	linked := 0
	for _, r := range recipients {
		raw := strings.TrimSpace(r.ChatID)
		if raw == "" {
			continue
		}
		linked++
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids, linked
}
