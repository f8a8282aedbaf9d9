package telegram

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/bloodlink/bloodlink/pkg/validator"
)

// LinkRequest is sent by the bot after a user opens the deep link.
// telegram_id may be a JSON number or a string.
type LinkRequest struct {
	UserID     string          `json:"user_id"`
	TelegramID json.RawMessage `json:"telegram_id"`
}

// chatID returns the id in canonical decimal form, so "0123456" and
// "123456" name the same chat.
func (r LinkRequest) chatID() string {
	raw := r.rawChatID()
	if n, ok := parseChatID(raw); ok {
		return strconv.FormatInt(n, 10)
	}
	return raw
}

func (r LinkRequest) rawChatID() string {
	raw := bytes.TrimSpace(r.TelegramID)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return strings.TrimSpace(s)
	}
	return string(raw)
}

func parseChatID(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	return n, err == nil && n > 0
}

func (r LinkRequest) Validate() error {
	id := r.rawChatID()
	numeric := id != "" && strings.Trim(id, "0123456789") == ""
	sized := numeric && len(id) >= 5 && len(id) <= 20
	return validator.Apply(
		validator.Required("user_id", r.UserID).WithMessage("User ID is required"),
		validator.Required("telegram_id", id).WithMessage("Telegram ID is required"),
		validator.When(id != "",
			validator.Custom("telegram_id", "Telegram ID must be numeric", func() bool { return numeric })),
		validator.When(numeric,
			validator.Digits("telegram_id", id, 5, 20).WithMessage("Telegram ID must be between 5 and 20 digits")),
		validator.When(sized,
			validator.Custom("telegram_id", "Telegram ID is out of range", func() bool {
				_, ok := parseChatID(id)
				return ok
			})),
	)
}

type UserIDParam struct {
	UserID string `path:"userId"`
}

type NotifyRequest struct {
	BloodRequestID string `json:"bloodRequestId"`
}
