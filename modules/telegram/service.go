// Package telegram links BloodLink accounts to Telegram chats and exposes
// the manual broadcast tools built on the notify dispatcher.
package telegram

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/modules/bloodrequest"
	"github.com/bloodlink/bloodlink/modules/notify"
	"github.com/bloodlink/bloodlink/pkg/logger"
	"github.com/bloodlink/bloodlink/pkg/qrcode"
)

const (
	testRecipients = 5
	testMessage    = "🩸 TEST: This is a test message from BloodLink platform! Your Telegram account is successfully linked."
	instructions   = "Click the link to open Telegram and start the bot with your user ID."
)

// Bot is the outbound side of the Telegram bot. Satisfied by *notify.Dispatcher.
type Bot interface {
	Broadcast(ctx context.Context, recipients []notify.Recipient, message string) notify.Result
	Ping(ctx context.Context) error
}

// RequestNotifier re-runs a blood request fan-out. Satisfied by *bloodrequest.Service.
type RequestNotifier interface {
	Notify(ctx context.Context, userID uuid.UUID, requestID string) (bloodrequest.Outcome, error)
}

type DeepLink struct {
	DeepLink        string    `json:"deep_link"`
	BotUsername     string    `json:"bot_username"`
	UserID          uuid.UUID `json:"user_id"`
	IsAlreadyLinked bool      `json:"is_already_linked"`
	Instructions    string    `json:"instructions"`
	QRCode          string    `json:"qr_code"`
}

type Link struct {
	UserID         uuid.UUID `json:"user_id"`
	TelegramChatID string    `json:"telegram_chat_id"`
	LinkedAt       time.Time `json:"linked_at"`
}

// TestResult reports a test broadcast. Recipients is zero when nobody has
// linked a chat yet, in which case the bot is not called.
type TestResult struct {
	BotReachable bool `json:"bot_reachable"`
	Recipients   int  `json:"recipients"`
	notify.Result
}

type Service struct {
	cfg      Config
	repo     Repository
	bot      Bot
	requests RequestNotifier
	log      *slog.Logger
	now      func() time.Time
}

type ServiceOption func(*Service)

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(cfg Config, repo Repository, bot Bot, requests RequestNotifier, opts ...ServiceOption) *Service {
	cfg.BotUsername = strings.TrimPrefix(strings.TrimSpace(cfg.BotUsername), "@")
	s := &Service{cfg: cfg, repo: repo, bot: bot, requests: requests, log: logger.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("telegram"))
	return s
}

// DeepLink builds the t.me link that starts the bot with the user's ID,
// plus a QR code of the same link.
func (s *Service) DeepLink(ctx context.Context, userID string) (DeepLink, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return DeepLink{}, ErrUserNotFound
	}
	u, err := s.repo.UserByID(ctx, id)
	if err != nil {
		return DeepLink{}, err
	}

	link := "https://t.me/" + url.PathEscape(s.cfg.BotUsername) + "?start=" + u.ID.String()
	qr, err := qrcode.DataURI(link, s.cfg.QRSize)
	if err != nil {
		return DeepLink{}, err
	}
	return DeepLink{
		DeepLink:        link,
		BotUsername:     "@" + s.cfg.BotUsername,
		UserID:          u.ID,
		IsAlreadyLinked: u.HasTelegram(),
		Instructions:    instructions,
		QRCode:          qr,
	}, nil
}

// Link attaches a Telegram chat to a user. Relinking the same chat is a
// no-op; a chat held by someone else is rejected.
func (s *Service) Link(ctx context.Context, req LinkRequest) (Link, error) {
	if err := req.Validate(); err != nil {
		return Link{}, err
	}
	id, err := uuid.Parse(strings.TrimSpace(req.UserID))
	if err != nil {
		return Link{}, ErrUserNotFound
	}
	u, err := s.repo.UserByID(ctx, id)
	if err != nil {
		return Link{}, err
	}

	chatID := req.chatID()
	owner, err := s.repo.ChatOwner(ctx, chatID)
	switch {
	case err == nil && owner != u.ID:
		s.log.WarnContext(ctx, "telegram chat already linked", logger.UserID(u.ID))
		return Link{}, ErrAlreadyLinked
	case err != nil && !errors.Is(err, ErrUserNotFound):
		return Link{}, err
	}

	at := s.now().UTC()
	if _, err := s.repo.LinkChat(ctx, u.ID, chatID, at); err != nil {
		return Link{}, err
	}
	s.log.InfoContext(ctx, "telegram account linked",
		logger.UserID(u.ID), slog.Bool("relinked", u.HasTelegram()))
	return Link{UserID: u.ID, TelegramChatID: chatID, LinkedAt: at}, nil
}

// TestBroadcast pings the bot and sends a test message to a few linked users.
func (s *Service) TestBroadcast(ctx context.Context) (TestResult, error) {
	var res TestResult
	if err := s.bot.Ping(ctx); err != nil {
		s.log.WarnContext(ctx, "telegram bot ping failed", logger.Error(err))
	} else {
		res.BotReachable = true
	}

	recipients, err := s.repo.LinkedUsers(ctx, testRecipients)
	if err != nil {
		return TestResult{}, err
	}
	res.Recipients = len(recipients)
	if len(recipients) == 0 {
		return res, nil
	}
	res.Result = s.bot.Broadcast(ctx, recipients, testMessage)
	s.log.InfoContext(ctx, "test broadcast finished",
		slog.Int("recipients", len(recipients)), slog.Int("users_notified", res.UsersNotified))
	return res, nil
}

// NotifyBloodRequest re-runs the fan-out for a request owned by userID's center.
func (s *Service) NotifyBloodRequest(ctx context.Context, userID uuid.UUID, req NotifyRequest) (bloodrequest.Outcome, error) {
	requestID := strings.TrimSpace(req.BloodRequestID)
	if requestID == "" {
		return bloodrequest.Outcome{}, ErrBloodRequestIDRequired
	}
	return s.requests.Notify(ctx, userID, requestID)
}
