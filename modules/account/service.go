// Package account implements registration, authentication and the user's
// own account management.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/bloodlink/bloodlink/core"
	"github.com/bloodlink/bloodlink/pkg/jwt"
	"github.com/bloodlink/bloodlink/pkg/logger"
	"github.com/bloodlink/bloodlink/pkg/queue"
	"github.com/bloodlink/bloodlink/pkg/token"
)

// Session is returned by register, login and refresh.
type Session struct {
	User   core.Profile `json:"user"`
	Tokens Tokens       `json:"tokens"`
}

type Service struct {
	cfg   Config
	repo  Repository
	jwt   *jwt.Service
	tasks queue.Enqueuer
	log   *slog.Logger
	now   func() time.Time
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

func NewService(cfg Config, repo Repository, tasks queue.Enqueuer, opts ...ServiceOption) (*Service, error) {
	signer, err := jwt.NewFromString(cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("account: %w", err)
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	s := &Service{
		cfg:   cfg,
		repo:  repo,
		jwt:   signer,
		tasks: tasks,
		log:   logger.Nop(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("account"))
	return s, nil
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (Session, error) {
	req.Sanitize()
	if err := req.Validate(); err != nil {
		return Session{}, err
	}

	_, err := s.repo.UserByEmail(ctx, req.Email)
	if err == nil {
		return Session{}, ErrEmailTaken
	}
	if !errors.Is(err, ErrUserNotFound) {
		return Session{}, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	u := core.User{
		ID:               uuid.New(),
		Email:            req.Email,
		PasswordHash:     string(hash),
		Role:             req.Role,
		Status:           core.UserPendingVerification,
		Phone:            req.Phone,
		Location:         req.Location,
		TelegramUsername: req.TelegramUsername,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	var (
		donor  *core.Donor
		center *core.HealthCenter
	)
	switch req.Role {
	case core.RoleDonor:
		donor = &core.Donor{ID: uuid.New(), UserID: u.ID, FullName: req.FullName, BloodType: req.BloodType, IsAvailable: true}
	case core.RoleHealthCenter:
		center = &core.HealthCenter{ID: uuid.New(), UserID: u.ID, CenterName: req.CenterName, ContactPerson: req.ContactPerson}
	}

	if err := s.repo.CreateAccount(ctx, u, donor, center); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return Session{}, err
		}
		return Session{}, fmt.Errorf("create account: %w", err)
	}

	s.log.InfoContext(ctx, "user registered", logger.UserID(u.ID), logger.Role(u.Role))
	return s.startSession(ctx, u)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (Session, error) {
	req.Sanitize()
	if err := req.Validate(); err != nil {
		return Session{}, err
	}

	u, err := s.repo.UserByEmail(ctx, req.Email)
	if errors.Is(err, ErrUserNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return Session{}, ErrInvalidCredentials
	}
	if req.Role != "" && req.Role != u.Role {
		return Session{}, ErrRoleMismatch
	}
	if err := CheckStatus(u.Status); err != nil {
		return Session{}, err
	}

	return s.startSession(ctx, u)
}

// startSession issues tokens, stores the refresh token and records the login.
func (s *Service) startSession(ctx context.Context, u core.User) (Session, error) {
	now := s.now()
	tokens, refresh, err := s.issueTokens(u, now)
	if err != nil {
		return Session{}, fmt.Errorf("issue tokens: %w", err)
	}
	if err := s.repo.SaveRefreshToken(ctx, refresh); err != nil {
		return Session{}, fmt.Errorf("save refresh token: %w", err)
	}
	if err := s.repo.TouchLastLogin(ctx, u.ID, now); err != nil {
		return Session{}, fmt.Errorf("update last login: %w", err)
	}

	p, err := s.repo.Profile(ctx, u.ID)
	if err != nil {
		return Session{}, err
	}
	return Session{User: p, Tokens: tokens}, nil
}

// Refresh exchanges a refresh token for a new token pair. The old refresh
// token is revoked.
func (s *Service) Refresh(ctx context.Context, req RefreshRequest) (Session, error) {
	if err := req.Validate(); err != nil {
		return Session{}, err
	}

	stored, err := s.repo.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return Session{}, err
	}
	now := s.now()
	if !stored.ExpiresAt.After(now) {
		if err := s.repo.DeleteRefreshToken(ctx, stored.Token); err != nil {
			s.log.WarnContext(ctx, "failed to delete expired refresh token", logger.Error(err))
		}
		return Session{}, ErrInvalidRefreshToken
	}

	u, err := s.repo.UserByID(ctx, stored.UserID)
	if errors.Is(err, ErrUserNotFound) {
		return Session{}, ErrInvalidRefreshToken
	}
	if err != nil {
		return Session{}, err
	}
	if err := CheckStatus(u.Status); err != nil {
		return Session{}, err
	}

	tokens, next, err := s.issueTokens(u, now)
	if err != nil {
		return Session{}, fmt.Errorf("issue tokens: %w", err)
	}
	if err := s.repo.RotateRefreshToken(ctx, stored.Token, next); err != nil {
		return Session{}, err
	}

	p, err := s.repo.Profile(ctx, u.ID)
	if err != nil {
		return Session{}, err
	}
	return Session{User: p, Tokens: tokens}, nil
}

// Logout revokes the refresh token. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.repo.DeleteRefreshToken(ctx, refreshToken)
}

// ResetEmailTask asks the worker to deliver a password reset link.
type ResetEmailTask struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ForgotPassword stores a reset token and queues the reset email. Unknown
// emails succeed silently with an empty token.
func (s *Service) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	u, err := s.repo.UserByEmail(ctx, req.Email)
	if errors.Is(err, ErrUserNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	now := s.now()
	payload := resetPayload{
		ID:        uuid.New(),
		UserID:    u.ID,
		Subject:   subjectPasswordReset,
		ExpiresAt: now.Add(s.cfg.ResetTokenTTL).Unix(),
	}
	tok, err := token.Generate(payload, s.cfg.resetSecret())
	if err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}

	if err := s.repo.SavePasswordReset(ctx, PasswordReset{
		ID:        payload.ID,
		UserID:    u.ID,
		TokenHash: hashToken(tok),
		ExpiresAt: time.Unix(payload.ExpiresAt, 0),
		CreatedAt: now,
	}); err != nil {
		return "", fmt.Errorf("save password reset: %w", err)
	}

	if err := s.tasks.Enqueue(ctx, ResetEmailTask{
		UserID:    u.ID,
		Email:     u.Email,
		Token:     tok,
		ExpiresAt: time.Unix(payload.ExpiresAt, 0),
	}); err != nil {
		s.log.ErrorContext(ctx, "failed to enqueue reset email", logger.UserID(u.ID), logger.Error(err))
	}
	return tok, nil
}

func (s *Service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	payload, err := token.Parse[resetPayload](req.Token, s.cfg.resetSecret())
	if err != nil || payload.Subject != subjectPasswordReset {
		return ErrInvalidResetToken
	}
	now := s.now()
	if now.Unix() > payload.ExpiresAt {
		return ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.ConsumePasswordReset(ctx, hashToken(req.Token), string(hash), now); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "password reset", logger.UserID(payload.UserID))
	return nil
}

func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	u, err := s.repo.UserByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.UpdatePassword(ctx, userID, string(hash))
}

// Authenticate resolves an access token to its user.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (core.User, error) {
	var claims accessClaims
	if err := s.jwt.Parse(accessToken, &claims); err != nil {
		return core.User{}, errors.Join(ErrInvalidAccessToken, err)
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return core.User{}, ErrInvalidAccessToken
	}
	return s.repo.UserByID(ctx, id)
}

// CheckStatus rejects suspended and inactive accounts.
func CheckStatus(status core.UserStatus) error {
	switch status {
	case core.UserSuspended:
		return ErrAccountSuspended
	case core.UserInactive:
		return ErrAccountInactive
	}
	return nil
}

// CleanupExpired deletes expired refresh tokens and spent password resets.
func (s *Service) CleanupExpired(ctx context.Context) error {
	n, err := s.repo.DeleteExpired(ctx, s.now())
	if err != nil {
		return err
	}
	if n > 0 {
		s.log.InfoContext(ctx, "expired tokens removed", slog.Int64("count", n))
	}
	return nil
}
