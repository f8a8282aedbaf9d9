package account

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/core"
)

type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type PasswordReset struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// ContactUpdate holds the user fields a profile update may change. Nil
// fields are left untouched.
type ContactUpdate struct {
	Phone            *string
	Location         *string
	TelegramUsername *string
}

// Repository is the storage used by Service. Lookups return ErrUserNotFound
// when no row matches.
type Repository interface {
	// CreateAccount stores the user and its role profile atomically.
	CreateAccount(ctx context.Context, user core.User, donor *core.Donor, center *core.HealthCenter) error
	UserByEmail(ctx context.Context, email string) (core.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (core.User, error)
	Profile(ctx context.Context, userID uuid.UUID) (core.Profile, error)
	TouchLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, hash string) error
	UpdateContact(ctx context.Context, userID uuid.UUID, upd ContactUpdate) error
	// Deactivate sets the user inactive and revokes its refresh tokens.
	Deactivate(ctx context.Context, userID uuid.UUID) error

	SaveRefreshToken(ctx context.Context, t RefreshToken) error
	// RotateRefreshToken replaces old with next. Returns
	// ErrInvalidRefreshToken if old no longer exists.
	RotateRefreshToken(ctx context.Context, old string, next RefreshToken) error
	RefreshToken(ctx context.Context, token string) (RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error

	SavePasswordReset(ctx context.Context, r PasswordReset) error
	// ConsumePasswordReset marks the reset used, stores the new hash and
	// revokes the user's refresh tokens in one transaction. Returns
	// ErrInvalidResetToken for unknown, used or expired resets.
	ConsumePasswordReset(ctx context.Context, tokenHash, passwordHash string, now time.Time) error

	// DeleteExpired removes refresh tokens and resets that expired before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
