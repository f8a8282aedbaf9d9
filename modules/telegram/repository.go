package telegram

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/core"
	"github.com/bloodlink/bloodlink/modules/notify"
)

type Repository interface {
	UserByID(ctx context.Context, id uuid.UUID) (core.User, error)
	// ChatOwner returns the user holding chatID, or ErrUserNotFound.
	ChatOwner(ctx context.Context, chatID string) (uuid.UUID, error)
	// LinkChat stores chatID on the user and activates a pending account.
	LinkChat(ctx context.Context, userID uuid.UUID, chatID string, at time.Time) (core.User, error)
	// LinkedUsers returns up to limit active users with a linked chat.
	LinkedUsers(ctx context.Context, limit int) ([]notify.Recipient, error)
}
