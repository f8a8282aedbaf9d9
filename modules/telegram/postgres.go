package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/bloodlink/bloodlink/core"
	"github.com/bloodlink/bloodlink/modules/notify"
	"github.com/bloodlink/bloodlink/pkg/pg"
)

const userColumns = `id, email, password_hash, role, status, phone, location, telegram_username,
	telegram_chat_id, last_login_at, created_at, updated_at`

type postgresRepository struct {
	db pg.DBTX
}

// NewRepository returns a Repository backed by Postgres.
func NewRepository(db pg.DBTX) Repository {
	return &postgresRepository{db: db}
}

func scanUser(row pgx.Row) (core.User, error) {
	var u core.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Status, &u.Phone, &u.Location,
		&u.TelegramUsername, &u.TelegramChatID, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	if pg.IsNotFoundError(err) {
		return u, ErrUserNotFound
	}
	return u, err
}

func (r *postgresRepository) UserByID(ctx context.Context, id uuid.UUID) (core.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *postgresRepository) ChatOwner(ctx context.Context, chatID string) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx, `SELECT id FROM users WHERE telegram_chat_id = $1`, chatID).Scan(&id)
	if pg.IsNotFoundError(err) {
		return uuid.Nil, ErrUserNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("telegram: find chat owner: %w", err)
	}
	return id, nil
}

func (r *postgresRepository) LinkChat(ctx context.Context, userID uuid.UUID, chatID string, at time.Time) (core.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `
		UPDATE users SET
			telegram_chat_id = $2,
			status = CASE WHEN status = 'pending_verification' THEN 'active' ELSE status END,
			updated_at = $3
		WHERE id = $1
		RETURNING `+userColumns, userID, chatID, at))
	if pg.IsDuplicateKeyError(err) {
		return u, ErrAlreadyLinked
	}
	return u, err
}

func (r *postgresRepository) LinkedUsers(ctx context.Context, limit int) ([]notify.Recipient, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, telegram_chat_id FROM users
		WHERE status = 'active' AND telegram_chat_id IS NOT NULL
		ORDER BY updated_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("telegram: list linked users: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (notify.Recipient, error) {
		var rc notify.Recipient
		err := row.Scan(&rc.UserID, &rc.ChatID)
		return rc, err
	})
	if err != nil {
		return nil, fmt.Errorf("telegram: list linked users: %w", err)
	}
	return out, nil
}
