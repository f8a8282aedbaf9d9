package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bloodlink/bloodlink/core"
	"github.com/bloodlink/bloodlink/pkg/pg"
)

const userColumns = `id, email, password_hash, role, status, phone, location,
	telegram_username, telegram_chat_id, last_login_at, created_at, updated_at`

type postgresRepository struct {
	db *pgxpool.Pool
}

// NewRepository returns a Repository backed by Postgres.
func NewRepository(db *pgxpool.Pool) Repository {
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

func (r *postgresRepository) CreateAccount(ctx context.Context, u core.User, donor *core.Donor, center *core.HealthCenter) error {
	return pg.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO users (id, email, password_hash, role, status, phone, location, telegram_username, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`,
			u.ID, u.Email, u.PasswordHash, u.Role, u.Status, u.Phone, u.Location, u.TelegramUsername, u.CreatedAt)
		if pg.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}

		if donor != nil {
			if _, err := tx.Exec(ctx, `
				INSERT INTO donors (id, user_id, full_name, blood_type, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $5)`,
				donor.ID, u.ID, donor.FullName, donor.BloodType, u.CreatedAt); err != nil {
				return fmt.Errorf("insert donor: %w", err)
			}
		}
		if center != nil {
			if _, err := tx.Exec(ctx, `
				INSERT INTO health_centers (id, user_id, center_name, contact_person, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $5)`,
				center.ID, u.ID, center.CenterName, center.ContactPerson, u.CreatedAt); err != nil {
				return fmt.Errorf("insert health center: %w", err)
			}
		}
		return nil
	})
}

func (r *postgresRepository) UserByEmail(ctx context.Context, email string) (core.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *postgresRepository) UserByID(ctx context.Context, id uuid.UUID) (core.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *postgresRepository) Profile(ctx context.Context, userID uuid.UUID) (core.Profile, error) {
	u, err := r.UserByID(ctx, userID)
	if err != nil {
		return core.Profile{}, err
	}
	p := core.Profile{User: u}

	switch u.Role {
	case core.RoleDonor:
		var d core.Donor
		err = r.db.QueryRow(ctx, `
			SELECT id, user_id, full_name, blood_type, date_of_birth, weight, emergency_contact,
			       medical_notes, is_available, donation_count, last_donation, created_at, updated_at
			FROM donors WHERE user_id = $1`, userID).
			Scan(&d.ID, &d.UserID, &d.FullName, &d.BloodType, &d.DateOfBirth, &d.Weight, &d.EmergencyContact,
				&d.MedicalNotes, &d.IsAvailable, &d.DonationCount, &d.LastDonation, &d.CreatedAt, &d.UpdatedAt)
		if err == nil {
			p.Donor = &d
		}
	case core.RoleHealthCenter:
		var h core.HealthCenter
		err = r.db.QueryRow(ctx, `
			SELECT id, user_id, center_name, contact_person, registration_number, center_type, capacity,
			       operating_hours, services, is_verified, verification_doc, verification_submitted_at,
			       created_at, updated_at
			FROM health_centers WHERE user_id = $1`, userID).
			Scan(&h.ID, &h.UserID, &h.CenterName, &h.ContactPerson, &h.RegistrationNumber, &h.CenterType, &h.Capacity,
				&h.OperatingHours, &h.Services, &h.Verified, &h.VerificationDoc, &h.VerificationSubmittedAt,
				&h.CreatedAt, &h.UpdatedAt)
		if err == nil {
			p.HealthCenter = &h
		}
	}
	if err != nil && !pg.IsNotFoundError(err) {
		return p, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

func (r *postgresRepository) TouchLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET last_login_at = $2 WHERE id = $1`, userID, at)
	return err
}

func (r *postgresRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, hash string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`, userID, hash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *postgresRepository) UpdateContact(ctx context.Context, userID uuid.UUID, upd ContactUpdate) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET
			phone = COALESCE($2, phone),
			location = COALESCE($3, location),
			telegram_username = CASE WHEN $4::boolean THEN $5 ELSE telegram_username END,
			updated_at = now()
		WHERE id = $1`,
		userID, upd.Phone, upd.Location, upd.TelegramUsername != nil, upd.TelegramUsername)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *postgresRepository) Deactivate(ctx context.Context, userID uuid.UUID) error {
	return pg.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE users SET status = $2, updated_at = now() WHERE id = $1`,
			userID, core.UserInactive)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrUserNotFound
		}
		_, err = tx.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
		return err
	})
}

func (r *postgresRepository) SaveRefreshToken(ctx context.Context, t RefreshToken) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO refresh_tokens (id, user_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		t.ID, t.UserID, t.Token, t.ExpiresAt, t.CreatedAt)
	return err
}

func (r *postgresRepository) RotateRefreshToken(ctx context.Context, old string, next RefreshToken) error {
	return pg.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, old)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrInvalidRefreshToken
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO refresh_tokens (id, user_id, token, expires_at, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			next.ID, next.UserID, next.Token, next.ExpiresAt, next.CreatedAt)
		return err
	})
}

func (r *postgresRepository) RefreshToken(ctx context.Context, token string) (RefreshToken, error) {
	var t RefreshToken
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, token, expires_at, created_at FROM refresh_tokens WHERE token = $1`, token).
		Scan(&t.ID, &t.UserID, &t.Token, &t.ExpiresAt, &t.CreatedAt)
	if pg.IsNotFoundError(err) {
		return t, ErrInvalidRefreshToken
	}
	return t, err
}

func (r *postgresRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, token)
	return err
}

func (r *postgresRepository) SavePasswordReset(ctx context.Context, pr PasswordReset) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO password_resets (id, user_id, token_hash, expires_at, used, created_at)
		VALUES ($1, $2, $3, $4, false, $5)`,
		pr.ID, pr.UserID, pr.TokenHash, pr.ExpiresAt, pr.CreatedAt)
	return err
}

func (r *postgresRepository) ConsumePasswordReset(ctx context.Context, tokenHash, passwordHash string, now time.Time) error {
	return pg.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var userID uuid.UUID
		err := tx.QueryRow(ctx, `
			UPDATE password_resets SET used = true
			WHERE token_hash = $1 AND used = false AND expires_at > $2
			RETURNING user_id`, tokenHash, now).Scan(&userID)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrInvalidResetToken
		}
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`,
			userID, passwordHash); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
		return err
	})
}

func (r *postgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var total int64
	err := pg.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < $1`, now)
		if err != nil {
			return err
		}
		total += tag.RowsAffected()

		tag, err = tx.Exec(ctx, `DELETE FROM password_resets WHERE expires_at < $1 OR used`, now)
		if err != nil {
			return err
		}
		total += tag.RowsAffected()
		return nil
	})
	return total, err
}
