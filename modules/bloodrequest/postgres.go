package bloodrequest

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

const requestColumns = `id, health_center_id, blood_type, units_needed, units_received, urgency,
	procedure, patient_age, notes, expected_timeframe, expected_fulfillment_date,
	contact_preference, status, created_at, updated_at`

type postgresRepository struct {
	db pg.DBTX
}

// NewRepository returns a Repository backed by Postgres.
func NewRepository(db pg.DBTX) Repository {
	return &postgresRepository{db: db}
}

func requestDest(br *core.BloodRequest) []any {
	return []any{&br.ID, &br.HealthCenterID, &br.BloodType, &br.UnitsNeeded, &br.UnitsReceived,
		&br.Urgency, &br.Procedure, &br.PatientAge, &br.Notes, &br.ExpectedTimeframe,
		&br.ExpectedFulfillmentDate, &br.ContactPreference, &br.Status, &br.CreatedAt, &br.UpdatedAt}
}

func scanRequest(row pgx.Row) (core.BloodRequest, error) {
	var br core.BloodRequest
	err := row.Scan(requestDest(&br)...)
	if pg.IsNotFoundError(err) {
		return br, ErrRequestNotFound
	}
	return br, err
}

func scanCenter(row pgx.Row) (Center, error) {
	var c Center
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Location)
	if pg.IsNotFoundError(err) {
		return c, ErrCenterNotFound
	}
	return c, err
}

const centerQuery = `
	SELECT h.id, h.user_id, h.center_name, u.location
	FROM health_centers h JOIN users u ON u.id = h.user_id`

func (r *postgresRepository) CenterByUserID(ctx context.Context, userID uuid.UUID) (Center, error) {
	return scanCenter(r.db.QueryRow(ctx, centerQuery+` WHERE h.user_id = $1`, userID))
}

func (r *postgresRepository) CenterByID(ctx context.Context, id uuid.UUID) (Center, error) {
	return scanCenter(r.db.QueryRow(ctx, centerQuery+` WHERE h.id = $1`, id))
}

func (r *postgresRepository) DonorBloodType(ctx context.Context, userID uuid.UUID) (core.BloodType, error) {
	var bt core.BloodType
	err := r.db.QueryRow(ctx, `SELECT blood_type FROM donors WHERE user_id = $1`, userID).Scan(&bt)
	if pg.IsNotFoundError(err) {
		return "", ErrDonorNotFound
	}
	return bt, err
}

func (r *postgresRepository) Create(ctx context.Context, br core.BloodRequest) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO blood_requests (`+requestColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		br.ID, br.HealthCenterID, br.BloodType, br.UnitsNeeded, br.UnitsReceived, br.Urgency,
		br.Procedure, br.PatientAge, br.Notes, br.ExpectedTimeframe, br.ExpectedFulfillmentDate,
		br.ContactPreference, br.Status, br.CreatedAt, br.UpdatedAt)
	if pg.IsForeignKeyViolationError(err) {
		return ErrCenterNotFound
	}
	if err != nil {
		return fmt.Errorf("insert blood request: %w", err)
	}
	return nil
}

func (r *postgresRepository) ByID(ctx context.Context, id uuid.UUID) (core.BloodRequest, error) {
	return scanRequest(r.db.QueryRow(ctx, `SELECT `+requestColumns+` FROM blood_requests WHERE id = $1`, id))
}

func (r *postgresRepository) ListByCenter(ctx context.Context, centerID uuid.UUID, status core.RequestStatus, limit, offset int) ([]core.BloodRequest, int, error) {
	const where = ` FROM blood_requests WHERE health_center_id = $1 AND ($2::text = '' OR status = $2)`

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*)`+where, centerID, string(status)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count blood requests: %w", err)
	}
	rows, err := r.db.Query(ctx, `SELECT `+requestColumns+where+`
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`, centerID, string(status), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list blood requests: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (core.BloodRequest, error) {
		var br core.BloodRequest
		err := row.Scan(requestDest(&br)...)
		return br, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list blood requests: %w", err)
	}
	return out, total, nil
}

func (r *postgresRepository) Feed(ctx context.Context, bloodType core.BloodType, limit, offset int) ([]FeedItem, int, error) {
	const where = `
		FROM blood_requests b
		JOIN health_centers h ON h.id = b.health_center_id
		JOIN users u ON u.id = h.user_id
		WHERE b.status = 'active' AND b.blood_type = $1`

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*)`+where, string(bloodType)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count feed: %w", err)
	}
	rows, err := r.db.Query(ctx, `
		SELECT b.id, b.health_center_id, b.blood_type, b.units_needed, b.units_received, b.urgency,
			b.procedure, b.patient_age, b.notes, b.expected_timeframe, b.expected_fulfillment_date,
			b.contact_preference, b.status, b.created_at, b.updated_at,
			h.id, h.center_name, u.location, u.phone, u.telegram_username, h.is_verified`+where+`
		ORDER BY b.created_at DESC LIMIT $2 OFFSET $3`, string(bloodType), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("feed: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (FeedItem, error) {
		var it FeedItem
		dest := append(requestDest(&it.BloodRequest),
			&it.HealthCenter.ID, &it.HealthCenter.CenterName, &it.HealthCenter.Location,
			&it.HealthCenter.Phone, &it.HealthCenter.TelegramUsername, &it.HealthCenter.Verified)
		err := row.Scan(dest...)
		return it, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("feed: %w", err)
	}
	return out, total, nil
}

func (r *postgresRepository) Update(ctx context.Context, br core.BloodRequest) (core.BloodRequest, error) {
	return scanRequest(r.db.QueryRow(ctx, `
		UPDATE blood_requests
		SET status = $2, notes = $3, units_received = $4, updated_at = $5
		WHERE id = $1
		RETURNING `+requestColumns,
		br.ID, br.Status, br.Notes, br.UnitsReceived, br.UpdatedAt))
}

func (r *postgresRepository) EligibleDonors(ctx context.Context, e Eligibility) ([]notify.Recipient, error) {
	var before *time.Time
	if !e.DonatedBefore.IsZero() {
		before = &e.DonatedBefore
	}
	rows, err := r.db.Query(ctx, `
		SELECT u.id, u.telegram_chat_id
		FROM users u JOIN donors d ON d.user_id = u.id
		WHERE u.role = 'donor'
		  AND u.status = 'active'
		  AND u.telegram_chat_id IS NOT NULL
		  AND d.is_available
		  AND d.blood_type = $1
		  AND ($2::timestamptz IS NULL OR d.last_donation IS NULL OR d.last_donation < $2)
		LIMIT $3`, string(e.BloodType), before, e.Limit)
	if err != nil {
		return nil, fmt.Errorf("eligible donors: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (notify.Recipient, error) {
		var rc notify.Recipient
		err := row.Scan(&rc.UserID, &rc.ChatID)
		return rc, err
	})
	if err != nil {
		return nil, fmt.Errorf("eligible donors: %w", err)
	}
	return out, nil
}
