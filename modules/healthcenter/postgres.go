package healthcenter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/bloodlink/bloodlink/core"
	"github.com/bloodlink/bloodlink/pkg/pg"
)

const centerColumns = `id, user_id, center_name, contact_person, registration_number, center_type,
	capacity, operating_hours, services, is_verified, verification_doc, verification_submitted_at,
	created_at, updated_at`

const listWhere = `
	FROM health_centers h JOIN users u ON u.id = h.user_id
	WHERE u.status = 'active'
	  AND ($1::text = '' OR u.location ILIKE $1)
	  AND (NOT $2::boolean OR h.is_verified)`

type postgresRepository struct {
	db pg.DBTX
}

// NewRepository returns a Repository backed by Postgres.
func NewRepository(db pg.DBTX) Repository {
	return &postgresRepository{db: db}
}

func scanCenter(row pgx.Row) (core.HealthCenter, error) {
	var h core.HealthCenter
	err := row.Scan(&h.ID, &h.UserID, &h.CenterName, &h.ContactPerson, &h.RegistrationNumber,
		&h.CenterType, &h.Capacity, &h.OperatingHours, &h.Services, &h.Verified, &h.VerificationDoc,
		&h.VerificationSubmittedAt, &h.CreatedAt, &h.UpdatedAt)
	if pg.IsNotFoundError(err) {
		return h, ErrProfileNotFound
	}
	return h, err
}

func (r *postgresRepository) List(ctx context.Context, f ListFilter) ([]Listing, int, error) {
	args := []any{pg.Contains(f.Location), f.VerifiedOnly}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*)`+listWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count health centers: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT h.id, h.center_name, h.contact_person, h.center_type, h.capacity, h.operating_hours,
			h.services, h.is_verified, h.updated_at,
			u.id, u.location, u.phone, u.telegram_username, u.created_at`+listWhere+`
		ORDER BY h.is_verified DESC, h.updated_at DESC
		LIMIT $3 OFFSET $4`, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list health centers: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Listing, error) {
		var l Listing
		err := row.Scan(&l.ID, &l.CenterName, &l.ContactPerson, &l.CenterType, &l.Capacity,
			&l.OperatingHours, &l.Services, &l.Verified, &l.UpdatedAt,
			&l.User.ID, &l.User.Location, &l.User.Phone, &l.User.TelegramUsername, &l.User.CreatedAt)
		return l, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list health centers: %w", err)
	}
	return out, total, nil
}

func (r *postgresRepository) Stats(ctx context.Context) (Stats, error) {
	rows, err := r.db.Query(ctx, `
		SELECT h.is_verified, count(*)
		FROM health_centers h JOIN users u ON u.id = h.user_id
		WHERE u.status = 'active'
		GROUP BY h.is_verified
		ORDER BY h.is_verified DESC`)
	if err != nil {
		return Stats{}, fmt.Errorf("health center stats: %w", err)
	}
	counts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (VerificationCount, error) {
		var c VerificationCount
		err := row.Scan(&c.Verified, &c.Count)
		return c, err
	})
	if err != nil {
		return Stats{}, fmt.Errorf("health center stats: %w", err)
	}

	s := Stats{VerificationStats: counts}
	for _, c := range counts {
		s.TotalHealthCenters += c.Count
	}
	return s, nil
}

func (r *postgresRepository) ByUserID(ctx context.Context, userID uuid.UUID) (core.HealthCenter, error) {
	return scanCenter(r.db.QueryRow(ctx, `SELECT `+centerColumns+` FROM health_centers WHERE user_id = $1`, userID))
}

func (r *postgresRepository) UpdateProfile(ctx context.Context, userID uuid.UUID, upd ProfileUpdate) (core.HealthCenter, error) {
	return scanCenter(r.db.QueryRow(ctx, `
		UPDATE health_centers SET
			center_name = COALESCE($2, center_name),
			contact_person = COALESCE($3, contact_person),
			registration_number = COALESCE($4, registration_number),
			center_type = COALESCE($5, center_type),
			capacity = COALESCE($6, capacity),
			operating_hours = COALESCE($7, operating_hours),
			services = COALESCE($8, services),
			updated_at = now()
		WHERE user_id = $1
		RETURNING `+centerColumns,
		userID, upd.CenterName, upd.ContactPerson, upd.RegistrationNumber, upd.CenterType,
		upd.Capacity, upd.OperatingHours, upd.Services))
}

func (r *postgresRepository) SubmitVerification(ctx context.Context, userID uuid.UUID, doc string, at time.Time) (core.HealthCenter, error) {
	return scanCenter(r.db.QueryRow(ctx, `
		UPDATE health_centers SET
			verification_doc = $2,
			verification_submitted_at = $3,
			updated_at = now()
		WHERE user_id = $1
		RETURNING `+centerColumns, userID, doc, at))
}
