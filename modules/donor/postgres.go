package donor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/bloodlink/bloodlink/core"
	"github.com/bloodlink/bloodlink/pkg/pg"
)

const donorColumns = `id, user_id, full_name, blood_type, date_of_birth, weight, emergency_contact,
	medical_notes, is_available, donation_count, last_donation, created_at, updated_at`

const listingColumns = `d.id, d.full_name, d.blood_type, d.is_available, d.donation_count,
	d.last_donation, d.updated_at, u.id, u.location, u.phone, u.telegram_username, u.created_at`

const listWhere = `
	FROM donors d JOIN users u ON u.id = d.user_id
	WHERE u.status = 'active' AND d.is_available = $1
	  AND ($2::text = '' OR d.blood_type = $2)
	  AND ($3::text = '' OR u.location ILIKE $3)`

type postgresRepository struct {
	db pg.DBTX
}

// NewRepository returns a Repository backed by Postgres.
func NewRepository(db pg.DBTX) Repository {
	return &postgresRepository{db: db}
}

func scanDonor(row pgx.Row) (core.Donor, error) {
	var d core.Donor
	err := row.Scan(&d.ID, &d.UserID, &d.FullName, &d.BloodType, &d.DateOfBirth, &d.Weight,
		&d.EmergencyContact, &d.MedicalNotes, &d.IsAvailable, &d.DonationCount, &d.LastDonation,
		&d.CreatedAt, &d.UpdatedAt)
	if pg.IsNotFoundError(err) {
		return d, ErrProfileNotFound
	}
	return d, err
}

func collectListings(rows pgx.Rows) ([]Listing, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Listing, error) {
		var l Listing
		err := row.Scan(&l.ID, &l.FullName, &l.BloodType, &l.IsAvailable, &l.DonationCount,
			&l.LastDonation, &l.UpdatedAt, &l.User.ID, &l.User.Location, &l.User.Phone,
			&l.User.TelegramUsername, &l.User.CreatedAt)
		return l, err
	})
}

func (r *postgresRepository) List(ctx context.Context, f ListFilter) ([]Listing, int, error) {
	args := []any{f.Available, string(f.BloodType), pg.Contains(f.Location)}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*)`+listWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count donors: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT `+listingColumns+listWhere+`
		ORDER BY d.updated_at DESC
		LIMIT $4 OFFSET $5`, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list donors: %w", err)
	}
	out, err := collectListings(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("list donors: %w", err)
	}
	return out, total, nil
}

func (r *postgresRepository) Search(ctx context.Context, f SearchFilter) ([]Listing, error) {
	var before *time.Time
	if !f.DonatedBefore.IsZero() {
		before = &f.DonatedBefore
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+listingColumns+`
		FROM donors d JOIN users u ON u.id = d.user_id
		WHERE u.status = 'active' AND d.is_available AND d.blood_type = $1
		  AND ($2::text = '' OR u.location ILIKE $2)
		  AND ($3::timestamptz IS NULL OR d.last_donation IS NULL OR d.last_donation < $3)
		ORDER BY d.last_donation ASC NULLS FIRST, d.updated_at DESC
		LIMIT $4`,
		string(f.BloodType), pg.Contains(f.Location), before, f.Limit)
	if err != nil {
		return nil, fmt.Errorf("search donors: %w", err)
	}
	out, err := collectListings(rows)
	if err != nil {
		return nil, fmt.Errorf("search donors: %w", err)
	}
	return out, nil
}

func (r *postgresRepository) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	if err := r.db.QueryRow(ctx, `
		SELECT count(*) FROM donors d JOIN users u ON u.id = d.user_id
		WHERE u.status = 'active'`).Scan(&s.TotalDonors); err != nil {
		return s, fmt.Errorf("count donors: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT d.blood_type, count(*)
		FROM donors d JOIN users u ON u.id = d.user_id
		WHERE u.status = 'active' AND d.is_available
		GROUP BY d.blood_type
		ORDER BY d.blood_type`)
	if err != nil {
		return s, fmt.Errorf("blood type distribution: %w", err)
	}
	s.BloodTypeDistribution, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (BloodTypeCount, error) {
		var c BloodTypeCount
		err := row.Scan(&c.BloodType, &c.Count)
		return c, err
	})
	if err != nil {
		return s, fmt.Errorf("blood type distribution: %w", err)
	}
	return s, nil
}

func (r *postgresRepository) ByUserID(ctx context.Context, userID uuid.UUID) (core.Donor, error) {
	return scanDonor(r.db.QueryRow(ctx, `SELECT `+donorColumns+` FROM donors WHERE user_id = $1`, userID))
}

func (r *postgresRepository) UpdateProfile(ctx context.Context, userID uuid.UUID, upd ProfileUpdate) (core.Donor, error) {
	var bloodType *string
	if upd.BloodType != nil {
		bt := string(*upd.BloodType)
		bloodType = &bt
	}
	return scanDonor(r.db.QueryRow(ctx, `
		UPDATE donors SET
			full_name = COALESCE($2, full_name),
			blood_type = COALESCE($3, blood_type),
			date_of_birth = COALESCE($4, date_of_birth),
			weight = COALESCE($5, weight),
			emergency_contact = COALESCE($6, emergency_contact),
			medical_notes = COALESCE($7, medical_notes),
			updated_at = now()
		WHERE user_id = $1
		RETURNING `+donorColumns,
		userID, upd.FullName, bloodType, upd.DateOfBirth, upd.Weight, upd.EmergencyContact, upd.MedicalNotes))
}

func (r *postgresRepository) SetAvailability(ctx context.Context, userID uuid.UUID, available bool) (core.Donor, error) {
	return scanDonor(r.db.QueryRow(ctx, `
		UPDATE donors SET is_available = $2, updated_at = now()
		WHERE user_id = $1
		RETURNING `+donorColumns, userID, available))
}

func (r *postgresRepository) RecordDonation(ctx context.Context, userID uuid.UUID, at time.Time, notes *string) (core.Donor, error) {
	return scanDonor(r.db.QueryRow(ctx, `
		UPDATE donors SET
			donation_count = donation_count + 1,
			last_donation = $2,
			is_available = false,
			medical_notes = COALESCE($3, medical_notes),
			updated_at = now()
		WHERE user_id = $1
		RETURNING `+donorColumns, userID, at, notes))
}
