package donor

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/core"
)

// Listing is a donor as shown in the directory and in center searches.
type Listing struct {
	ID            uuid.UUID      `json:"id"`
	FullName      string         `json:"fullName"`
	BloodType     core.BloodType `json:"bloodType"`
	IsAvailable   bool           `json:"isAvailable"`
	DonationCount int            `json:"donationCount"`
	LastDonation  *time.Time     `json:"lastDonation"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	User          core.Contact   `json:"user"`
}

// ListFilter selects donors of active accounts. Empty strings match all.
type ListFilter struct {
	BloodType core.BloodType
	Location  string
	Available bool
	Limit     int
	Offset    int
}

// SearchFilter selects available donors for a health center. A non-zero
// DonatedBefore keeps only donors who never donated or last donated before it.
type SearchFilter struct {
	BloodType     core.BloodType
	Location      string
	DonatedBefore time.Time
	Limit         int
}

type BloodTypeCount struct {
	BloodType core.BloodType `json:"bloodType"`
	Count     int            `json:"count"`
}

type Stats struct {
	TotalDonors           int              `json:"totalDonors"`
	BloodTypeDistribution []BloodTypeCount `json:"bloodTypeDistribution"`
}

// ProfileUpdate holds the fields to change; nil means keep.
type ProfileUpdate struct {
	FullName         *string
	BloodType        *core.BloodType
	DateOfBirth      *time.Time
	Weight           *float64
	EmergencyContact *string
	MedicalNotes     *string
}

type Repository interface {
	List(ctx context.Context, f ListFilter) ([]Listing, int, error)
	Search(ctx context.Context, f SearchFilter) ([]Listing, error)
	Stats(ctx context.Context) (Stats, error)
	ByUserID(ctx context.Context, userID uuid.UUID) (core.Donor, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, upd ProfileUpdate) (core.Donor, error)
	SetAvailability(ctx context.Context, userID uuid.UUID, available bool) (core.Donor, error)
	RecordDonation(ctx context.Context, userID uuid.UUID, at time.Time, notes *string) (core.Donor, error)
}
