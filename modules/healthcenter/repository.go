package healthcenter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/core"
)

// Listing is a health center as shown in the public directory. The
// verification document is never listed.
type Listing struct {
	ID             uuid.UUID    `json:"id"`
	CenterName     string       `json:"centerName"`
	ContactPerson  string       `json:"contactPerson"`
	CenterType     *string      `json:"centerType"`
	Capacity       *int         `json:"capacity"`
	OperatingHours *string      `json:"operatingHours"`
	Services       []string     `json:"services"`
	Verified       bool         `json:"verified"`
	UpdatedAt      time.Time    `json:"updatedAt"`
	User           core.Contact `json:"user"`
}

type ListFilter struct {
	Location     string
	VerifiedOnly bool
	Limit        int
	Offset       int
}

type VerificationCount struct {
	Verified bool `json:"verified"`
	Count    int  `json:"count"`
}

type Stats struct {
	TotalHealthCenters int                 `json:"totalHealthCenters"`
	VerificationStats  []VerificationCount `json:"verificationStats"`
}

// ProfileUpdate holds the fields to change; nil means keep.
type ProfileUpdate struct {
	CenterName         *string
	ContactPerson      *string
	RegistrationNumber *string
	CenterType         *string
	Capacity           *int
	OperatingHours     *string
	Services           []string
}

type Repository interface {
	List(ctx context.Context, f ListFilter) ([]Listing, int, error)
	Stats(ctx context.Context) (Stats, error)
	ByUserID(ctx context.Context, userID uuid.UUID) (core.HealthCenter, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, upd ProfileUpdate) (core.HealthCenter, error)
	SubmitVerification(ctx context.Context, userID uuid.UUID, doc string, at time.Time) (core.HealthCenter, error)
}
