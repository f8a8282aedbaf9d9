package bloodrequest

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/core"
	"github.com/bloodlink/bloodlink/modules/notify"
)

// Center is the requesting health center as needed for ownership checks
// and donor messages.
type Center struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Name     string
	Location string
}

// FeedItem is an active request as shown to donors.
type FeedItem struct {
	core.BloodRequest
	HealthCenter FeedCenter `json:"healthCenter"`
}

type FeedCenter struct {
	ID               uuid.UUID `json:"id"`
	CenterName       string    `json:"centerName"`
	Location         string    `json:"location"`
	Phone            string    `json:"phone"`
	TelegramUsername *string   `json:"telegramUsername"`
	Verified         bool      `json:"verified"`
}

// Eligibility selects donors to notify. A non-zero DonatedBefore excludes
// donors whose last donation is at or after it.
type Eligibility struct {
	BloodType     core.BloodType
	DonatedBefore time.Time
	Limit         int
}

type Repository interface {
	CenterByUserID(ctx context.Context, userID uuid.UUID) (Center, error)
	CenterByID(ctx context.Context, id uuid.UUID) (Center, error)
	DonorBloodType(ctx context.Context, userID uuid.UUID) (core.BloodType, error)

	Create(ctx context.Context, br core.BloodRequest) error
	ByID(ctx context.Context, id uuid.UUID) (core.BloodRequest, error)
	ListByCenter(ctx context.Context, centerID uuid.UUID, status core.RequestStatus, limit, offset int) ([]core.BloodRequest, int, error)
	Feed(ctx context.Context, bloodType core.BloodType, limit, offset int) ([]FeedItem, int, error)
	Update(ctx context.Context, br core.BloodRequest) (core.BloodRequest, error)

	EligibleDonors(ctx context.Context, e Eligibility) ([]notify.Recipient, error)
}
