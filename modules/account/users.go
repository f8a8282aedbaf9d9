package account

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/core"
	"github.com/bloodlink/bloodlink/pkg/logger"
)

type DonorStats struct {
	DonationCount int            `json:"donationCount"`
	LastDonation  *time.Time     `json:"lastDonation"`
	IsAvailable   bool           `json:"isAvailable"`
	BloodType     core.BloodType `json:"bloodType"`
}

type HealthCenterStats struct {
	Verified   bool    `json:"verified"`
	CenterType *string `json:"centerType"`
	Capacity   *int    `json:"capacity"`
}

func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (core.Profile, error) {
	return s.repo.Profile(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (core.Profile, error) {
	req.Sanitize()
	if err := req.Validate(); err != nil {
		return core.Profile{}, err
	}
	if err := s.repo.UpdateContact(ctx, userID, req.update()); err != nil {
		return core.Profile{}, err
	}
	return s.repo.Profile(ctx, userID)
}

// Stats returns DonorStats or HealthCenterStats depending on the role. A
// user without a role profile gets an empty object.
func (s *Service) Stats(ctx context.Context, userID uuid.UUID) (any, error) {
	p, err := s.repo.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	switch {
	case p.Donor != nil:
		return DonorStats{
			DonationCount: p.Donor.DonationCount,
			LastDonation:  p.Donor.LastDonation,
			IsAvailable:   p.Donor.IsAvailable,
			BloodType:     p.Donor.BloodType,
		}, nil
	case p.HealthCenter != nil:
		return HealthCenterStats{
			Verified:   p.HealthCenter.Verified,
			CenterType: p.HealthCenter.CenterType,
			Capacity:   p.HealthCenter.Capacity,
		}, nil
	}
	return struct{}{}, nil
}

// Deactivate marks the account inactive and signs it out everywhere.
func (s *Service) Deactivate(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, userID); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "account deactivated", logger.UserID(userID))
	return nil
}
