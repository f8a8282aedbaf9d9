// Package donor serves the donor directory and the donor's own profile,
// availability and donation log.
package donor

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/core"
	"github.com/bloodlink/bloodlink/pkg/logger"
)

// DonationHistory summarizes a donor's donations against the donation
// interval.
type DonationHistory struct {
	TotalDonations   int        `json:"totalDonations"`
	LastDonation     *time.Time `json:"lastDonation"`
	CanDonateAgain   bool       `json:"canDonateAgain"`
	NextEligibleDate *time.Time `json:"nextEligibleDate"`
}

type Service struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

type ServiceOption func(*Service)

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{repo: repo, log: logger.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("donor"))
	return s
}

// List returns a window of the directory. Anonymous callers get no contact
// details.
func (s *Service) List(ctx context.Context, q ListQuery, authenticated bool) ([]Listing, core.Window, error) {
	f := q.filter()
	donors, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, core.Window{}, err
	}
	if !authenticated {
		for i := range donors {
			donors[i].User = donors[i].User.Anonymous()
		}
	}
	if donors == nil {
		donors = []Listing{}
	}
	return donors, core.NewWindow(total, f.Limit, f.Offset), nil
}

// Search finds available donors of one blood type, longest since last
// donation first. With urgent set, donors still inside the donation
// interval are left out.
func (s *Service) Search(ctx context.Context, bloodType core.BloodType, location string, urgent bool, limit int) ([]Listing, error) {
	f := SearchFilter{
		BloodType: bloodType,
		Location:  location,
		Limit:     core.ClampLimit(limit, core.DefaultPageSize),
	}
	if urgent {
		f.DonatedBefore = s.now().Add(-core.DonationInterval)
	}
	donors, err := s.repo.Search(ctx, f)
	if err != nil {
		return nil, err
	}
	if donors == nil {
		donors = []Listing{}
	}
	return donors, nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	st, err := s.repo.Stats(ctx)
	if err != nil {
		return Stats{}, err
	}
	if st.BloodTypeDistribution == nil {
		st.BloodTypeDistribution = []BloodTypeCount{}
	}
	return st, nil
}

func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (core.Donor, error) {
	return s.repo.ByUserID(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (core.Donor, error) {
	req.Sanitize()
	if err := req.Validate(); err != nil {
		return core.Donor{}, err
	}
	return s.repo.UpdateProfile(ctx, userID, req.update())
}

func (s *Service) SetAvailability(ctx context.Context, userID uuid.UUID, req AvailabilityRequest) (core.Donor, error) {
	available, err := req.value()
	if err != nil {
		return core.Donor{}, err
	}
	d, err := s.repo.SetAvailability(ctx, userID, available)
	if err != nil {
		return core.Donor{}, err
	}
	s.log.InfoContext(ctx, "availability changed",
		logger.UserID(userID), slog.Bool("available", available))
	return d, nil
}

// RecordDonation logs a donation and takes the donor off the available list.
func (s *Service) RecordDonation(ctx context.Context, userID uuid.UUID, req DonationRequest) (core.Donor, error) {
	req.Sanitize()
	now := s.now()
	if err := req.Validate(now); err != nil {
		return core.Donor{}, err
	}
	at, _ := req.date(now)
	d, err := s.repo.RecordDonation(ctx, userID, at, req.Notes)
	if err != nil {
		return core.Donor{}, err
	}
	s.log.InfoContext(ctx, "donation recorded",
		logger.UserID(userID), slog.Int("donation_count", d.DonationCount))
	return d, nil
}

func (s *Service) DonationHistory(ctx context.Context, userID uuid.UUID) (DonationHistory, error) {
	d, err := s.repo.ByUserID(ctx, userID)
	if err != nil {
		return DonationHistory{}, err
	}
	h := DonationHistory{
		TotalDonations: d.DonationCount,
		LastDonation:   d.LastDonation,
		CanDonateAgain: true,
	}
	if d.LastDonation != nil {
		next := d.LastDonation.Add(core.DonationInterval)
		h.NextEligibleDate = &next
		h.CanDonateAgain = s.now().After(next)
	}
	return h, nil
}
