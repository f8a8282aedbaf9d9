// Package healthcenter serves the health center directory, the center's own
// profile and verification, and donor search for centers.
package healthcenter

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/core"
	"github.com/bloodlink/bloodlink/modules/donor"
	"github.com/bloodlink/bloodlink/pkg/logger"
	"github.com/bloodlink/bloodlink/pkg/sanitizer"
)

// DonorSearcher finds available donors. Satisfied by *donor.Service.
type DonorSearcher interface {
	Search(ctx context.Context, bloodType core.BloodType, location string, urgent bool, limit int) ([]donor.Listing, error)
}

type VerificationStatus struct {
	Verified              bool    `json:"verified"`
	HasSubmittedDocuments bool    `json:"hasSubmittedDocuments"`
	VerificationDoc       *string `json:"verificationDoc"`
}

type SearchCriteria struct {
	BloodType core.BloodType `json:"bloodType"`
	Location  string         `json:"location,omitempty"`
	Urgent    bool           `json:"urgent"`
	Total     int            `json:"total"`
}

type SearchResult struct {
	Donors         []donor.Listing `json:"donors"`
	SearchCriteria SearchCriteria  `json:"searchCriteria"`
}

type Service struct {
	repo   Repository
	donors DonorSearcher
	log    *slog.Logger
	now    func() time.Time
}

type ServiceOption func(*Service)

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo Repository, donors DonorSearcher, opts ...ServiceOption) *Service {
	s := &Service{repo: repo, donors: donors, log: logger.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("healthcenter"))
	return s
}

// List returns verified centers first. Anonymous callers get no contact
// details.
func (s *Service) List(ctx context.Context, q ListQuery, authenticated bool) ([]Listing, core.Window, error) {
	f := q.filter()
	centers, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, core.Window{}, err
	}
	for i := range centers {
		if !authenticated {
			centers[i].User = centers[i].User.Anonymous()
		}
		if centers[i].Services == nil {
			centers[i].Services = []string{}
		}
	}
	if centers == nil {
		centers = []Listing{}
	}
	return centers, core.NewWindow(total, f.Limit, f.Offset), nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	st, err := s.repo.Stats(ctx)
	if err != nil {
		return Stats{}, err
	}
	if st.VerificationStats == nil {
		st.VerificationStats = []VerificationCount{}
	}
	return st, nil
}

func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (core.HealthCenter, error) {
	return s.repo.ByUserID(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (core.HealthCenter, error) {
	req.Sanitize()
	if err := req.Validate(); err != nil {
		return core.HealthCenter{}, err
	}
	return s.repo.UpdateProfile(ctx, userID, req.update())
}

// SubmitVerification stores the verification document for review. Verified
// centers cannot resubmit.
func (s *Service) SubmitVerification(ctx context.Context, userID uuid.UUID, req VerificationRequest) (core.HealthCenter, error) {
	hc, err := s.repo.ByUserID(ctx, userID)
	if err != nil {
		return core.HealthCenter{}, err
	}
	if hc.Verified {
		return core.HealthCenter{}, ErrAlreadyVerified
	}
	req.Sanitize()
	if err := req.Validate(); err != nil {
		return core.HealthCenter{}, err
	}
	hc, err = s.repo.SubmitVerification(ctx, userID, req.VerificationDoc, s.now())
	if err != nil {
		return core.HealthCenter{}, err
	}
	s.log.InfoContext(ctx, "verification submitted", logger.UserID(userID), logger.Event("verification_submitted"))
	return hc, nil
}

func (s *Service) VerificationStatus(ctx context.Context, userID uuid.UUID) (VerificationStatus, error) {
	hc, err := s.repo.ByUserID(ctx, userID)
	if err != nil {
		return VerificationStatus{}, err
	}
	return VerificationStatus{
		Verified:              hc.Verified,
		HasSubmittedDocuments: hc.VerificationDoc != nil && *hc.VerificationDoc != "",
		VerificationDoc:       hc.VerificationDoc,
	}, nil
}

func (s *Service) SearchDonors(ctx context.Context, q SearchQuery) (SearchResult, error) {
	bt, err := q.bloodType()
	if err != nil {
		return SearchResult{}, err
	}
	location := sanitizer.SingleLine(q.Location)
	donors, err := s.donors.Search(ctx, bt, location, q.Urgent, q.Limit)
	if err != nil {
		return SearchResult{}, err
	}
	return SearchResult{
		Donors: donors,
		SearchCriteria: SearchCriteria{
			BloodType: bt,
			Location:  location,
			Urgent:    q.Urgent,
			Total:     len(donors),
		},
	}, nil
}
