// Package bloodrequest manages blood requests posted by health centers and
// the Telegram fan-out to eligible donors that follows each new request.
package bloodrequest

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/core"
	"github.com/bloodlink/bloodlink/modules/notify"
	"github.com/bloodlink/bloodlink/pkg/logger"
	"github.com/bloodlink/bloodlink/pkg/queue"
)

// MaxEligibleDonors caps one fan-out.
const MaxEligibleDonors = 50

// Broadcaster delivers a message to donors. Satisfied by *notify.Dispatcher.
type Broadcaster interface {
	Broadcast(ctx context.Context, recipients []notify.Recipient, message string) notify.Result
}

// Outcome is what one fan-out did.
type Outcome struct {
	BloodRequestID uuid.UUID     `json:"blood_request_id"`
	EligibleDonors int           `json:"eligible_donors"`
	Result         notify.Result `json:"notification_result"`
}

type Service struct {
	repo     Repository
	tasks    queue.Enqueuer
	notifier Broadcaster
	log      *slog.Logger
	now      func() time.Time
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

func NewService(repo Repository, tasks queue.Enqueuer, notifier Broadcaster, opts ...ServiceOption) *Service {
	s := &Service{repo: repo, tasks: tasks, notifier: notifier, log: logger.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("bloodrequest"))
	return s
}

// Create validates and stores a request for the center owned by userID,
// then queues the donor fan-out. Queueing problems never fail the request.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (core.BloodRequest, error) {
	req.Sanitize()
	if err := req.Validate(); err != nil {
		return core.BloodRequest{}, err
	}

	center, err := s.repo.CenterByUserID(ctx, userID)
	if err != nil {
		return core.BloodRequest{}, err
	}

	now := s.now().UTC()
	br := core.BloodRequest{
		ID:                      uuid.New(),
		HealthCenterID:          center.ID,
		BloodType:               req.BloodType,
		UnitsNeeded:             req.UnitsNeeded,
		UnitsReceived:           0,
		Urgency:                 req.Urgency,
		Procedure:               req.Procedure,
		PatientAge:              req.PatientAge,
		Notes:                   req.Notes,
		ExpectedTimeframe:       req.ExpectedTimeframe,
		ExpectedFulfillmentDate: now.Add(FulfillmentOffset(req.ExpectedTimeframe)),
		ContactPreference:       req.ContactPreference,
		Status:                  core.RequestActive,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	if err := s.repo.Create(ctx, br); err != nil {
		return core.BloodRequest{}, err
	}

	s.log.InfoContext(ctx, "blood request created",
		logger.BloodRequestID(br.ID),
		logger.BloodType(string(br.BloodType)),
		slog.String("urgency", string(br.Urgency)),
	)

	if err := s.tasks.Enqueue(ctx, FanOutTask{BloodRequestID: br.ID}); err != nil {
		s.log.ErrorContext(ctx, "failed to enqueue donor fan-out",
			logger.Error(err), logger.BloodRequestID(br.ID))
	}
	return br, nil
}

// EligibleDonors returns up to MaxEligibleDonors active, available donors
// of bloodType with a linked Telegram chat. Urgent lookups skip donors
// still inside the donation interval. Request fan-out never sets urgent:
// an Emergency must reach at least as many donors as a Normal request,
// and donors decide for themselves whether they can give again.
func (s *Service) EligibleDonors(ctx context.Context, bloodType core.BloodType, urgent bool) ([]notify.Recipient, error) {
	e := Eligibility{BloodType: bloodType, Limit: MaxEligibleDonors}
	if urgent {
		e.DonatedBefore = s.now().Add(-core.DonationInterval)
	}
	return s.repo.EligibleDonors(ctx, e)
}

// FanOut notifies eligible donors about a stored request.
func (s *Service) FanOut(ctx context.Context, requestID uuid.UUID) (Outcome, error) {
	br, err := s.repo.ByID(ctx, requestID)
	if err != nil {
		return Outcome{}, err
	}
	center, err := s.repo.CenterByID(ctx, br.HealthCenterID)
	if err != nil {
		return Outcome{}, err
	}
	return s.fanOut(ctx, br, center)
}

func (s *Service) fanOut(ctx context.Context, br core.BloodRequest, center Center) (Outcome, error) {
	recipients, err := s.EligibleDonors(ctx, br.BloodType, false)
	if err != nil {
		return Outcome{}, err
	}
	msg := ComposeMessage(br.Urgency, center.Name, br.BloodType, br.UnitsNeeded, center.Location, br.Procedure)
	res := s.notifier.Broadcast(ctx, recipients, msg)

	s.log.InfoContext(ctx, "donor fan-out finished",
		logger.BloodRequestID(br.ID),
		slog.Int("eligible_donors", len(recipients)),
		slog.Int("users_notified", res.UsersNotified),
		slog.String("error_kind", string(res.ErrorKind)),
	)
	return Outcome{BloodRequestID: br.ID, EligibleDonors: len(recipients), Result: res}, nil
}

// Notify re-runs the fan-out synchronously for an active request owned by
// the center of userID.
func (s *Service) Notify(ctx context.Context, userID uuid.UUID, requestID string) (Outcome, error) {
	center, br, err := s.owned(ctx, userID, requestID)
	if err != nil {
		return Outcome{}, err
	}
	if br.Status != core.RequestActive {
		return Outcome{}, ErrRequestNotActive
	}
	return s.fanOut(ctx, br, center)
}

func (s *Service) owned(ctx context.Context, userID uuid.UUID, requestID string) (Center, core.BloodRequest, error) {
	id, err := parseID(requestID)
	if err != nil {
		return Center{}, core.BloodRequest{}, err
	}
	center, err := s.repo.CenterByUserID(ctx, userID)
	if err != nil {
		return Center{}, core.BloodRequest{}, err
	}
	br, err := s.repo.ByID(ctx, id)
	if err != nil {
		return Center{}, core.BloodRequest{}, err
	}
	if br.HealthCenterID != center.ID {
		return Center{}, core.BloodRequest{}, ErrRequestNotFound
	}
	return center, br, nil
}

// List pages through the center's own requests, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID, q ListQuery) ([]core.BloodRequest, core.Page, error) {
	status, err := q.status()
	if err != nil {
		return nil, core.Page{}, err
	}
	center, err := s.repo.CenterByUserID(ctx, userID)
	if err != nil {
		return nil, core.Page{}, err
	}
	p, limit, offset := page(q.Page, q.Limit)
	items, total, err := s.repo.ListByCenter(ctx, center.ID, status, limit, offset)
	if err != nil {
		return nil, core.Page{}, err
	}
	if items == nil {
		items = []core.BloodRequest{}
	}
	return items, core.NewPage(total, p, limit), nil
}

func (s *Service) Get(ctx context.Context, userID uuid.UUID, requestID string) (core.BloodRequest, error) {
	_, br, err := s.owned(ctx, userID, requestID)
	return br, err
}

// Update changes status, notes or units received. Status changes follow
// the request lifecycle.
func (s *Service) Update(ctx context.Context, userID uuid.UUID, req UpdateRequest) (core.BloodRequest, error) {
	_, br, err := s.owned(ctx, userID, req.ID)
	if err != nil {
		return core.BloodRequest{}, err
	}
	req.Sanitize()
	if err := req.Validate(br.UnitsNeeded); err != nil {
		return core.BloodRequest{}, err
	}

	from := br.Status
	if req.Status != nil {
		if br.Status, err = transition(ctx, br.Status, core.RequestStatus(*req.Status)); err != nil {
			return core.BloodRequest{}, err
		}
	}
	if req.Notes != nil {
		br.Notes = req.Notes
	}
	if req.UnitsReceived != nil {
		br.UnitsReceived = *req.UnitsReceived
	}
	br.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, br)
	if err != nil {
		return core.BloodRequest{}, err
	}
	if from != updated.Status {
		s.log.InfoContext(ctx, "blood request status changed",
			logger.BloodRequestID(br.ID),
			slog.String("from", string(from)),
			slog.String("to", string(updated.Status)),
		)
	}
	return updated, nil
}

// Cancel archives the request. Requests are never deleted.
func (s *Service) Cancel(ctx context.Context, userID uuid.UUID, requestID string) error {
	status := string(core.RequestCancelled)
	_, err := s.Update(ctx, userID, UpdateRequest{ID: requestID, Status: &status})
	return err
}

// Feed pages through active requests for a donor, matching the donor's own
// blood type unless q names one.
func (s *Service) Feed(ctx context.Context, userID uuid.UUID, q FeedQuery) ([]FeedItem, core.Page, error) {
	bt, ok := core.ParseBloodType(q.BloodType)
	if !ok {
		var err error
		if bt, err = s.repo.DonorBloodType(ctx, userID); err != nil {
			return nil, core.Page{}, err
		}
	}
	p, limit, offset := page(q.Page, q.Limit)
	items, total, err := s.repo.Feed(ctx, bt, limit, offset)
	if err != nil {
		return nil, core.Page{}, err
	}
	if items == nil {
		items = []FeedItem{}
	}
	return items, core.NewPage(total, p, limit), nil
}
