package bloodrequest_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/core"
	"github.com/bloodlink/bloodlink/modules/bloodrequest"
	"github.com/bloodlink/bloodlink/modules/notify"
	"github.com/bloodlink/bloodlink/pkg/queue"
)

type donorRow struct {
	userID       uuid.UUID
	chatID       string
	bloodType    core.BloodType
	available    bool
	active       bool
	lastDonation *time.Time
}

type memRepo struct {
	mu          sync.Mutex
	centers     map[uuid.UUID]bloodrequest.Center
	requests    map[uuid.UUID]core.BloodRequest
	donorTypes  map[uuid.UUID]core.BloodType
	donors      []donorRow
	eligibility []bloodrequest.Eligibility
}

func newMemRepo() *memRepo {
	return &memRepo{
		centers:    map[uuid.UUID]bloodrequest.Center{},
		requests:   map[uuid.UUID]core.BloodRequest{},
		donorTypes: map[uuid.UUID]core.BloodType{},
	}
}

func (m *memRepo) addCenter(userID uuid.UUID, name, location string) bloodrequest.Center {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := bloodrequest.Center{ID: uuid.New(), UserID: userID, Name: name, Location: location}
	m.centers[c.ID] = c
	return c
}

func (m *memRepo) addDonor(row donorRow) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row.userID == uuid.Nil {
		row.userID = uuid.New()
	}
	m.donors = append(m.donors, row)
	m.donorTypes[row.userID] = row.bloodType
}

func (m *memRepo) CenterByUserID(_ context.Context, userID uuid.UUID) (bloodrequest.Center, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.centers {
		if c.UserID == userID {
			return c, nil
		}
	}
	return bloodrequest.Center{}, bloodrequest.ErrCenterNotFound
}

func (m *memRepo) CenterByID(_ context.Context, id uuid.UUID) (bloodrequest.Center, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.centers[id]
	if !ok {
		return c, bloodrequest.ErrCenterNotFound
	}
	return c, nil
}

func (m *memRepo) DonorBloodType(_ context.Context, userID uuid.UUID) (core.BloodType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bt, ok := m.donorTypes[userID]
	if !ok {
		return "", bloodrequest.ErrDonorNotFound
	}
	return bt, nil
}

func (m *memRepo) Create(_ context.Context, br core.BloodRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.centers[br.HealthCenterID]; !ok {
		return bloodrequest.ErrCenterNotFound
	}
	m.requests[br.ID] = br
	return nil
}

func (m *memRepo) ByID(_ context.Context, id uuid.UUID) (core.BloodRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	br, ok := m.requests[id]
	if !ok {
		return br, bloodrequest.ErrRequestNotFound
	}
	return br, nil
}

func (m *memRepo) sorted(keep func(core.BloodRequest) bool) []core.BloodRequest {
	var out []core.BloodRequest
	for _, br := range m.requests {
		if keep(br) {
			out = append(out, br)
		}
	}
	slices.SortFunc(out, func(a, b core.BloodRequest) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out
}

func window[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return nil
	}
	return all[offset:min(offset+limit, len(all))]
}

func (m *memRepo) ListByCenter(_ context.Context, centerID uuid.UUID, status core.RequestStatus, limit, offset int) ([]core.BloodRequest, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.sorted(func(br core.BloodRequest) bool {
		return br.HealthCenterID == centerID && (status == "" || br.Status == status)
	})
	return window(all, limit, offset), len(all), nil
}

func (m *memRepo) Feed(_ context.Context, bt core.BloodType, limit, offset int) ([]bloodrequest.FeedItem, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.sorted(func(br core.BloodRequest) bool {
		return br.Status == core.RequestActive && br.BloodType == bt
	})
	var items []bloodrequest.FeedItem
	for _, br := range window(all, limit, offset) {
		c := m.centers[br.HealthCenterID]
		items = append(items, bloodrequest.FeedItem{
			BloodRequest: br,
			HealthCenter: bloodrequest.FeedCenter{ID: c.ID, CenterName: c.Name, Location: c.Location},
		})
	}
	return items, len(all), nil
}

func (m *memRepo) Update(_ context.Context, br core.BloodRequest) (core.BloodRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.requests[br.ID]; !ok {
		return br, bloodrequest.ErrRequestNotFound
	}
	m.requests[br.ID] = br
	return br, nil
}

func (m *memRepo) EligibleDonors(_ context.Context, e bloodrequest.Eligibility) ([]notify.Recipient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eligibility = append(m.eligibility, e)
	var out []notify.Recipient
	for _, d := range m.donors {
		if !d.active || !d.available || d.chatID == "" || d.bloodType != e.BloodType {
			continue
		}
		if !e.DonatedBefore.IsZero() && d.lastDonation != nil && !d.lastDonation.Before(e.DonatedBefore) {
			continue
		}
		out = append(out, notify.Recipient{UserID: d.userID, ChatID: d.chatID})
		if len(out) == e.Limit {
			break
		}
	}
	return out, nil
}

type broadcast struct {
	recipients []notify.Recipient
	message    string
}

type fakeBroadcaster struct {
	mu    sync.Mutex
	sent  []broadcast
	reply notify.Result
}

func (f *fakeBroadcaster) Broadcast(_ context.Context, recipients []notify.Recipient, message string) notify.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, broadcast{recipients: recipients, message: message})
	if len(recipients) == 0 {
		return notify.Result{Message: notify.MessageNoChatIDs}
	}
	res := f.reply
	res.SuccessCount, res.UsersNotified, res.TotalAttempted = len(recipients), len(recipients), len(recipients)
	return res
}

// captureQueue records tasks instead of running them.
type captureQueue struct {
	mu    sync.Mutex
	tasks []any
	err   error
}

var _ queue.Enqueuer = (*captureQueue)(nil)

func (q *captureQueue) Enqueue(_ context.Context, payload any) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.tasks = append(q.tasks, payload)
	return nil
}

var errQueueFull = errors.New("queue full")
