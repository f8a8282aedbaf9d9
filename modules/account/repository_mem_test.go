package account_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/core"
	"github.com/bloodlink/bloodlink/modules/account"
)

type memRepo struct {
	mu       sync.Mutex
	users    map[uuid.UUID]core.User
	donors   map[uuid.UUID]core.Donor
	centers  map[uuid.UUID]core.HealthCenter
	refresh  map[string]account.RefreshToken
	resets   map[string]account.PasswordReset
	lastSeen map[uuid.UUID]time.Time
}

func newMemRepo() *memRepo {
	return &memRepo{
		users:    map[uuid.UUID]core.User{},
		donors:   map[uuid.UUID]core.Donor{},
		centers:  map[uuid.UUID]core.HealthCenter{},
		refresh:  map[string]account.RefreshToken{},
		resets:   map[string]account.PasswordReset{},
		lastSeen: map[uuid.UUID]time.Time{},
	}
}

func (m *memRepo) CreateAccount(_ context.Context, u core.User, d *core.Donor, c *core.HealthCenter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return account.ErrEmailTaken
		}
	}
	m.users[u.ID] = u
	if d != nil {
		m.donors[u.ID] = *d
	}
	if c != nil {
		m.centers[u.ID] = *c
	}
	return nil
}

func (m *memRepo) UserByEmail(_ context.Context, email string) (core.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return core.User{}, account.ErrUserNotFound
}

func (m *memRepo) UserByID(_ context.Context, id uuid.UUID) (core.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return core.User{}, account.ErrUserNotFound
	}
	return u, nil
}

func (m *memRepo) Profile(ctx context.Context, id uuid.UUID) (core.Profile, error) {
	u, err := m.UserByID(ctx, id)
	if err != nil {
		return core.Profile{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p := core.Profile{User: u}
	if d, ok := m.donors[id]; ok {
		p.Donor = &d
	}
	if c, ok := m.centers[id]; ok {
		p.HealthCenter = &c
	}
	return p, nil
}

func (m *memRepo) update(id uuid.UUID, fn func(*core.User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return account.ErrUserNotFound
	}
	fn(&u)
	m.users[id] = u
	return nil
}

func (m *memRepo) TouchLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	return m.update(id, func(u *core.User) { u.LastLoginAt = &at })
}

func (m *memRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	return m.update(id, func(u *core.User) { u.PasswordHash = hash })
}

func (m *memRepo) UpdateContact(_ context.Context, id uuid.UUID, upd account.ContactUpdate) error {
	return m.update(id, func(u *core.User) {
		if upd.Phone != nil {
			u.Phone = *upd.Phone
		}
		if upd.Location != nil {
			u.Location = *upd.Location
		}
		if upd.TelegramUsername != nil {
			u.TelegramUsername = upd.TelegramUsername
		}
	})
}

func (m *memRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	if err := m.update(id, func(u *core.User) { u.Status = core.UserInactive }); err != nil {
		return err
	}
	m.revoke(id)
	return nil
}

func (m *memRepo) revoke(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, t := range m.refresh {
		if t.UserID == id {
			delete(m.refresh, k)
		}
	}
}

func (m *memRepo) SaveRefreshToken(_ context.Context, t account.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refresh[t.Token] = t
	return nil
}

func (m *memRepo) RotateRefreshToken(_ context.Context, old string, next account.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.refresh[old]; !ok {
		return account.ErrInvalidRefreshToken
	}
	delete(m.refresh, old)
	m.refresh[next.Token] = next
	return nil
}

func (m *memRepo) RefreshToken(_ context.Context, tok string) (account.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.refresh[tok]
	if !ok {
		return t, account.ErrInvalidRefreshToken
	}
	return t, nil
}

func (m *memRepo) DeleteRefreshToken(_ context.Context, tok string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.refresh, tok)
	return nil
}

func (m *memRepo) SavePasswordReset(_ context.Context, r account.PasswordReset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets[r.TokenHash] = r
	return nil
}

func (m *memRepo) ConsumePasswordReset(_ context.Context, tokenHash, hash string, now time.Time) error {
	m.mu.Lock()
	r, ok := m.resets[tokenHash]
	if !ok || r.Used || !r.ExpiresAt.After(now) {
		m.mu.Unlock()
		return account.ErrInvalidResetToken
	}
	r.Used = true
	m.resets[tokenHash] = r
	m.mu.Unlock()

	if err := m.update(r.UserID, func(u *core.User) { u.PasswordHash = hash }); err != nil {
		return err
	}
	m.revoke(r.UserID)
	return nil
}

func (m *memRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, t := range m.refresh {
		if t.ExpiresAt.Before(now) {
			delete(m.refresh, k)
			n++
		}
	}
	for k, r := range m.resets {
		if r.Used || r.ExpiresAt.Before(now) {
			delete(m.resets, k)
			n++
		}
	}
	return n, nil
}

func (m *memRepo) setStatus(id uuid.UUID, s core.UserStatus) {
	_ = m.update(id, func(u *core.User) { u.Status = s })
}

func (m *memRepo) refreshCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.refresh)
}

// captureQueue records enqueued payloads.
type captureQueue struct {
	mu    sync.Mutex
	tasks []any
}

func (q *captureQueue) Enqueue(_ context.Context, payload any) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, payload)
	return nil
}

func (q *captureQueue) all() []any {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]any(nil), q.tasks...)
}
