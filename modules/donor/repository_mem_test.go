package donor_test

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/core"
	"github.com/bloodlink/bloodlink/modules/donor"
)

type memRepo struct {
	mu     sync.Mutex
	users  map[uuid.UUID]core.User
	donors map[uuid.UUID]core.Donor
	clock  time.Time
}

func newMemRepo() *memRepo {
	return &memRepo{
		users:  map[uuid.UUID]core.User{},
		donors: map[uuid.UUID]core.Donor{},
		clock:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// add stores u with a donor profile; the latest added sorts first.
func (m *memRepo) add(u core.User, d core.Donor) core.Donor {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = m.clock.Add(time.Minute)
	d.ID = uuid.New()
	d.UserID = u.ID
	d.UpdatedAt = m.clock
	m.users[u.ID] = u
	m.donors[u.ID] = d
	return d
}

func (m *memRepo) listing(d core.Donor) donor.Listing {
	u := m.users[d.UserID]
	phone := u.Phone
	return donor.Listing{
		ID: d.ID, FullName: d.FullName, BloodType: d.BloodType, IsAvailable: d.IsAvailable,
		DonationCount: d.DonationCount, LastDonation: d.LastDonation, UpdatedAt: d.UpdatedAt,
		User: core.Contact{ID: u.ID, Location: u.Location, Phone: &phone, TelegramUsername: u.TelegramUsername},
	}
}

func (m *memRepo) active(d core.Donor) bool {
	return m.users[d.UserID].Status == core.UserActive
}

func locationMatch(loc, q string) bool {
	return q == "" || strings.Contains(strings.ToLower(loc), strings.ToLower(q))
}

func (m *memRepo) List(_ context.Context, f donor.ListFilter) ([]donor.Listing, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []core.Donor
	for _, d := range m.donors {
		if !m.active(d) || d.IsAvailable != f.Available {
			continue
		}
		if f.BloodType != "" && d.BloodType != f.BloodType {
			continue
		}
		if !locationMatch(m.users[d.UserID].Location, f.Location) {
			continue
		}
		all = append(all, d)
	}
	slices.SortFunc(all, func(a, b core.Donor) int { return b.UpdatedAt.Compare(a.UpdatedAt) })

	var out []donor.Listing
	for i := f.Offset; i < len(all) && i < f.Offset+f.Limit; i++ {
		out = append(out, m.listing(all[i]))
	}
	return out, len(all), nil
}

func (m *memRepo) Search(_ context.Context, f donor.SearchFilter) ([]donor.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []core.Donor
	for _, d := range m.donors {
		if !m.active(d) || !d.IsAvailable || d.BloodType != f.BloodType {
			continue
		}
		if !locationMatch(m.users[d.UserID].Location, f.Location) {
			continue
		}
		if !f.DonatedBefore.IsZero() && d.LastDonation != nil && !d.LastDonation.Before(f.DonatedBefore) {
			continue
		}
		all = append(all, d)
	}
	slices.SortFunc(all, func(a, b core.Donor) int {
		switch {
		case a.LastDonation == nil && b.LastDonation != nil:
			return -1
		case a.LastDonation != nil && b.LastDonation == nil:
			return 1
		case a.LastDonation != nil && b.LastDonation != nil && !a.LastDonation.Equal(*b.LastDonation):
			return a.LastDonation.Compare(*b.LastDonation)
		}
		return cmp.Compare(b.UpdatedAt.UnixNano(), a.UpdatedAt.UnixNano())
	})
	var out []donor.Listing
	for i := 0; i < len(all) && i < f.Limit; i++ {
		out = append(out, m.listing(all[i]))
	}
	return out, nil
}

func (m *memRepo) Stats(context.Context) (donor.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var s donor.Stats
	counts := map[core.BloodType]int{}
	for _, d := range m.donors {
		if !m.active(d) {
			continue
		}
		s.TotalDonors++
		if d.IsAvailable {
			counts[d.BloodType]++
		}
	}
	for _, bt := range core.BloodTypes {
		if counts[bt] > 0 {
			s.BloodTypeDistribution = append(s.BloodTypeDistribution, donor.BloodTypeCount{BloodType: bt, Count: counts[bt]})
		}
	}
	return s, nil
}

func (m *memRepo) ByUserID(_ context.Context, userID uuid.UUID) (core.Donor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.donors[userID]
	if !ok {
		return core.Donor{}, donor.ErrProfileNotFound
	}
	return d, nil
}

func (m *memRepo) update(userID uuid.UUID, fn func(d *core.Donor)) (core.Donor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.donors[userID]
	if !ok {
		return core.Donor{}, donor.ErrProfileNotFound
	}
	fn(&d)
	m.clock = m.clock.Add(time.Minute)
	d.UpdatedAt = m.clock
	m.donors[userID] = d
	return d, nil
}

func (m *memRepo) UpdateProfile(_ context.Context, userID uuid.UUID, upd donor.ProfileUpdate) (core.Donor, error) {
	return m.update(userID, func(d *core.Donor) {
		if upd.FullName != nil {
			d.FullName = *upd.FullName
		}
		if upd.BloodType != nil {
			d.BloodType = *upd.BloodType
		}
		if upd.DateOfBirth != nil {
			d.DateOfBirth = upd.DateOfBirth
		}
		if upd.Weight != nil {
			d.Weight = upd.Weight
		}
		if upd.EmergencyContact != nil {
			d.EmergencyContact = upd.EmergencyContact
		}
		if upd.MedicalNotes != nil {
			d.MedicalNotes = upd.MedicalNotes
		}
	})
}

func (m *memRepo) SetAvailability(_ context.Context, userID uuid.UUID, available bool) (core.Donor, error) {
	return m.update(userID, func(d *core.Donor) { d.IsAvailable = available })
}

func (m *memRepo) RecordDonation(_ context.Context, userID uuid.UUID, at time.Time, notes *string) (core.Donor, error) {
	return m.update(userID, func(d *core.Donor) {
		d.DonationCount++
		d.LastDonation = &at
		d.IsAvailable = false
		if notes != nil {
			d.MedicalNotes = notes
		}
	})
}
