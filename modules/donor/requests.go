package donor

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/bloodlink/bloodlink/core"
	"github.com/bloodlink/bloodlink/pkg/sanitizer"
	"github.com/bloodlink/bloodlink/pkg/validator"
)

// ListQuery is the directory filter as sent in the query string.
type ListQuery struct {
	BloodType string `query:"bloodType"`
	Location  string `query:"location"`
	Available *bool  `query:"available"`
	Limit     int    `query:"limit"`
	Offset    int    `query:"offset"`
}

func (q ListQuery) filter() ListFilter {
	f := ListFilter{
		Location:  sanitizer.SingleLine(q.Location),
		Available: q.Available == nil || *q.Available,
		Limit:     core.ClampLimit(q.Limit, core.DefaultPageSize),
		Offset:    max(q.Offset, 0),
	}
	if bt, ok := core.ParseBloodType(q.BloodType); ok {
		f.BloodType = bt
	}
	return f
}

type UpdateProfileRequest struct {
	FullName         *string         `json:"fullName"`
	BloodType        *core.BloodType `json:"bloodType"`
	DateOfBirth      *string         `json:"dateOfBirth"`
	Weight           *float64        `json:"weight"`
	EmergencyContact *string         `json:"emergencyContact"`
	MedicalNotes     *string         `json:"medicalNotes"`
}

func (r *UpdateProfileRequest) Sanitize() {
	r.FullName = emptyToNil(r.FullName, sanitizer.PersonName)
	r.EmergencyContact = emptyToNil(r.EmergencyContact, sanitizer.Text)
	r.DateOfBirth = emptyToNil(r.DateOfBirth, sanitizer.Trim)
	if r.MedicalNotes != nil {
		v := sanitizer.Text(*r.MedicalNotes)
		r.MedicalNotes = &v
	}
	if r.BloodType != nil && *r.BloodType == "" {
		r.BloodType = nil
	}
}

func (r UpdateProfileRequest) Validate() error {
	return validator.Apply(
		validator.When(r.FullName != nil,
			validator.LengthBetween("fullName", deref(r.FullName), 2, 100).
				WithMessage("Full name must be between 2 and 100 characters")),
		validator.When(r.BloodType != nil,
			validator.Custom("bloodType", "Please select a valid blood type", func() bool {
				return r.BloodType.Valid()
			})),
		validator.When(r.DateOfBirth != nil,
			validator.Custom("dateOfBirth", "Date of birth must be a valid date", func() bool {
				_, err := core.ParseDate(deref(r.DateOfBirth))
				return err == nil
			})),
		validator.When(r.Weight != nil,
			validator.Custom("weight", "Weight must be between 30 and 300 kg", func() bool {
				return *r.Weight >= 30 && *r.Weight <= 300
			})),
		validator.When(r.EmergencyContact != nil,
			validator.MaxLength("emergencyContact", deref(r.EmergencyContact), 100).
				WithMessage("Emergency contact must not exceed 100 characters")),
		validator.When(r.MedicalNotes != nil,
			validator.MaxLength("medicalNotes", deref(r.MedicalNotes), 500).
				WithMessage("Medical notes must not exceed 500 characters")),
	)
}

func (r UpdateProfileRequest) update() ProfileUpdate {
	upd := ProfileUpdate{
		FullName:         r.FullName,
		BloodType:        r.BloodType,
		Weight:           r.Weight,
		EmergencyContact: r.EmergencyContact,
		MedicalNotes:     r.MedicalNotes,
	}
	if r.DateOfBirth != nil {
		if d, err := core.ParseDate(*r.DateOfBirth); err == nil {
			upd.DateOfBirth = &d
		}
	}
	return upd
}

// AvailabilityRequest keeps the raw value so that strings and numbers are
// rejected instead of coerced.
type AvailabilityRequest struct {
	IsAvailable json.RawMessage `json:"isAvailable"`
}

func (r AvailabilityRequest) value() (bool, error) {
	switch string(bytes.TrimSpace(r.IsAvailable)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, ErrInvalidAvailability
}

type DonationRequest struct {
	DonationDate *string `json:"donationDate"`
	Notes        *string `json:"notes"`
}

func (r *DonationRequest) Sanitize() {
	r.DonationDate = emptyToNil(r.DonationDate, sanitizer.Trim)
	r.Notes = emptyToNil(r.Notes, sanitizer.Text)
}

// date returns the donation time, defaulting to now.
func (r DonationRequest) date(now time.Time) (time.Time, error) {
	if r.DonationDate == nil {
		return now, nil
	}
	return core.ParseDate(*r.DonationDate)
}

func (r DonationRequest) Validate(now time.Time) error {
	at, err := r.date(now)
	return validator.Apply(
		validator.Custom("donationDate", "Donation date must be a valid date", func() bool {
			return err == nil
		}),
		validator.When(err == nil,
			validator.Custom("donationDate", "Donation date cannot be in the future", func() bool {
				return !at.After(now)
			})),
		validator.When(r.Notes != nil,
			validator.MaxLength("notes", deref(r.Notes), 500).
				WithMessage("Notes must not exceed 500 characters")),
	)
}

func emptyToNil(s *string, clean func(string) string) *string {
	if s == nil {
		return nil
	}
	v := clean(*s)
	if v == "" {
		return nil
	}
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
