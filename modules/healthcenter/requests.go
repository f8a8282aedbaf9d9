package healthcenter

import (
	"github.com/bloodlink/bloodlink/core"
	"github.com/bloodlink/bloodlink/pkg/sanitizer"
	"github.com/bloodlink/bloodlink/pkg/validator"
)

const maxServices = 20

type ListQuery struct {
	Location string `query:"location"`
	Verified bool   `query:"verified"`
	Limit    int    `query:"limit"`
	Offset   int    `query:"offset"`
}

func (q ListQuery) filter() ListFilter {
	return ListFilter{
		Location:     sanitizer.SingleLine(q.Location),
		VerifiedOnly: q.Verified,
		Limit:        core.ClampLimit(q.Limit, core.DefaultPageSize),
		Offset:       max(q.Offset, 0),
	}
}

type UpdateProfileRequest struct {
	CenterName         *string  `json:"centerName"`
	ContactPerson      *string  `json:"contactPerson"`
	RegistrationNumber *string  `json:"registrationNumber"`
	CenterType         *string  `json:"centerType"`
	Capacity           *int     `json:"capacity"`
	OperatingHours     *string  `json:"operatingHours"`
	Services           []string `json:"services"`
}

func (r *UpdateProfileRequest) Sanitize() {
	r.CenterName = clean(r.CenterName, sanitizer.Text)
	r.ContactPerson = clean(r.ContactPerson, sanitizer.PersonName)
	r.RegistrationNumber = clean(r.RegistrationNumber, sanitizer.SingleLine)
	r.CenterType = clean(r.CenterType, sanitizer.SingleLine)
	r.OperatingHours = clean(r.OperatingHours, sanitizer.SingleLine)
	if r.Services != nil {
		services := make([]string, 0, len(r.Services))
		for _, s := range r.Services {
			if s = sanitizer.SingleLine(s); s != "" {
				services = append(services, s)
			}
		}
		r.Services = services
	}
}

func (r UpdateProfileRequest) Validate() error {
	return validator.Apply(
		validator.When(r.CenterName != nil,
			validator.LengthBetween("centerName", deref(r.CenterName), 2, 200).
				WithMessage("Health center name must be between 2 and 200 characters")),
		validator.When(r.ContactPerson != nil,
			validator.LengthBetween("contactPerson", deref(r.ContactPerson), 2, 100).
				WithMessage("Contact person name must be between 2 and 100 characters")),
		validator.When(r.RegistrationNumber != nil,
			validator.MaxLength("registrationNumber", deref(r.RegistrationNumber), 50).
				WithMessage("Registration number must not exceed 50 characters")),
		validator.When(r.CenterType != nil,
			validator.MaxLength("centerType", deref(r.CenterType), 50).
				WithMessage("Center type must not exceed 50 characters")),
		validator.When(r.Capacity != nil,
			validator.Custom("capacity", "Capacity must be a positive number", func() bool {
				return *r.Capacity > 0
			})),
		validator.When(r.OperatingHours != nil,
			validator.MaxLength("operatingHours", deref(r.OperatingHours), 100).
				WithMessage("Operating hours must not exceed 100 characters")),
		validator.Custom("services", "At most 20 services of up to 100 characters each", func() bool {
			if len(r.Services) > maxServices {
				return false
			}
			for _, s := range r.Services {
				if len([]rune(s)) > 100 {
					return false
				}
			}
			return true
		}),
	)
}

func (r UpdateProfileRequest) update() ProfileUpdate {
	return ProfileUpdate{
		CenterName:         r.CenterName,
		ContactPerson:      r.ContactPerson,
		RegistrationNumber: r.RegistrationNumber,
		CenterType:         r.CenterType,
		Capacity:           r.Capacity,
		OperatingHours:     r.OperatingHours,
		Services:           r.Services,
	}
}

type VerificationRequest struct {
	VerificationDoc string `json:"verificationDoc"`
}

func (r *VerificationRequest) Sanitize() {
	r.VerificationDoc = sanitizer.Trim(r.VerificationDoc)
}

func (r VerificationRequest) Validate() error {
	return validator.Apply(
		validator.Required("verificationDoc", r.VerificationDoc).
			WithMessage("Verification document is required"),
		validator.MaxLength("verificationDoc", r.VerificationDoc, 2048).
			WithMessage("Verification document reference is too long"),
	)
}

// SearchQuery is the donor search sent by a health center.
type SearchQuery struct {
	BloodType string `query:"bloodType"`
	Location  string `query:"location"`
	Urgent    bool   `query:"urgent"`
	Limit     int    `query:"limit"`
}

func (q SearchQuery) bloodType() (core.BloodType, error) {
	if sanitizer.Trim(q.BloodType) == "" {
		return "", ErrBloodTypeRequired
	}
	bt, ok := core.ParseBloodType(q.BloodType)
	if !ok {
		return "", validator.ValidationErrors{{Field: "bloodType", Message: "Please select a valid blood type"}}
	}
	return bt, nil
}

// clean applies fn to a present value; blank values mean "keep".
func clean(s *string, fn func(string) string) *string {
	if s == nil {
		return nil
	}
	v := fn(*s)
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
