package bloodrequest

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/core"
	"github.com/bloodlink/bloodlink/pkg/sanitizer"
	"github.com/bloodlink/bloodlink/pkg/validator"
)

const (
	defaultPageSize = 10
	msgNotes        = "Notes must not exceed 500 characters"
	msgStatus       = "Status must be active, cancelled or fulfilled"
)

type CreateRequest struct {
	BloodType         core.BloodType         `json:"bloodType"`
	UnitsNeeded       int                    `json:"unitsNeeded"`
	Urgency           core.Urgency           `json:"urgency"`
	Procedure         string                 `json:"procedure"`
	PatientAge        *int                   `json:"patientAge"`
	Notes             *string                `json:"notes"`
	ExpectedTimeframe core.Timeframe         `json:"expectedTimeframe"`
	ContactPreference core.ContactPreference `json:"contactPreference"`
}

func (r *CreateRequest) Sanitize() {
	r.Procedure = sanitizer.Text(r.Procedure)
	if r.Notes != nil {
		v := sanitizer.Text(*r.Notes)
		r.Notes = &v
	}
}

// Validate reports every failing field.
func (r CreateRequest) Validate() error {
	return validator.Apply(
		validator.Custom("bloodType", "Please select a valid blood type", r.BloodType.Valid),
		validator.Between("unitsNeeded", r.UnitsNeeded, 1, 10).
			WithMessage("Units needed must be between 1 and 10"),
		validator.Custom("urgency", "Urgency must be Normal, High, or Emergency", r.Urgency.Valid),
		validator.LengthBetween("procedure", r.Procedure, 3, 200).
			WithMessage("Procedure/reason must be between 3 and 200 characters"),
		validator.When(r.PatientAge != nil,
			validator.Custom("patientAge", "Patient age must be between 0 and 120", func() bool {
				return *r.PatientAge >= 0 && *r.PatientAge <= 120
			})),
		validator.When(r.Notes != nil,
			validator.MaxLength("notes", deref(r.Notes), 500).WithMessage(msgNotes)),
		validator.Custom("expectedTimeframe", "Invalid timeframe selection", r.ExpectedTimeframe.Valid),
		validator.Custom("contactPreference", "Contact preference must be telegram, phone, or both",
			r.ContactPreference.Valid),
	)
}

// Summary is the projection returned on creation.
type Summary struct {
	ID                      uuid.UUID          `json:"id"`
	BloodType               core.BloodType     `json:"bloodType"`
	UnitsNeeded             int                `json:"unitsNeeded"`
	Urgency                 core.Urgency       `json:"urgency"`
	Procedure               string             `json:"procedure"`
	Status                  core.RequestStatus `json:"status"`
	CreatedAt               time.Time          `json:"createdAt"`
	ExpectedFulfillmentDate time.Time          `json:"expectedFulfillmentDate"`
}

func summarize(br core.BloodRequest) Summary {
	return Summary{
		ID:                      br.ID,
		BloodType:               br.BloodType,
		UnitsNeeded:             br.UnitsNeeded,
		Urgency:                 br.Urgency,
		Procedure:               br.Procedure,
		Status:                  br.Status,
		CreatedAt:               br.CreatedAt,
		ExpectedFulfillmentDate: br.ExpectedFulfillmentDate,
	}
}

// ListQuery pages through a center's own requests.
type ListQuery struct {
	Status string `query:"status"`
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
}

func (q ListQuery) status() (core.RequestStatus, error) {
	s := core.RequestStatus(strings.ToLower(strings.TrimSpace(q.Status)))
	if s != "" && !s.Valid() {
		return "", validator.ValidationErrors{{Field: "status", Message: msgStatus}}
	}
	return s, nil
}

// FeedQuery pages through active requests for donors. An empty BloodType
// means the donor's own.
type FeedQuery struct {
	BloodType string `query:"bloodType"`
	Page      int    `query:"page"`
	Limit     int    `query:"limit"`
}

// page normalizes 1-based page numbers and returns limit and offset.
func page(p, limit int) (int, int, int) {
	p = max(p, 1)
	limit = core.ClampLimit(limit, defaultPageSize)
	return p, limit, (p - 1) * limit
}

type UpdateRequest struct {
	ID            string  `path:"id" json:"-"`
	Status        *string `json:"status"`
	Notes         *string `json:"notes"`
	UnitsReceived *int    `json:"unitsReceived"`
}

func (r *UpdateRequest) Sanitize() {
	if r.Status != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Status))
		r.Status = &v
	}
	if r.Notes != nil {
		v := sanitizer.Text(*r.Notes)
		r.Notes = &v
	}
}

func (r UpdateRequest) Validate(unitsNeeded int) error {
	return validator.Apply(
		validator.When(r.Status != nil,
			validator.Custom("status", msgStatus, func() bool {
				return core.RequestStatus(*r.Status).Valid()
			})),
		validator.When(r.Notes != nil,
			validator.MaxLength("notes", deref(r.Notes), 500).WithMessage(msgNotes)),
		validator.When(r.UnitsReceived != nil,
			validator.Custom("unitsReceived", "Units received must be between 0 and units needed", func() bool {
				return *r.UnitsReceived >= 0 && *r.UnitsReceived <= unitsNeeded
			})),
	)
}

// IDParam carries the {id} path segment.
type IDParam struct {
	ID string `path:"id"`
}

// parseID treats malformed IDs as unknown requests.
func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, ErrRequestNotFound
	}
	return id, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
