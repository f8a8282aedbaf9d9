package core

import (
	"time"

	"github.com/google/uuid"
)

// User is an account of either role. PasswordHash never leaves the server.
type User struct {
	ID               uuid.UUID  `json:"id"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"`
	Role             Role       `json:"role"`
	Status           UserStatus `json:"status"`
	Phone            string     `json:"phone"`
	Location         string     `json:"location"`
	TelegramUsername *string    `json:"telegramUsername"`
	TelegramChatID   *string    `json:"telegramChatId"`
	LastLoginAt      *time.Time `json:"lastLoginAt"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// HasTelegram reports whether the user linked a Telegram chat.
func (u User) HasTelegram() bool {
	return u.TelegramChatID != nil && *u.TelegramChatID != ""
}

type Donor struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"userId"`
	FullName         string     `json:"fullName"`
	BloodType        BloodType  `json:"bloodType"`
	DateOfBirth      *time.Time `json:"dateOfBirth"`
	Weight           *float64   `json:"weight"`
	EmergencyContact *string    `json:"emergencyContact"`
	MedicalNotes     *string    `json:"medicalNotes"`
	IsAvailable      bool       `json:"isAvailable"`
	DonationCount    int        `json:"donationCount"`
	LastDonation     *time.Time `json:"lastDonation"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

type HealthCenter struct {
	ID                      uuid.UUID  `json:"id"`
	UserID                  uuid.UUID  `json:"userId"`
	CenterName              string     `json:"centerName"`
	ContactPerson           string     `json:"contactPerson"`
	RegistrationNumber      *string    `json:"registrationNumber"`
	CenterType              *string    `json:"centerType"`
	Capacity                *int       `json:"capacity"`
	OperatingHours          *string    `json:"operatingHours"`
	Services                []string   `json:"services"`
	Verified                bool       `json:"verified"`
	VerificationDoc         *string    `json:"verificationDoc,omitempty"`
	VerificationSubmittedAt *time.Time `json:"verificationSubmittedAt"`
	CreatedAt               time.Time  `json:"createdAt"`
	UpdatedAt               time.Time  `json:"updatedAt"`
}

// Profile is a user with the role-specific profile attached.
type Profile struct {
	User
	Donor        *Donor        `json:"donor,omitempty"`
	HealthCenter *HealthCenter `json:"healthCenter,omitempty"`
}

type BloodRequest struct {
	ID                      uuid.UUID         `json:"id"`
	HealthCenterID          uuid.UUID         `json:"healthCenterId"`
	BloodType               BloodType         `json:"bloodType"`
	UnitsNeeded             int               `json:"unitsNeeded"`
	UnitsReceived           int               `json:"unitsReceived"`
	Urgency                 Urgency           `json:"urgency"`
	Procedure               string            `json:"procedure"`
	PatientAge              *int              `json:"patientAge"`
	Notes                   *string           `json:"notes"`
	ExpectedTimeframe       Timeframe         `json:"expectedTimeframe"`
	ExpectedFulfillmentDate time.Time         `json:"expectedFulfillmentDate"`
	ContactPreference       ContactPreference `json:"contactPreference"`
	Status                  RequestStatus     `json:"status"`
	CreatedAt               time.Time         `json:"createdAt"`
	UpdatedAt               time.Time         `json:"updatedAt"`
}

// DonationInterval is the minimum gap between two whole-blood donations.
const DonationInterval = 56 * 24 * time.Hour

// Contact is the user part of a public listing. Phone and TelegramUsername
// are only filled for authenticated callers.
type Contact struct {
	ID               uuid.UUID `json:"id"`
	Location         string    `json:"location"`
	Phone            *string   `json:"phone,omitempty"`
	TelegramUsername *string   `json:"telegramUsername,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Anonymous drops the fields reserved for signed-in callers.
func (c Contact) Anonymous() Contact {
	c.Phone = nil
	c.TelegramUsername = nil
	return c
}
