package core

import (
	"slices"
	"strings"
)

type BloodType string

const (
	BloodTypeAPos  BloodType = "A+"
	BloodTypeANeg  BloodType = "A-"
	BloodTypeBPos  BloodType = "B+"
	BloodTypeBNeg  BloodType = "B-"
	BloodTypeABPos BloodType = "AB+"
	BloodTypeABNeg BloodType = "AB-"
	BloodTypeOPos  BloodType = "O+"
	BloodTypeONeg  BloodType = "O-"
)

var BloodTypes = []BloodType{
	BloodTypeAPos, BloodTypeANeg, BloodTypeBPos, BloodTypeBNeg,
	BloodTypeABPos, BloodTypeABNeg, BloodTypeOPos, BloodTypeONeg,
}

func (b BloodType) Valid() bool { return slices.Contains(BloodTypes, b) }

// Urgency drives message framing and the donation-window rule for fan-out.
type Urgency string

const (
	UrgencyNormal    Urgency = "Normal"
	UrgencyHigh      Urgency = "High"
	UrgencyEmergency Urgency = "Emergency"
)

var Urgencies = []Urgency{UrgencyNormal, UrgencyHigh, UrgencyEmergency}

func (u Urgency) Valid() bool { return slices.Contains(Urgencies, u) }

type Timeframe string

const (
	TimeframeWithin2h   Timeframe = "within-2h"
	TimeframeWithin6h   Timeframe = "within-6h"
	TimeframeWithin24h  Timeframe = "within-24h"
	TimeframeWithin3d   Timeframe = "within-3d"
	TimeframeWithinWeek Timeframe = "within-week"
)

var Timeframes = []Timeframe{
	TimeframeWithin2h, TimeframeWithin6h, TimeframeWithin24h, TimeframeWithin3d, TimeframeWithinWeek,
}

func (t Timeframe) Valid() bool { return slices.Contains(Timeframes, t) }

type ContactPreference string

const (
	ContactTelegram ContactPreference = "telegram"
	ContactPhone    ContactPreference = "phone"
	ContactBoth     ContactPreference = "both"
)

var ContactPreferences = []ContactPreference{ContactTelegram, ContactPhone, ContactBoth}

func (c ContactPreference) Valid() bool { return slices.Contains(ContactPreferences, c) }

type RequestStatus string

const (
	RequestActive    RequestStatus = "active"
	RequestCancelled RequestStatus = "cancelled"
	RequestFulfilled RequestStatus = "fulfilled"
)

var RequestStatuses = []RequestStatus{RequestActive, RequestCancelled, RequestFulfilled}

func (s RequestStatus) Valid() bool { return slices.Contains(RequestStatuses, s) }

type Role string

const (
	RoleDonor        Role = "donor"
	RoleHealthCenter Role = "health_center"
)

func (r Role) Valid() bool { return r == RoleDonor || r == RoleHealthCenter }

type UserStatus string

const (
	UserPendingVerification UserStatus = "pending_verification"
	UserActive              UserStatus = "active"
	UserSuspended           UserStatus = "suspended"
	UserInactive            UserStatus = "inactive"
)

func (s UserStatus) Valid() bool {
	switch s {
	case UserPendingVerification, UserActive, UserSuspended, UserInactive:
		return true
	}
	return false
}

// ParseBloodType accepts the forms clients send in query strings, where an
// unescaped "+" arrives as a space ("ab " is AB+).
func ParseBloodType(s string) (BloodType, bool) {
	s = strings.ToUpper(strings.TrimLeft(s, " "))
	s = strings.ReplaceAll(s, " ", "+")
	bt := BloodType(s)
	return bt, bt.Valid()
}
