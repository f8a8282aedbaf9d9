package account

import (
	"github.com/bloodlink/bloodlink/core"
	"github.com/bloodlink/bloodlink/pkg/sanitizer"
	"github.com/bloodlink/bloodlink/pkg/validator"
)

const (
	msgEmail          = "Please provide a valid email address"
	msgPasswordLength = "Password must be at least 8 characters long"
	msgPasswordChars  = "Password must contain at least one uppercase letter, one lowercase letter, and one number"
	msgPasswordMatch  = "Password confirmation does not match password"
	msgRole           = "Role must be either donor or health_center"
	msgBloodType      = "Please select a valid blood type"
	minPasswordLength = 8
)

type RegisterRequest struct {
	Email            string    `json:"email"`
	Password         string    `json:"password"`
	ConfirmPassword  string    `json:"confirmPassword"`
	Role             core.Role `json:"role"`
	Phone            string    `json:"phone"`
	Location         string    `json:"location"`
	TelegramUsername *string   `json:"telegramUsername"`

	FullName  string         `json:"fullName"`
	BloodType core.BloodType `json:"bloodType"`

	CenterName    string `json:"centerName"`
	ContactPerson string `json:"contactPerson"`
}

func (r *RegisterRequest) Sanitize() {
	r.Email = sanitizer.NormalizeEmail(r.Email)
	r.Phone = sanitizer.Phone(r.Phone)
	r.Location = sanitizer.Text(r.Location)
	if r.TelegramUsername != nil {
		h := sanitizer.Handle(*r.TelegramUsername)
		r.TelegramUsername = &h
	}
	r.FullName = sanitizer.PersonName(r.FullName)
	r.CenterName = sanitizer.Text(r.CenterName)
	r.ContactPerson = sanitizer.PersonName(r.ContactPerson)
}

func (r RegisterRequest) Validate() error {
	donor := r.Role == core.RoleDonor
	center := r.Role == core.RoleHealthCenter
	return validator.Apply(
		validator.Email("email", r.Email).WithMessage(msgEmail),
		passwordLength("password", r.Password, msgPasswordLength),
		passwordChars("password", r.Password, msgPasswordChars),
		validator.Equal("confirmPassword", r.ConfirmPassword, r.Password, msgPasswordMatch),
		validator.Custom("role", msgRole, r.Role.Valid),
		validator.Required("phone", r.Phone).WithMessage("Phone number is required"),
		lengthBetween("location", r.Location, 2, 100, "Location must be between 2 and 100 characters"),
		validator.When(r.TelegramUsername != nil,
			validator.MaxLength("telegramUsername", deref(r.TelegramUsername), 50).
				WithMessage("Telegram username must not exceed 50 characters"),
		),
		validator.When(donor,
			lengthBetween("fullName", r.FullName, 2, 100, "Full name must be between 2 and 100 characters")),
		validator.When(donor,
			validator.Custom("bloodType", msgBloodType, r.BloodType.Valid)),
		validator.When(center,
			lengthBetween("centerName", r.CenterName, 2, 200, "Health center name must be between 2 and 200 characters")),
		validator.When(center,
			lengthBetween("contactPerson", r.ContactPerson, 2, 100, "Contact person name must be between 2 and 100 characters")),
	)
}

type LoginRequest struct {
	Email    string    `json:"email"`
	Password string    `json:"password"`
	Role     core.Role `json:"role"`
}

func (r *LoginRequest) Sanitize() {
	r.Email = sanitizer.NormalizeEmail(r.Email)
}

func (r LoginRequest) Validate() error {
	return validator.Apply(
		validator.Email("email", r.Email).WithMessage(msgEmail),
		validator.Required("password", r.Password).WithMessage("Password is required"),
		validator.When(r.Role != "", validator.Custom("role", msgRole, r.Role.Valid)),
	)
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (r RefreshRequest) Validate() error {
	return validator.Apply(
		validator.Required("refreshToken", r.RefreshToken).WithMessage("Refresh token is required"),
	)
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (r ForgotPasswordRequest) Validate() error {
	return validator.Apply(
		validator.Email("email", r.Email).WithMessage(msgEmail),
	)
}

type ResetPasswordRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (r ResetPasswordRequest) Validate() error {
	return validator.Apply(
		validator.Required("token", r.Token).WithMessage("Password reset token is required"),
		passwordLength("password", r.Password, msgPasswordLength),
		passwordChars("password", r.Password, msgPasswordChars),
		validator.Equal("confirmPassword", r.ConfirmPassword, r.Password, msgPasswordMatch),
	)
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (r ChangePasswordRequest) Validate() error {
	return validator.Apply(
		validator.Required("currentPassword", r.CurrentPassword).WithMessage("Current password is required"),
		passwordLength("newPassword", r.NewPassword, "New password must be at least 8 characters long"),
		passwordChars("newPassword", r.NewPassword,
			"New password must contain at least one uppercase letter, one lowercase letter, and one number"),
		validator.Equal("confirmPassword", r.ConfirmPassword, r.NewPassword,
			"Password confirmation does not match new password"),
	)
}

type UpdateProfileRequest struct {
	Phone            *string `json:"phone"`
	Location         *string `json:"location"`
	TelegramUsername *string `json:"telegramUsername"`
}

func (r *UpdateProfileRequest) Sanitize() {
	if r.Phone != nil {
		v := sanitizer.Phone(*r.Phone)
		r.Phone = &v
	}
	if r.Location != nil {
		v := sanitizer.Text(*r.Location)
		r.Location = &v
	}
	if r.TelegramUsername != nil {
		v := sanitizer.Handle(*r.TelegramUsername)
		r.TelegramUsername = &v
	}
}

func (r UpdateProfileRequest) Validate() error {
	return validator.Apply(
		validator.When(r.Location != nil && *r.Location != "",
			lengthBetween("location", deref(r.Location), 2, 100, "Location must be between 2 and 100 characters")),
		validator.When(r.TelegramUsername != nil,
			validator.MaxLength("telegramUsername", deref(r.TelegramUsername), 50).
				WithMessage("Telegram username must not exceed 50 characters"),
		),
	)
}

// update drops empty phone and location, which mean "keep".
func (r UpdateProfileRequest) update() ContactUpdate {
	upd := ContactUpdate{TelegramUsername: r.TelegramUsername}
	if r.Phone != nil && *r.Phone != "" {
		upd.Phone = r.Phone
	}
	if r.Location != nil && *r.Location != "" {
		upd.Location = r.Location
	}
	return upd
}

func passwordLength(field, value, msg string) validator.Rule {
	return validator.MinLength(field, value, minPasswordLength).WithMessage(msg)
}

func passwordChars(field, value, msg string) validator.Rule {
	return validator.StrongPassword(field, value, 0).WithMessage(msg)
}

func lengthBetween(field, value string, min, max int, msg string) validator.Rule {
	return validator.LengthBetween(field, value, min, max).WithMessage(msg)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
