package validator

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

func rule(field, msg string, check func() bool) Rule {
	return Rule{Check: check, Error: ValidationError{Field: field, Message: msg}}
}

// Required fails on empty or whitespace-only strings.
func Required(field, value string) Rule {
	return rule(field, "field is required", func() bool {
		return strings.TrimSpace(value) != ""
	})
}

// LengthBetween counts runes of the trimmed value.
func LengthBetween(field, value string, min, max int) Rule {
	return rule(field, fmt.Sprintf("must be between %d and %d characters", min, max), func() bool {
		n := utf8.RuneCountInString(strings.TrimSpace(value))
		return n >= min && n <= max
	})
}

func MaxLength(field, value string, max int) Rule {
	return rule(field, fmt.Sprintf("must be at most %d characters", max), func() bool {
		return utf8.RuneCountInString(value) <= max
	})
}

func MinLength(field, value string, min int) Rule {
	return rule(field, fmt.Sprintf("must be at least %d characters", min), func() bool {
		return utf8.RuneCountInString(value) >= min
	})
}

// Between checks min <= value <= max.
func Between[T Numeric](field string, value, min, max T) Rule {
	return rule(field, fmt.Sprintf("must be between %v and %v", min, max), func() bool {
		return value >= min && value <= max
	})
}

func Min[T Numeric](field string, value, min T) Rule {
	return rule(field, fmt.Sprintf("must be at least %v", min), func() bool {
		return value >= min
	})
}

// OneOf checks membership in a closed set.
func OneOf[T comparable](field string, value T, allowed ...T) Rule {
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = fmt.Sprint(a)
	}
	return rule(field, "must be one of: "+strings.Join(names, ", "), func() bool {
		return slices.Contains(allowed, value)
	})
}

// Email checks for a bare address (no display name).
func Email(field, value string) Rule {
	return rule(field, "must be a valid email address", func() bool {
		addr, err := mail.ParseAddress(value)
		return err == nil && addr.Address == value && strings.Contains(value[strings.LastIndex(value, "@"):], ".")
	})
}

// Digits checks that value is only ASCII digits with a length in [min, max].
func Digits(field, value string, min, max int) Rule {
	return rule(field, fmt.Sprintf("must contain %d to %d digits", min, max), func() bool {
		if len(value) < min || len(value) > max {
			return false
		}
		for _, r := range value {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	})
}

// StrongPassword requires at least minLen characters with upper, lower and digit.
func StrongPassword(field, value string, minLen int) Rule {
	msg := fmt.Sprintf("must be at least %d characters and contain an uppercase letter, a lowercase letter and a number", minLen)
	return rule(field, msg, func() bool {
		if utf8.RuneCountInString(value) < minLen {
			return false
		}
		var upper, lower, digit bool
		for _, r := range value {
			switch {
			case unicode.IsUpper(r):
				upper = true
			case unicode.IsLower(r):
				lower = true
			case unicode.IsDigit(r):
				digit = true
			}
		}
		return upper && lower && digit
	})
}

// Equal checks that value matches other, e.g. a password confirmation.
func Equal(field, value, other, msg string) Rule {
	return rule(field, msg, func() bool { return value == other })
}

func UUID(field, value string) Rule {
	return rule(field, "must be a valid UUID", func() bool {
		return uuid.Validate(value) == nil
	})
}

// Custom wraps an arbitrary predicate.
func Custom(field, msg string, check func() bool) Rule {
	return rule(field, msg, check)
}
