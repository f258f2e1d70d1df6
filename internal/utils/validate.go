package utils

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"time"

	"projectdesk/internal/domain"
)

// RequireID trims an identifier and fails when it is blank.
func RequireID(field, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", domain.ValidationError{Field: field, Msg: "is required and must be a non-empty string"}
	}
	return v, nil
}

// RequireText is RequireID for free text fields.
func RequireText(field, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", domain.ValidationError{Field: field, Msg: "must be a non-empty string"}
	}
	return v, nil
}

// OneOf fails unless value belongs to allowed. The message lists the allowed values.
func OneOf(field, value string, allowed []string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return domain.ValidationError{
		Field: field,
		Msg:   fmt.Sprintf("invalid value %q, allowed: %s", value, strings.Join(allowed, ", ")),
	}
}

// InRange fails unless min <= v <= max.
func InRange(field string, v, min, max float64) error {
	if v < min || v > max {
		return domain.ValidationError{Field: field, Msg: fmt.Sprintf("must be a number between %g and %g", min, max)}
	}
	return nil
}

// NonNegative fails when v < 0.
func NonNegative(field string, v float64) error {
	if v < 0 {
		return domain.ValidationError{Field: field, Msg: "must be a positive number"}
	}
	return nil
}

// RequireDate parses a date and reports an unparsable one as a ValidationError.
func RequireDate(field, value string) (time.Time, error) {
	t, err := ParseDate(value)
	if err != nil {
		return time.Time{}, domain.ValidationError{Field: field, Msg: "invalid date", Err: err}
	}
	return t, nil
}

// RequireEmail normalizes and checks an e-mail address.
func RequireEmail(field, value string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return "", domain.ValidationError{Field: field, Msg: "is required"}
	}
	addr, err := mail.ParseAddress(v)
	if err != nil || addr.Address != v {
		return "", domain.ValidationError{Field: field, Msg: "must be a valid e-mail address"}
	}
	return v, nil
}
