package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const layoutDate = "2006-01-02"

var errEmptyDate = errors.New("empty date")

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ParseDate accepts the date shapes browsers send (ISO dates, RFC3339, "YYYY-MM-DD HH:MM:SS", ...).
// Values without a zone are read as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errEmptyDate
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// FormatDate formats time to YYYY-MM-DD in UTC.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(layoutDate)
}
