// Package normalize contains the per-field parsers applied to raw
// import records: multi-pattern dates, daily rates, name cleanup and
// the two name-splitting schemes used by the import dialects.
package normalize

import (
	"fmt"
	"strings"
	"time"

	e "github.com/cvbridge/recruit/internal/ingest/errors"
	"github.com/shopspring/decimal"
)

// datePatterns are tried in order; first match wins.
var datePatterns = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
}

// dateTimePatterns cover ISO 8601 date-times, truncated to the date.
var dateTimePatterns = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// ParseDate parses s against the supported date patterns. Whether an
// unparseable date is fatal is the caller's decision: CSV dialects
// fail the record, the Pro-Unity path falls back to today.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", e.ErrInvalidRecord)
	}
	for _, pattern := range datePatterns {
		if t, err := time.Parse(pattern, s); err == nil {
			return t, nil
		}
	}
	for _, pattern := range dateTimePatterns {
		if t, err := time.Parse(pattern, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid date format: %s", e.ErrInvalidRecord, s)
}

// ParseRate strips everything except digits and dots, then parses the
// remainder as a decimal. A failed parse is never fatal.
func ParseRate(s string) (decimal.Decimal, error) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: no numeric rate in %q", e.ErrInvalidRecord, s)
	}
	rate, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: invalid rate %q", e.ErrInvalidRecord, s)
	}
	return rate, nil
}

// CleanName trims and collapses internal whitespace.
func CleanName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// ParseNomPrenom parses the "NOM - Prenom" column of the enhanced CSV
// dialect: last name before the dash, first name after. When no dash
// is present the first space is used instead.
func ParseNomPrenom(s string) (firstName, lastName string, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", "", fmt.Errorf("%w: empty candidate name", e.ErrInvalidRecord)
	}

	parts := strings.SplitN(s, "-", 2)
	if len(parts) < 2 {
		parts = strings.SplitN(s, " ", 2)
		if len(parts) < 2 {
			return "", "", fmt.Errorf("%w: invalid candidate name format: %s", e.ErrInvalidRecord, s)
		}
	}

	lastName = strings.TrimSpace(parts[0])
	firstName = strings.TrimSpace(parts[1])
	if lastName == "" || firstName == "" {
		return "", "", fmt.Errorf("%w: invalid candidate name format: %s", e.ErrInvalidRecord, s)
	}
	return firstName, lastName, nil
}
