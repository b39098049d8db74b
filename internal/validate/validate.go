// Package validate holds the pure validators guarding tenant resolution.
// Every function returns false or an empty string on bad input; none panics
// or returns an error. Callers decide the fallback behavior.
package validate

import (
	"net/url"
	"regexp"
	"strings"
)

// CalendarHost is the only host accepted for booking calendar links.
const CalendarHost = "calendar.app.google"

// IntakeFormHosts is the allow-list for intake form links.
var IntakeFormHosts = map[string]struct{}{
	"intake.stepsciences.com": {},
	"forms.stepsciences.com":  {},
	"docs.google.com":         {},
	"forms.gle":               {},
}

var companyIDPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Recognized booking-flow status tokens.
const (
	StatusBooked    = "booked"
	StatusCompleted = "completed"
)

// IsValidCompanyID reports whether s is a well-formed tenant identifier:
// non-empty lowercase letters, digits, and hyphens only.
func IsValidCompanyID(s string) bool {
	return companyIDPattern.MatchString(s)
}

// IsValidStatus reports whether s is a recognized booking status token.
func IsValidStatus(s string) bool {
	switch s {
	case StatusBooked, StatusCompleted:
		return true
	default:
		return false
	}
}

// IsValidCalendarURL reports whether s is an absolute https URL whose host
// exactly matches the scheduling widget host.
func IsValidCalendarURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return u.Scheme == "https" && u.Host == CalendarHost
}

// IsValidIntakeFormURL reports whether s is an absolute https URL whose host
// is a member of the intake form allow-list.
func IsValidIntakeFormURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	if u.Scheme != "https" {
		return false
	}
	_, ok := IntakeFormHosts[u.Host]
	return ok
}

var unsafeChars = strings.NewReplacer(
	"<", "",
	">", "",
	"'", "",
	`"`, "",
	"&", "",
)

// SanitizeInput strips angle brackets, quotes, and ampersands from a
// user-supplied string, trims it, and lowercases it. Applied before any
// query parameter is treated as a candidate identifier.
func SanitizeInput(s string) string {
	return strings.ToLower(strings.TrimSpace(unsafeChars.Replace(s)))
}
