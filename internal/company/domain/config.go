package domain

// Weekday names in render order. scanDayLocations keys are restricted to
// this set; absent days carry no override.
var Weekdays = []string{
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
	"sunday",
}

// TenantConfig is the resolved, client-facing configuration for one tenant.
type TenantConfig struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	FullName       string `json:"fullName"`
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	Logo           string `json:"logo"`

	CalendarURL   string `json:"calendarUrl"`
	IntakeFormURL string `json:"intakeFormUrl"`
	ContactEmail  string `json:"contactEmail"`

	MeetingLocation  string            `json:"meetingLocation,omitempty"`
	HasScanDays      bool              `json:"hasScanDays"`
	ScanDayLocations map[string]string `json:"scanDayLocations,omitempty"`

	ShowBranding bool `json:"showBranding"`
	IsActive     bool `json:"isActive"`

	SpecialInstructions   string `json:"specialInstructions,omitempty"`
	LocalOrganizerMessage string `json:"localOrganizerMessage,omitempty"`
	BookingInstructions   string `json:"bookingInstructions,omitempty"`

	Domain string `json:"domain"`

	LandingPageEnabled         bool     `json:"landingPageEnabled"`
	LandingPageTitle           string   `json:"landingPageTitle,omitempty"`
	LandingPageSubtitle        string   `json:"landingPageSubtitle,omitempty"`
	LandingPageDescription     string   `json:"landingPageDescription,omitempty"`
	LandingPageFeatures        []string `json:"landingPageFeatures,omitempty"`
	LandingPageCtaText         string   `json:"landingPageCtaText,omitempty"`
	LandingPageBackgroundImage string   `json:"landingPageBackgroundImage,omitempty"`
	LandingPageShowCompanyLogo bool     `json:"landingPageShowCompanyLogo"`
}

// ScanDayEntry is one weekday override in render order.
type ScanDayEntry struct {
	Day      string `json:"day"`
	Location string `json:"location"`
}

// ScanDayEntries returns the configured weekday overrides ordered
// monday through sunday. Nil unless scan days are enabled.
func (c TenantConfig) ScanDayEntries() []ScanDayEntry {
	if !c.HasScanDays || len(c.ScanDayLocations) == 0 {
		return nil
	}
	entries := make([]ScanDayEntry, 0, len(c.ScanDayLocations))
	for _, day := range Weekdays {
		location, ok := c.ScanDayLocations[day]
		if !ok || location == "" {
			continue
		}
		entries = append(entries, ScanDayEntry{Day: day, Location: location})
	}
	return entries
}

// ActiveLocation returns the location representation selected by HasScanDays:
// the scan-day entries when enabled, otherwise the single meeting location.
func (c TenantConfig) ActiveLocation() (string, []ScanDayEntry) {
	if c.HasScanDays {
		return "", c.ScanDayEntries()
	}
	return c.MeetingLocation, nil
}
