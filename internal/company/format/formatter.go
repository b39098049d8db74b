// Package format maps between the storage row shape and the client-facing
// tenant config shape. Both directions are pure and total: unknown or
// missing fields degrade to defaults, never to errors.
package format

import (
	"encoding/json"
	"strings"

	"github.com/stepsciences/scanportal/internal/company/domain"
	"gorm.io/datatypes"
)

const (
	DefaultSecondaryColor = "#1a1a1a"
	DefaultLogo           = "/logos/default-logo.png"
	DefaultContactEmail   = "info@stepsciences.com"
)

// ToClientShape converts a storage row to the client config. Weekday
// columns become map entries only when non-null and non-empty; absent days
// are omitted rather than included as empty strings.
func ToClientShape(row domain.Company) domain.TenantConfig {
	cfg := domain.TenantConfig{
		ID:             row.ID,
		Name:           row.Name,
		FullName:       row.FullName,
		PrimaryColor:   row.PrimaryColor,
		SecondaryColor: row.SecondaryColor,
		Logo:           row.Logo,

		CalendarURL:   row.CalendarURL,
		IntakeFormURL: row.IntakeFormURL,
		ContactEmail:  row.ContactEmail,

		MeetingLocation: row.MeetingLocation,
		HasScanDays:     row.HasScanDays,

		ShowBranding: row.ShowBranding,
		IsActive:     row.IsActive,

		SpecialInstructions:   row.SpecialInstructions,
		LocalOrganizerMessage: row.LocalOrganizerMessage,
		BookingInstructions:   row.BookingInstructions,

		Domain: row.Domain,

		LandingPageEnabled:         row.LandingPageEnabled,
		LandingPageTitle:           row.LandingPageTitle,
		LandingPageSubtitle:        row.LandingPageSubtitle,
		LandingPageDescription:     row.LandingPageDescription,
		LandingPageFeatures:        decodeFeatures(row.LandingPageFeatures),
		LandingPageCtaText:         row.LandingPageCtaText,
		LandingPageBackgroundImage: row.LandingPageBackgroundImage,
		LandingPageShowCompanyLogo: row.LandingPageShowCompanyLogo,
	}

	days := map[string]*string{
		"monday":    row.ScanDayMonday,
		"tuesday":   row.ScanDayTuesday,
		"wednesday": row.ScanDayWednesday,
		"thursday":  row.ScanDayThursday,
		"friday":    row.ScanDayFriday,
		"saturday":  row.ScanDaySaturday,
		"sunday":    row.ScanDaySunday,
	}
	locations := make(map[string]string)
	for day, value := range days {
		if value == nil {
			continue
		}
		location := strings.TrimSpace(*value)
		if location == "" {
			continue
		}
		locations[day] = location
	}
	if len(locations) > 0 {
		cfg.ScanDayLocations = locations
	}

	return cfg
}

// ToStorageShape is the inverse mapping. Strings are trimmed, id and domain
// are lowercased, and missing optional fields receive defaults so that
// every stored row is renderable.
func ToStorageShape(cfg domain.TenantConfig) domain.Company {
	row := domain.Company{
		ID:             strings.ToLower(strings.TrimSpace(cfg.ID)),
		Name:           strings.TrimSpace(cfg.Name),
		FullName:       strings.TrimSpace(cfg.FullName),
		PrimaryColor:   strings.TrimSpace(cfg.PrimaryColor),
		SecondaryColor: defaultString(cfg.SecondaryColor, DefaultSecondaryColor),
		Logo:           defaultString(cfg.Logo, DefaultLogo),

		CalendarURL:   strings.TrimSpace(cfg.CalendarURL),
		IntakeFormURL: strings.TrimSpace(cfg.IntakeFormURL),
		ContactEmail:  defaultString(cfg.ContactEmail, DefaultContactEmail),

		MeetingLocation: strings.TrimSpace(cfg.MeetingLocation),
		HasScanDays:     cfg.HasScanDays,

		ShowBranding: cfg.ShowBranding,
		IsActive:     cfg.IsActive,

		SpecialInstructions:   strings.TrimSpace(cfg.SpecialInstructions),
		LocalOrganizerMessage: strings.TrimSpace(cfg.LocalOrganizerMessage),
		BookingInstructions:   strings.TrimSpace(cfg.BookingInstructions),

		Domain: strings.ToLower(strings.TrimSpace(cfg.Domain)),

		LandingPageEnabled:         cfg.LandingPageEnabled,
		LandingPageTitle:           strings.TrimSpace(cfg.LandingPageTitle),
		LandingPageSubtitle:        strings.TrimSpace(cfg.LandingPageSubtitle),
		LandingPageDescription:     strings.TrimSpace(cfg.LandingPageDescription),
		LandingPageFeatures:        encodeFeatures(cfg.LandingPageFeatures),
		LandingPageCtaText:         strings.TrimSpace(cfg.LandingPageCtaText),
		LandingPageBackgroundImage: strings.TrimSpace(cfg.LandingPageBackgroundImage),
		LandingPageShowCompanyLogo: cfg.LandingPageShowCompanyLogo,
	}

	row.ScanDayMonday = dayColumn(cfg.ScanDayLocations, "monday")
	row.ScanDayTuesday = dayColumn(cfg.ScanDayLocations, "tuesday")
	row.ScanDayWednesday = dayColumn(cfg.ScanDayLocations, "wednesday")
	row.ScanDayThursday = dayColumn(cfg.ScanDayLocations, "thursday")
	row.ScanDayFriday = dayColumn(cfg.ScanDayLocations, "friday")
	row.ScanDaySaturday = dayColumn(cfg.ScanDayLocations, "saturday")
	row.ScanDaySunday = dayColumn(cfg.ScanDayLocations, "sunday")

	return row
}

func dayColumn(locations map[string]string, day string) *string {
	if locations == nil {
		return nil
	}
	location := strings.TrimSpace(locations[day])
	if location == "" {
		return nil
	}
	return &location
}

func defaultString(value, def string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	return value
}

func decodeFeatures(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var features []string
	if err := json.Unmarshal(raw, &features); err != nil {
		return nil
	}
	if len(features) == 0 {
		return nil
	}
	return features
}

func encodeFeatures(features []string) datatypes.JSON {
	if len(features) == 0 {
		return nil
	}
	raw, err := json.Marshal(features)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}
