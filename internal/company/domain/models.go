// Package domain contains persistence and client models for the company service.
package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Company is the storage shape of one tenant: snake_case columns with one
// nullable column per weekday location override.
type Company struct {
	ID             string `gorm:"primaryKey;type:text" json:"id"`
	Name           string `gorm:"type:text;not null" json:"name"`
	FullName       string `gorm:"column:full_name;type:text" json:"full_name"`
	PrimaryColor   string `gorm:"column:primary_color;type:text" json:"primary_color"`
	SecondaryColor string `gorm:"column:secondary_color;type:text" json:"secondary_color"`
	Logo           string `gorm:"type:text" json:"logo"`

	CalendarURL   string `gorm:"column:calendar_url;type:text" json:"calendar_url"`
	IntakeFormURL string `gorm:"column:intake_form_url;type:text" json:"intake_form_url"`
	ContactEmail  string `gorm:"column:contact_email;type:text" json:"contact_email"`

	MeetingLocation  string  `gorm:"column:meeting_location;type:text" json:"meeting_location"`
	HasScanDays      bool    `gorm:"column:has_scan_days" json:"has_scan_days"`
	ScanDayMonday    *string `gorm:"column:scan_day_monday;type:text" json:"scan_day_monday"`
	ScanDayTuesday   *string `gorm:"column:scan_day_tuesday;type:text" json:"scan_day_tuesday"`
	ScanDayWednesday *string `gorm:"column:scan_day_wednesday;type:text" json:"scan_day_wednesday"`
	ScanDayThursday  *string `gorm:"column:scan_day_thursday;type:text" json:"scan_day_thursday"`
	ScanDayFriday    *string `gorm:"column:scan_day_friday;type:text" json:"scan_day_friday"`
	ScanDaySaturday  *string `gorm:"column:scan_day_saturday;type:text" json:"scan_day_saturday"`
	ScanDaySunday    *string `gorm:"column:scan_day_sunday;type:text" json:"scan_day_sunday"`

	ShowBranding bool `gorm:"column:show_branding;not null;default:true" json:"show_branding"`
	IsActive     bool `gorm:"column:is_active;not null;default:true" json:"is_active"`

	SpecialInstructions   string `gorm:"column:special_instructions;type:text" json:"special_instructions"`
	LocalOrganizerMessage string `gorm:"column:local_organizer_message;type:text" json:"local_organizer_message"`
	BookingInstructions   string `gorm:"column:booking_instructions;type:text" json:"booking_instructions"`

	Domain string `gorm:"type:text;uniqueIndex:ux_companies_domain" json:"domain"`

	LandingPageEnabled         bool           `gorm:"column:landing_page_enabled" json:"landing_page_enabled"`
	LandingPageTitle           string         `gorm:"column:landing_page_title;type:text" json:"landing_page_title"`
	LandingPageSubtitle        string         `gorm:"column:landing_page_subtitle;type:text" json:"landing_page_subtitle"`
	LandingPageDescription     string         `gorm:"column:landing_page_description;type:text" json:"landing_page_description"`
	LandingPageFeatures        datatypes.JSON `gorm:"column:landing_page_features;type:jsonb" json:"landing_page_features"`
	LandingPageCtaText         string         `gorm:"column:landing_page_cta_text;type:text" json:"landing_page_cta_text"`
	LandingPageBackgroundImage string         `gorm:"column:landing_page_background_image;type:text" json:"landing_page_background_image"`
	LandingPageShowCompanyLogo bool           `gorm:"column:landing_page_show_company_logo" json:"landing_page_show_company_logo"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Company) TableName() string { return "companies" }
