package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidCompanyID(t *testing.T) {
	assert.True(t, IsValidCompanyID("gm-oshawa"))
	assert.True(t, IsValidCompanyID("acme2"))
	assert.False(t, IsValidCompanyID(""))
	assert.False(t, IsValidCompanyID("GM-Oshawa"))
	assert.False(t, IsValidCompanyID("gm oshawa"))
	assert.False(t, IsValidCompanyID("gm_oshawa"))
	assert.False(t, IsValidCompanyID("gm.oshawa"))
}

func TestIsValidStatus(t *testing.T) {
	assert.True(t, IsValidStatus("booked"))
	assert.True(t, IsValidStatus("completed"))
	assert.False(t, IsValidStatus(""))
	assert.False(t, IsValidStatus("Booked"))
	assert.False(t, IsValidStatus("cancelled"))
}

func TestIsValidCalendarURL(t *testing.T) {
	assert.True(t, IsValidCalendarURL("https://calendar.app.google/abc123"))
	assert.True(t, IsValidCalendarURL("  https://calendar.app.google/abc123  "))

	assert.False(t, IsValidCalendarURL("http://calendar.app.google/abc123"))
	assert.False(t, IsValidCalendarURL("https://evil.example.com/abc123"))
	assert.False(t, IsValidCalendarURL("https://calendar.app.google.evil.com/x"))
	assert.False(t, IsValidCalendarURL("calendar.app.google/abc123"))
	assert.False(t, IsValidCalendarURL(""))
}

func TestIsValidIntakeFormURL(t *testing.T) {
	assert.True(t, IsValidIntakeFormURL("https://intake.stepsciences.com/gm-oshawa"))
	assert.True(t, IsValidIntakeFormURL("https://forms.stepsciences.com/x"))
	assert.True(t, IsValidIntakeFormURL("https://docs.google.com/forms/d/e/abc"))
	assert.True(t, IsValidIntakeFormURL("https://forms.gle/abc"))

	assert.False(t, IsValidIntakeFormURL("http://intake.stepsciences.com/gm-oshawa"))
	assert.False(t, IsValidIntakeFormURL("https://evil.example.com/form"))
	assert.False(t, IsValidIntakeFormURL("https://intake.stepsciences.com.evil.com/x"))
	assert.False(t, IsValidIntakeFormURL(""))
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "gm-oshawa", SanitizeInput("  GM-Oshawa  "))
	assert.Equal(t, "scriptalert(1)/script", SanitizeInput(`<script>alert("1")</script>`))
	assert.Equal(t, "acme", SanitizeInput("ac'm&e"))
	assert.Equal(t, "", SanitizeInput("  <>&'\"  "))
}
