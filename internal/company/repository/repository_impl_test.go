package repository

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stepsciences/scanportal/internal/company/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Company{}))
	return conn
}

func seedCompany(t *testing.T, store domain.Store, id, host string) *domain.Company {
	t.Helper()

	created, err := store.Create(context.Background(), domain.Company{
		ID:            id,
		Name:          "Seeded " + id,
		CalendarURL:   "https://calendar.app.google/" + id,
		IntakeFormURL: "https://intake.stepsciences.com/" + id,
		Domain:        host,
		IsActive:      true,
	})
	require.NoError(t, err)
	return created
}

func TestRepositoryCreateAndFindByID(t *testing.T) {
	store := NewRepository(openTestDB(t))
	seedCompany(t, store, "acme", "acme.stepsciences.com")

	got, err := store.FindByID(context.Background(), "  ACME ")
	require.NoError(t, err)
	assert.Equal(t, "acme", got.ID)
	assert.Equal(t, "Seeded acme", got.Name)
}

func TestRepositoryCreateDuplicateIDConflicts(t *testing.T) {
	store := NewRepository(openTestDB(t))
	seedCompany(t, store, "acme", "acme.stepsciences.com")

	_, err := store.Create(context.Background(), domain.Company{
		ID:   "acme",
		Name: "Acme Again",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRepositoryFindByDomain(t *testing.T) {
	store := NewRepository(openTestDB(t))
	seedCompany(t, store, "acme", "acme.stepsciences.com")

	got, err := store.FindByDomain(context.Background(), " ACME.StepSciences.com ")
	require.NoError(t, err)
	assert.Equal(t, "acme", got.ID)

	_, err = store.FindByDomain(context.Background(), "unknown.stepsciences.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepositorySoftDeleteHidesRow(t *testing.T) {
	store := NewRepository(openTestDB(t))
	seedCompany(t, store, "acme", "acme.stepsciences.com")
	seedCompany(t, store, "globex", "globex.stepsciences.com")

	require.NoError(t, store.SoftDelete(context.Background(), "acme"))

	_, err := store.FindByID(context.Background(), "acme")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.FindByDomain(context.Background(), "acme.stepsciences.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	rows, err := store.FindAllActive(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "globex", rows[0].ID)

	// Deleting an already-deleted row reports not found.
	assert.ErrorIs(t, store.SoftDelete(context.Background(), "acme"), domain.ErrNotFound)
}

func TestRepositoryFindAllActiveOrdersByName(t *testing.T) {
	store := NewRepository(openTestDB(t))

	for _, id := range []string{"zeta", "alpha", "mid"} {
		seedCompany(t, store, id, id+".stepsciences.com")
	}

	rows, err := store.FindAllActive(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "alpha", rows[0].ID)
	assert.Equal(t, "mid", rows[1].ID)
	assert.Equal(t, "zeta", rows[2].ID)
}

func TestRepositoryUpdateReplacesRow(t *testing.T) {
	store := NewRepository(openTestDB(t))
	created := seedCompany(t, store, "acme", "acme.stepsciences.com")

	updated, err := store.Update(context.Background(), domain.Company{
		ID:            "acme",
		Name:          "Acme Renamed",
		CalendarURL:   created.CalendarURL,
		IntakeFormURL: created.IntakeFormURL,
		IsActive:      true,
		// MeetingLocation left zero: full replacement writes blanks too.
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Renamed", updated.Name)
	assert.Equal(t, "", updated.MeetingLocation)
	assert.Equal(t, "", updated.Domain)
}

func TestRepositoryUpdateUnknownIDNotFound(t *testing.T) {
	store := NewRepository(openTestDB(t))

	_, err := store.Update(context.Background(), domain.Company{
		ID:   "missing",
		Name: "Nobody",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
