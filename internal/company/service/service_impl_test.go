package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stepsciences/scanportal/internal/cache"
	"github.com/stepsciences/scanportal/internal/clock"
	"github.com/stepsciences/scanportal/internal/company/domain"
	"github.com/stepsciences/scanportal/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type storeStub struct {
	mu sync.Mutex

	rows map[string]domain.Company

	findAllCalls int
}

func newStoreStub() *storeStub {
	return &storeStub{rows: map[string]domain.Company{}}
}

func (s *storeStub) WithTx(tx *gorm.DB) domain.Store { return s }

func (s *storeStub) FindByID(ctx context.Context, id string) (*domain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok || !row.IsActive {
		return nil, domain.ErrNotFound
	}
	return &row, nil
}

func (s *storeStub) FindByDomain(ctx context.Context, host string) (*domain.Company, error) {
	return nil, domain.ErrNotFound
}

func (s *storeStub) FindAllActive(ctx context.Context) ([]domain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findAllCalls++
	var rows []domain.Company
	for _, row := range s.rows {
		if row.IsActive {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (s *storeStub) Create(ctx context.Context, company domain.Company) (*domain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[company.ID]; ok {
		return nil, domain.ErrConflict
	}
	s.rows[company.ID] = company
	return &company, nil
}

func (s *storeStub) Update(ctx context.Context, company domain.Company) (*domain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[company.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	s.rows[company.ID] = company
	return &company, nil
}

func (s *storeStub) SoftDelete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok || !row.IsActive {
		return domain.ErrNotFound
	}
	row.IsActive = false
	s.rows[id] = row
	return nil
}

func newTestService(t *testing.T, store domain.Store) (domain.Service, *cache.ResolutionCache) {
	t.Helper()

	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	resolutionCache := cache.NewResolutionCache(clk, 5*time.Minute)
	svc := NewService(store, resolutionCache, clk, zaptest.NewLogger(t), config.Config{
		DefaultCompanyID: "gm-oshawa",
		PlatformDomain:   "stepsciences.com",
	})
	return svc, resolutionCache
}

func validRequest() domain.TenantConfig {
	return domain.TenantConfig{
		Name:          "Acme Manufacturing",
		CalendarURL:   "https://calendar.app.google/acme",
		IntakeFormURL: "https://intake.stepsciences.com/acme",
		Domain:        "acme.stepsciences.com",
	}
}

func TestCreateSlugsIDFromName(t *testing.T) {
	svc, _ := newTestService(t, newStoreStub())

	created, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "acme-manufacturing", created.ID)
	assert.True(t, created.IsActive)
	assert.True(t, created.ShowBranding)
}

func TestCreateRejectsBadInput(t *testing.T) {
	svc, _ := newTestService(t, newStoreStub())

	req := validRequest()
	req.Name = "   "
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	req = validRequest()
	req.ID = "Not Valid"
	_, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	req = validRequest()
	req.CalendarURL = "https://evil.example.com/booking"
	_, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidCalendarURL)

	req = validRequest()
	req.IntakeFormURL = "http://intake.stepsciences.com/acme"
	_, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidIntakeURL)

	req = validRequest()
	req.Domain = "acme.othercompany.com"
	_, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidDomain)
}

func TestCreateDuplicateIDConflicts(t *testing.T) {
	svc, _ := newTestService(t, newStoreStub())

	_, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), validRequest())
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestListCachesUntilWrite(t *testing.T) {
	store := newStoreStub()
	svc, _ := newTestService(t, store)

	_, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	_, err = svc.List(context.Background())
	require.NoError(t, err)
	_, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, store.findAllCalls)

	// A write invalidates the listing cache.
	req := validRequest()
	req.Name = "Globex"
	req.ID = "globex"
	req.Domain = "globex.stepsciences.com"
	_, err = svc.Create(context.Background(), req)
	require.NoError(t, err)

	listed, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, store.findAllCalls)
	assert.Len(t, listed, 2)
}

func TestGetValidatesID(t *testing.T) {
	svc, _ := newTestService(t, newStoreStub())

	_, err := svc.Get(context.Background(), "../etc/passwd")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestUpdateKeepsPathID(t *testing.T) {
	store := newStoreStub()
	svc, _ := newTestService(t, store)

	created, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.ID = "attempted-rename"
	req.Name = "Acme Renamed"
	updated, err := svc.Update(context.Background(), created.ID, req)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Acme Renamed", updated.Name)
}

func TestDeleteClearsCachedConfig(t *testing.T) {
	store := newStoreStub()
	svc, resolutionCache := newTestService(t, store)

	created, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	resolutionCache.SetConfig(created.ID, *created)
	require.NoError(t, svc.Delete(context.Background(), created.ID))

	_, ok := resolutionCache.GetConfig(created.ID)
	assert.False(t, ok)

	_, err = svc.Get(context.Background(), created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
