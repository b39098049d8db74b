package resolver

import (
	"context"
	"errors"
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

	rows     map[string]domain.Company
	byDomain map[string]string

	findByIDCalls     int
	findByDomainCalls int

	err error
}

func newStoreStub() *storeStub {
	return &storeStub{
		rows:     map[string]domain.Company{},
		byDomain: map[string]string{},
	}
}

func (s *storeStub) WithTx(tx *gorm.DB) domain.Store { return s }

func (s *storeStub) FindByID(ctx context.Context, id string) (*domain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findByIDCalls++
	if s.err != nil {
		return nil, s.err
	}
	row, ok := s.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &row, nil
}

func (s *storeStub) FindByDomain(ctx context.Context, host string) (*domain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findByDomainCalls++
	if s.err != nil {
		return nil, s.err
	}
	id, ok := s.byDomain[host]
	if !ok {
		return nil, domain.ErrNotFound
	}
	row := s.rows[id]
	return &row, nil
}

func (s *storeStub) FindAllActive(ctx context.Context) ([]domain.Company, error) {
	return nil, nil
}

func (s *storeStub) Create(ctx context.Context, company domain.Company) (*domain.Company, error) {
	return &company, nil
}

func (s *storeStub) Update(ctx context.Context, company domain.Company) (*domain.Company, error) {
	return &company, nil
}

func (s *storeStub) SoftDelete(ctx context.Context, id string) error { return nil }

func validRow(id string) domain.Company {
	return domain.Company{
		ID:            id,
		Name:          "Acme Manufacturing",
		CalendarURL:   "https://calendar.app.google/" + id,
		IntakeFormURL: "https://intake.stepsciences.com/" + id,
		IsActive:      true,
	}
}

func newTestResolver(t *testing.T, store domain.Store, clk clock.Clock) (*Resolver, *cache.ResolutionCache) {
	t.Helper()

	fallback, err := config.NewFallbackHolder()
	require.NoError(t, err)

	resolutionCache := cache.NewResolutionCache(clk, 5*time.Minute)
	r := New(store, resolutionCache, fallback, nil, zaptest.NewLogger(t), config.Config{
		DefaultCompanyID: "gm-oshawa",
	})
	return r, resolutionCache
}

func TestResolveByCompanyIDCachesResult(t *testing.T) {
	store := newStoreStub()
	store.rows["acme"] = validRow("acme")
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	r, _ := newTestResolver(t, store, clk)

	got := r.Resolve(context.Background(), Query{CompanyID: "acme"})
	assert.Equal(t, OutcomeResolved, got.Outcome)
	assert.Equal(t, "store", got.Source)
	assert.Equal(t, "acme", got.Config.ID)

	got = r.Resolve(context.Background(), Query{CompanyID: "acme"})
	assert.Equal(t, OutcomeResolved, got.Outcome)
	assert.Equal(t, "cache", got.Source)
	assert.Equal(t, 1, store.findByIDCalls)
}

func TestResolveCacheExpiresAfterTTL(t *testing.T) {
	store := newStoreStub()
	store.rows["acme"] = validRow("acme")
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	r, _ := newTestResolver(t, store, clk)

	r.Resolve(context.Background(), Query{CompanyID: "acme"})
	clk.Advance(5 * time.Minute)

	got := r.Resolve(context.Background(), Query{CompanyID: "acme"})
	assert.Equal(t, "store", got.Source)
	assert.Equal(t, 2, store.findByIDCalls)
}

func TestResolveStoreDownServesFallbackWithoutCaching(t *testing.T) {
	store := newStoreStub()
	store.rows["acme"] = validRow("acme")
	store.err = errors.New("connection refused")
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	r, resolutionCache := newTestResolver(t, store, clk)

	got := r.Resolve(context.Background(), Query{CompanyID: "acme"})
	assert.Equal(t, OutcomeDefault, got.Outcome)
	assert.Equal(t, "fallback", got.Source)
	assert.Equal(t, "gm-oshawa", got.Config.ID)

	// The default must not be cached against the requested id.
	_, ok := resolutionCache.GetConfig("acme")
	assert.False(t, ok)

	// Once the store recovers the real config is served and cached.
	store.err = nil
	got = r.Resolve(context.Background(), Query{CompanyID: "acme"})
	assert.Equal(t, OutcomeResolved, got.Outcome)
	assert.Equal(t, "store", got.Source)
	assert.Equal(t, "acme", got.Config.ID)
}

func TestResolveUnknownCompanyServesFallback(t *testing.T) {
	store := newStoreStub()
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	r, _ := newTestResolver(t, store, clk)

	got := r.Resolve(context.Background(), Query{CompanyID: "no-such-tenant"})
	assert.Equal(t, OutcomeDefault, got.Outcome)
	assert.Equal(t, "gm-oshawa", got.Config.ID)
}

func TestResolveDiscardsRowWithOffListURLs(t *testing.T) {
	store := newStoreStub()
	row := validRow("acme")
	row.CalendarURL = "https://evil.example.com/booking"
	store.rows["acme"] = row
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	r, resolutionCache := newTestResolver(t, store, clk)

	got := r.Resolve(context.Background(), Query{CompanyID: "acme"})
	assert.Equal(t, OutcomeDefault, got.Outcome)
	assert.Equal(t, "fallback", got.Source)

	_, ok := resolutionCache.GetConfig("acme")
	assert.False(t, ok)
}

func TestResolveInvalidCompanyParamFallsThroughToHost(t *testing.T) {
	store := newStoreStub()
	store.rows["acme"] = validRow("acme")
	store.byDomain["acme.stepsciences.com"] = "acme"
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	r, _ := newTestResolver(t, store, clk)

	got := r.Resolve(context.Background(), Query{
		CompanyID: "NOT VALID!!",
		Host:      "acme.stepsciences.com",
	})
	assert.Equal(t, OutcomeResolved, got.Outcome)
	assert.Equal(t, "acme", got.Config.ID)
	assert.Equal(t, 1, store.findByDomainCalls)

	// The domain mapping is cached independently of the config.
	r.Resolve(context.Background(), Query{Host: "acme.stepsciences.com"})
	assert.Equal(t, 1, store.findByDomainCalls)
}

func TestResolveUnknownHostUsesDefaultCompany(t *testing.T) {
	store := newStoreStub()
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	r, _ := newTestResolver(t, store, clk)

	got := r.Resolve(context.Background(), Query{Host: "portal.unknown.example"})
	assert.Equal(t, OutcomeDefault, got.Outcome)
	assert.Equal(t, "gm-oshawa", got.Config.ID)
}
