package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stepsciences/scanportal/internal/cache"
	"github.com/stepsciences/scanportal/internal/clock"
	companydomain "github.com/stepsciences/scanportal/internal/company/domain"
	"github.com/stepsciences/scanportal/internal/config"
	"github.com/stepsciences/scanportal/internal/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type storeStub struct {
	mu   sync.Mutex
	rows map[string]companydomain.Company
}

func newStoreStub() *storeStub {
	return &storeStub{rows: map[string]companydomain.Company{}}
}

func (s *storeStub) WithTx(tx *gorm.DB) companydomain.Store { return s }

func (s *storeStub) FindByID(ctx context.Context, id string) (*companydomain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return nil, companydomain.ErrNotFound
	}
	return &row, nil
}

func (s *storeStub) FindByDomain(ctx context.Context, host string) (*companydomain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.Domain == host {
			return &row, nil
		}
	}
	return nil, companydomain.ErrNotFound
}

func (s *storeStub) FindAllActive(ctx context.Context) ([]companydomain.Company, error) {
	return nil, nil
}

func (s *storeStub) Create(ctx context.Context, company companydomain.Company) (*companydomain.Company, error) {
	return &company, nil
}

func (s *storeStub) Update(ctx context.Context, company companydomain.Company) (*companydomain.Company, error) {
	return &company, nil
}

func (s *storeStub) SoftDelete(ctx context.Context, id string) error { return nil }

func newTestServer(t *testing.T, store companydomain.Store) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{DefaultCompanyID: "gm-oshawa"}
	fallback, err := config.NewFallbackHolder()
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	resolutionCache := cache.NewResolutionCache(clk, 5*time.Minute)
	log := zaptest.NewLogger(t)
	res := resolver.New(store, resolutionCache, fallback, nil, log, cfg)

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	return NewServer(ServerParams{
		Gin:          engine,
		Cfg:          cfg,
		Log:          log,
		CompanyStore: store,
		Resolver:     res,
	})
}

func doRequest(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	return rec
}

func TestLookupConfigResolvesByCompanyParam(t *testing.T) {
	store := newStoreStub()
	store.rows["acme"] = companydomain.Company{
		ID:            "acme",
		Name:          "Acme Manufacturing",
		CalendarURL:   "https://calendar.app.google/acme",
		IntakeFormURL: "https://intake.stepsciences.com/acme",
		IsActive:      true,
	}
	s := newTestServer(t, store)

	rec := doRequest(t, s, http.MethodGet, "/api/config/acme.stepsciences.com?company=acme")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=300", rec.Header().Get("Cache-Control"))

	var body resolver.Resolution
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, resolver.OutcomeResolved, body.Outcome)
	assert.Equal(t, "acme", body.Config.ID)
}

func TestLookupConfigDegradesToDefault(t *testing.T) {
	s := newTestServer(t, newStoreStub())

	rec := doRequest(t, s, http.MethodGet, "/api/config/portal.unknown.example")
	require.Equal(t, http.StatusOK, rec.Code)

	var body resolver.Resolution
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, resolver.OutcomeDefault, body.Outcome)
	assert.Equal(t, "gm-oshawa", body.Config.ID)
}

func TestLookupConfigRejectsUnknownStatus(t *testing.T) {
	s := newTestServer(t, newStoreStub())

	rec := doRequest(t, s, http.MethodGet, "/api/config/portal.unknown.example?status=cancelled")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLookupConfigStorageShape(t *testing.T) {
	store := newStoreStub()
	store.rows["acme"] = companydomain.Company{
		ID:       "acme",
		Name:     "Acme Manufacturing",
		Domain:   "acme.stepsciences.com",
		IsActive: true,
	}
	s := newTestServer(t, store)

	rec := doRequest(t, s, http.MethodGet, "/api/config/acme.stepsciences.com?shape=storage")
	require.Equal(t, http.StatusOK, rec.Code)

	var row companydomain.Company
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &row))
	assert.Equal(t, "acme", row.ID)

	rec = doRequest(t, s, http.MethodGet, "/api/config/unknown.stepsciences.com?shape=storage")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
