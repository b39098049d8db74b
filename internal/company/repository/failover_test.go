package repository

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stepsciences/scanportal/internal/company/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type flakyStore struct {
	mu sync.Mutex

	rows map[string]domain.Company
	down bool

	createCalls int
}

func newFlakyStore() *flakyStore {
	return &flakyStore{rows: map[string]domain.Company{}}
}

func (s *flakyStore) WithTx(tx *gorm.DB) domain.Store { return s }

func (s *flakyStore) FindByID(ctx context.Context, id string) (*domain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return nil, errors.New("connection refused")
	}
	row, ok := s.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &row, nil
}

func (s *flakyStore) FindByDomain(ctx context.Context, host string) (*domain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return nil, errors.New("connection refused")
	}
	for _, row := range s.rows {
		if row.Domain == host {
			return &row, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *flakyStore) FindAllActive(ctx context.Context) ([]domain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return nil, errors.New("connection refused")
	}
	var rows []domain.Company
	for _, row := range s.rows {
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *flakyStore) Create(ctx context.Context, company domain.Company) (*domain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++
	if s.down {
		return nil, errors.New("connection refused")
	}
	s.rows[company.ID] = company
	return &company, nil
}

func (s *flakyStore) Update(ctx context.Context, company domain.Company) (*domain.Company, error) {
	return &company, nil
}

func (s *flakyStore) SoftDelete(ctx context.Context, id string) error { return nil }

// newProxyServer serves the storage-shape read endpoints the proxy client
// consumes, backed by a fixed row set.
func newProxyServer(t *testing.T, rows map[string]domain.Company) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/companies", func(w http.ResponseWriter, r *http.Request) {
		var out []domain.Company
		for _, row := range rows {
			out = append(out, row)
		}
		json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc("/api/companies/", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Path[len("/api/companies/"):]
		row, ok := rows[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(row)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestFailoverPrefersPrimary(t *testing.T) {
	primary := newFlakyStore()
	primary.rows["acme"] = domain.Company{ID: "acme", Name: "Primary Acme"}

	server := newProxyServer(t, map[string]domain.Company{
		"acme": {ID: "acme", Name: "Proxy Acme"},
	})
	store := NewFailoverStore(primary, NewProxyClient(server.URL), zaptest.NewLogger(t))

	got, err := store.FindByID(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, "Primary Acme", got.Name)
}

func TestFailoverFallsBackToProxy(t *testing.T) {
	primary := newFlakyStore()
	primary.down = true

	server := newProxyServer(t, map[string]domain.Company{
		"acme": {ID: "acme", Name: "Proxy Acme"},
	})
	store := NewFailoverStore(primary, NewProxyClient(server.URL), zaptest.NewLogger(t))

	got, err := store.FindByID(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, "Proxy Acme", got.Name)

	rows, err := store.FindAllActive(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "acme", rows[0].ID)
}

func TestFailoverNotFoundIsTerminal(t *testing.T) {
	primary := newFlakyStore()

	// The proxy knows the row, but a primary not-found never reaches it.
	server := newProxyServer(t, map[string]domain.Company{
		"acme": {ID: "acme", Name: "Proxy Acme"},
	})
	store := NewFailoverStore(primary, NewProxyClient(server.URL), zaptest.NewLogger(t))

	_, err := store.FindByID(context.Background(), "acme")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFailoverBothPathsDownReportsUnavailable(t *testing.T) {
	primary := newFlakyStore()
	primary.down = true

	server := newProxyServer(t, map[string]domain.Company{})
	serverURL := server.URL
	server.Close()

	store := NewFailoverStore(primary, NewProxyClient(serverURL), zaptest.NewLogger(t))

	_, err := store.FindByID(context.Background(), "acme")
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestFailoverWithoutProxyConfigured(t *testing.T) {
	primary := newFlakyStore()
	primary.down = true

	store := NewFailoverStore(primary, NewProxyClient(""), zaptest.NewLogger(t))

	_, err := store.FindByID(context.Background(), "acme")
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestFailoverWritesNeverUseProxy(t *testing.T) {
	primary := newFlakyStore()
	primary.down = true

	server := newProxyServer(t, map[string]domain.Company{})
	store := NewFailoverStore(primary, NewProxyClient(server.URL), zaptest.NewLogger(t))

	_, err := store.Create(context.Background(), domain.Company{ID: "acme", Name: "Acme"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUnavailable)
	assert.Equal(t, 1, primary.createCalls)
}
