package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/stepsciences/scanportal/internal/company/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FailoverStore tries the direct store first and falls back to the HTTP
// proxy on transport or query errors. A not-found answer from either path
// is terminal and does not trigger the other path. When both paths fail the
// read reports ErrUnavailable; no read error escapes as a panic or an
// unclassified failure. Writes always go to the primary and surface the
// store's error unmodified.
type FailoverStore struct {
	primary domain.Store
	proxy   *ProxyClient
	log     *zap.Logger
}

func NewFailoverStore(primary domain.Store, proxy *ProxyClient, log *zap.Logger) *FailoverStore {
	return &FailoverStore{
		primary: primary,
		proxy:   proxy,
		log:     log.Named("company.failover"),
	}
}

func (s *FailoverStore) WithTx(tx *gorm.DB) domain.Store {
	return &FailoverStore{
		primary: s.primary.WithTx(tx),
		proxy:   s.proxy,
		log:     s.log,
	}
}

func (s *FailoverStore) FindByID(ctx context.Context, id string) (*domain.Company, error) {
	company, err := s.primary.FindByID(ctx, id)
	if err == nil {
		return company, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNotFound
	}

	s.log.Warn("primary store failed, trying proxy",
		zap.String("company_id", id),
		zap.Error(err),
	)
	if s.proxy == nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}

	company, proxyErr := s.proxy.FetchByID(ctx, id)
	if proxyErr == nil {
		return company, nil
	}
	if errors.Is(proxyErr, domain.ErrNotFound) {
		return nil, domain.ErrNotFound
	}
	return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, proxyErr)
}

func (s *FailoverStore) FindByDomain(ctx context.Context, host string) (*domain.Company, error) {
	company, err := s.primary.FindByDomain(ctx, host)
	if err == nil {
		return company, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNotFound
	}

	s.log.Warn("primary store failed, trying proxy",
		zap.String("domain", host),
		zap.Error(err),
	)
	if s.proxy == nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}

	company, proxyErr := s.proxy.FetchByDomain(ctx, host)
	if proxyErr == nil {
		return company, nil
	}
	if errors.Is(proxyErr, domain.ErrNotFound) {
		return nil, domain.ErrNotFound
	}
	return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, proxyErr)
}

func (s *FailoverStore) FindAllActive(ctx context.Context) ([]domain.Company, error) {
	companies, err := s.primary.FindAllActive(ctx)
	if err == nil {
		return companies, nil
	}

	s.log.Warn("primary store failed listing companies, trying proxy", zap.Error(err))
	if s.proxy == nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}

	companies, proxyErr := s.proxy.FetchAllActive(ctx)
	if proxyErr == nil {
		return companies, nil
	}
	return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, proxyErr)
}

func (s *FailoverStore) Create(ctx context.Context, company domain.Company) (*domain.Company, error) {
	return s.primary.Create(ctx, company)
}

func (s *FailoverStore) Update(ctx context.Context, company domain.Company) (*domain.Company, error) {
	return s.primary.Update(ctx, company)
}

func (s *FailoverStore) SoftDelete(ctx context.Context, id string) error {
	return s.primary.SoftDelete(ctx, id)
}
