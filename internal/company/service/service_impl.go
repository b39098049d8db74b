package service

import (
	"context"
	"strings"

	"github.com/gosimple/slug"
	"github.com/stepsciences/scanportal/internal/cache"
	"github.com/stepsciences/scanportal/internal/clock"
	"github.com/stepsciences/scanportal/internal/company/domain"
	"github.com/stepsciences/scanportal/internal/company/format"
	"github.com/stepsciences/scanportal/internal/config"
	"github.com/stepsciences/scanportal/internal/validate"
	"go.uber.org/zap"
)

type service struct {
	store domain.Store
	cache *cache.ResolutionCache
	clk   clock.Clock
	log   *zap.Logger
	cfg   config.Config
}

func NewService(store domain.Store, resolutionCache *cache.ResolutionCache, clk clock.Clock, log *zap.Logger, cfg config.Config) domain.Service {
	return &service{
		store: store,
		cache: resolutionCache,
		clk:   clk,
		log:   log.Named("company.service"),
		cfg:   cfg,
	}
}

func (s *service) List(ctx context.Context) ([]domain.TenantConfig, error) {
	if configs, ok := s.cache.GetAllCompanies(); ok {
		return configs, nil
	}

	rows, err := s.store.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}

	configs := make([]domain.TenantConfig, 0, len(rows))
	for _, row := range rows {
		configs = append(configs, format.ToClientShape(row))
	}
	s.cache.SetAllCompanies(configs)
	return configs, nil
}

func (s *service) Get(ctx context.Context, id string) (*domain.TenantConfig, error) {
	id = validate.SanitizeInput(id)
	if !validate.IsValidCompanyID(id) {
		return nil, domain.ErrInvalidID
	}

	row, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cfg := format.ToClientShape(*row)
	return &cfg, nil
}

func (s *service) Create(ctx context.Context, req domain.TenantConfig) (*domain.TenantConfig, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	id := strings.ToLower(strings.TrimSpace(req.ID))
	if id == "" {
		id = slug.Make(name)
	}
	if !validate.IsValidCompanyID(id) {
		return nil, domain.ErrInvalidID
	}

	if err := s.validateURLs(req); err != nil {
		return nil, err
	}
	if err := s.validateDomain(req.Domain); err != nil {
		return nil, err
	}

	req.ID = id
	req.IsActive = true
	req.ShowBranding = true

	row := format.ToStorageShape(req)
	now := s.clk.Now()
	row.CreatedAt = now
	row.UpdatedAt = now

	created, err := s.store.Create(ctx, row)
	if err != nil {
		return nil, err
	}

	s.cache.Clear()
	s.log.Info("company created",
		zap.String("company_id", created.ID),
		zap.String("domain", created.Domain),
	)

	cfg := format.ToClientShape(*created)
	return &cfg, nil
}

// Update replaces the full row; id is immutable and taken from the path,
// never from the payload. Last write wins, there is no version token.
func (s *service) Update(ctx context.Context, id string, req domain.TenantConfig) (*domain.TenantConfig, error) {
	id = validate.SanitizeInput(id)
	if !validate.IsValidCompanyID(id) {
		return nil, domain.ErrInvalidID
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, domain.ErrInvalidName
	}
	if err := s.validateURLs(req); err != nil {
		return nil, err
	}
	if err := s.validateDomain(req.Domain); err != nil {
		return nil, err
	}

	req.ID = id
	row := format.ToStorageShape(req)
	row.UpdatedAt = s.clk.Now()

	updated, err := s.store.Update(ctx, row)
	if err != nil {
		return nil, err
	}

	s.cache.Clear()
	s.log.Info("company updated", zap.String("company_id", id))

	cfg := format.ToClientShape(*updated)
	return &cfg, nil
}

// Delete is a soft delete: the row is marked inactive and excluded from all
// public listing and lookup operations, but stays in storage.
func (s *service) Delete(ctx context.Context, id string) error {
	id = validate.SanitizeInput(id)
	if !validate.IsValidCompanyID(id) {
		return domain.ErrInvalidID
	}

	if err := s.store.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.cache.Clear()
	s.log.Info("company soft-deleted", zap.String("company_id", id))
	return nil
}

func (s *service) validateURLs(req domain.TenantConfig) error {
	if !validate.IsValidCalendarURL(req.CalendarURL) {
		return domain.ErrInvalidCalendarURL
	}
	if !validate.IsValidIntakeFormURL(req.IntakeFormURL) {
		return domain.ErrInvalidIntakeURL
	}
	return nil
}

func (s *service) validateDomain(host string) error {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" || !strings.Contains(host, s.cfg.PlatformDomain) {
		return domain.ErrInvalidDomain
	}
	return nil
}
