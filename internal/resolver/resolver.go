// Package resolver turns a request's company parameter or hostname into the
// tenant config the portal renders, degrading through cache, store, proxy,
// and bundled defaults without ever surfacing an error.
package resolver

import (
	"context"
	"errors"
	"strings"

	"github.com/stepsciences/scanportal/internal/cache"
	"github.com/stepsciences/scanportal/internal/company/domain"
	"github.com/stepsciences/scanportal/internal/company/format"
	"github.com/stepsciences/scanportal/internal/config"
	obsmetrics "github.com/stepsciences/scanportal/internal/observability/metrics"
	"github.com/stepsciences/scanportal/internal/validate"
	"go.uber.org/zap"
)

// Outcome is the terminal state of one resolution attempt.
type Outcome string

const (
	// OutcomeResolved means a verified remote config was served.
	OutcomeResolved Outcome = "resolved"
	// OutcomeDefault means the bundled fallback config was served.
	OutcomeDefault Outcome = "default"
)

// fetchOutcome classifies one store fetch so the fallback decision is a
// single switch rather than nested error handling.
type fetchOutcome int

const (
	fetchOK fetchOutcome = iota
	fetchNotFound
	fetchInvalid
	fetchTransportError
)

// Query carries the resolution inputs taken from the request.
type Query struct {
	// CompanyID is the explicit ?company= override, raw from the URL.
	CompanyID string
	// Host is the request hostname, used when no valid override is given.
	Host string
}

// Resolution is the result served to the portal.
type Resolution struct {
	Config  domain.TenantConfig `json:"config"`
	Outcome Outcome             `json:"outcome"`
	// Source names the step that produced the config: cache, store, fallback.
	Source string `json:"source"`
}

type Resolver struct {
	store    domain.Store
	cache    *cache.ResolutionCache
	fallback *config.FallbackHolder
	metrics  *obsmetrics.Metrics
	log      *zap.Logger

	defaultCompanyID string
}

func New(store domain.Store, resolutionCache *cache.ResolutionCache, fallback *config.FallbackHolder, metrics *obsmetrics.Metrics, log *zap.Logger, cfg config.Config) *Resolver {
	return &Resolver{
		store:            store,
		cache:            resolutionCache,
		fallback:         fallback,
		metrics:          metrics,
		log:              log.Named("resolver"),
		defaultCompanyID: cfg.DefaultCompanyID,
	}
}

// Resolve runs the fallback chain. It never returns an error: the worst
// outcome is the bundled default tenant config.
func (r *Resolver) Resolve(ctx context.Context, q Query) Resolution {
	companyID := r.candidateCompanyID(ctx, q)

	if cfg, ok := r.cache.GetConfig(companyID); ok {
		r.metrics.RecordResolution(ctx, string(OutcomeResolved), "cache")
		return Resolution{Config: cfg, Outcome: OutcomeResolved, Source: "cache"}
	}

	cfg, outcome := r.fetchConfig(ctx, companyID)
	switch outcome {
	case fetchOK:
		// Only verified remote results are cached under the tenant key.
		r.cache.SetConfig(companyID, cfg)
		r.metrics.RecordResolution(ctx, string(OutcomeResolved), "store")
		return Resolution{Config: cfg, Outcome: OutcomeResolved, Source: "store"}
	case fetchInvalid:
		r.metrics.RecordInvalidConfig(ctx, companyID)
	}

	// Default is not cached as if it were a verified result for the
	// requested id, so resolution retries once the store recovers.
	fallbackCfg := r.fallback.Get(companyID, r.defaultCompanyID)
	r.metrics.RecordResolution(ctx, string(OutcomeDefault), "fallback")
	return Resolution{Config: fallbackCfg, Outcome: OutcomeDefault, Source: "fallback"}
}

// candidateCompanyID picks the tenant id: explicit sanitized+validated
// company parameter first, then hostname lookup, then the fixed default.
func (r *Resolver) candidateCompanyID(ctx context.Context, q Query) string {
	if id := validate.SanitizeInput(q.CompanyID); id != "" && validate.IsValidCompanyID(id) {
		return id
	}

	host := strings.ToLower(strings.TrimSpace(q.Host))
	if host != "" {
		if id, ok := r.cache.GetCompanyIDByDomain(host); ok {
			r.metrics.RecordCacheHit(ctx, "domain")
			return id
		}
		r.metrics.RecordCacheMiss(ctx, "domain")

		row, err := r.store.FindByDomain(ctx, host)
		if err == nil {
			r.cache.SetCompanyIDByDomain(host, row.ID)
			return row.ID
		}
		if !errors.Is(err, domain.ErrNotFound) {
			r.log.Warn("domain lookup failed", zap.String("host", host), zap.Error(err))
		}
	}

	return r.defaultCompanyID
}

func (r *Resolver) fetchConfig(ctx context.Context, companyID string) (domain.TenantConfig, fetchOutcome) {
	r.metrics.RecordCacheMiss(ctx, "config")

	row, err := r.store.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.TenantConfig{}, fetchNotFound
		}
		r.log.Warn("config fetch failed",
			zap.String("company_id", companyID),
			zap.Error(err),
		)
		return domain.TenantConfig{}, fetchTransportError
	}

	cfg := format.ToClientShape(*row)
	if !validate.IsValidCalendarURL(cfg.CalendarURL) || !validate.IsValidIntakeFormURL(cfg.IntakeFormURL) {
		// A fetched row with an off-list URL is discarded, never cached.
		r.log.Warn("fetched config failed URL validation, discarding",
			zap.String("company_id", companyID),
			zap.String("calendar_url", cfg.CalendarURL),
			zap.String("intake_form_url", cfg.IntakeFormURL),
		)
		return domain.TenantConfig{}, fetchInvalid
	}

	return cfg, fetchOK
}
