package cache

import (
	"time"

	"github.com/stepsciences/scanportal/internal/clock"
	"github.com/stepsciences/scanportal/internal/company/domain"
)

const (
	domainKeyPrefix = "domain:"
	configKeyPrefix = "config:"
	allCompaniesKey = "all-companies"
)

// ResolutionCache caches hostname→tenant-id, tenant-id→config, and the
// active tenant listing. Entries expire by TTL or by explicit Clear after
// an admin write; fallback/default configs are never stored here.
type ResolutionCache struct {
	domains   *TTLCache[string, string]
	configs   *TTLCache[string, domain.TenantConfig]
	companies *TTLCache[string, []domain.TenantConfig]
}

func NewResolutionCache(clk clock.Clock, ttl time.Duration) *ResolutionCache {
	return &ResolutionCache{
		domains:   NewTTLCache[string, string](clk, ttl),
		configs:   NewTTLCache[string, domain.TenantConfig](clk, ttl),
		companies: NewTTLCache[string, []domain.TenantConfig](clk, ttl),
	}
}

func (c *ResolutionCache) GetCompanyIDByDomain(host string) (string, bool) {
	if c == nil || host == "" {
		return "", false
	}
	return c.domains.Get(domainKeyPrefix + host)
}

func (c *ResolutionCache) SetCompanyIDByDomain(host, companyID string) {
	if c == nil || host == "" || companyID == "" {
		return
	}
	c.domains.Set(domainKeyPrefix+host, companyID)
}

func (c *ResolutionCache) GetConfig(companyID string) (domain.TenantConfig, bool) {
	if c == nil || companyID == "" {
		return domain.TenantConfig{}, false
	}
	return c.configs.Get(configKeyPrefix + companyID)
}

func (c *ResolutionCache) SetConfig(companyID string, cfg domain.TenantConfig) {
	if c == nil || companyID == "" {
		return
	}
	c.configs.Set(configKeyPrefix+companyID, cfg)
}

func (c *ResolutionCache) GetAllCompanies() ([]domain.TenantConfig, bool) {
	if c == nil {
		return nil, false
	}
	configs, ok := c.companies.Get(allCompaniesKey)
	if !ok {
		return nil, false
	}
	return append([]domain.TenantConfig(nil), configs...), true
}

func (c *ResolutionCache) SetAllCompanies(configs []domain.TenantConfig) {
	if c == nil {
		return
	}
	c.companies.Set(allCompaniesKey, append([]domain.TenantConfig(nil), configs...))
}

// Clear drops every entry so the public site never serves stale config
// after an admin write.
func (c *ResolutionCache) Clear() {
	if c == nil {
		return
	}
	c.domains.Clear()
	c.configs.Clear()
	c.companies.Clear()
}
