package cache

import (
	"testing"
	"time"

	"github.com/stepsciences/scanportal/internal/clock"
	"github.com/stepsciences/scanportal/internal/company/domain"
	"github.com/stretchr/testify/assert"
)

func TestTTLCacheExpiry(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	c := NewTTLCache[string, string](clk, 5*time.Minute)

	c.Set("k", "v")

	value, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", value)

	// just before expiry
	clk.Advance(5*time.Minute - time.Second)
	_, ok = c.Get("k")
	assert.True(t, ok)

	// at expiry the entry is gone
	clk.Advance(time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestTTLCacheSetRefreshesExpiry(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	c := NewTTLCache[string, int](clk, time.Minute)

	c.Set("k", 1)
	clk.Advance(45 * time.Second)
	c.Set("k", 2)
	clk.Advance(45 * time.Second)

	value, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 2, value)
}

func TestTTLCacheDeleteAndClear(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	c := NewTTLCache[string, int](clk, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Delete("a")

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestResolutionCacheKeysAreIndependent(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	c := NewResolutionCache(clk, time.Minute)

	c.SetCompanyIDByDomain("gm.stepsciences.com", "gm-oshawa")
	c.SetConfig("gm-oshawa", domain.TenantConfig{ID: "gm-oshawa", Name: "GM Oshawa"})

	id, ok := c.GetCompanyIDByDomain("gm.stepsciences.com")
	assert.True(t, ok)
	assert.Equal(t, "gm-oshawa", id)

	cfg, ok := c.GetConfig("gm-oshawa")
	assert.True(t, ok)
	assert.Equal(t, "GM Oshawa", cfg.Name)

	_, ok = c.GetConfig("gm.stepsciences.com")
	assert.False(t, ok)
}

func TestResolutionCacheAllCompaniesReturnsCopy(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	c := NewResolutionCache(clk, time.Minute)

	c.SetAllCompanies([]domain.TenantConfig{{ID: "a"}, {ID: "b"}})

	first, ok := c.GetAllCompanies()
	assert.True(t, ok)
	first[0].ID = "mutated"

	second, ok := c.GetAllCompanies()
	assert.True(t, ok)
	assert.Equal(t, "a", second[0].ID)
}

func TestResolutionCacheClear(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	c := NewResolutionCache(clk, time.Minute)

	c.SetCompanyIDByDomain("gm.stepsciences.com", "gm-oshawa")
	c.SetConfig("gm-oshawa", domain.TenantConfig{ID: "gm-oshawa"})
	c.SetAllCompanies([]domain.TenantConfig{{ID: "gm-oshawa"}})

	c.Clear()

	_, ok := c.GetCompanyIDByDomain("gm.stepsciences.com")
	assert.False(t, ok)
	_, ok = c.GetConfig("gm-oshawa")
	assert.False(t, ok)
	_, ok = c.GetAllCompanies()
	assert.False(t, ok)
}
