package config

import (
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	companydomain "github.com/stepsciences/scanportal/internal/company/domain"
)

// DefaultFallbackCompanies returns the bundled static tenant configs served
// when neither the store nor the proxy yields a usable row.
func DefaultFallbackCompanies() map[string]companydomain.TenantConfig {
	return map[string]companydomain.TenantConfig{
		"gm-oshawa": {
			ID:              "gm-oshawa",
			Name:            "GM Oshawa",
			FullName:        "General Motors Oshawa Assembly",
			PrimaryColor:    "#000000",
			SecondaryColor:  "#d4af37",
			Logo:            "/logos/gm-oshawa.png",
			CalendarURL:     "https://calendar.app.google/gm-oshawa-scans",
			IntakeFormURL:   "https://intake.stepsciences.com/gm-oshawa",
			ContactEmail:    "info@stepsciences.com",
			MeetingLocation: "Building C - Medical Office",
			ShowBranding:    true,
			IsActive:        true,
			Domain:          "gmoshawa.stepsciences.com",
		},
	}
}

// FallbackHolder serves bundled static tenant configs, optionally overridden
// by a fallback.yml file that hot-reloads on change.
type FallbackHolder struct {
	current atomic.Value // holds map[string]companydomain.TenantConfig
}

func NewFallbackHolder() (*FallbackHolder, error) {
	holder := &FallbackHolder{}
	holder.current.Store(DefaultFallbackCompanies())

	v := viper.New()
	v.SetConfigName("fallback")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/scanportal")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// No file: bundled defaults stay in effect.
		return holder, nil
	}

	companies, err := decodeFallback(v)
	if err != nil {
		return nil, err
	}
	holder.current.Store(companies)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := decodeFallback(v)
		if err != nil {
			log.Printf("[fallback-config] reload failed: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[fallback-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// Get returns the bundled config for id, or the named default tenant when
// no entry matches.
func (h *FallbackHolder) Get(id, defaultID string) companydomain.TenantConfig {
	companies := h.current.Load().(map[string]companydomain.TenantConfig)
	if cfg, ok := companies[strings.ToLower(strings.TrimSpace(id))]; ok {
		return cfg
	}
	return companies[defaultID]
}

func (h *FallbackHolder) Has(id string) bool {
	companies := h.current.Load().(map[string]companydomain.TenantConfig)
	_, ok := companies[strings.ToLower(strings.TrimSpace(id))]
	return ok
}

func decodeFallback(v *viper.Viper) (map[string]companydomain.TenantConfig, error) {
	var companies map[string]companydomain.TenantConfig
	err := v.UnmarshalKey("companies", &companies, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "json"
	})
	if err != nil {
		return nil, err
	}
	merged := DefaultFallbackCompanies()
	for id, cfg := range companies {
		id = strings.ToLower(strings.TrimSpace(id))
		if cfg.ID == "" {
			cfg.ID = id
		}
		merged[id] = cfg
	}
	return merged, nil
}
