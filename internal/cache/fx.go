package cache

import (
	"github.com/stepsciences/scanportal/internal/clock"
	"github.com/stepsciences/scanportal/internal/config"
	"go.uber.org/fx"
)

func NewFromConfig(clk clock.Clock, cfg config.Config) *ResolutionCache {
	return NewResolutionCache(clk, cfg.ResolutionTTL)
}

var Module = fx.Module("resolution.cache",
	fx.Provide(NewFromConfig),
)
