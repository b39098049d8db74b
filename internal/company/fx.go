package company

import (
	"github.com/stepsciences/scanportal/internal/company/domain"
	"github.com/stepsciences/scanportal/internal/company/repository"
	"github.com/stepsciences/scanportal/internal/company/service"
	"github.com/stepsciences/scanportal/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newStore(conn *gorm.DB, cfg config.Config, log *zap.Logger) domain.Store {
	primary := repository.NewRepository(conn)
	proxy := repository.NewProxyClient(cfg.ProxyBaseURL)
	return repository.NewFailoverStore(primary, proxy, log)
}

var Module = fx.Module("company.service",
	fx.Provide(newStore),
	fx.Provide(service.NewService),
)
