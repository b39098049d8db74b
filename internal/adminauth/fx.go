package adminauth

import (
	"github.com/stepsciences/scanportal/internal/adminauth/repository"
	"github.com/stepsciences/scanportal/internal/adminauth/service"
	"go.uber.org/fx"
)

var Module = fx.Module("adminauth.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
