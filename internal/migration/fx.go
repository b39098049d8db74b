package migration

import (
	adminauthdomain "github.com/stepsciences/scanportal/internal/adminauth/domain"
	companydomain "github.com/stepsciences/scanportal/internal/company/domain"
	"github.com/stepsciences/scanportal/internal/config"
	"github.com/stepsciences/scanportal/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, holder *config.FallbackHolder) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// Versioned migrations target postgres; sqlite and mysql are
			// development conveniences and take their schema from the models.
			err := conn.AutoMigrate(
				&companydomain.Company{},
				&adminauthdomain.AdminUser{},
				&adminauthdomain.AdminSession{},
			)
			if err != nil {
				return err
			}
		}

		if err := seed.EnsureDefaultCompany(conn, holder, cfg); err != nil {
			return err
		}
		return seed.EnsureBootstrapAdmin(conn, cfg)
	}),
)
