package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	adminauthdomain "github.com/stepsciences/scanportal/internal/adminauth/domain"
	"github.com/stepsciences/scanportal/internal/adminauth/password"
	companydomain "github.com/stepsciences/scanportal/internal/company/domain"
	"github.com/stepsciences/scanportal/internal/company/format"
	"github.com/stepsciences/scanportal/internal/config"
	"gorm.io/gorm"
)

// EnsureDefaultCompany seeds the default tenant so a fresh install always has
// a resolvable company without operator action.
func EnsureDefaultCompany(db *gorm.DB, holder *config.FallbackHolder, cfg config.Config) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	companyID := strings.TrimSpace(cfg.DefaultCompanyID)
	if companyID == "" {
		return nil
	}

	if !holder.Has(companyID) {
		return nil
	}
	fallback := holder.Get(companyID, companyID)

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.WithContext(ctx).
			Model(&companydomain.Company{}).
			Where("id = ?", companyID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		row := format.ToStorageShape(fallback)
		now := time.Now().UTC()
		row.CreatedAt = now
		row.UpdatedAt = now
		return tx.WithContext(ctx).Create(&row).Error
	})
}

// EnsureBootstrapAdmin creates the first admin account from configuration.
// It is a no-op when no bootstrap password is configured or when the user
// already exists, so restarts never clobber a rotated credential.
func EnsureBootstrapAdmin(db *gorm.DB, cfg config.Config) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	email := strings.ToLower(strings.TrimSpace(cfg.BootstrapAdminEmail))
	pass := cfg.BootstrapAdminPassword
	if email == "" || pass == "" {
		return nil
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user adminauthdomain.AdminUser
		err := tx.WithContext(ctx).Where("email = ?", email).First(&user).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := password.Hash(pass)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		user = adminauthdomain.AdminUser{
			ID:           node.Generate(),
			Email:        email,
			DisplayName:  "Portal Admin",
			PasswordHash: hashed,
			Role:         adminauthdomain.RoleAdmin,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return tx.WithContext(ctx).Create(&user).Error
	})
}
