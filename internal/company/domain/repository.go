package domain

import (
	"context"

	"gorm.io/gorm"
)

// Store is the tenant table access contract. Reads report ErrNotFound as a
// terminal outcome; callers treat it as "fall back", not as a failure.
type Store interface {
	WithTx(tx *gorm.DB) Store
	FindByID(ctx context.Context, id string) (*Company, error)
	FindByDomain(ctx context.Context, domain string) (*Company, error)
	FindAllActive(ctx context.Context) ([]Company, error)
	Create(ctx context.Context, company Company) (*Company, error)
	Update(ctx context.Context, company Company) (*Company, error)
	SoftDelete(ctx context.Context, id string) error
}
