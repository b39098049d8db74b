package domain

import (
	"context"
	"errors"
)

type Service interface {
	List(ctx context.Context) ([]TenantConfig, error)
	Get(ctx context.Context, id string) (*TenantConfig, error)
	Create(ctx context.Context, req TenantConfig) (*TenantConfig, error)
	Update(ctx context.Context, id string, req TenantConfig) (*TenantConfig, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrNotFound           = errors.New("company_not_found")
	ErrUnavailable        = errors.New("company_store_unavailable")
	ErrConflict           = errors.New("company_exists")
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidCalendarURL = errors.New("invalid_calendar_url")
	ErrInvalidIntakeURL   = errors.New("invalid_intake_form_url")
	ErrInvalidDomain      = errors.New("invalid_domain")
)
