package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/stepsciences/scanportal/internal/company/domain"
	"github.com/stepsciences/scanportal/pkg/db"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository returns the direct gorm-backed store (primary path).
func NewRepository(conn *gorm.DB) domain.Store {
	return &repository{db: conn}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Store {
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id string) (*domain.Company, error) {
	var company domain.Company
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", strings.ToLower(strings.TrimSpace(id)), true).
		First(&company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &company, nil
}

// FindByDomain resolves a hostname to its tenant row. Only active rows are
// considered; a soft-deleted tenant is indistinguishable from an absent one.
func (r *repository) FindByDomain(ctx context.Context, host string) (*domain.Company, error) {
	var company domain.Company
	err := r.db.WithContext(ctx).
		Where("domain = ? AND is_active = ?", strings.ToLower(strings.TrimSpace(host)), true).
		First(&company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &company, nil
}

func (r *repository) FindAllActive(ctx context.Context) ([]domain.Company, error) {
	var companies []domain.Company
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&companies).Error
	if err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *repository) Create(ctx context.Context, company domain.Company) (*domain.Company, error) {
	if err := r.db.WithContext(ctx).Create(&company).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrConflict
		}
		return nil, err
	}
	return &company, nil
}

// Update replaces the full row keyed by id. Save writes zero values too,
// matching the admin surface's full-replacement semantics.
func (r *repository) Update(ctx context.Context, company domain.Company) (*domain.Company, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Company{}).
		Where("id = ?", company.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(&company)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}

	var updated domain.Company
	if err := r.db.WithContext(ctx).Where("id = ?", company.ID).First(&updated).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

// SoftDelete marks the row inactive; it stays in storage for history.
func (r *repository) SoftDelete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Company{}).
		Where("id = ? AND is_active = ?", strings.ToLower(strings.TrimSpace(id)), true).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
