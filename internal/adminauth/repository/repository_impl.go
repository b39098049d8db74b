package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/stepsciences/scanportal/internal/adminauth/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

// NewRepository builds the gorm-backed admin store.
func NewRepository(db *gorm.DB) domain.Store {
	return &repo{db: db}
}

func (r *repo) FindUserByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	var user domain.AdminUser
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *repo) FindUserByID(ctx context.Context, id int64) (*domain.AdminUser, error) {
	var user domain.AdminUser
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *repo) CreateUser(ctx context.Context, user *domain.AdminUser) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *repo) CreateSession(ctx context.Context, session *domain.AdminSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *repo) FindSessionByTokenHash(ctx context.Context, tokenHash string) (*domain.AdminSession, error) {
	var session domain.AdminSession
	err := r.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *repo) DeleteSession(ctx context.Context, tokenHash string) error {
	return r.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		Delete(&domain.AdminSession{}).Error
}

func (r *repo) DeleteExpiredSessions(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("expires_at <= ?", time.Now().UTC()).
		Delete(&domain.AdminSession{}).Error
}
