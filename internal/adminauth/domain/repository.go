package domain

import "context"

// Store persists admin users and sessions.
type Store interface {
	FindUserByEmail(ctx context.Context, email string) (*AdminUser, error)
	FindUserByID(ctx context.Context, id int64) (*AdminUser, error)
	CreateUser(ctx context.Context, user *AdminUser) error

	CreateSession(ctx context.Context, session *AdminSession) error
	FindSessionByTokenHash(ctx context.Context, tokenHash string) (*AdminSession, error)
	DeleteSession(ctx context.Context, tokenHash string) error
	DeleteExpiredSessions(ctx context.Context) error
}
