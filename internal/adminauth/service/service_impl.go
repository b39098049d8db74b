package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stepsciences/scanportal/internal/adminauth/domain"
	"github.com/stepsciences/scanportal/internal/adminauth/password"
	"github.com/stepsciences/scanportal/internal/clock"
	"github.com/stepsciences/scanportal/internal/config"
	"go.uber.org/zap"
)

const tokenBytes = 32

type service struct {
	store      domain.Store
	clk        clock.Clock
	genID      *snowflake.Node
	log        *zap.Logger
	sessionTTL time.Duration
}

// NewService builds the admin authentication service.
func NewService(store domain.Store, clk clock.Clock, genID *snowflake.Node, log *zap.Logger, cfg config.Config) domain.Service {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &service{
		store:      store,
		clk:        clk,
		genID:      genID,
		log:        log,
		sessionTTL: ttl,
	}
}

func (s *service) Login(ctx context.Context, email, pass string) (domain.LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || pass == "" {
		return domain.LoginResult{}, domain.ErrInvalidCredentials
	}

	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// burn a verify round so missing users cost the same as bad passwords
			password.Verify(pass, "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")
			return domain.LoginResult{}, domain.ErrInvalidCredentials
		}
		return domain.LoginResult{}, err
	}

	if !password.Verify(pass, user.PasswordHash) {
		return domain.LoginResult{}, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return domain.LoginResult{}, domain.ErrUserDisabled
	}

	token, err := newToken()
	if err != nil {
		return domain.LoginResult{}, err
	}

	now := s.clk.Now()
	session := &domain.AdminSession{
		ID:          s.genID.Generate(),
		TokenHash:   hashToken(token),
		AdminUserID: user.ID,
		ExpiresAt:   now.Add(s.sessionTTL),
		CreatedAt:   now,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return domain.LoginResult{}, err
	}

	s.log.Info("admin login",
		zap.String("email", user.Email),
		zap.String("role", user.Role),
	)

	return domain.LoginResult{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		User:      *user,
	}, nil
}

func (s *service) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return s.store.DeleteSession(ctx, hashToken(token))
}

func (s *service) Authenticate(ctx context.Context, token string) (*domain.AdminUser, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrSessionNotFound
	}

	session, err := s.store.FindSessionByTokenHash(ctx, hashToken(token))
	if err != nil {
		return nil, err
	}

	if !s.clk.Now().Before(session.ExpiresAt) {
		_ = s.store.DeleteSession(ctx, session.TokenHash)
		return nil, domain.ErrSessionExpired
	}

	user, err := s.store.FindUserByID(ctx, int64(session.AdminUserID))
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrUserDisabled
	}
	return user, nil
}

func newToken() (string, error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
