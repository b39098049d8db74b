package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/stepsciences/scanportal/internal/config"
)

const (
	keyConfigLookupIP   = "config:lookup:ip:%s"
	keyCompanyWriteLock = "company:write:lock:%s"
	companyWriteLockTTL = 10 * time.Second
	defaultLookupRate   = 10.0
	defaultLookupBurst  = 30
)

// ConfigLookupLimiter throttles the public config endpoint per client IP and
// serializes admin writes per company across replicas. Nil (redis not
// configured) means everything is allowed.
type ConfigLookupLimiter struct {
	enabled bool

	bucket *TokenBucket
	locker *Locker

	rate  float64
	burst int
}

func NewConfigLookupLimiter(cfg config.Config) *ConfigLookupLimiter {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return nil
	}

	rate := cfg.RateLimitRate
	if rate <= 0 {
		rate = defaultLookupRate
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = defaultLookupBurst
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.RedisPassword),
		DB:       cfg.RedisDB,
	})

	return &ConfigLookupLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
		locker:  NewLocker(client),
		rate:    rate,
		burst:   burst,
	}
}

func (l *ConfigLookupLimiter) Enabled() bool {
	return l != nil && l.enabled
}

// AllowIP consumes one token for the client IP.
func (l *ConfigLookupLimiter) AllowIP(ctx context.Context, ip string) (*RateLimitResult, error) {
	if !l.Enabled() {
		return &RateLimitResult{Allowed: true}, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyConfigLookupIP, strings.TrimSpace(ip)), l.rate, l.burst)
}

// TryLockCompany takes a short write lock for a company so concurrent admin
// saves on different replicas do not interleave.
func (l *ConfigLookupLimiter) TryLockCompany(ctx context.Context, companyID string) (string, bool, error) {
	if !l.Enabled() {
		return "", true, nil
	}
	return l.locker.TryLock(ctx, fmt.Sprintf(keyCompanyWriteLock, strings.TrimSpace(companyID)), companyWriteLockTTL)
}

// ReleaseCompany releases a lock taken by TryLockCompany.
func (l *ConfigLookupLimiter) ReleaseCompany(ctx context.Context, companyID, token string) error {
	if !l.Enabled() {
		return nil
	}
	return l.locker.Release(ctx, fmt.Sprintf(keyCompanyWriteLock, strings.TrimSpace(companyID)), token)
}
