package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	adminauthdomain "github.com/stepsciences/scanportal/internal/adminauth/domain"
)

const (
	authCookieName      = "scanportal_admin"
	contextAdminUserKey = "admin_user"
)

// AuthRequired accepts either an Authorization bearer token or the session
// cookie set at login.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			cookie, err := c.Cookie(authCookieName)
			if err == nil {
				token = strings.TrimSpace(cookie)
			}
		}
		if token == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		user, err := s.adminAuthSvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextAdminUserKey, user)
		c.Next()
	}
}

// RequireAction enforces the casbin policy for the authenticated admin.
func (s *Server) RequireAction(object, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := s.adminUserFromContext(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		if err := s.authzSvc.Authorize(c.Request.Context(), user.ID.String(), user.Role, object, action); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

// ConfigLookupRateLimit throttles the public config endpoint per client IP.
// Redis being down fails open: resolution availability beats strictness.
func (s *Server) ConfigLookupRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Enabled() {
			c.Next()
			return
		}

		result, err := s.limiter.AllowIP(c.Request.Context(), c.ClientIP())
		if err != nil {
			s.log.Warn("rate limiter unavailable, failing open")
			c.Next()
			return
		}

		if !result.Allowed {
			s.obsMetrics.RecordRateLimitDenied(c.Request.Context(), "", c.FullPath(), "bucket_empty")
			if result.RetryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())+1))
			}
			AbortWithError(c, ErrTooManyRequests)
			return
		}

		s.obsMetrics.RecordRateLimitAllowed(c.Request.Context(), "", c.FullPath())
		c.Next()
	}
}

func (s *Server) adminUserFromContext(c *gin.Context) (*adminauthdomain.AdminUser, bool) {
	value, ok := c.Get(contextAdminUserKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*adminauthdomain.AdminUser)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
