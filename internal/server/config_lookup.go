package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stepsciences/scanportal/internal/resolver"
	"github.com/stepsciences/scanportal/internal/validate"
)

// LookupConfig resolves the tenant config for a hostname. The response is
// always 200: the resolver degrades to the bundled default rather than
// failing the portal render.
func (s *Server) LookupConfig(c *gin.Context) {
	host := strings.ToLower(strings.TrimSpace(c.Param("domain")))

	if storageShapeRequested(c) {
		row, err := s.companyStore.FindByDomain(c.Request.Context(), host)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, row)
		return
	}

	if status := validate.SanitizeInput(c.Query("status")); status != "" && !validate.IsValidStatus(status) {
		AbortWithError(c, invalidRequestError())
		return
	}

	resolution := s.resolver.Resolve(c.Request.Context(), resolver.Query{
		CompanyID: c.Query("company"),
		Host:      host,
	})
	c.Set("company_id", resolution.Config.ID)

	c.Header("Cache-Control", "public, max-age=300")
	c.JSON(http.StatusOK, resolution)
}
