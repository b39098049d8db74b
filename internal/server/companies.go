package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	companydomain "github.com/stepsciences/scanportal/internal/company/domain"
	"github.com/stepsciences/scanportal/internal/validate"
)

// storageShapeRequested reports whether the caller asked for raw storage
// rows. The failover proxy path between replicas uses this shape.
func storageShapeRequested(c *gin.Context) bool {
	return strings.EqualFold(strings.TrimSpace(c.Query("shape")), "storage")
}

func (s *Server) ListCompanies(c *gin.Context) {
	if storageShapeRequested(c) {
		rows, err := s.companyStore.FindAllActive(c.Request.Context())
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
		return
	}

	items, err := s.companySvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) GetCompanyByID(c *gin.Context) {
	id := validate.SanitizeInput(c.Param("id"))
	if !validate.IsValidCompanyID(id) {
		AbortWithError(c, companydomain.ErrInvalidID)
		return
	}
	c.Set("company_id", id)

	if storageShapeRequested(c) {
		row, err := s.companyStore.FindByID(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, row)
		return
	}

	item, err := s.companySvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) AdminListCompanies(c *gin.Context) {
	items, err := s.companySvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) AdminGetCompany(c *gin.Context) {
	id := validate.SanitizeInput(c.Param("id"))
	c.Set("company_id", id)

	item, err := s.companySvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) CreateCompany(c *gin.Context) {
	var req companydomain.TenantConfig
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	item, err := s.companySvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Set("company_id", item.ID)
	c.JSON(http.StatusCreated, item)
}

func (s *Server) UpdateCompany(c *gin.Context) {
	id := validate.SanitizeInput(c.Param("id"))
	if !validate.IsValidCompanyID(id) {
		AbortWithError(c, companydomain.ErrInvalidID)
		return
	}
	c.Set("company_id", id)

	var req companydomain.TenantConfig
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	// Serialize concurrent saves of the same company across replicas.
	// Contention returns conflict rather than silently interleaving.
	lockToken, acquired, err := s.limiter.TryLockCompany(c.Request.Context(), id)
	if err != nil {
		s.log.Warn("company write lock unavailable, proceeding without it")
	} else if !acquired {
		AbortWithError(c, ErrConflict)
		return
	} else {
		defer func() {
			_ = s.limiter.ReleaseCompany(c.Request.Context(), id, lockToken)
		}()
	}

	item, err := s.companySvc.Update(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) DeleteCompany(c *gin.Context) {
	id := validate.SanitizeInput(c.Param("id"))
	if !validate.IsValidCompanyID(id) {
		AbortWithError(c, companydomain.ErrInvalidID)
		return
	}
	c.Set("company_id", id)

	if err := s.companySvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
