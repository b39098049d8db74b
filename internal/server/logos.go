package server

import (
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

const maxLogoSize = 2 << 20 // 2 MiB

var allowedLogoExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".svg":  {},
	".webp": {},
}

// ListLogos returns the web paths of all uploaded logo assets.
func (s *Server) ListLogos(c *gin.Context) {
	entries, err := os.ReadDir(s.cfg.LogoDir)
	if err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusOK, gin.H{"data": []string{}})
			return
		}
		AbortWithError(c, err)
		return
	}

	logos := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := allowedLogoExtensions[ext]; !ok {
			continue
		}
		logos = append(logos, "/logos/"+entry.Name())
	}
	sort.Strings(logos)

	c.JSON(http.StatusOK, gin.H{"data": logos})
}

// UploadLogo stores a logo asset under a fresh ULID filename. The original
// filename is never trusted for anything but its extension.
func (s *Server) UploadLogo(c *gin.Context) {
	file, err := c.FormFile("logo")
	if err != nil {
		AbortWithError(c, newValidationError("logo", "missing_file", "logo file is required"))
		return
	}

	if file.Size > maxLogoSize {
		AbortWithError(c, newValidationError("logo", "file_too_large", "logo must be 2MB or smaller"))
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if _, ok := allowedLogoExtensions[ext]; !ok {
		AbortWithError(c, newValidationError("logo", "unsupported_type", "logo must be png, jpg, svg or webp"))
		return
	}

	if err := os.MkdirAll(s.cfg.LogoDir, 0o755); err != nil {
		AbortWithError(c, err)
		return
	}

	name := strings.ToLower(ulid.Make().String()) + ext
	dest := filepath.Join(s.cfg.LogoDir, name)
	if err := c.SaveUploadedFile(file, dest); err != nil {
		AbortWithError(c, err)
		return
	}

	s.log.Info("logo uploaded",
		zap.String("filename", name),
		zap.Int64("size_bytes", file.Size),
	)

	c.JSON(http.StatusCreated, gin.H{"path": "/logos/" + name})
}
