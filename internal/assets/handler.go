package assets

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
)

// Handler streams the fixed masterplan reference image.
type Handler struct {
	Path   string
	MaxAge time.Duration
}

func NewHandler(path string, maxAge time.Duration) *Handler {
	return &Handler{Path: path, MaxAge: maxAge}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/villaview", h.image)
	rg.HEAD("/villaview", h.image)
}

func (h *Handler) image(c *gin.Context) {
	f, err := os.Open(h.Path)
	if err != nil {
		c.String(http.StatusNotFound, "Not found")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		c.String(http.StatusNotFound, "Not found")
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(h.Path))
	if contentType == "" {
		contentType = "image/jpeg"
	}
	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", int(h.MaxAge.Seconds())))
	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
}
