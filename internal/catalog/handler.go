package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const persistDetail = "This deployment cannot write to its catalog storage at runtime. " +
	"Configure a durable backing store (MASTERPLAN_STORE=sqlite) to save plot positions."

type Handler struct {
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Service: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.get)        // GET /api/plots
	rg.PUT("", h.put)        // PUT /api/plots
	rg.GET("/:id", h.getOne) // GET /api/plots/:id
}

func (h *Handler) get(c *gin.Context) {
	cat, err := h.Service.Load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plots"})
		return
	}
	c.Header("ETag", `"`+Revision(cat)+`"`)
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, cat)
}

func (h *Handler) getOne(c *gin.Context) {
	cat, err := h.Service.Load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plots"})
		return
	}
	i, ok := cat.Find(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plot not found"})
		return
	}
	c.JSON(http.StatusOK, cat.Plots[i])
}

// put accepts either {plots:[...]} for a bulk edit or {id,x,y} for a single move.
func (h *Handler) put(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read body"})
		return
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil || body == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	base := ifMatch(c)

	if plotsRaw, ok := body["plots"]; ok {
		var edits []json.RawMessage
		if err := json.Unmarshal(plotsRaw, &edits); err == nil && edits != nil {
			cat, err := h.Service.ApplyBulkEdit(c.Request.Context(), edits, base)
			if err != nil {
				writeError(c, err)
				return
			}
			c.Header("ETag", `"`+Revision(cat)+`"`)
			c.JSON(http.StatusOK, cat)
			return
		}
	}

	if idRaw, ok := body["id"]; ok {
		id, ok := stringValue(idRaw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
			return
		}
		x, okX := finiteNumber(body["x"])
		y, okY := finiteNumber(body["y"])
		if !okX || !okY {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid x/y"})
			return
		}

		cat, err := h.Service.ApplySingleEdit(c.Request.Context(), id, x, y, base)
		if err != nil {
			writeError(c, err)
			return
		}
		c.Header("ETag", `"`+Revision(cat)+`"`)
		c.JSON(http.StatusOK, cat)
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported payload"})
}

func ifMatch(c *gin.Context) string {
	v := strings.TrimSpace(c.GetHeader("If-Match"))
	if v == "*" {
		return ""
	}
	return strings.Trim(strings.TrimPrefix(v, "W/"), `"`)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Plot not found"})
	case errors.Is(err, ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload", "detail": err.Error()})
	case errors.Is(err, ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Catalog changed since it was loaded"})
	case errors.Is(err, ErrPersistence):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  "Failed to persist plot positions",
			"detail": persistDetail,
		})
	case errors.Is(err, ErrStorageUnavailable):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plots"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save plots"})
	}
}
