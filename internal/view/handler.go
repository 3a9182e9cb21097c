package view

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Descriptor tells a masterplan client where its data lives and whether to
// enable drag and save. The admin flag is trusted as given.
type Descriptor struct {
	Admin    bool   `json:"admin"`
	PlotsURL string `json:"plotsUrl"`
	ImageURL string `json:"imageUrl"`
	SyncURL  string `json:"syncUrl"`
}

type Handler struct {
	PlotsURL string
	ImageURL string
	SyncURL  string
}

func NewHandler(plotsURL, imageURL, syncURL string) *Handler {
	return &Handler{PlotsURL: plotsURL, ImageURL: imageURL, SyncURL: syncURL}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.masterplan)
}

func (h *Handler) masterplan(c *gin.Context) {
	c.JSON(http.StatusOK, Descriptor{
		Admin:    c.Query("admin") == "1",
		PlotsURL: h.PlotsURL,
		ImageURL: h.ImageURL,
		SyncURL:  h.SyncURL,
	})
}
