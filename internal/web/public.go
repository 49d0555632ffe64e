// Package web serves the read-only front endpoints over the store plus the
// admin HTTP surface. It renders no templates; every endpoint speaks JSON
// except the QR label image and the short-link redirect.
package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zh1gn/FoundItBot/internal/config"
	"github.com/zh1gn/FoundItBot/internal/qr"
	"github.com/zh1gn/FoundItBot/internal/settings"
	"github.com/zh1gn/FoundItBot/internal/store"
)

// PublicHandler serves the unauthenticated lookup endpoints.
type PublicHandler struct {
	store    *store.Store
	cfg      config.Config
	settings *settings.Service
}

// NewPublicHandler constructs a PublicHandler.
func NewPublicHandler(st *store.Store, cfg config.Config, settingsService *settings.Service) *PublicHandler {
	return &PublicHandler{store: st, cfg: cfg, settings: settingsService}
}

// Found returns the landing payload for a scanned label: the owner-facing
// facts plus the deep link a finder should open to report the item.
func (h *PublicHandler) Found(c *gin.Context) {
	code := qr.NormalizeCode(c.Param("code"))
	item, errItem := h.store.ItemByCode(c.Request.Context(), code)
	if errItem != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if item == nil || item.Expired(time.Now().UTC()) {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found", "code": code})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"site":        h.settings.SiteName(c.Request.Context()),
		"code":        item.Code,
		"times_found": item.TimesFound,
		"added_at":    item.AddedAt,
		"report_link": qr.DeepLink(h.cfg.LinkDomain, h.cfg.BotUsername, item.Code),
	})
}

// Item returns the raw item record for an active code.
func (h *PublicHandler) Item(c *gin.Context) {
	code := qr.NormalizeCode(c.Param("code"))
	item, errItem := h.store.ItemByCode(c.Request.Context(), code)
	if errItem != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if item == nil || item.Expired(time.Now().UTC()) {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found", "code": code})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":        item.Code,
		"times_found": item.TimesFound,
		"active":      item.Active,
		"added_at":    item.AddedAt,
		"expires_at":  item.ExpiresAt,
	})
}

// Stats returns the on-demand service aggregates.
func (h *PublicHandler) Stats(c *gin.Context) {
	stats, errStats := h.store.Statistics(c.Request.Context())
	if errStats != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats failed"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Redirect sends a short link to the landing endpoint for the same code.
func (h *PublicHandler) Redirect(c *gin.Context) {
	code := qr.NormalizeCode(c.Param("code"))
	c.Redirect(http.StatusFound, fmt.Sprintf("/found/%s", code))
}

// Image renders the printable QR label for an existing active item. Unknown
// codes return 404 so labels cannot be minted for unregistered codes.
func (h *PublicHandler) Image(c *gin.Context) {
	code := qr.NormalizeCode(c.Param("code"))
	item, errItem := h.store.ItemByCode(c.Request.Context(), code)
	if errItem != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if item == nil || item.Expired(time.Now().UTC()) {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found", "code": code})
		return
	}

	link := qr.DeepLink(h.cfg.LinkDomain, h.cfg.BotUsername, item.Code)
	png, errRender := qr.RenderPNG(link, qr.DefaultImageSize)
	if errRender != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
