package handlers

import (
	"context"
	"time"

	"autoinfo-cms/config"
	"autoinfo-cms/helper"
	"autoinfo-cms/services"

	"github.com/gin-gonic/gin"
)

const pingTimeout = 2 * time.Second

// Pinger checks that the database is reachable.
type Pinger func(ctx context.Context) error

type SystemHandler struct {
	app          config.AppInfo
	ping         Pinger
	statsService services.StatsService
	http         *helper.HTTPHelper
}

func NewSystemHandler(app config.AppInfo, ping Pinger, statsService services.StatsService, http *helper.HTTPHelper) *SystemHandler {
	return &SystemHandler{app: app, ping: ping, statsService: statsService, http: http}
}

// Root ...
// @Summary Service banner
// @Tags System
// @Produce json
// @Success 200 {object} helper.Response
// @Router / [get]
func (h *SystemHandler) Root(c *gin.Context) {
	h.http.SendSuccess(c, h.app.Name+" is running", gin.H{"version": h.app.Version})
}

// Health ...
// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} helper.Response
// @Failure 500 {object} helper.Response
// @Router /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			h.http.SendError(c, err)
			return
		}
	}

	h.http.SendSuccess(c, "OK", gin.H{"status": "healthy"})
}

// GetStats ...
// @Summary Site statistics
// @Tags Stats
// @Produce json
// @Success 200 {object} helper.Response{data=models.Stats}
// @Router /stats [get]
func (h *SystemHandler) GetStats(c *gin.Context) {
	stats, err := h.statsService.Get(c.Request.Context())
	if err != nil {
		h.http.SendError(c, err)
		return
	}

	h.http.SendSuccess(c, "", stats)
}
