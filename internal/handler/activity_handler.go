package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/padelcore/padelcore-api/internal/models"
	"github.com/padelcore/padelcore-api/pkg/response"
)

type activityService interface {
	List(ctx context.Context, limit, offset int) ([]models.Activity, error)
	Sweep(ctx context.Context) (int64, error)
}

// ActivityHandler exposes the recent-activity feed.
type ActivityHandler struct {
	service  activityService
	pageSize int
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(service activityService, pageSize int) *ActivityHandler {
	if pageSize <= 0 {
		pageSize = 50
	}
	return &ActivityHandler{service: service, pageSize: pageSize}
}

// List godoc
// @Summary List recent activity
// @Tags Actividad
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Activity
// @Router /actividad [get]
func (h *ActivityHandler) List(c *gin.Context) {
	limit := intQuery(c, "limit", h.pageSize)
	offset := intQuery(c, "offset", 0)
	entries, err := h.service.List(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	if entries == nil {
		entries = []models.Activity{}
	}
	c.JSON(http.StatusOK, entries)
}

// Sweep godoc
// @Summary Remove activity older than the retention window
// @Tags Actividad
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /actividad/sweep [post]
func (h *ActivityHandler) Sweep(c *gin.Context) {
	removed, err := h.service.Sweep(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"removed": removed}, nil)
}
