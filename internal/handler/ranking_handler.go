package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/padelcore/padelcore-api/internal/models"
	appErrors "github.com/padelcore/padelcore-api/pkg/errors"
	"github.com/padelcore/padelcore-api/pkg/response"
)

type rankingService interface {
	List(ctx context.Context, date time.Time) ([]models.RankingRecord, error)
	EnqueueSnapshot(ctx context.Context) error
}

// RankingHandler exposes the daily ranking feed.
type RankingHandler struct {
	service rankingService
}

// NewRankingHandler constructs the handler.
func NewRankingHandler(service rankingService) *RankingHandler {
	return &RankingHandler{service: service}
}

// List godoc
// @Summary List the ranking snapshot
// @Tags Ranking
// @Produce json
// @Param fecha query string false "Snapshot date YYYY-MM-DD, defaults to latest"
// @Success 200 {object} response.Envelope
// @Router /ranking [get]
func (h *RankingHandler) List(c *gin.Context) {
	var date time.Time
	if raw := c.Query("fecha"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "fecha must be YYYY-MM-DD"))
			return
		}
		date = parsed
	}
	records, err := h.service.List(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// Generate godoc
// @Summary Schedule ranking snapshot generation
// @Tags Ranking
// @Produce json
// @Success 202 {object} response.Envelope
// @Router /ranking/generate [post]
func (h *RankingHandler) Generate(c *gin.Context) {
	if err := h.service.EnqueueSnapshot(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, gin.H{"status": "scheduled"}, nil)
}
