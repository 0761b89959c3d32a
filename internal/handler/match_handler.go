package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/padelcore/padelcore-api/internal/dto"
	"github.com/padelcore/padelcore-api/internal/models"
	appErrors "github.com/padelcore/padelcore-api/pkg/errors"
	"github.com/padelcore/padelcore-api/pkg/response"
)

type matchService interface {
	Create(ctx context.Context, req dto.MatchPayload) (*models.Match, error)
	Get(ctx context.Context, id int64) (*models.Match, error)
	List(ctx context.Context, filter models.MatchFilter) ([]models.Match, error)
	SetResult(ctx context.Context, id int64, result models.MatchResult) (*models.Match, error)
	Delete(ctx context.Context, id int64) error
}

// MatchHandler exposes partido CRUD endpoints.
type MatchHandler struct {
	service matchService
}

// NewMatchHandler constructs the handler.
func NewMatchHandler(service matchService) *MatchHandler {
	return &MatchHandler{service: service}
}

// Create godoc
// @Summary Create a match
// @Tags Partidos
// @Accept json
// @Produce json
// @Param payload body dto.MatchPayload true "Match payload"
// @Success 201 {object} response.Envelope
// @Router /partidos [post]
func (h *MatchHandler) Create(c *gin.Context) {
	var req dto.MatchPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid match payload"))
		return
	}
	match, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, match)
}

// List godoc
// @Summary List matches
// @Tags Partidos
// @Produce json
// @Param torneo query int false "Tournament filter"
// @Param desde query string false "From date YYYY-MM-DD"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /partidos [get]
func (h *MatchHandler) List(c *gin.Context) {
	filter := models.MatchFilter{
		TournamentID: int64(intQuery(c, "torneo", 0)),
		Page:         intQuery(c, "page", 1),
		PageSize:     intQuery(c, "page_size", 20),
	}
	if raw := c.Query("desde"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "desde must be YYYY-MM-DD"))
			return
		}
		filter.FromDate = &from
	}
	matches, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, matches, nil)
}

// Get godoc
// @Summary Get match detail
// @Tags Partidos
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} response.Envelope
// @Router /partidos/{id} [get]
func (h *MatchHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid match id"))
		return
	}
	match, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, match, nil)
}

// SetResult godoc
// @Summary Record a match result
// @Tags Partidos
// @Accept json
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} response.Envelope
// @Router /partidos/{id}/resultado [patch]
func (h *MatchHandler) SetResult(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid match id"))
		return
	}
	var req struct {
		Result models.MatchResult `json:"resultado"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid result payload"))
		return
	}
	match, err := h.service.SetResult(c.Request.Context(), id, req.Result)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, match, nil)
}

// Delete godoc
// @Summary Delete a match
// @Tags Partidos
// @Param id path int true "Match ID"
// @Success 204
// @Router /partidos/{id} [delete]
func (h *MatchHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid match id"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
