package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/padelcore/padelcore-api/internal/dto"
	"github.com/padelcore/padelcore-api/internal/models"
	appErrors "github.com/padelcore/padelcore-api/pkg/errors"
	"github.com/padelcore/padelcore-api/pkg/response"
)

type tournamentService interface {
	Create(ctx context.Context, req dto.TournamentPayload) (*models.Tournament, error)
	Get(ctx context.Context, id int64) (*models.Tournament, error)
	List(ctx context.Context, filter models.TournamentFilter) ([]models.Tournament, int, error)
	Update(ctx context.Context, id int64, req dto.TournamentPayload) (*models.Tournament, error)
	Delete(ctx context.Context, id int64) error
}

// TournamentHandler exposes torneo CRUD endpoints.
type TournamentHandler struct {
	service tournamentService
}

// NewTournamentHandler constructs the handler.
func NewTournamentHandler(service tournamentService) *TournamentHandler {
	return &TournamentHandler{service: service}
}

// Create godoc
// @Summary Create a tournament
// @Tags Torneos
// @Accept json
// @Produce json
// @Param payload body dto.TournamentPayload true "Tournament payload"
// @Success 201 {object} response.Envelope
// @Router /torneos [post]
func (h *TournamentHandler) Create(c *gin.Context) {
	var req dto.TournamentPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid tournament payload"))
		return
	}
	tournament, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, tournament)
}

// List godoc
// @Summary List tournaments
// @Tags Torneos
// @Produce json
// @Param sede query string false "Venue filter"
// @Param tag query string false "Tag filter"
// @Param desde query string false "From date YYYY-MM-DD"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /torneos [get]
func (h *TournamentHandler) List(c *gin.Context) {
	filter := models.TournamentFilter{
		Venue:    strings.TrimSpace(c.Query("sede")),
		Tag:      strings.TrimSpace(c.Query("tag")),
		Page:     intQuery(c, "page", 1),
		PageSize: intQuery(c, "page_size", 20),
	}
	if raw := c.Query("desde"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "desde must be YYYY-MM-DD"))
			return
		}
		filter.FromDate = &from
	}
	tournaments, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tournaments, &models.Pagination{
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: total,
	})
}

// Get godoc
// @Summary Get tournament detail
// @Tags Torneos
// @Produce json
// @Param id path int true "Tournament ID"
// @Success 200 {object} response.Envelope
// @Router /torneos/{id} [get]
func (h *TournamentHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid tournament id"))
		return
	}
	tournament, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tournament, nil)
}

// Update godoc
// @Summary Update a tournament
// @Tags Torneos
// @Accept json
// @Produce json
// @Param id path int true "Tournament ID"
// @Param payload body dto.TournamentPayload true "Tournament payload"
// @Success 200 {object} response.Envelope
// @Router /torneos/{id} [put]
func (h *TournamentHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid tournament id"))
		return
	}
	var req dto.TournamentPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid tournament payload"))
		return
	}
	tournament, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tournament, nil)
}

// Delete godoc
// @Summary Delete a tournament
// @Tags Torneos
// @Param id path int true "Tournament ID"
// @Success 204
// @Router /torneos/{id} [delete]
func (h *TournamentHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid tournament id"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
