package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/padelcore/padelcore-api/internal/dto"
	"github.com/padelcore/padelcore-api/internal/models"
	appErrors "github.com/padelcore/padelcore-api/pkg/errors"
	"github.com/padelcore/padelcore-api/pkg/response"
)

type approvalService interface {
	Submit(ctx context.Context, req dto.CreateApprovalRequest) (*models.Approval, error)
	Approve(ctx context.Context, id int64) (*dto.DecisionResult, error)
	Reject(ctx context.Context, id int64) error
	List(ctx context.Context, filter models.ApprovalFilter) ([]models.Approval, error)
	Get(ctx context.Context, id int64) (*models.Approval, error)
}

// ApprovalHandler exposes REST endpoints for the approval workflow. The
// decision endpoints keep the bare {"detail": ...} contract the admin
// frontend consumes.
type ApprovalHandler struct {
	service approvalService
}

// NewApprovalHandler constructs the handler.
func NewApprovalHandler(service approvalService) *ApprovalHandler {
	return &ApprovalHandler{service: service}
}

// detailError renders errors in the {"detail": ...} shape used across the
// approval endpoints.
func detailError(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	response.Detail(c, appErr.Status, appErr.Message, nil)
}

// Create godoc
// @Summary Submit a tournament or match request
// @Tags Aprobaciones
// @Accept json
// @Produce json
// @Param payload body dto.CreateApprovalRequest true "Approval payload"
// @Success 201 {object} models.Approval
// @Router /aprobaciones [post]
func (h *ApprovalHandler) Create(c *gin.Context) {
	var req dto.CreateApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Detail(c, http.StatusBadRequest, "invalid approval payload", nil)
		return
	}
	approval, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		detailError(c, err)
		return
	}
	c.JSON(http.StatusCreated, approval)
}

// List godoc
// @Summary List approval requests
// @Tags Aprobaciones
// @Produce json
// @Param status query string false "Comma separated statuses"
// @Param tipo query string false "Request kind"
// @Success 200 {array} models.Approval
// @Router /aprobaciones [get]
func (h *ApprovalHandler) List(c *gin.Context) {
	filter := models.ApprovalFilter{
		Limit:  intQuery(c, "limit", 50),
		Offset: intQuery(c, "offset", 0),
	}
	if rawKind := c.Query("tipo"); rawKind != "" {
		filter.Kind = models.ApprovalKind(strings.ToLower(strings.TrimSpace(rawKind)))
	}
	if rawStatus := c.Query("status"); rawStatus != "" {
		for _, part := range strings.Split(rawStatus, ",") {
			part = strings.ToLower(strings.TrimSpace(part))
			if part == "" {
				continue
			}
			filter.Status = append(filter.Status, models.ApprovalStatus(part))
		}
	}
	approvals, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		detailError(c, err)
		return
	}
	c.JSON(http.StatusOK, approvals)
}

// Get godoc
// @Summary Get approval detail
// @Tags Aprobaciones
// @Produce json
// @Param id path int true "Approval ID"
// @Success 200 {object} models.Approval
// @Router /aprobaciones/{id} [get]
func (h *ApprovalHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		response.Detail(c, http.StatusBadRequest, "invalid approval id", nil)
		return
	}
	approval, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		detailError(c, err)
		return
	}
	c.JSON(http.StatusOK, approval)
}

// Approve godoc
// @Summary Approve a pending request
// @Tags Aprobaciones
// @Produce json
// @Param id path int true "Approval ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /aprobaciones/{id}/approve [patch]
func (h *ApprovalHandler) Approve(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		response.Detail(c, http.StatusBadRequest, "invalid approval id", nil)
		return
	}
	result, err := h.service.Approve(c.Request.Context(), id)
	if err != nil {
		detailError(c, err)
		return
	}
	switch result.Kind {
	case models.KindTournament:
		response.Detail(c, http.StatusOK, "Torneo creado con éxito", map[string]interface{}{"torneo_id": result.EntityID})
	case models.KindMatch:
		response.Detail(c, http.StatusOK, "Partido creado con éxito", map[string]interface{}{"partido_id": result.EntityID})
	default:
		response.Detail(c, http.StatusOK, "Se aprobó la solicitud", nil)
	}
}

// Reject godoc
// @Summary Reject a pending request
// @Tags Aprobaciones
// @Produce json
// @Param id path int true "Approval ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /aprobaciones/{id}/reject [patch]
func (h *ApprovalHandler) Reject(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		response.Detail(c, http.StatusBadRequest, "invalid approval id", nil)
		return
	}
	if err := h.service.Reject(c.Request.Context(), id); err != nil {
		detailError(c, err)
		return
	}
	response.Detail(c, http.StatusOK, "Se ha rechazado la aprobación.", nil)
}
