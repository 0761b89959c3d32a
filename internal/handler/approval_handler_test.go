package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/padelcore/padelcore-api/internal/dto"
	"github.com/padelcore/padelcore-api/internal/models"
	appErrors "github.com/padelcore/padelcore-api/pkg/errors"
)

type approvalServiceMock struct {
	submitResp  *models.Approval
	submitErr   error
	approveResp *dto.DecisionResult
	approveErr  error
	rejectErr   error
	listResp    []models.Approval
	getResp     *models.Approval
	getErr      error
}

func (m *approvalServiceMock) Submit(context.Context, dto.CreateApprovalRequest) (*models.Approval, error) {
	return m.submitResp, m.submitErr
}

func (m *approvalServiceMock) Approve(context.Context, int64) (*dto.DecisionResult, error) {
	return m.approveResp, m.approveErr
}

func (m *approvalServiceMock) Reject(context.Context, int64) error {
	return m.rejectErr
}

func (m *approvalServiceMock) List(context.Context, models.ApprovalFilter) ([]models.Approval, error) {
	return m.listResp, nil
}

func (m *approvalServiceMock) Get(context.Context, int64) (*models.Approval, error) {
	return m.getResp, m.getErr
}

func approvalTestContext(t *testing.T, method, target string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestApprovalHandlerCreate(t *testing.T) {
	mock := &approvalServiceMock{submitResp: &models.Approval{ID: 7, Kind: models.KindTournament, Status: models.StatusPending}}
	handler := NewApprovalHandler(mock)

	c, w := approvalTestContext(t, http.MethodPost, "/aprobaciones", dto.CreateApprovalRequest{
		Kind: models.KindTournament,
		Data: json.RawMessage(`{"nombre":"Open"}`),
	})
	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	var got models.Approval
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, int64(7), got.ID)
	require.Equal(t, models.StatusPending, got.Status)
}

func TestApprovalHandlerApproveTournamentContract(t *testing.T) {
	mock := &approvalServiceMock{approveResp: &dto.DecisionResult{Kind: models.KindTournament, EntityID: 11}}
	handler := NewApprovalHandler(mock)

	c, w := approvalTestContext(t, http.MethodPatch, "/aprobaciones/7/approve", nil)
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	handler.Approve(c)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "Torneo creado con éxito", body["detail"])
	require.Equal(t, float64(11), body["torneo_id"])
}

func TestApprovalHandlerApproveMatchContract(t *testing.T) {
	mock := &approvalServiceMock{approveResp: &dto.DecisionResult{Kind: models.KindMatch, EntityID: 3}}
	handler := NewApprovalHandler(mock)

	c, w := approvalTestContext(t, http.MethodPatch, "/aprobaciones/9/approve", nil)
	c.Params = gin.Params{{Key: "id", Value: "9"}}
	handler.Approve(c)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "Partido creado con éxito", body["detail"])
	require.Equal(t, float64(3), body["partido_id"])
}

func TestApprovalHandlerApproveAlreadyProcessed(t *testing.T) {
	mock := &approvalServiceMock{approveErr: appErrors.ErrAlreadyProcessed}
	handler := NewApprovalHandler(mock)

	c, w := approvalTestContext(t, http.MethodPatch, "/aprobaciones/7/approve", nil)
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	handler.Approve(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "already processed", body["detail"])
}

func TestApprovalHandlerReject(t *testing.T) {
	handler := NewApprovalHandler(&approvalServiceMock{})

	c, w := approvalTestContext(t, http.MethodPatch, "/aprobaciones/7/reject", nil)
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	handler.Reject(c)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "Se ha rechazado la aprobación.", body["detail"])
}

func TestApprovalHandlerInvalidID(t *testing.T) {
	handler := NewApprovalHandler(&approvalServiceMock{})

	c, w := approvalTestContext(t, http.MethodPatch, "/aprobaciones/abc/approve", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	handler.Approve(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
