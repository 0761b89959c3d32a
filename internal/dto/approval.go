package dto

import (
	"encoding/json"

	"github.com/padelcore/padelcore-api/internal/models"
)

// CreateApprovalRequest stages a tournament or match creation request.
type CreateApprovalRequest struct {
	Kind models.ApprovalKind `json:"tipo"`
	Data json.RawMessage     `json:"data"`
}

// TournamentPayload is the staged document an approved tournament request is
// materialized from. Only the first four fields are required; the rest
// default to zero values.
type TournamentPayload struct {
	Name       string   `json:"nombre"`
	Venue      string   `json:"sede"`
	StartDate  string   `json:"fecha_inicio"`
	EndDate    string   `json:"fecha_fin"`
	PrizeMoney float64  `json:"premio_dinero"`
	Points     int      `json:"puntos"`
	ImageURL   string   `json:"imagen_url"`
	Tags       []string `json:"tags"`
}

// MatchPayload is the staged document an approved match request is
// materialized from. Each team list must resolve to exactly two users.
type MatchPayload struct {
	TournamentID int64              `json:"torneo"`
	Date         string             `json:"fecha"`
	Time         string             `json:"hora"`
	Result       models.MatchResult `json:"resultado"`
	Team1IDs     []int64            `json:"equipo_1_ids"`
	Team2IDs     []int64            `json:"equipo_2_ids"`
}

// DecisionResult reports what an approval materialized.
type DecisionResult struct {
	Kind     models.ApprovalKind
	EntityID int64
}
