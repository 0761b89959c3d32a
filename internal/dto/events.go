package dto

import (
	"time"

	"github.com/padelcore/padelcore-api/internal/models"
)

// WorkflowEvent is broadcast on the workflow group whenever a staged request
// is created or decided.
type WorkflowEvent struct {
	ID     int64                 `json:"id"`
	Kind   models.ApprovalKind   `json:"tipo"`
	Status models.ApprovalStatus `json:"status"`
	Detail string                `json:"detalle"`
}

// ActivityEvent is broadcast on the activity group whenever the feed changes.
type ActivityEvent struct {
	ID          int64                 `json:"id"`
	Date        time.Time             `json:"fecha"`
	Kind        models.ActivityKind   `json:"tipo"`
	Description string                `json:"descripcion"`
	Status      models.ApprovalStatus `json:"estado"`
}

// UserEvent is broadcast on a player's personal group.
type UserEvent struct {
	UserID  int64  `json:"usuario_id"`
	Message string `json:"mensaje"`
}
