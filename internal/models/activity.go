package models

import "time"

// ActivityKind categorizes feed entries.
type ActivityKind string

const (
	ActivityUser       ActivityKind = "usuario"
	ActivityMatch      ActivityKind = "partido"
	ActivityTournament ActivityKind = "torneo"
)

// Activity is a human-readable feed entry mirroring workflow transitions and
// direct registrations. Entries tied to an approval carry its id in
// ApprovalID and are rewritten in place when the request is decided; entries
// with an empty Status are informational only.
type Activity struct {
	ID          int64          `db:"id" json:"id"`
	Date        time.Time      `db:"fecha" json:"fecha"`
	Kind        ActivityKind   `db:"tipo" json:"tipo"`
	Description string         `db:"descripcion" json:"descripcion"`
	Status      ApprovalStatus `db:"estado" json:"estado"`
	ApprovalID  *int64         `db:"aprobacion_id" json:"aprobacion_id,omitempty"`
}
