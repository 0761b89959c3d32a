package models

import (
	"encoding/json"
	"time"
)

// ApprovalKind identifies what a staged request materializes into.
type ApprovalKind string

const (
	KindTournament ApprovalKind = "tournament"
	KindMatch      ApprovalKind = "match"
)

// ValidKind reports whether the kind has a registered materializer. New kinds
// must also be handled in the approval service's materialize switch.
func ValidKind(k ApprovalKind) bool {
	switch k {
	case KindTournament, KindMatch:
		return true
	}
	return false
}

// ApprovalStatus captures workflow states for staged requests.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

// Approval stages a tournament or match creation request awaiting an
// operator decision. Data holds the opaque payload needed to build the real
// entity once approved; it is validated lazily, at decision time.
type Approval struct {
	ID        int64           `db:"id" json:"id"`
	Kind      ApprovalKind    `db:"tipo" json:"tipo"`
	Status    ApprovalStatus  `db:"status" json:"status"`
	Data      json.RawMessage `db:"data" json:"data"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// ApprovalFilter constrains approval listings.
type ApprovalFilter struct {
	Status []ApprovalStatus
	Kind   ApprovalKind
	Limit  int
	Offset int
}
