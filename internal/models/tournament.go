package models

import (
	"time"

	"github.com/lib/pq"
)

// Torneo category tags carrying special rules.
const (
	TagAmateur     = "Amateur"
	TagProfesional = "Profesional"

	MaxTournamentTags = 3
)

// Tournament represents a torneo row. Dates are calendar days (no time
// component); tags hold up to three category labels.
type Tournament struct {
	ID         int64          `db:"id" json:"id"`
	Name       string         `db:"nombre" json:"nombre"`
	Venue      string         `db:"sede" json:"sede"`
	StartDate  time.Time      `db:"fecha_inicio" json:"fecha_inicio"`
	EndDate    time.Time      `db:"fecha_fin" json:"fecha_fin"`
	PrizeMoney float64        `db:"premio_dinero" json:"premio_dinero"`
	Points     int            `db:"puntos" json:"puntos"`
	ImageURL   string         `db:"imagen_url" json:"imagen_url"`
	Tags       pq.StringArray `db:"tags" json:"tags"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

// TournamentFilter constrains tournament listings.
type TournamentFilter struct {
	Venue    string
	Tag      string
	FromDate *time.Time
	Page     int
	PageSize int
}
