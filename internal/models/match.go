package models

import "time"

// MatchResult enumerates the outcome of a partido.
type MatchResult string

const (
	ResultUndecided MatchResult = ""
	ResultTeam1     MatchResult = "E1"
	ResultTeam2     MatchResult = "E2"
)

// TeamSize is the fixed padel roster size per side.
const TeamSize = 2

// Match represents a partido row. Each team holds exactly two players,
// stored through the partido_jugadores join table.
type Match struct {
	ID           int64       `db:"id" json:"id"`
	TournamentID int64       `db:"torneo_id" json:"torneo"`
	Date         time.Time   `db:"fecha" json:"fecha"`
	Time         string      `db:"hora" json:"hora"`
	Result       MatchResult `db:"resultado" json:"resultado"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`

	Team1 []MatchPlayer `db:"-" json:"equipo_1"`
	Team2 []MatchPlayer `db:"-" json:"equipo_2"`
}

// MatchPlayer is the trimmed user view embedded in match responses.
type MatchPlayer struct {
	ID       int64  `db:"id" json:"id"`
	FullName string `db:"nombre_completo" json:"nombre_completo"`
}

// ValidResult reports whether the value is a known match outcome.
func ValidResult(r MatchResult) bool {
	switch r {
	case ResultUndecided, ResultTeam1, ResultTeam2:
		return true
	}
	return false
}

// MatchFilter constrains match listings.
type MatchFilter struct {
	TournamentID int64
	FromDate     *time.Time
	Page         int
	PageSize     int
}
