package models

import "time"

// RankingRecord snapshots a user's rating and position for a given day.
type RankingRecord struct {
	ID             string    `db:"id" json:"id"`
	UserID         int64     `db:"usuario_id" json:"usuario_id"`
	Date           time.Time `db:"fecha" json:"fecha"`
	RatingSnapshot float64   `db:"rating_snapshot" json:"rating_snapshot"`
	Position       int       `db:"posicion" json:"posicion"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
