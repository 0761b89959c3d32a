package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/padelcore/padelcore-api/internal/models"
)

// RankingRepository persists daily ranking snapshots.
type RankingRepository struct {
	db *sqlx.DB
}

// NewRankingRepository creates the repository.
func NewRankingRepository(db *sqlx.DB) *RankingRepository {
	return &RankingRepository{db: db}
}

// ReplaceForDate atomically replaces the snapshot for a date with the given
// records. Re-running the snapshot job for the same day is therefore safe.
func (r *RankingRepository) ReplaceForDate(ctx context.Context, date time.Time, records []models.RankingRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ranking tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM ranking_records WHERE fecha = $1", date); err != nil {
		return fmt.Errorf("clear ranking snapshot: %w", err)
	}
	const query = `INSERT INTO ranking_records (id, usuario_id, fecha, rating_snapshot, posicion, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)`
	for i := range records {
		rec := &records[i]
		if _, err := tx.ExecContext(ctx, query,
			rec.ID, rec.UserID, rec.Date, rec.RatingSnapshot, rec.Position, rec.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert ranking record: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ranking tx: %w", err)
	}
	return nil
}

// ListByDate returns the snapshot for a date ordered by position.
func (r *RankingRepository) ListByDate(ctx context.Context, date time.Time) ([]models.RankingRecord, error) {
	const query = `SELECT id, usuario_id, fecha, rating_snapshot, posicion, created_at
	FROM ranking_records WHERE fecha = $1 ORDER BY posicion`
	var records []models.RankingRecord
	if err := r.db.SelectContext(ctx, &records, query, date); err != nil {
		return nil, fmt.Errorf("list ranking by date: %w", err)
	}
	return records, nil
}

// LatestDate returns the most recent snapshot date, or the zero time when no
// snapshot exists yet.
func (r *RankingRepository) LatestDate(ctx context.Context) (time.Time, error) {
	var date *time.Time
	if err := r.db.GetContext(ctx, &date, "SELECT MAX(fecha) FROM ranking_records"); err != nil {
		return time.Time{}, fmt.Errorf("latest ranking date: %w", err)
	}
	if date == nil {
		return time.Time{}, nil
	}
	return *date, nil
}
