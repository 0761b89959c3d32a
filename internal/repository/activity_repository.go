package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/padelcore/padelcore-api/internal/models"
)

// ActivityRepository persists the recent-activity feed.
type ActivityRepository struct {
	db *sqlx.DB
}

// NewActivityRepository constructs the repository.
func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create appends a new feed entry.
func (r *ActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	if activity.Date.IsZero() {
		activity.Date = time.Now().UTC()
	}
	const query = `INSERT INTO actividades (fecha, tipo, descripcion, estado, aprobacion_id)
	VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		activity.Date, activity.Kind, activity.Description, activity.Status, activity.ApprovalID,
	).Scan(&activity.ID); err != nil {
		return fmt.Errorf("create activity: %w", err)
	}
	return nil
}

// FindPendingByApprovalID returns the single pending entry mirroring the
// given approval request. sql.ErrNoRows signals a (legitimate) miss: the
// retention sweep may have removed the entry already.
func (r *ActivityRepository) FindPendingByApprovalID(ctx context.Context, approvalID int64) (*models.Activity, error) {
	const query = `SELECT id, fecha, tipo, descripcion, estado, aprobacion_id
	FROM actividades WHERE aprobacion_id = $1 AND estado = 'pending'`
	var activity models.Activity
	if err := r.db.GetContext(ctx, &activity, query, approvalID); err != nil {
		return nil, err
	}
	return &activity, nil
}

// UpdateTransition rewrites an entry in place when its approval is decided.
func (r *ActivityRepository) UpdateTransition(ctx context.Context, id int64, description string, status models.ApprovalStatus) error {
	const query = `UPDATE actividades SET descripcion = $1, estado = $2, fecha = $3 WHERE id = $4`
	if _, err := r.db.ExecContext(ctx, query, description, status, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("update activity: %w", err)
	}
	return nil
}

// List returns feed entries ordered newest first.
func (r *ActivityRepository) List(ctx context.Context, limit, offset int) ([]models.Activity, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := fmt.Sprintf(`SELECT id, fecha, tipo, descripcion, estado, aprobacion_id
	FROM actividades ORDER BY fecha DESC LIMIT %d OFFSET %d`, limit, offset)
	var activities []models.Activity
	if err := r.db.SelectContext(ctx, &activities, query); err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return activities, nil
}

// DeleteOlderThan removes entries created before the cutoff and reports how
// many were swept.
func (r *ActivityRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM actividades WHERE fecha <= $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old activities: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("check swept activity rows: %w", err)
	}
	return rows, nil
}
