package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/padelcore/padelcore-api/internal/models"
)

// TournamentRepository provides persistence for torneos.
type TournamentRepository struct {
	db *sqlx.DB
}

// NewTournamentRepository creates the repository.
func NewTournamentRepository(db *sqlx.DB) *TournamentRepository {
	return &TournamentRepository{db: db}
}

// insertTournament is shared with the approval materialization path, which
// runs it inside the status-flip transaction.
func insertTournament(ctx context.Context, q sqlx.ExtContext, t *models.Tournament) error {
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	const query = `INSERT INTO torneos
	(nombre, sede, fecha_inicio, fecha_fin, premio_dinero, puntos, imagen_url, tags, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	if err := q.QueryRowxContext(ctx, query,
		t.Name, t.Venue, t.StartDate, t.EndDate, t.PrizeMoney, t.Points,
		t.ImageURL, pq.Array([]string(t.Tags)), t.CreatedAt, t.UpdatedAt,
	).Scan(&t.ID); err != nil {
		return fmt.Errorf("insert tournament: %w", err)
	}
	return nil
}

// Create inserts a new torneo row.
func (r *TournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	return insertTournament(ctx, r.db, t)
}

// GetByID returns a torneo by identifier.
func (r *TournamentRepository) GetByID(ctx context.Context, id int64) (*models.Tournament, error) {
	const query = `SELECT id, nombre, sede, fecha_inicio, fecha_fin, premio_dinero, puntos, imagen_url, tags, created_at, updated_at
	FROM torneos WHERE id = $1`
	var t models.Tournament
	if err := r.db.GetContext(ctx, &t, query, id); err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns torneos matching the filter with pagination.
func (r *TournamentRepository) List(ctx context.Context, filter models.TournamentFilter) ([]models.Tournament, int, error) {
	where := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)
	if filter.Venue != "" {
		args = append(args, filter.Venue)
		where = append(where, fmt.Sprintf("sede = $%d", len(args)))
	}
	if filter.Tag != "" {
		args = append(args, filter.Tag)
		where = append(where, fmt.Sprintf("$%d = ANY(tags)", len(args)))
	}
	if filter.FromDate != nil {
		args = append(args, *filter.FromDate)
		where = append(where, fmt.Sprintf("fecha_inicio >= $%d", len(args)))
	}
	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT id, nombre, sede, fecha_inicio, fecha_fin, premio_dinero, puntos, imagen_url, tags, created_at, updated_at
	FROM torneos%s ORDER BY fecha_inicio DESC LIMIT %d OFFSET %d`, whereClause, size, offset)
	var tournaments []models.Tournament
	if err := r.db.SelectContext(ctx, &tournaments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list tournaments: %w", err)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM torneos" + whereClause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count tournaments: %w", err)
	}
	return tournaments, total, nil
}

// Update modifies an existing torneo.
func (r *TournamentRepository) Update(ctx context.Context, t *models.Tournament) error {
	t.UpdatedAt = time.Now().UTC()
	const query = `UPDATE torneos SET nombre = $1, sede = $2, fecha_inicio = $3, fecha_fin = $4,
	premio_dinero = $5, puntos = $6, imagen_url = $7, tags = $8, updated_at = $9 WHERE id = $10`
	if _, err := r.db.ExecContext(ctx, query,
		t.Name, t.Venue, t.StartDate, t.EndDate, t.PrizeMoney, t.Points,
		t.ImageURL, pq.Array([]string(t.Tags)), t.UpdatedAt, t.ID,
	); err != nil {
		return fmt.Errorf("update tournament: %w", err)
	}
	return nil
}

// Delete removes a torneo; its partidos cascade at the schema level.
func (r *TournamentRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM torneos WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete tournament: %w", err)
	}
	return nil
}
