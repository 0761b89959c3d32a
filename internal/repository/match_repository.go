package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/padelcore/padelcore-api/internal/models"
)

// MatchRepository provides persistence for partidos and their rosters.
type MatchRepository struct {
	db *sqlx.DB
}

// NewMatchRepository creates the repository.
func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// insertMatch inserts the partido row plus one roster row per player. Shared
// with the approval materialization path.
func insertMatch(ctx context.Context, q sqlx.ExtContext, m *models.Match, team1, team2 []int64) error {
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	const query = `INSERT INTO partidos (torneo_id, fecha, hora, resultado, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := q.QueryRowxContext(ctx, query,
		m.TournamentID, m.Date, m.Time, m.Result, m.CreatedAt, m.UpdatedAt,
	).Scan(&m.ID); err != nil {
		return fmt.Errorf("insert match: %w", err)
	}
	const rosterQuery = `INSERT INTO partido_jugadores (partido_id, usuario_id, equipo) VALUES ($1, $2, $3)`
	for _, userID := range team1 {
		if _, err := q.ExecContext(ctx, rosterQuery, m.ID, userID, 1); err != nil {
			return fmt.Errorf("insert match roster: %w", err)
		}
	}
	for _, userID := range team2 {
		if _, err := q.ExecContext(ctx, rosterQuery, m.ID, userID, 2); err != nil {
			return fmt.Errorf("insert match roster: %w", err)
		}
	}
	return nil
}

// Create inserts a new partido with both rosters.
func (r *MatchRepository) Create(ctx context.Context, m *models.Match, team1, team2 []int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin match tx: %w", err)
	}
	if err := insertMatch(ctx, tx, m, team1, team2); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// GetByID returns a partido with its rosters resolved.
func (r *MatchRepository) GetByID(ctx context.Context, id int64) (*models.Match, error) {
	const query = `SELECT id, torneo_id, fecha, hora, resultado, created_at, updated_at FROM partidos WHERE id = $1`
	var m models.Match
	if err := r.db.GetContext(ctx, &m, query, id); err != nil {
		return nil, err
	}
	if err := r.loadRosters(ctx, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns partidos matching the filter, rosters included.
func (r *MatchRepository) List(ctx context.Context, filter models.MatchFilter) ([]models.Match, error) {
	where := make([]string, 0, 2)
	args := make([]interface{}, 0, 2)
	if filter.TournamentID > 0 {
		args = append(args, filter.TournamentID)
		where = append(where, fmt.Sprintf("torneo_id = $%d", len(args)))
	}
	if filter.FromDate != nil {
		args = append(args, *filter.FromDate)
		where = append(where, fmt.Sprintf("fecha >= $%d", len(args)))
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

	query := fmt.Sprintf(`SELECT id, torneo_id, fecha, hora, resultado, created_at, updated_at
	FROM partidos%s ORDER BY fecha DESC, hora DESC LIMIT %d OFFSET %d`, whereClause, size, (page-1)*size)
	var matches []models.Match
	if err := r.db.SelectContext(ctx, &matches, query, args...); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	for i := range matches {
		if err := r.loadRosters(ctx, &matches[i]); err != nil {
			return nil, err
		}
	}
	return matches, nil
}

// UpdateResult records the outcome of a played partido.
func (r *MatchRepository) UpdateResult(ctx context.Context, id int64, result models.MatchResult) error {
	const query = `UPDATE partidos SET resultado = $1, updated_at = $2 WHERE id = $3`
	if _, err := r.db.ExecContext(ctx, query, result, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("update match result: %w", err)
	}
	return nil
}

// Delete removes a partido; roster rows cascade at the schema level.
func (r *MatchRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM partidos WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	return nil
}

func (r *MatchRepository) loadRosters(ctx context.Context, m *models.Match) error {
	const query = `SELECT u.id, u.nombre_completo, pj.equipo
	FROM partido_jugadores pj JOIN usuarios u ON u.id = pj.usuario_id
	WHERE pj.partido_id = $1 ORDER BY pj.equipo, u.id`
	rows, err := r.db.QueryxContext(ctx, query, m.ID)
	if err != nil {
		return fmt.Errorf("load match rosters: %w", err)
	}
	defer rows.Close()

	m.Team1 = m.Team1[:0]
	m.Team2 = m.Team2[:0]
	for rows.Next() {
		var player models.MatchPlayer
		var team int
		if err := rows.Scan(&player.ID, &player.FullName, &team); err != nil {
			return fmt.Errorf("scan match roster: %w", err)
		}
		if team == 1 {
			m.Team1 = append(m.Team1, player)
		} else {
			m.Team2 = append(m.Team2, player)
		}
	}
	return rows.Err()
}
