package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/padelcore/padelcore-api/internal/models"
)

// ApprovalRepository persists staged approval requests.
type ApprovalRepository struct {
	db *sqlx.DB
}

// NewApprovalRepository constructs the repository.
func NewApprovalRepository(db *sqlx.DB) *ApprovalRepository {
	return &ApprovalRepository{db: db}
}

// Create inserts a new pending approval row.
func (r *ApprovalRepository) Create(ctx context.Context, approval *models.Approval) error {
	if approval.Status == "" {
		approval.Status = models.StatusPending
	}
	if approval.CreatedAt.IsZero() {
		approval.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO aprobaciones (tipo, status, data, created_at)
	VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		approval.Kind, approval.Status, []byte(approval.Data), approval.CreatedAt,
	).Scan(&approval.ID); err != nil {
		return fmt.Errorf("create approval: %w", err)
	}
	return nil
}

// GetByID fetches an approval by identifier.
func (r *ApprovalRepository) GetByID(ctx context.Context, id int64) (*models.Approval, error) {
	const query = `SELECT id, tipo, status, data, created_at FROM aprobaciones WHERE id = $1`
	var approval models.Approval
	if err := r.db.GetContext(ctx, &approval, query, id); err != nil {
		return nil, err
	}
	return &approval, nil
}

// List returns approvals matching the filter, newest first.
func (r *ApprovalRepository) List(ctx context.Context, filter models.ApprovalFilter) ([]models.Approval, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 4)
	builder.WriteString(`SELECT id, tipo, status, data, created_at FROM aprobaciones`)

	conditions := make([]string, 0, 2)
	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, status := range filter.Status {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.Kind != "" {
		args = append(args, filter.Kind)
		conditions = append(conditions, fmt.Sprintf("tipo = $%d", len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY created_at DESC")

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	builder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))

	var approvals []models.Approval
	if err := r.db.SelectContext(ctx, &approvals, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list approvals: %w", err)
	}
	return approvals, nil
}

// ApproveTournament flips the request to approved and inserts the torneo in
// a single transaction, so a crash can never leave the request approved
// without its materialized entity. Returns sql.ErrNoRows when the request is
// no longer pending (the flip is conditional on the current status, which is
// what serializes two concurrent decisions into one success and one miss).
func (r *ApprovalRepository) ApproveTournament(ctx context.Context, id int64, tournament *models.Tournament) error {
	return r.withinTx(ctx, func(tx *sqlx.Tx) error {
		if err := flipPendingApproval(ctx, tx, id, models.StatusApproved); err != nil {
			return err
		}
		return insertTournament(ctx, tx, tournament)
	})
}

// ApproveMatch is the match counterpart of ApproveTournament; the roster
// rows commit together with the status flip.
func (r *ApprovalRepository) ApproveMatch(ctx context.Context, id int64, match *models.Match, team1, team2 []int64) error {
	return r.withinTx(ctx, func(tx *sqlx.Tx) error {
		if err := flipPendingApproval(ctx, tx, id, models.StatusApproved); err != nil {
			return err
		}
		return insertMatch(ctx, tx, match, team1, team2)
	})
}

// Reject flips a pending request to rejected. Returns sql.ErrNoRows when the
// request was already decided.
func (r *ApprovalRepository) Reject(ctx context.Context, id int64) error {
	return flipPendingApproval(ctx, r.db, id, models.StatusRejected)
}

func (r *ApprovalRepository) withinTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin approval tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit approval tx: %w", err)
	}
	return nil
}

func flipPendingApproval(ctx context.Context, q sqlx.ExtContext, id int64, status models.ApprovalStatus) error {
	result, err := q.ExecContext(ctx,
		`UPDATE aprobaciones SET status = $1 WHERE id = $2 AND status = 'pending'`, status, id)
	if err != nil {
		return fmt.Errorf("update approval status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check approval update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
