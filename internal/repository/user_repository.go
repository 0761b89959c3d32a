package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/padelcore/padelcore-api/internal/models"
)

// UserRepository provides persistence for usuarios.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates the repository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new usuario row.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	const query = `INSERT INTO usuarios
	(nombre_completo, email, password_hash, rating_inicial, club, rol, is_active, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		user.FullName, user.Email, user.PasswordHash, user.Rating, user.Club,
		user.Role, user.Active, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetByID returns a usuario by identifier.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	const query = `SELECT id, nombre_completo, email, password_hash, rating_inicial, club, rol, is_active, created_at, updated_at
	FROM usuarios WHERE id = $1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail returns a usuario by unique email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	const query = `SELECT id, nombre_completo, email, password_hash, rating_inicial, club, rol, is_active, created_at, updated_at
	FROM usuarios WHERE email = $1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns usuarios matching the filter with pagination.
func (r *UserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	where := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)
	if filter.Role != nil {
		args = append(args, *filter.Role)
		where = append(where, fmt.Sprintf("rol = $%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		where = append(where, fmt.Sprintf("is_active = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where = append(where, fmt.Sprintf("(nombre_completo ILIKE $%d OR email ILIKE $%d)", len(args), len(args)))
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

	query := fmt.Sprintf(`SELECT id, nombre_completo, email, password_hash, rating_inicial, club, rol, is_active, created_at, updated_at
	FROM usuarios%s ORDER BY nombre_completo LIMIT %d OFFSET %d`, whereClause, size, (page-1)*size)
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM usuarios"+whereClause, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	return users, total, nil
}

// CountExisting reports how many of the given ids refer to existing usuarios.
func (r *UserRepository) CountExisting(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In("SELECT COUNT(*) FROM usuarios WHERE id IN (?)", ids)
	if err != nil {
		return 0, fmt.Errorf("build user count query: %w", err)
	}
	var count int
	if err := r.db.GetContext(ctx, &count, r.db.Rebind(query), args...); err != nil {
		return 0, fmt.Errorf("count existing users: %w", err)
	}
	return count, nil
}

// ListRated returns active usuarios with a positive rating, best first. Used
// by the ranking snapshot job.
func (r *UserRepository) ListRated(ctx context.Context) ([]models.User, error) {
	const query = `SELECT id, nombre_completo, email, password_hash, rating_inicial, club, rol, is_active, created_at, updated_at
	FROM usuarios WHERE rating_inicial > 0 AND is_active ORDER BY rating_inicial DESC, id`
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list rated users: %w", err)
	}
	return users, nil
}

// Update modifies profile fields of an existing usuario.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	const query = `UPDATE usuarios SET nombre_completo = $1, rating_inicial = $2, club = $3, rol = $4,
	is_active = $5, updated_at = $6 WHERE id = $7`
	if _, err := r.db.ExecContext(ctx, query,
		user.FullName, user.Rating, user.Club, user.Role, user.Active, user.UpdatedAt, user.ID,
	); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// Delete removes a usuario.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM usuarios WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
