package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleSponsor UserRole = "sponsor"
	RolePlayer  UserRole = "player"
	RoleUser    UserRole = "usuario"
)

// User represents an application user stored in the usuarios table.
type User struct {
	ID           int64     `db:"id" json:"id"`
	FullName     string    `db:"nombre_completo" json:"nombre_completo"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Rating       *float64  `db:"rating_inicial" json:"rating_inicial,omitempty"`
	Club         *string   `db:"club" json:"club,omitempty"`
	Role         UserRole  `db:"rol" json:"rol"`
	Active       bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role     *UserRole
	Active   *bool
	Search   string
	Page     int
	PageSize int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
