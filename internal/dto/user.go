package dto

import "github.com/padelcore/padelcore-api/internal/models"

// UpdateUserRequest carries partial profile changes; nil fields are left
// untouched.
type UpdateUserRequest struct {
	FullName *string          `json:"nombre_completo"`
	Rating   *float64         `json:"rating_inicial"`
	Club     *string          `json:"club"`
	Role     *models.UserRole `json:"rol"`
	Active   *bool            `json:"is_active"`
}
