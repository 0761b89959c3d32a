package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest holds the sign-up payload.
type RegisterRequest struct {
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=6"`
	FullName string   `json:"nombre_completo" validate:"required"`
	Role     UserRole `json:"rol"`
	Rating   *float64 `json:"rating_inicial"`
	Club     *string  `json:"club"`
}

// RefreshRequest exchanges a refresh token for a new token pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh" validate:"required"`
}

// TokenPair returns issued tokens alongside the user summary.
type TokenPair struct {
	Access    string    `json:"access"`
	Refresh   string    `json:"refresh"`
	ExpiresIn int64     `json:"expires_in"`
	IssuedAt  time.Time `json:"issued_at"`
	User      UserInfo  `json:"user"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID       int64    `json:"id"`
	Email    string   `json:"email"`
	FullName string   `json:"nombre_completo"`
	Role     UserRole `json:"rol"`
}

// JWTClaims represents the JWT payload for issued tokens. TokenUse
// distinguishes access tokens from refresh tokens.
type JWTClaims struct {
	UserID   int64    `json:"user_id"`
	Role     UserRole `json:"rol"`
	Email    string   `json:"email"`
	TokenUse string   `json:"token_use"`
	jwt.RegisteredClaims
}
