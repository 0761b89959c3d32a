package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/padelcore/padelcore-api/internal/models"
)

func rbacRouter(claims *models.JWTClaims, guard gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if claims != nil {
			c.Set(ContextUserKey, claims)
		}
		c.Next()
	})
	r.GET("/usuarios/:id", guard, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestRBACAllowsRole(t *testing.T) {
	claims := &models.JWTClaims{UserID: 1, Role: models.RoleAdmin}
	r := rbacRouter(claims, RequireRoles(models.RoleAdmin))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/usuarios/42", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestRBACAllowsSelf(t *testing.T) {
	claims := &models.JWTClaims{UserID: 42, Role: models.RoleUser}
	r := rbacRouter(claims, RBAC(string(models.RoleAdmin), "SELF"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/usuarios/42", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestRBACRejectsOtherUser(t *testing.T) {
	claims := &models.JWTClaims{UserID: 7, Role: models.RoleUser}
	r := rbacRouter(claims, RBAC(string(models.RoleAdmin), "SELF"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/usuarios/42", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRBACRejectsMissingClaims(t *testing.T) {
	r := rbacRouter(nil, RequireRoles(models.RoleAdmin))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/usuarios/42", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
