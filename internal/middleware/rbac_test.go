package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/hr-onboard-api/internal/models"
)

func performRBAC(t *testing.T, claims *models.JWTClaims, allowed ...models.UserRole) int {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/jobs/reminders", nil)
	c.Request = req
	if claims != nil {
		c.Set(ContextUserKey, claims)
	}

	RBAC(allowed...)(c)
	if !c.IsAborted() {
		c.Status(http.StatusOK)
	}
	return w.Code
}

func TestRBACAllowsMatchingRole(t *testing.T) {
	code := performRBAC(t, &models.JWTClaims{UserID: "s-1", Role: models.RoleScheduler}, models.RoleAdmin, models.RoleScheduler)
	assert.Equal(t, http.StatusOK, code)
}

func TestRBACForbidsOtherRole(t *testing.T) {
	code := performRBAC(t, &models.JWTClaims{UserID: "u-1", Role: models.RoleHR}, models.RoleAdmin, models.RoleScheduler)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestRBACRequiresClaims(t *testing.T) {
	code := performRBAC(t, nil, models.RoleAdmin)
	assert.Equal(t, http.StatusUnauthorized, code)
}
