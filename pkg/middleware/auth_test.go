package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signStaffToken(t *testing.T, staffID, role string) string {
	t.Helper()
	claims := &StaffClaims{
		StaffID: staffID,
		Email:   "staff@example.com",
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   staffID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	admin := router.Group("/admin", AuthMiddleware(testSecret))
	admin.DELETE("/things/:id", RequireRole("admin"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	admin.GET("/things", func(c *gin.Context) {
		id, err := GetStaffID(c)
		if err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"staff_id": id.String()})
	})
	return router
}

func doRequest(router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	router := newAuthRouter()
	rec := doRequest(router, http.MethodGet, "/admin/things", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_BadToken(t *testing.T) {
	router := newAuthRouter()
	rec := doRequest(router, http.MethodGet, "/admin/things", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole_ManagerCannotDelete(t *testing.T) {
	router := newAuthRouter()
	token := signStaffToken(t, uuid.New().String(), "manager")

	rec := doRequest(router, http.MethodDelete, "/admin/things/abc", token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole_AdminCanDelete(t *testing.T) {
	router := newAuthRouter()
	token := signStaffToken(t, uuid.New().String(), "admin")

	rec := doRequest(router, http.MethodDelete, "/admin/things/abc", token)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestGetStaffID_FromToken(t *testing.T) {
	router := newAuthRouter()
	staffID := uuid.New().String()
	token := signStaffToken(t, staffID, "manager")

	rec := doRequest(router, http.MethodGet, "/admin/things", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), staffID)
}
