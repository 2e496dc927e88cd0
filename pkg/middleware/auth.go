package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vialuxe/transfer-booking/pkg/common"
)

const (
	// StaffIDKey is the gin context key for the authenticated staff member's ID
	StaffIDKey = "staff_id"
	// StaffRoleKey is the gin context key for the authenticated staff member's role
	StaffRoleKey = "staff_role"
)

// StaffClaims are the JWT claims issued to back-office staff
type StaffClaims struct {
	StaffID string `json:"staff_id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the Bearer token and stores staff identity in the context
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			common.ErrorResponse(c, http.StatusUnauthorized, "missing authorization header")
			c.Abort()
			return
		}

		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			common.ErrorResponse(c, http.StatusUnauthorized, "invalid authorization header")
			c.Abort()
			return
		}

		claims := &StaffClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			common.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(StaffIDKey, claims.StaffID)
		c.Set(StaffRoleKey, claims.Role)
		c.Next()
	}
}

// RequireRole aborts with 403 unless the authenticated staff member has the given role
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(StaffRoleKey) != role {
			common.AppErrorResponse(c, common.NewForbiddenError("insufficient permissions"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetStaffID extracts the authenticated staff member's ID from the gin context
func GetStaffID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get(StaffIDKey)
	if !exists {
		return uuid.Nil, errors.New("staff ID not found in context")
	}
	id, ok := raw.(string)
	if !ok {
		return uuid.Nil, errors.New("staff ID has unexpected type")
	}
	return uuid.Parse(id)
}
