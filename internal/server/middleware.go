package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"freshmart/internal/models"
)

const contextUserKey = "authUser"

// authenticateToken validates the Authorization bearer token and stores the
// parsed claims on the request context
func (s *Server) authenticateToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		claims := &authClaims{}
		token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims,
			func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return []byte(s.auth.JWTSecret), nil
			})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(contextUserKey, claims)
		c.Next()
	}
}

// requireAdmin gates a route group to admin users; must run after authenticateToken
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := currentUser(c)
		if claims == nil || !claims.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *authClaims {
	v, ok := c.Get(contextUserKey)
	if !ok {
		return nil
	}
	claims, ok := v.(*authClaims)
	if !ok {
		return nil
	}
	return claims
}

// logAdminAction records an audit entry for the acting admin. Audit failures
// are logged and swallowed so they never fail the admin operation itself.
func (s *Server) logAdminAction(c *gin.Context, action, entityType, entityID string, details any) {
	claims := currentUser(c)
	if claims == nil {
		return
	}

	var raw json.RawMessage
	if details != nil {
		encoded, err := json.Marshal(details)
		if err != nil {
			fmt.Printf("Failed to encode admin action details: %v\n", err)
		} else {
			raw = encoded
		}
	}

	err := s.store.LogAdminAction(c.Request.Context(), &models.AdminAction{
		AdminID:    claims.UserID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    raw,
	})
	if err != nil {
		fmt.Printf("Failed to log admin action: %v\n", err)
	}
}
