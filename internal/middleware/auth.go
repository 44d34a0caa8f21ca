// Package middleware holds the Gin middleware shared across routes.
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"

	"rpg-sheets/internal/domain"
)

// Context keys set by Auth for downstream handlers.
const (
	ContextUserID   = "user_id"
	ContextUserRole = "user_role"
)

// ErrMissingAuthToken means neither the Authorization header nor the token
// query parameter carried a token.
var ErrMissingAuthToken = errors.New("missing authentication token")

// Auth returns a Gin middleware validating the request's JWT and exposing
// the user id and role on the context. The token is read from the
// Authorization header, falling back to a "token" query parameter because
// browser WebSocket handshakes cannot set headers.
func Auth(jwtSecret string) gin.HandlerFunc {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty for Auth middleware")
	}

	return func(c *gin.Context) {
		tokenStr, err := extractToken(c)
		if err != nil {
			if errors.Is(err, ErrMissingAuthToken) {
				logrus.Warn("Auth middleware: missing authentication token")
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication token is required"})
			} else {
				logrus.WithError(err).Warn("Auth middleware: malformed token format")
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			}
			c.Abort()
			return
		}

		claims, err := validateToken(tokenStr, jwtSecret)
		if err != nil {
			logrus.WithError(err).Warn("Auth middleware: invalid token")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		userIDClaim, ok := claims["user_id"]
		if !ok {
			logrus.Error("Auth middleware: 'user_id' claim missing in token")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token processing error: missing user_id"})
			c.Abort()
			return
		}

		// JWT numbers decode as float64; convert carefully.
		userIDFloat, ok := userIDClaim.(float64)
		if !ok || userIDFloat <= 0 || userIDFloat != float64(uint(userIDFloat)) {
			logrus.Errorf("Auth middleware: 'user_id' claim is not a valid positive integer: %v", userIDClaim)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token processing error: invalid user_id"})
			c.Abort()
			return
		}
		userID := uint(userIDFloat)

		role := domain.RolePlayer
		if roleClaim, ok := claims["role"].(string); ok && domain.Role(roleClaim).Valid() {
			role = domain.Role(roleClaim)
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextUserRole, role)
		logrus.WithFields(logrus.Fields{"user_id": userID, "role": role}).
			Debug("Auth middleware: user authenticated via JWT")

		c.Next()
	}
}

// RequireRole returns a middleware rejecting requests whose authenticated
// role differs from the required one. Must run after Auth.
func RequireRole(required domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleAny, exists := c.Get(ContextUserRole)
		role, ok := roleAny.(domain.Role)
		if !exists || !ok || role != required {
			logrus.WithFields(logrus.Fields{"required": required, "got": roleAny}).
				Warn("RequireRole middleware: insufficient role")
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if token := c.Query("token"); token != "" {
			return token, nil
		}
		return "", ErrMissingAuthToken
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", jwt.ErrTokenMalformed
	}
	return parts[1], nil
}

func validateToken(tokenStr string, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token or claims type")
}
