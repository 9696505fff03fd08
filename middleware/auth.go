package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rijnfleet/fleet-backend/config"
	apperrors "github.com/rijnfleet/fleet-backend/errors"
	"github.com/rijnfleet/fleet-backend/logger"
)

// Context keys set by the auth middleware.
const (
	// UserIDKey is the context key for the authenticated user's ID.
	UserIDKey = "userID"
	// CompanyIDKey is the context key for the caller's tenant. Every
	// data-access path scopes its queries by this value.
	CompanyIDKey = "companyID"
)

// Claims is the JWT payload issued for fleet operators. The company claim
// drives tenant scoping and is never read from request bodies.
type Claims struct {
	CompanyID string `json:"companyId"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the Bearer token and places the caller's user
// and company ids on the gin context.
func AuthMiddleware(cfg *config.ServerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.GetLogger()

		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			log.Warnw("Missing bearer token", "path", c.Request.URL.Path)
			_ = c.Error(apperrors.AuthenticationFailed("Authorization token required"))
			c.Abort()
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(cfg.JwtSecretKey), nil
		}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithLeeway(30*time.Second))

		if err != nil || !token.Valid {
			log.Warnw("Token validation failed",
				"path", c.Request.URL.Path,
				"error", err,
			)
			_ = c.Error(apperrors.AuthenticationFailed("Invalid or expired token"))
			c.Abort()
			return
		}

		if claims.Subject == "" || claims.CompanyID == "" {
			_ = c.Error(apperrors.AuthenticationFailed("Token is missing required claims"))
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.Subject)
		c.Set(CompanyIDKey, claims.CompanyID)
		c.Next()
	}
}

// GetCompanyID returns the authenticated tenant id from the gin context.
func GetCompanyID(c *gin.Context) string {
	return c.GetString(CompanyIDKey)
}

// GetUserID returns the authenticated user id from the gin context.
func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
