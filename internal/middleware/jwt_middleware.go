package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/popupcity/portal_api/internal/utils"
)

// Context keys set for authenticated citizens.
const (
	CitizenIDKey = "citizen_id"
	EmailKey     = "email"
)

// JWTMiddleware authenticates citizens by their session token.
type JWTMiddleware struct {
	jwt         *utils.JWTManager
	rateLimiter *InvalidAuthRateLimiter
}

// NewJWTMiddleware constructs a JWTMiddleware. Failed attempts are counted
// per client IP by rateLimiter.
func NewJWTMiddleware(jwt *utils.JWTManager, rateLimiter *InvalidAuthRateLimiter) *JWTMiddleware {
	return &JWTMiddleware{jwt: jwt, rateLimiter: rateLimiter}
}

func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			m.reject(c, "UNAUTHORIZED", "Missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			m.reject(c, "UNAUTHORIZED", "Invalid authorization header")
			return
		}

		claims, err := m.jwt.ValidateJWT(parts[1])
		if err != nil {
			if utils.IsExpired(err) {
				m.reject(c, "TOKEN_EXPIRED", "Token has expired")
				return
			}
			m.reject(c, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set(CitizenIDKey, claims.CitizenID)
		c.Set(EmailKey, claims.Email)
		c.Next()
	}
}

func (m *JWTMiddleware) reject(c *gin.Context, code, message string) {
	if !m.rateLimiter.Allow(c.ClientIP()) {
		utils.Error(c, 429, "TOO_MANY_REQUESTS", "Too many invalid authentication attempts")
		c.Abort()
		return
	}
	utils.Error(c, 401, code, message)
	c.Abort()
}

// CitizenID returns the authenticated citizen of the request.
func CitizenID(c *gin.Context) int {
	return c.GetInt(CitizenIDKey)
}
