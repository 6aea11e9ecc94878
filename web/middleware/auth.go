package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const SessionCookieName = "clozesmith_session"

type sessionClaims struct {
	jwt.RegisteredClaims
}

// MintSessionToken issues a signed HS256 session token. The JWT ID is a
// fresh UUID used downstream as the per-session rate-limit key.
func MintSessionToken(secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseSessionToken validates a token string and returns its session ID.
func ParseSessionToken(secret []byte, tokenString string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("parse session token: %w", err)
	}
	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return "", fmt.Errorf("invalid session token")
	}
	return claims.ID, nil
}

// AuthRequired gates the API behind the session cookie. When enabled is
// false (no password configured) the gate is open and the client IP
// stands in as the session ID for rate limiting.
func AuthRequired(secret []byte, enabled bool, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			c.Set("sessionID", c.ClientIP())
			c.Next()
			return
		}

		cookie, err := c.Cookie(SessionCookieName)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		sessionID, err := ParseSessionToken(secret, cookie)
		if err != nil {
			logger.Debug("Rejected session cookie", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			return
		}

		c.Set("sessionID", sessionID)
		c.Next()
	}
}
