package middleware

import (
	"net/http"
	"strings"

	"github.com/14kear/online_voting/polls-service/internal/services/polls"
	"github.com/gin-gonic/gin"
)

// SessionKey is the gin context key the verified session is stored under.
const SessionKey = "session"

type Authenticator interface {
	Authenticate(token string) (polls.Session, error)
}

type AuthMiddleware struct {
	auth Authenticator
}

func NewAuthMiddleware(auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// Middleware verifies the poll assertion from the Authorization header, or
// from the token query parameter for browser WebSocket handshakes.
func (m *AuthMiddleware) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := Token(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing access token"})
			return
		}

		sess, err := m.auth.Authenticate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(SessionKey, sess)
		c.Next()
	}
}

// Token returns the bearer token, falling back to the token query parameter.
func Token(c *gin.Context) string {
	if token := extractTokenFromHeader(c.GetHeader("Authorization")); token != "" {
		return token
	}
	return c.Query("token")
}

// Session returns the session set by the middleware.
func Session(c *gin.Context) (polls.Session, bool) {
	v, ok := c.Get(SessionKey)
	if !ok {
		return polls.Session{}, false
	}
	sess, ok := v.(polls.Session)
	return sess, ok
}

func extractTokenFromHeader(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
