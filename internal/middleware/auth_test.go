package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/14kear/online_voting/polls-service/internal/services/polls"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubAuth map[string]polls.Session

func (s stubAuth) Authenticate(token string) (polls.Session, error) {
	sess, ok := s[token]
	if !ok {
		return polls.Session{}, errors.New("bad token")
	}
	return sess, nil
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	auth := stubAuth{"good": {PollID: "ABC123", UserID: "u1", Name: "ann"}}

	r := gin.New()
	r.GET("/me", NewAuthMiddleware(auth).Middleware(), func(c *gin.Context) {
		sess, ok := Session(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, sess.UserID)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		target string
		header string
		status int
		body   string
	}{
		{"bearer header", "/me", "Bearer good", http.StatusOK, "u1"},
		{"query token", "/me?token=good", "", http.StatusOK, "u1"},
		{"missing token", "/me", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "/me", "Basic good", http.StatusUnauthorized, ""},
		{"invalid token", "/me", "Bearer bad", http.StatusUnauthorized, ""},
	}

	r := newRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}
