package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"wiz-homes/services"
	"wiz-homes/utils"
)

const SessionKey = "session"

// BearerToken reads the session token from the Authorization header, falling
// back to the token query parameter used by websocket clients.
func BearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if tok, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(tok)
		}
	}
	return c.Query("token")
}

// RequireSession rejects requests without a live session.
func RequireSession(gate *services.AuthGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := BearerToken(c)
		if tok == "" {
			utils.JSONError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		sess, err := gate.Authenticate(tok)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "session expired or signed out")
			c.Abort()
			return
		}
		c.Set(SessionKey, sess)
		c.Next()
	}
}

// OptionalSession attaches the session when a valid token is present.
func OptionalSession(gate *services.AuthGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok := BearerToken(c); tok != "" {
			if sess, err := gate.Authenticate(tok); err == nil {
				c.Set(SessionKey, sess)
			}
		}
		c.Next()
	}
}

func CurrentSession(c *gin.Context) *services.Session {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*services.Session)
	return sess
}
