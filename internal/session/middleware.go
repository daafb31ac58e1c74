package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const contextKey = "portal_session"

// RequireAuth loads the session from the cookie store and aborts with a
// session-invalid notice when none is present or its token has lapsed.
// Handlers downstream read the session via FromContext and thread it into
// every upstream call.
func RequireAuth(store *CookieStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := store.Load(c)
		if err != nil || sess.TokenExpired(time.Now()) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Session invalid. Please log in again.",
			})
			return
		}
		c.Set(contextKey, sess)
		c.Next()
	}
}

// FromContext returns the session set by RequireAuth.
func FromContext(c *gin.Context) *Session {
	if v, ok := c.Get(contextKey); ok {
		if sess, ok := v.(*Session); ok {
			return sess
		}
	}
	return &Session{}
}
