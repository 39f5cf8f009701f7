package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	CtxUserIDKey   = "user_id"
	CtxUsernameKey = "username"
	CtxTokenKey    = "session_token"
)

// CurrentSession resolves the session cookie against the store. Returns
// false when the cookie is missing, tampered with, or the session is gone.
func CurrentSession(c *gin.Context, store *Store, secret []byte) (Session, bool) {
	cookie, err := c.Cookie(CookieName)
	if err != nil {
		return Session{}, false
	}
	token, err := ParseSessionToken(secret, cookie)
	if err != nil {
		return Session{}, false
	}
	return store.Get(token)
}

// RequireSession aborts with 401 before the handler body runs when no
// valid session is attached to the request.
func RequireSession(store *Store, secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := CurrentSession(c, store, secret)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Login required"})
			return
		}
		c.Set(CtxUserIDKey, sess.UserID)
		c.Set(CtxUsernameKey, sess.Username)
		c.Set(CtxTokenKey, sess.Token)
		c.Next()
	}
}

// UserID reads the authenticated user's ID set by RequireSession.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(CtxUserIDKey)
}
