package main

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"findmyanime/internal/auth"
	"findmyanime/internal/config"
	"findmyanime/internal/user"
	"findmyanime/pkg/database"
)

// issueSession creates the server-side session and sets the signed cookie.
func issueSession(c *gin.Context, sessions *auth.Store, cfg config.Config, u user.User) error {
	sess := sessions.Create(u.ID, u.Username)
	signed, err := auth.SignSessionToken([]byte(cfg.SessionSecret), sess.Token, auth.SessionTTL)
	if err != nil {
		return err
	}
	setSessionCookie(c, cfg, signed, int(auth.SessionTTL.Seconds()))
	return nil
}

func setSessionCookie(c *gin.Context, cfg config.Config, value string, maxAge int) {
	// Cross-site frontend in production needs SameSite=None + Secure;
	// local development keeps Lax over plain HTTP.
	if cfg.Production() {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(auth.CookieName, value, maxAge, "/", "", cfg.Production(), true)
}

func handleSignup(c *gin.Context, db *sql.DB, sessions *auth.Store, cfg config.Config) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil ||
		strings.TrimSpace(req.Username) == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing fields"})
		return
	}

	u, err := user.Create(db, req.Username, req.Password)
	if database.IsUniqueViolation(err) {
		c.JSON(http.StatusConflict, gin.H{"message": "User already exists"})
		return
	}
	if err != nil {
		logrus.WithError(err).Error("signup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	if err := issueSession(c, sessions, cfg, u); err != nil {
		logrus.WithError(err).Error("session issue failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u.Username})
}

func handleLogin(c *gin.Context, db *sql.DB, sessions *auth.Store, cfg config.Config) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing fields"})
		return
	}

	u, err := user.VerifyLogin(db, req.Username, req.Password)
	if err == user.ErrInvalidCredentials {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}
	if err != nil {
		logrus.WithError(err).Error("login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	if err := issueSession(c, sessions, cfg, u); err != nil {
		logrus.WithError(err).Error("session issue failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u.Username})
}

func handleLogout(c *gin.Context, sessions *auth.Store, cfg config.Config) {
	if cookie, err := c.Cookie(auth.CookieName); err == nil {
		if token, err := auth.ParseSessionToken([]byte(cfg.SessionSecret), cookie); err == nil {
			sessions.Delete(token)
		}
	}
	setSessionCookie(c, cfg, "", -1)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func handleMe(c *gin.Context, sessions *auth.Store, cfg config.Config) {
	sess, ok := auth.CurrentSession(c, sessions, []byte(cfg.SessionSecret))
	if !ok {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": gin.H{"id": sess.UserID, "username": sess.Username}})
}
