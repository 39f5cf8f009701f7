package main

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"findmyanime/internal/auth"
	"findmyanime/internal/config"
	"findmyanime/internal/ratelimit"
)

const sweepInterval = time.Hour

func newRouter(cfg config.Config, db *sql.DB, sessions *auth.Store) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	secret := []byte(cfg.SessionSecret)

	// Same budget the old Express deployment used for its auth limiter.
	authLimit := ratelimit.Middleware(ratelimit.New(50, 15*time.Minute))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	api := r.Group("/api")

	// AUTH
	api.POST("/signup", authLimit, func(c *gin.Context) { handleSignup(c, db, sessions, cfg) })
	api.POST("/login", authLimit, func(c *gin.Context) { handleLogin(c, db, sessions, cfg) })
	api.POST("/logout", func(c *gin.Context) { handleLogout(c, sessions, cfg) })
	api.GET("/me", func(c *gin.Context) { handleMe(c, sessions, cfg) })

	// PUBLIC READS
	api.GET("/feed/recent", func(c *gin.Context) { handleRecentFeed(c, db) })
	api.GET("/posts", func(c *gin.Context) { handleListPosts(c, db) })
	api.GET("/posts/:id/replies", func(c *gin.Context) { handleListReplies(c, db) })
	api.GET("/reviews/:targetId", func(c *gin.Context) { handleListReviews(c, db) })

	// SESSION-GUARDED
	authed := api.Group("")
	authed.Use(auth.RequireSession(sessions, secret))
	authed.GET("/watchlist", func(c *gin.Context) { handleWatchlist(c, db) })
	authed.POST("/watchlist/add", func(c *gin.Context) { handleWatchlistAdd(c, db) })
	authed.POST("/watchlist/remove", func(c *gin.Context) { handleWatchlistRemove(c, db) })
	authed.GET("/manga-library", func(c *gin.Context) { handleLibrary(c, db) })
	authed.POST("/manga-library/add", func(c *gin.Context) { handleLibraryAdd(c, db) })
	authed.POST("/manga-library/update", func(c *gin.Context) { handleLibraryUpdate(c, db) })
	authed.POST("/manga-library/remove", func(c *gin.Context) { handleLibraryRemove(c, db) })
	authed.GET("/user/stats", func(c *gin.Context) { handleUserStats(c, db) })
	authed.GET("/user/activity", func(c *gin.Context) { handleUserActivity(c, db) })
	authed.POST("/posts", func(c *gin.Context) { handleCreatePost(c, db) })
	authed.POST("/posts/:id/like", func(c *gin.Context) { handleToggleLike(c, db) })
	authed.POST("/posts/:id/reply", func(c *gin.Context) { handleCreateReply(c, db) })
	authed.POST("/reviews", func(c *gin.Context) { handleCreateReview(c, db) })

	// Static frontend; unknown paths fall through to the file server's 404.
	r.NoRoute(gin.WrapH(http.FileServer(http.Dir(cfg.PublicDir))))

	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
