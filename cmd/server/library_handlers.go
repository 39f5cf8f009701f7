package main

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"findmyanime/internal/auth"
	"findmyanime/internal/library"
	"findmyanime/internal/watchlist"
)

func serverError(c *gin.Context, err error, msg string) {
	logrus.WithError(err).Error(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
}

func handleWatchlist(c *gin.Context, db *sql.DB) {
	ids, err := watchlist.List(db, auth.UserID(c))
	if err != nil {
		serverError(c, err, "watchlist list failed")
		return
	}
	c.JSON(http.StatusOK, ids)
}

func handleWatchlistAdd(c *gin.Context, db *sql.DB) {
	var req struct {
		AnimeID int64 `json:"animeId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.AnimeID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "animeId must be a positive integer"})
		return
	}
	if err := watchlist.Add(db, auth.UserID(c), req.AnimeID); err != nil {
		serverError(c, err, "watchlist add failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func handleWatchlistRemove(c *gin.Context, db *sql.DB) {
	var req struct {
		AnimeID int64 `json:"animeId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.AnimeID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "animeId must be a positive integer"})
		return
	}
	if err := watchlist.Remove(db, auth.UserID(c), req.AnimeID); err != nil {
		serverError(c, err, "watchlist remove failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func handleLibrary(c *gin.Context, db *sql.DB) {
	entries, err := library.List(db, auth.UserID(c))
	if err != nil {
		serverError(c, err, "library list failed")
		return
	}
	c.JSON(http.StatusOK, entries)
}

func handleLibraryAdd(c *gin.Context, db *sql.DB) {
	var req struct {
		MangaID int64  `json:"mangaId"`
		Status  string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.MangaID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "mangaId must be a positive integer"})
		return
	}
	// Unknown status strings silently become plan_to_read.
	if err := library.Upsert(db, auth.UserID(c), req.MangaID, library.ParseStatus(req.Status)); err != nil {
		serverError(c, err, "library add failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func handleLibraryUpdate(c *gin.Context, db *sql.DB) {
	var req struct {
		MangaID      int64   `json:"mangaId"`
		Status       *string `json:"status"`
		ChaptersRead *int    `json:"chaptersRead"`
		VolumesRead  *int    `json:"volumesRead"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.MangaID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "mangaId must be a positive integer"})
		return
	}
	var status *library.Status
	if req.Status != nil {
		s := library.ParseStatus(*req.Status)
		status = &s
	}
	if err := library.Update(db, auth.UserID(c), req.MangaID, status, req.ChaptersRead, req.VolumesRead); err != nil {
		serverError(c, err, "library update failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func handleLibraryRemove(c *gin.Context, db *sql.DB) {
	var req struct {
		MangaID int64 `json:"mangaId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.MangaID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "mangaId must be a positive integer"})
		return
	}
	if err := library.Remove(db, auth.UserID(c), req.MangaID); err != nil {
		serverError(c, err, "library remove failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
