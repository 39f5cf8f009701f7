package main

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"findmyanime/internal/auth"
	"findmyanime/internal/community"
	"findmyanime/internal/pagination"
	"findmyanime/internal/review"
	"findmyanime/internal/user"
)

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": name + " must be a positive integer"})
		return 0, false
	}
	return id, true
}

func handleListPosts(c *gin.Context, db *sql.DB) {
	oldestFirst := c.Query("sort") == "oldest"
	posts, err := community.ListPosts(db, oldestFirst, pagination.Page(c), pagination.Limit(c, 50))
	if err != nil {
		serverError(c, err, "posts list failed")
		return
	}
	c.JSON(http.StatusOK, posts)
}

func handleCreatePost(c *gin.Context, db *sql.DB) {
	var req struct {
		Content  string `json:"content"`
		Category string `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Content is required"})
		return
	}
	id, err := community.CreatePost(db, auth.UserID(c), req.Content, community.ParseCategory(req.Category))
	if err != nil {
		serverError(c, err, "post create failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
}

func handleToggleLike(c *gin.Context, db *sql.DB) {
	postID, ok := paramID(c, "id")
	if !ok {
		return
	}
	liked, likes, err := community.ToggleLike(db, postID, auth.UserID(c))
	if errors.Is(err, community.ErrPostNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		return
	}
	if err != nil {
		serverError(c, err, "like toggle failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked, "likes": likes})
}

func handleListReplies(c *gin.Context, db *sql.DB) {
	postID, ok := paramID(c, "id")
	if !ok {
		return
	}
	replies, err := community.ListReplies(db, postID)
	if err != nil {
		serverError(c, err, "replies list failed")
		return
	}
	c.JSON(http.StatusOK, replies)
}

func handleCreateReply(c *gin.Context, db *sql.DB) {
	postID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Content is required"})
		return
	}
	id, err := community.AddReply(db, postID, auth.UserID(c), req.Content)
	if errors.Is(err, community.ErrPostNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		return
	}
	if err != nil {
		serverError(c, err, "reply create failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
}

func handleListReviews(c *gin.Context, db *sql.DB) {
	targetID, ok := paramID(c, "targetId")
	if !ok {
		return
	}
	targetType := review.ParseTargetType(c.Query("type"))
	reviews, err := review.ListForTarget(db, targetID, targetType, pagination.Limit(c, 30))
	if err != nil {
		serverError(c, err, "reviews list failed")
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func handleCreateReview(c *gin.Context, db *sql.DB) {
	var req struct {
		TargetID   int64  `json:"targetId"`
		TargetType string `json:"targetType"`
		Rating     int    `json:"rating"`
		Comment    string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil ||
		req.TargetID <= 0 || strings.TrimSpace(req.Comment) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing fields"})
		return
	}
	err := review.Create(db, auth.UserID(c), req.TargetID, review.ParseTargetType(req.TargetType),
		req.Rating, req.Comment)
	if errors.Is(err, review.ErrRatingRange) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Rating must be 1-5"})
		return
	}
	if err != nil {
		serverError(c, err, "review create failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func handleRecentFeed(c *gin.Context, db *sql.DB) {
	recentReviews, err := review.Recent(db, 4)
	if err != nil {
		serverError(c, err, "feed reviews failed")
		return
	}
	recentPosts, err := community.RecentPosts(db, 4)
	if err != nil {
		serverError(c, err, "feed posts failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"recentReviews": recentReviews,
		"recentPosts":   recentPosts,
	})
}

func handleUserStats(c *gin.Context, db *sql.DB) {
	stats, err := user.GetStats(db, auth.UserID(c))
	if err != nil {
		serverError(c, err, "stats failed")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func handleUserActivity(c *gin.Context, db *sql.DB) {
	userID := auth.UserID(c)
	recentReviews, err := review.RecentByUser(db, userID, 10)
	if err != nil {
		serverError(c, err, "activity reviews failed")
		return
	}
	recentPosts, err := community.PostsByUser(db, userID, 10)
	if err != nil {
		serverError(c, err, "activity posts failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"recentReviews": recentReviews,
		"recentPosts":   recentPosts,
	})
}
