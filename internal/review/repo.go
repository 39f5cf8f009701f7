package review

import (
	"database/sql"
	"errors"
	"strings"
	"time"
)

const MaxCommentLen = 2000

var ErrRatingRange = errors.New("rating must be between 1 and 5")

// TargetType says whether a review is about an anime or a manga.
type TargetType string

const (
	TargetAnime TargetType = "anime"
	TargetManga TargetType = "manga"
)

// ParseTargetType falls back to anime on anything else.
func ParseTargetType(s string) TargetType {
	if TargetType(s) == TargetManga {
		return TargetManga
	}
	return TargetAnime
}

type Review struct {
	ID         int64      `json:"id"`
	Username   string     `json:"username,omitempty"`
	TargetID   int64      `json:"target_id"`
	TargetType TargetType `json:"target_type"`
	Rating     int        `json:"rating"`
	Comment    string     `json:"comment"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Create inserts a review. Ratings outside [1,5] are rejected up front,
// matching the CHECK constraint on the table.
func Create(db *sql.DB, userID, targetID int64, targetType TargetType, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return ErrRatingRange
	}
	comment = strings.TrimSpace(comment)
	if r := []rune(comment); len(r) > MaxCommentLen {
		comment = string(r[:MaxCommentLen])
	}
	_, err := db.Exec(`INSERT INTO reviews(user_id, target_id, target_type, rating, comment) VALUES(?, ?, ?, ?, ?)`,
		userID, targetID, targetType, rating, comment)
	return err
}

const reviewSelect = `
SELECT reviews.id, users.username, reviews.target_id, reviews.target_type,
       reviews.rating, reviews.comment, reviews.created_at
FROM reviews JOIN users ON reviews.user_id = users.id`

func scanReviews(rows *sql.Rows) ([]Review, error) {
	defer rows.Close()
	reviews := []Review{}
	for rows.Next() {
		var r Review
		if err := rows.Scan(&r.ID, &r.Username, &r.TargetID, &r.TargetType,
			&r.Rating, &r.Comment, &r.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

// ListForTarget returns the newest reviews of one anime or manga.
func ListForTarget(db *sql.DB, targetID int64, targetType TargetType, limit int) ([]Review, error) {
	rows, err := db.Query(reviewSelect+` WHERE reviews.target_id = ? AND reviews.target_type = ?
	ORDER BY reviews.created_at DESC, reviews.id DESC LIMIT ?`, targetID, targetType, limit)
	if err != nil {
		return nil, err
	}
	return scanReviews(rows)
}

// Recent returns the newest reviews site-wide for the public feed.
func Recent(db *sql.DB, limit int) ([]Review, error) {
	rows, err := db.Query(reviewSelect+` ORDER BY reviews.created_at DESC, reviews.id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return scanReviews(rows)
}

// RecentByUser returns the user's newest reviews for the activity view.
func RecentByUser(db *sql.DB, userID int64, limit int) ([]Review, error) {
	rows, err := db.Query(reviewSelect+` WHERE reviews.user_id = ?
	ORDER BY reviews.created_at DESC, reviews.id DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	return scanReviews(rows)
}
