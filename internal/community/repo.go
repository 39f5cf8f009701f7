package community

import (
	"database/sql"
	"errors"
	"strings"
	"time"
)

const (
	MaxPostLen  = 2000
	MaxReplyLen = 1000
)

var (
	ErrEmptyContent = errors.New("content is required")
	ErrPostNotFound = errors.New("post not found")
)

// Category is the closed set of post categories.
type Category string

const (
	CategoryDiscussion     Category = "discussion"
	CategoryReview         Category = "review"
	CategoryRecommendation Category = "recommendation"
	CategoryQuestion       Category = "question"
	CategoryMeme           Category = "meme"
)

// ParseCategory falls back to discussion on anything outside the set.
func ParseCategory(s string) Category {
	switch Category(s) {
	case CategoryDiscussion, CategoryReview, CategoryRecommendation, CategoryQuestion, CategoryMeme:
		return Category(s)
	default:
		return CategoryDiscussion
	}
}

type Post struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Content    string    `json:"content"`
	Category   Category  `json:"category"`
	LikeCount  int       `json:"like_count"`
	ReplyCount int       `json:"reply_count"`
	CreatedAt  time.Time `json:"created_at"`
}

type Reply struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// clip caps s at n runes after trimming.
func clip(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}

// CreatePost stores the post with content trimmed and capped at MaxPostLen.
func CreatePost(db *sql.DB, userID int64, content string, category Category) (int64, error) {
	content = clip(content, MaxPostLen)
	if content == "" {
		return 0, ErrEmptyContent
	}
	res, err := db.Exec(`INSERT INTO posts(user_id, content, category) VALUES(?, ?, ?)`,
		userID, content, category)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const postSelect = `
SELECT posts.id, users.username, posts.content, posts.category, posts.created_at,
       (SELECT COUNT(*) FROM post_likes WHERE post_likes.post_id = posts.id),
       (SELECT COUNT(*) FROM post_replies WHERE post_replies.post_id = posts.id)
FROM posts JOIN users ON posts.user_id = users.id`

func scanPosts(rows *sql.Rows) ([]Post, error) {
	defer rows.Close()
	posts := []Post{}
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.Username, &p.Content, &p.Category, &p.CreatedAt,
			&p.LikeCount, &p.ReplyCount); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ListPosts pages through all posts. The id tiebreak keeps the order stable
// when created_at collides at second resolution.
func ListPosts(db *sql.DB, oldestFirst bool, page, limit int) ([]Post, error) {
	order := "ORDER BY posts.created_at DESC, posts.id DESC"
	if oldestFirst {
		order = "ORDER BY posts.created_at ASC, posts.id ASC"
	}
	rows, err := db.Query(postSelect+" "+order+" LIMIT ? OFFSET ?",
		limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return scanPosts(rows)
}

// RecentPosts returns the newest posts for the public feed.
func RecentPosts(db *sql.DB, limit int) ([]Post, error) {
	rows, err := db.Query(postSelect+` ORDER BY posts.created_at DESC, posts.id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return scanPosts(rows)
}

// PostsByUser returns the user's newest posts for the activity view.
func PostsByUser(db *sql.DB, userID int64, limit int) ([]Post, error) {
	rows, err := db.Query(postSelect+` WHERE posts.user_id = ?
	ORDER BY posts.created_at DESC, posts.id DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	return scanPosts(rows)
}

func postExists(db *sql.DB, postID int64) error {
	var one int
	err := db.QueryRow(`SELECT 1 FROM posts WHERE id = ?`, postID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPostNotFound
	}
	return err
}

// ToggleLike flips the user's like on a post: first call likes, second
// removes it. Returns the resulting state and total like count.
func ToggleLike(db *sql.DB, postID, userID int64) (liked bool, likes int, err error) {
	if err = postExists(db, postID); err != nil {
		return false, 0, err
	}

	res, err := db.Exec(`INSERT INTO post_likes(user_id, post_id) VALUES(?, ?) ON CONFLICT DO NOTHING`,
		userID, postID)
	if err != nil {
		return false, 0, err
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return false, 0, err
	}
	liked = inserted > 0
	if !liked {
		if _, err = db.Exec(`DELETE FROM post_likes WHERE user_id = ? AND post_id = ?`,
			userID, postID); err != nil {
			return false, 0, err
		}
	}

	err = db.QueryRow(`SELECT COUNT(*) FROM post_likes WHERE post_id = ?`, postID).Scan(&likes)
	return liked, likes, err
}

// AddReply stores a reply with content trimmed and capped at MaxReplyLen.
func AddReply(db *sql.DB, postID, userID int64, content string) (int64, error) {
	if err := postExists(db, postID); err != nil {
		return 0, err
	}
	content = clip(content, MaxReplyLen)
	if content == "" {
		return 0, ErrEmptyContent
	}
	res, err := db.Exec(`INSERT INTO post_replies(post_id, user_id, content) VALUES(?, ?, ?)`,
		postID, userID, content)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListReplies returns a post's replies oldest first, the display order.
func ListReplies(db *sql.DB, postID int64) ([]Reply, error) {
	rows, err := db.Query(`
	SELECT post_replies.id, post_replies.post_id, users.username, post_replies.content, post_replies.created_at
	FROM post_replies JOIN users ON post_replies.user_id = users.id
	WHERE post_replies.post_id = ?
	ORDER BY post_replies.created_at ASC, post_replies.id ASC
	`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	replies := []Reply{}
	for rows.Next() {
		var r Reply
		if err := rows.Scan(&r.ID, &r.PostID, &r.Username, &r.Content, &r.CreatedAt); err != nil {
			return nil, err
		}
		replies = append(replies, r)
	}
	return replies, rows.Err()
}
