package user

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Normalize applies the canonical username form used everywhere:
// trimmed and lowercased.
func Normalize(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Create hashes the password and inserts the user. The plaintext is never
// stored. A duplicate username surfaces as a UNIQUE violation from the
// driver; callers map it to a conflict.
func Create(db *sql.DB, username, password string) (User, error) {
	username = Normalize(username)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	res, err := db.Exec(`INSERT INTO users(username, password_hash) VALUES(?, ?)`,
		username, string(hash))
	if err != nil {
		return User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return User{}, err
	}
	return User{ID: id, Username: username}, nil
}

// VerifyLogin checks the password against the stored bcrypt hash.
// Unknown usernames and wrong passwords both return ErrInvalidCredentials.
func VerifyLogin(db *sql.DB, username, password string) (User, error) {
	username = Normalize(username)

	var u User
	var hash string
	err := db.QueryRow(`SELECT id, username, password_hash FROM users WHERE username = ?`, username).
		Scan(&u.ID, &u.Username, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

// PasswordHash exists for verification in tests and tooling; the hash never
// leaves the server in responses.
func PasswordHash(db *sql.DB, userID int64) (string, error) {
	var hash string
	err := db.QueryRow(`SELECT password_hash FROM users WHERE id = ?`, userID).Scan(&hash)
	return hash, err
}

type Stats struct {
	AnimeCount  int `json:"animeCount"`
	MangaCount  int `json:"mangaCount"`
	ReviewCount int `json:"reviewCount"`
	PostCount   int `json:"postCount"`
}

// GetStats counts the user's watchlist entries, library entries, reviews
// and posts.
func GetStats(db *sql.DB, userID int64) (Stats, error) {
	var s Stats
	counts := []struct {
		query string
		dst   *int
	}{
		{`SELECT COUNT(*) FROM watchlists WHERE user_id = ?`, &s.AnimeCount},
		{`SELECT COUNT(*) FROM manga_library WHERE user_id = ?`, &s.MangaCount},
		{`SELECT COUNT(*) FROM reviews WHERE user_id = ?`, &s.ReviewCount},
		{`SELECT COUNT(*) FROM posts WHERE user_id = ?`, &s.PostCount},
	}
	for _, c := range counts {
		if err := db.QueryRow(c.query, userID).Scan(c.dst); err != nil {
			return Stats{}, err
		}
	}
	return s, nil
}
