package library

import "database/sql"

// Status is the closed set of reading states for a library entry.
type Status string

const (
	StatusReading    Status = "reading"
	StatusCompleted  Status = "completed"
	StatusPlanToRead Status = "plan_to_read"
	StatusOnHold     Status = "on_hold"
	StatusDropped    Status = "dropped"
)

// ParseStatus maps free-form input onto the closed set. Anything invalid
// falls back to plan_to_read rather than being rejected.
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusReading, StatusCompleted, StatusPlanToRead, StatusOnHold, StatusDropped:
		return Status(s)
	default:
		return StatusPlanToRead
	}
}

type Entry struct {
	MangaID      int64  `json:"manga_id"`
	Status       Status `json:"status"`
	ChaptersRead int    `json:"chapters_read"`
	VolumesRead  int    `json:"volumes_read"`
}

// Upsert adds mangaID to the user's library, or updates the status of the
// existing entry. UNIQUE(user_id, manga_id) guarantees one row per manga.
func Upsert(db *sql.DB, userID, mangaID int64, status Status) error {
	_, err := db.Exec(`
	INSERT INTO manga_library(user_id, manga_id, status)
	VALUES(?, ?, ?)
	ON CONFLICT(user_id, manga_id)
	DO UPDATE SET status = excluded.status
	`, userID, mangaID, status)
	return err
}

// Update patches only the supplied fields; nil pointers keep the stored
// value via COALESCE.
func Update(db *sql.DB, userID, mangaID int64, status *Status, chaptersRead, volumesRead *int) error {
	_, err := db.Exec(`
	UPDATE manga_library SET status = COALESCE(?, status),
	       chapters_read = COALESCE(?, chapters_read),
	       volumes_read = COALESCE(?, volumes_read)
	WHERE user_id = ? AND manga_id = ?
	`, status, chaptersRead, volumesRead, userID, mangaID)
	return err
}

func Remove(db *sql.DB, userID, mangaID int64) error {
	_, err := db.Exec(`DELETE FROM manga_library WHERE user_id = ? AND manga_id = ?`,
		userID, mangaID)
	return err
}

// List returns the user's library, oldest entries first.
func List(db *sql.DB, userID int64) ([]Entry, error) {
	rows, err := db.Query(`
	SELECT manga_id, status, chapters_read, volumes_read
	FROM manga_library WHERE user_id = ?
	ORDER BY created_at, id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.MangaID, &e.Status, &e.ChaptersRead, &e.VolumesRead); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
