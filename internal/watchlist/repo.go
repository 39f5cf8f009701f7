package watchlist

import "database/sql"

// Add puts animeID on the user's watchlist. Adding the same pair twice is
// a no-op: the UNIQUE(user_id, anime_id) constraint plus DO NOTHING keeps
// exactly one row.
func Add(db *sql.DB, userID, animeID int64) error {
	_, err := db.Exec(`INSERT INTO watchlists(user_id, anime_id) VALUES(?, ?) ON CONFLICT DO NOTHING`,
		userID, animeID)
	return err
}

func Remove(db *sql.DB, userID, animeID int64) error {
	_, err := db.Exec(`DELETE FROM watchlists WHERE user_id = ? AND anime_id = ?`,
		userID, animeID)
	return err
}

// List returns the user's watched anime IDs, oldest first.
func List(db *sql.DB, userID int64) ([]int64, error) {
	rows, err := db.Query(`SELECT anime_id FROM watchlists WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
