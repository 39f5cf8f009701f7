package user

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"findmyanime/pkg/database"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func TestCreateStoresHashNotPlaintext(t *testing.T) {
	db := testDB(t)

	u, err := Create(db, "  LuffyFan  ", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "luffyfan", u.Username, "username must be trimmed and lowercased")

	hash, err := PasswordHash(db, u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2")))
}

func TestCreateDuplicateUsername(t *testing.T) {
	db := testDB(t)

	_, err := Create(db, "zoro", "swords3")
	require.NoError(t, err)

	_, err = Create(db, "ZORO", "different")
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err), "second signup must hit the unique constraint")
}

func TestVerifyLogin(t *testing.T) {
	db := testDB(t)

	created, err := Create(db, "nami", "weatheria")
	require.NoError(t, err)

	u, err := VerifyLogin(db, "Nami", "weatheria")
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)

	_, err = VerifyLogin(db, "nami", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = VerifyLogin(db, "nobody", "weatheria")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetStats(t *testing.T) {
	db := testDB(t)

	u, err := Create(db, "usopp", "sniperking")
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO watchlists(user_id, anime_id) VALUES(?, 21), (?, 20)`, u.ID, u.ID)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO posts(user_id, content) VALUES(?, 'hello')`, u.ID)
	require.NoError(t, err)

	s, err := GetStats(db, u.ID)
	require.NoError(t, err)
	assert.Equal(t, Stats{AnimeCount: 2, MangaCount: 0, ReviewCount: 0, PostCount: 1}, s)
}
