package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"findmyanime/internal/auth"
	"findmyanime/internal/config"
	"findmyanime/pkg/database"
)

func testServer(t *testing.T) (*gin.Engine, *sql.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	cfg := config.Config{
		Env:           "development",
		SessionSecret: "test-secret",
		PublicDir:     t.TempDir(),
	}
	return newRouter(cfg, db, auth.NewStore(auth.SessionTTL)), db
}

func doJSON(r *gin.Engine, method, path, body, cookie string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// sessionCookie pulls the session cookie out of a signup/login response.
func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c.Name + "=" + c.Value
		}
	}
	t.Fatal("no session cookie in response")
	return ""
}

func signup(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()
	w := doJSON(r, "POST", "/api/signup",
		fmt.Sprintf(`{"username":%q,"password":%q}`, username, password), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return sessionCookie(t, w)
}

func TestSignupLoginFlow(t *testing.T) {
	r, db := testServer(t)

	cookie := signup(t, r, "Luffy", "gomugomu")

	// Session identifies the normalized user, and the hash never matches
	// the plaintext.
	w := doJSON(r, "GET", "/api/me", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"luffy"`)

	var stored string
	require.NoError(t, db.QueryRow(`SELECT password_hash FROM users WHERE username='luffy'`).Scan(&stored))
	assert.NotEqual(t, "gomugomu", stored)

	// Same username again conflicts.
	w = doJSON(r, "POST", "/api/signup", `{"username":"luffy","password":"other"}`, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	// Wrong password always fails with 401.
	w = doJSON(r, "POST", "/api/login", `{"username":"luffy","password":"nope"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, "POST", "/api/login", `{"username":"LUFFY","password":"gomugomu"}`, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGuardRejectsWithoutSession(t *testing.T) {
	r, _ := testServer(t)

	for _, route := range []struct{ method, path string }{
		{"GET", "/api/watchlist"},
		{"POST", "/api/watchlist/add"},
		{"GET", "/api/manga-library"},
		{"GET", "/api/user/stats"},
		{"POST", "/api/posts"},
		{"POST", "/api/reviews"},
	} {
		w := doJSON(r, route.method, route.path, "{}", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, route.path)
		assert.Contains(t, w.Body.String(), "Login required")
	}

	// A forged cookie fails the signature check.
	w := doJSON(r, "GET", "/api/watchlist", "", auth.CookieName+"=forged-value")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWatchlistRoutes(t *testing.T) {
	r, _ := testServer(t)
	cookie := signup(t, r, "zoro", "santoryu")

	w := doJSON(r, "POST", "/api/watchlist/add", `{"animeId":21}`, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, "POST", "/api/watchlist/add", `{"animeId":21}`, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, "GET", "/api/watchlist", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var ids []int64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ids))
	assert.Equal(t, []int64{21}, ids)

	w = doJSON(r, "POST", "/api/watchlist/add", `{"animeId":-3}`, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, "POST", "/api/watchlist/remove", `{"animeId":21}`, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, "GET", "/api/watchlist", "", cookie)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestMangaLibraryRoutes(t *testing.T) {
	r, _ := testServer(t)
	cookie := signup(t, r, "nami", "mikan")

	// Invalid status silently defaults to plan_to_read.
	w := doJSON(r, "POST", "/api/manga-library/add", `{"mangaId":13,"status":"bingeing"}`, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, "GET", "/api/manga-library", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"plan_to_read"`)

	w = doJSON(r, "POST", "/api/manga-library/update",
		`{"mangaId":13,"status":"reading","chaptersRead":42}`, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, "GET", "/api/manga-library", "", cookie)
	assert.Contains(t, w.Body.String(), `"status":"reading"`)
	assert.Contains(t, w.Body.String(), `"chapters_read":42`)

	w = doJSON(r, "POST", "/api/manga-library/remove", `{"mangaId":13}`, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, "GET", "/api/manga-library", "", cookie)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestPostLikeReplyFlow(t *testing.T) {
	r, _ := testServer(t)
	cookie := signup(t, r, "usopp", "kabuto")

	w := doJSON(r, "POST", "/api/posts", `{"content":"Best arc?","category":"question"}`, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// Posts are public to read.
	w = doJSON(r, "GET", "/api/posts", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Best arc?")
	assert.Contains(t, w.Body.String(), `"category":"question"`)

	likePath := fmt.Sprintf("/api/posts/%d/like", created.ID)
	w = doJSON(r, "POST", likePath, "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"liked":true`)

	w = doJSON(r, "POST", likePath, "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"liked":false`)
	assert.Contains(t, w.Body.String(), `"likes":0`)

	w = doJSON(r, "POST", fmt.Sprintf("/api/posts/%d/reply", created.ID), `{"content":"Enies Lobby"}`, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, "GET", fmt.Sprintf("/api/posts/%d/replies", created.ID), "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Enies Lobby")

	w = doJSON(r, "POST", "/api/posts/999999/like", "", cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReviewRoutes(t *testing.T) {
	r, _ := testServer(t)
	cookie := signup(t, r, "sanji", "allblue")

	for _, rating := range []int{0, 6} {
		w := doJSON(r, "POST", "/api/reviews",
			fmt.Sprintf(`{"targetId":21,"rating":%d,"comment":"x"}`, rating), cookie)
		assert.Equal(t, http.StatusBadRequest, w.Code, "rating %d must be rejected", rating)
	}

	w := doJSON(r, "POST", "/api/reviews", `{"targetId":21,"targetType":"anime","rating":5,"comment":"peak"}`, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, "GET", "/api/reviews/21?type=anime", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"rating":5`)
	assert.Contains(t, w.Body.String(), `"username":"sanji"`)

	// Feed and activity pick the review up.
	w = doJSON(r, "GET", "/api/feed/recent", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "recentReviews")
	assert.Contains(t, w.Body.String(), "peak")

	w = doJSON(r, "GET", "/api/user/stats", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"reviewCount":1`)
}

func TestLogoutEndsSession(t *testing.T) {
	r, _ := testServer(t)
	cookie := signup(t, r, "brook", "yohoho")

	w := doJSON(r, "POST", "/api/logout", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)

	// Old cookie no longer maps to a session.
	w = doJSON(r, "GET", "/api/me", "", cookie)
	assert.Contains(t, w.Body.String(), `"user":null`)

	w = doJSON(r, "GET", "/api/watchlist", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
