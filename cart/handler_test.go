package cart

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drerwrk/auth"
	"drerwrk/database"
	"drerwrk/model"
)

type testEnv struct {
	db     *sqlx.DB
	tokens map[string]string // user id -> bearer token
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.ApplySchema(db))

	env := &testEnv{db: db, tokens: map[string]string{}}
	for _, userID := range []string{"u1", "u2"} {
		_, err = db.Exec(`INSERT INTO users (id, email, password_hash) VALUES (?, ?, 'x')`,
			userID, userID+"@example.com")
		require.NoError(t, err)
		token, err := auth.IssueSession(db, userID, time.Hour)
		require.NoError(t, err)
		env.tokens[userID] = token
	}

	_, err = db.Exec(`INSERT INTO products (id, name, category, price, image) VALUES
		(5, 'Samsung 990 Pro', 'Storage', 7495, '/img/990.png')`)
	require.NoError(t, err)
	return env
}

// request runs a handler directly and returns the recorder.
func (e *testEnv) request(t *testing.T, h http.HandlerFunc, method, path, userID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+e.tokens[userID])
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func (e *testEnv) cartLines(t *testing.T, userID string) []model.CartLine {
	t.Helper()
	lines, err := database.GetCartLines(e.db, userID)
	require.NoError(t, err)
	return lines
}

func TestHandlersRejectMissingCredential(t *testing.T) {
	env := newTestEnv(t)

	handlers := map[string]http.HandlerFunc{
		"get":   GetCartHandler(env.db),
		"add":   AddItemHandler(env.db),
		"sync":  SyncCartHandler(env.db),
		"item":  ItemHandler(env.db),
		"clear": ClearCartHandler(env.db),
	}
	for name, h := range handlers {
		rec := env.request(t, h, http.MethodPost, "/api/cart/5", "", `{}`)
		assert.Equalf(t, http.StatusUnauthorized, rec.Code, "handler %s", name)
	}
}

func TestAddItemIsAdditivePerUser(t *testing.T) {
	env := newTestEnv(t)
	add := AddItemHandler(env.db)

	body := `{"item": {"id": 5, "quantity": 2}}`
	require.Equal(t, http.StatusOK, env.request(t, add, http.MethodPost, "/api/cart", "u1", body).Code)
	require.Equal(t, http.StatusOK, env.request(t, add, http.MethodPost, "/api/cart", "u1", body).Code)

	lines := env.cartLines(t, "u1")
	require.Len(t, lines, 1)
	assert.Equal(t, 4, lines[0].Quantity)
	assert.Empty(t, env.cartLines(t, "u2"))
}

func TestVirtualAndCatalogIdsAreDistinctLines(t *testing.T) {
	env := newTestEnv(t)
	add := AddItemHandler(env.db)

	require.Equal(t, http.StatusOK, env.request(t, add, http.MethodPost, "/api/cart", "u1",
		`{"item": {"id": 5, "quantity": 1}}`).Code)
	require.Equal(t, http.StatusOK, env.request(t, add, http.MethodPost, "/api/cart", "u1",
		`{"item": {"id": "pkg-5", "name": "Bundle 5", "price": 30000, "quantity": 1}}`).Code)

	lines := env.cartLines(t, "u1")
	require.Len(t, lines, 2)
	assert.NotEqual(t, lines[0].Ref, lines[1].Ref)
}

func TestAddItemRejectsBadPayload(t *testing.T) {
	env := newTestEnv(t)
	add := AddItemHandler(env.db)

	for name, body := range map[string]string{
		"not json":     `{`,
		"zero qty":     `{"item": {"id": 5, "quantity": 0}}`,
		"negative qty": `{"item": {"id": 5, "quantity": -1}}`,
		"empty id":     `{"item": {"id": "", "quantity": 1}}`,
	} {
		rec := env.request(t, add, http.MethodPost, "/api/cart", "u1", body)
		assert.Equalf(t, http.StatusBadRequest, rec.Code, "case %s", name)
	}
}

func TestUpdateQuantityOwnership(t *testing.T) {
	env := newTestEnv(t)
	item := ItemHandler(env.db)

	require.Equal(t, http.StatusOK, env.request(t, AddItemHandler(env.db), http.MethodPost, "/api/cart", "u1",
		`{"item": {"id": 5, "quantity": 2}}`).Code)

	// Owner succeeds.
	rec := env.request(t, item, http.MethodPut, "/api/cart/5", "u1", `{"quantity": 7}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, env.cartLines(t, "u1")[0].Quantity)

	// Another user's line: forbidden, and untouched.
	rec = env.request(t, item, http.MethodPut, "/api/cart/5", "u2", `{"quantity": 1}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 7, env.cartLines(t, "u1")[0].Quantity)

	// No line anywhere: not found.
	rec = env.request(t, item, http.MethodPut, "/api/cart/pkg-missing", "u2", `{"quantity": 1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateQuantityRejectsNonPositive(t *testing.T) {
	env := newTestEnv(t)
	item := ItemHandler(env.db)

	require.Equal(t, http.StatusOK, env.request(t, AddItemHandler(env.db), http.MethodPost, "/api/cart", "u1",
		`{"item": {"id": 5, "quantity": 2}}`).Code)

	for _, body := range []string{`{"quantity": 0}`, `{"quantity": -3}`} {
		rec := env.request(t, item, http.MethodPut, "/api/cart/5", "u1", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
	assert.Equal(t, 2, env.cartLines(t, "u1")[0].Quantity)
}

func TestRemoveItem(t *testing.T) {
	env := newTestEnv(t)
	item := ItemHandler(env.db)

	require.Equal(t, http.StatusOK, env.request(t, AddItemHandler(env.db), http.MethodPost, "/api/cart", "u1",
		`{"item": {"id": 5, "quantity": 2}}`).Code)

	rec := env.request(t, item, http.MethodDelete, "/api/cart/5", "u1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, env.cartLines(t, "u1"))

	// Removing an absent line stays a success.
	rec = env.request(t, item, http.MethodDelete, "/api/cart/5", "u1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSyncMergesMaxWinsAndSkipsJunk(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, database.UpsertCatalogLine(env.db, "u1", 5, 4))

	payload := `{"localCart": [
		{"id": 5, "quantity": 2},
		{"id": "pkg-9", "name": "Creator Bundle", "price": 45000, "quantity": 3},
		{"id": "pkg-junk", "quantity": 0}
	]}`
	rec := env.request(t, SyncCartHandler(env.db), http.MethodPost, "/api/cart/sync", "u1", payload)
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		FailedCatalog int `json:"failedCatalog"`
		FailedVirtual int `json:"failedVirtual"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Zero(t, result.FailedCatalog)
	assert.Zero(t, result.FailedVirtual)

	lines := env.cartLines(t, "u1")
	require.Len(t, lines, 2)
	for _, line := range lines {
		switch line.Ref {
		case model.CatalogRef(5):
			assert.Equal(t, 4, line.Quantity) // server's 4 beats local 2
		case model.VirtualRef("pkg-9"):
			assert.Equal(t, 3, line.Quantity)
		default:
			t.Fatalf("unexpected line %s", line.Ref)
		}
	}
}

func TestClearCartOnlyTouchesCaller(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, database.UpsertCatalogLine(env.db, "u1", 5, 1))
	require.NoError(t, database.UpsertCatalogLine(env.db, "u2", 5, 1))

	rec := env.request(t, ClearCartHandler(env.db), http.MethodDelete, "/api/cart", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Empty(t, env.cartLines(t, "u1"))
	assert.Len(t, env.cartLines(t, "u2"), 1)
}
