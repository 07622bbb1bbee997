package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Harshitk-cp/odnar/internal/store/sqlite"
	"github.com/Harshitk-cp/odnar/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupEnv(t *testing.T, env map[string]string) {
	t.Helper()
	defaults := map[string]string{
		"LLM_PROVIDER":         "mock",
		"LLM_MODEL":            "",
		"API_KEY":              "",
		"ANALYZER_MODE":        "inline",
		"ANALYZER_TIMEOUT":     "",
		"CORS_ALLOWED_ORIGINS": "",
		"RATE_LIMIT_RPS":       "",
		"RATE_LIMIT_BURST":     "",
	}
	for k, v := range env {
		defaults[k] = v
	}
	for k, v := range defaults {
		t.Setenv(k, v)
	}
}

func setupApp(t *testing.T, env map[string]string) *App {
	t.Helper()
	setupEnv(t, env)

	ctx := context.Background()
	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "odnar.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.RunMigrations(ctx, db, migrations.SQLite(), zap.NewNop()))

	app := NewApp(SQLiteStorage(db), zap.NewNop())
	t.Cleanup(app.Analyzer.Wait)
	return app
}

func do(t *testing.T, app *App, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	app := setupApp(t, nil)

	rec := do(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "sqlite", body["storage"])
}

func TestHealth_Unavailable(t *testing.T) {
	setupEnv(t, nil)
	storage := Storage{Driver: "postgres", Ping: func(ctx context.Context) error { return errors.New("connection refused") }}
	app := NewApp(storage, zap.NewNop())

	rec := do(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetrics(t *testing.T) {
	app := setupApp(t, nil)
	do(t, app, http.MethodGet, "/health", "", nil)

	rec := do(t, app, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	// The metrics request itself is counted.
	assert.Equal(t, float64(2), body["request_count"])
	analyzer, ok := body["analyzer"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, analyzer["enabled"])
	assert.Contains(t, body, "build")
}

func TestCreateMemo(t *testing.T) {
	app := setupApp(t, nil)

	rec := do(t, app, http.MethodPost, "/v1/memos", `{"content":"  I love mornings  "}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "saved", body["message"])
	memo, ok := body["memo"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "I love mornings", memo["content"])
	assert.NotEmpty(t, memo["id"])
}

func TestCreateMemo_Invalid(t *testing.T) {
	app := setupApp(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"content":`},
		{"missing content", `{}`},
		{"blank content", `{"content":"   "}`},
		{"too long", `{"content":"` + strings.Repeat("x", 1001) + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, app, http.MethodPost, "/v1/memos", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decode(t, rec)["error"])
		})
	}

	rec := do(t, app, http.MethodGet, "/v1/memos", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), decode(t, rec)["count"])
}

func TestMemosProduceOneCard(t *testing.T) {
	app := setupApp(t, nil)

	for _, c := range []string{"I love mornings", "Mornings are the worst", "Coffee helps", "Tea is better", "I work best at night", "Late again"} {
		rec := do(t, app, http.MethodPost, "/v1/memos", `{"content":"`+c+`"}`, nil)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := do(t, app, http.MethodGet, "/v1/memos?limit=3", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	memos := decode(t, rec)["memos"].([]any)
	require.Len(t, memos, 3)
	assert.Equal(t, "Late again", memos[0].(map[string]any)["content"])

	rec = do(t, app, http.MethodGet, "/v1/cards", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(1), body["count"])
	card := body["cards"].([]any)[0].(map[string]any)
	assert.Equal(t, "mock", card["model"])
	assert.Equal(t, "weak", card["strength"])
	assert.NotEmpty(t, card["memo_a_content"])

	rec = do(t, app, http.MethodGet, "/v1/cards/"+card["id"].(string), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, card["title"], decode(t, rec)["title"])
}

func TestMemosWithoutCredential(t *testing.T) {
	app := setupApp(t, map[string]string{"LLM_PROVIDER": "anthropic", "ANTHROPIC_API_KEY": ""})

	for i := 0; i < 6; i++ {
		rec := do(t, app, http.MethodPost, "/v1/memos", `{"content":"memo"}`, nil)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := do(t, app, http.MethodGet, "/v1/cards", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), decode(t, rec)["count"])
}

func TestBackgroundAnalyzer(t *testing.T) {
	app := setupApp(t, map[string]string{"ANALYZER_MODE": "background"})

	for i := 0; i < 5; i++ {
		rec := do(t, app, http.MethodPost, "/v1/memos", `{"content":"memo"}`, nil)
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	app.Analyzer.Wait()

	rec := do(t, app, http.MethodGet, "/v1/cards", "", nil)
	assert.Equal(t, float64(1), decode(t, rec)["count"])
}

func TestGetCard_Errors(t *testing.T) {
	app := setupApp(t, nil)

	rec := do(t, app, http.MethodGet, "/v1/cards/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, app, http.MethodGet, "/v1/cards/6f1c1f7e-7d43-4c59-9c1b-2f1d0a3b9e11", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPIKeyRequired(t *testing.T) {
	app := setupApp(t, map[string]string{"API_KEY": "local-secret"})

	rec := do(t, app, http.MethodGet, "/v1/memos", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, app, http.MethodGet, "/v1/memos", "", map[string]string{"Authorization": "Bearer local-secret"})
	assert.Equal(t, http.StatusOK, rec.Code)

	// Health stays open.
	rec = do(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORS(t *testing.T) {
	app := setupApp(t, map[string]string{"CORS_ALLOWED_ORIGINS": "http://localhost:3000"})

	rec := do(t, app, http.MethodGet, "/health", "", map[string]string{"Origin": "http://localhost:3000"})
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = do(t, app, http.MethodGet, "/health", "", map[string]string{"Origin": "http://evil.example"})
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
