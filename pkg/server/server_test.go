package server

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fafutuka/quranaudio/pkg/config"
	"github.com/fafutuka/quranaudio/pkg/migrations"
	"github.com/labstack/echo/v4"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func doRequest(t *testing.T, e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	out := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestNew(t *testing.T) {
	cfg := config.NewForTest()
	cfg.ServerPort = 4000

	srv, err := New(cfg, setupTestDB(t))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:4000", srv.Addr)
}

func TestNew_InvalidRateLimit(t *testing.T) {
	cfg := config.NewForTest()
	cfg.RateLimit = "fast"

	_, err := New(cfg, setupTestDB(t))
	require.Error(t, err)
}

func TestServer(t *testing.T) {
	cfg := config.NewForTest()
	cfg.MetricsEnabled = true
	cfg.RateLimit = "1000-S"

	e, err := newEcho(cfg, setupTestDB(t))
	require.NoError(t, err)

	t.Run("index lists endpoints", func(t *testing.T) {
		rec := doRequest(t, e, http.MethodGet, "/", "")
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "Quran Audio API", body["message"])
		assert.Equal(t, "dev", body["version"])
		assert.Contains(t, body["endpoints"], "GET /resources/ayah-recitation/{recitation_id}/{ayah_key}")
		assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
		assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Limit"))
	})

	t.Run("health", func(t *testing.T) {
		rec := doRequest(t, e, http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown routes are not found", func(t *testing.T) {
		rec := doRequest(t, e, http.MethodGet, "/nope", "")
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, map[string]interface{}{
			"error":       "Page not found",
			"code":        "not_found",
			"status_code": float64(http.StatusNotFound),
		}, decode(t, rec))
	})

	t.Run("catalog end to end", func(t *testing.T) {
		rec := doRequest(t, e, http.MethodPost, "/chapter-reciters", `{"name":"Mishari Rashid al-Afasy","arabic_name":"مشاري راشد العفاسي"}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		rec = doRequest(t, e, http.MethodPost, "/recitations", `{"reciter_id":1,"reciter_name":"Mishari Rashid al-Afasy","style":"Murattal"}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		rec = doRequest(t, e, http.MethodPost, "/audio-files", `{"recitation_id":1,"chapter_id":1,"audio_url":"https://example.com/001.mp3","duration":47}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		rec = doRequest(t, e, http.MethodPost, "/audio-files", `{"recitation_id":1,"chapter_id":1,"verse_key":"1:1","audio_url":"https://example.com/001001.mp3","page_number":1,"juz_number":1}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		rec = doRequest(t, e, http.MethodGet, "/reciters/1/chapters/1", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		af := decode(t, rec)["audio_file"].(map[string]interface{})
		assert.Equal(t, "https://example.com/001.mp3", af["audio_url"])

		rec = doRequest(t, e, http.MethodGet, "/resources/ayah-recitation/1/1:1", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := decode(t, rec)
		assert.Len(t, body["audio_files"], 1)
		p := body["pagination"].(map[string]interface{})
		assert.Equal(t, float64(1), p["total_records"])
		assert.Nil(t, p["next_page"])

		rec = doRequest(t, e, http.MethodGet, "/reciters/999/chapters/1", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Audio file not found", decode(t, rec)["error"])
	})

	t.Run("metrics", func(t *testing.T) {
		rec := doRequest(t, e, http.MethodGet, "/metrics", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",route="/health",status="200"}`)
		assert.Contains(t, rec.Body.String(), "db_query_duration_seconds")
	})
}

func TestServer_TestRoutesOnlyInTest(t *testing.T) {
	cfg := config.NewForTest()
	cfg.Environment = config.EnvironmentProduction

	e, err := newEcho(cfg, setupTestDB(t))
	require.NoError(t, err)

	rec := doRequest(t, e, http.MethodDelete, "/test/catalog", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
