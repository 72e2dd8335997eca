package metrics

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fafutuka/quranaudio/pkg/errcodes"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()
	m := New()

	e := echo.New()
	e.HTTPErrorHandler = errcodes.NewHandler().Handle
	e.Use(m.Middleware())
	e.GET("/recitations/:id", func(c echo.Context) error {
		if c.Param("id") == "0" {
			return errcodes.NotFound("Recitation")
		}
		return c.String(http.StatusOK, "ok")
	})

	for _, target := range []string{"/recitations/1", "/recitations/2", "/recitations/0"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	}

	assert.InDelta(t, 2, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues(http.MethodGet, "/recitations/:id", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues(http.MethodGet, "/recitations/:id", "404")), 0)
}

func TestRateLimitObserver(t *testing.T) {
	t.Parallel()
	m := New()

	m.OnAllow("/chapter-reciters")
	m.OnAllow("/chapter-reciters")
	m.OnDeny("/chapter-reciters")

	assert.InDelta(t, 2, testutil.ToFloat64(m.rateLimitAllowed.WithLabelValues("/chapter-reciters")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.rateLimitDenied.WithLabelValues("/chapter-reciters")), 0)
}

func TestQueryHook(t *testing.T) {
	t.Parallel()
	m := New()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		db.Close()
	})
	db.AddQueryHook(m.QueryHook())

	var n int
	require.NoError(t, db.NewSelect().ColumnExpr("1").Scan(context.Background(), &n))

	assert.Equal(t, 1, testutil.CollectAndCount(m.dbQueryDuration))
}

func TestHandler(t *testing.T) {
	t.Parallel()
	m := New()
	m.OnDeny("/recitations")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `rate_limit_deny_total{route="/recitations"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
