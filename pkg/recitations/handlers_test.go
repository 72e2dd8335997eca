package recitations

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fafutuka/quranaudio/pkg/binder"
	"github.com/fafutuka/quranaudio/pkg/errcodes"
	"github.com/labstack/echo/v4"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doRequest(t *testing.T, e *echo.Echo, method, target, body string) (int, map[string]interface{}) {
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

	out := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec.Code, out
}

func TestHandlers(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle
	RegisterRoutes(e, db)

	t.Run("create requires a style", func(t *testing.T) {
		code, body := doRequest(t, e, http.MethodPost, "/recitations", `{"reciter_name":"Al-Minshawi"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, code)
		assert.Equal(t, `"style" is required`, body["error"])
	})

	t.Run("crud", func(t *testing.T) {
		code, body := doRequest(t, e, http.MethodPost, "/recitations", `{"reciter_name":"Al-Minshawi","style":"Mujawwad"}`)
		require.Equal(t, http.StatusCreated, code, body)
		recitation := body["recitation"].(map[string]interface{})
		assert.Equal(t, map[string]interface{}{"name": "Al-Minshawi", "language_name": "en"}, recitation["translated_name"])
		assert.NotContains(t, recitation, "reciter_id")

		code, body = doRequest(t, e, http.MethodGet, "/recitations?language=ar", "")
		require.Equal(t, http.StatusOK, code, body)
		assert.Len(t, body["recitations"], 1)

		code, body = doRequest(t, e, http.MethodPut, "/recitations/1", `{"translated_name":{"name":"المنشاوي","language_name":"ar"}}`)
		require.Equal(t, http.StatusOK, code, body)
		recitation = body["recitation"].(map[string]interface{})
		assert.Equal(t, map[string]interface{}{"name": "المنشاوي", "language_name": "ar"}, recitation["translated_name"])

		code, body = doRequest(t, e, http.MethodPut, "/recitations/1", `{"translated_name":{"name":"Al-Minshawi","language_name":" English "}}`)
		require.Equal(t, http.StatusOK, code, body)

		code, body = doRequest(t, e, http.MethodGet, "/recitations/1", "")
		require.Equal(t, http.StatusOK, code)
		recitation = body["recitation"].(map[string]interface{})
		assert.Equal(t, "Mujawwad", recitation["style"])
		assert.Equal(t, map[string]interface{}{"name": "Al-Minshawi", "language_name": "English"}, recitation["translated_name"])

		code, body = doRequest(t, e, http.MethodDelete, "/recitations/1", "")
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, map[string]interface{}{"success": true, "message": "Recitation deleted successfully"}, body)

		code, body = doRequest(t, e, http.MethodGet, "/recitations/1", "")
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "Recitation not found", body["error"])
	})

	t.Run("unknown query params are rejected", func(t *testing.T) {
		code, body := doRequest(t, e, http.MethodGet, "/recitations?foo=1", "")
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, `Unknown Parameter "foo"`, body["error"])
	})
}
