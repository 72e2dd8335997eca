package binder

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fafutuka/quranaudio/pkg/errcodes"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type params struct {
	Hello    string  `json:"hello" mod:"trim" validate:"max=9"`
	VerseKey *string `json:"verse_key" validate:"omitempty,versekey"`
	Omit     string  `json:"-"`
}

type query struct {
	Page     *int  `query:"page" json:"page,omitempty"`
	Segments bool  `query:"segments" json:"segments,omitempty"`
	Juz      *int  `query:"juz_number" json:"juz_number,omitempty" validate:"omitempty,min=1,max=30"`
	Limit    int   `query:"limit" json:"limit,omitempty" default:"10"`
	Empty    *bool `query:"empty" json:"empty,omitempty"`
}

var (
	goodJSON             = `{"hello":" world "}`
	unknownFieldsErrJSON = `{"hello":"world","foo":"bar"}`
	typeErrJSON          = `{"hello":123}`
	validationErrJSON    = `{"hello":"0123456789"}`
	badVerseKeyJSON      = `{"hello":"world","verse_key":"1-1"}`
	goodVerseKeyJSON     = `{"hello":"world","verse_key":"2:255"}`
)

func TestNew(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)
	assert.NotNil(t, b)

	t.Run("only allows application/json bodies", func(tt *testing.T) {
		c := newContext(goodJSON, echo.MIMEApplicationXML)
		p := params{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), "Unsupported Media Type")
	})

	t.Run("disallows unknown fields", func(tt *testing.T) {
		c := newContext(unknownFieldsErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `Unknown Parameter "foo"`)
	})

	t.Run("returns a good message for type errors", func(tt *testing.T) {
		c := newContext(typeErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `"hello" should be of type string`)
	})

	t.Run("use mod tag to modify params", func(tt *testing.T) {
		c := newContext(goodJSON, echo.MIMEApplicationJSON)
		p := params{}
		err := b.Bind(&p, c)
		require.NoError(tt, err)
		assert.Equal(tt, "world", p.Hello)
	})

	t.Run("use validate tag to validate params", func(tt *testing.T) {
		c := newContext(validationErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), "length must be less than or equal to 9 characters")
	})

	t.Run("validates verse keys", func(tt *testing.T) {
		c := newContext(badVerseKeyJSON, echo.MIMEApplicationJSON)
		p := params{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `"verse_key" should be a verse key`)

		c = newContext(goodVerseKeyJSON, echo.MIMEApplicationJSON)
		p = params{}
		err = b.Bind(&p, c)
		require.NoError(tt, err)
		require.NotNil(tt, p.VerseKey)
		assert.Equal(tt, "2:255", *p.VerseKey)
	})

	t.Run("rejects empty bodies on writes", func(tt *testing.T) {
		c := newContext("", echo.MIMEApplicationJSON)
		p := params{}
		err := b.Bind(&p, c)
		assert.Equal(tt, errcodes.EmptyRequestBody(), err)
	})
}

func TestBindQuery(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)

	t.Run("decodes query params and applies defaults", func(tt *testing.T) {
		c := newQueryContext("/?page=2&segments=true")
		q := query{}
		err := b.Bind(&q, c)
		require.NoError(tt, err)
		require.NotNil(tt, q.Page)
		assert.Equal(tt, 2, *q.Page)
		assert.True(tt, q.Segments)
		assert.Equal(tt, 10, q.Limit)
		assert.Nil(tt, q.Juz)
		assert.Nil(tt, q.Empty)
	})

	t.Run("keeps explicit zero values", func(tt *testing.T) {
		c := newQueryContext("/?page=0")
		q := query{}
		err := b.Bind(&q, c)
		require.NoError(tt, err)
		require.NotNil(tt, q.Page)
		assert.Equal(tt, 0, *q.Page)
	})

	t.Run("non-numeric values are invalid arguments", func(tt *testing.T) {
		c := newQueryContext("/?page=abc")
		q := query{}
		err := b.Bind(&q, c)
		var e *errcodes.Error
		require.ErrorAs(tt, err, &e)
		assert.Equal(tt, http.StatusBadRequest, e.HTTPCode)
		assert.Contains(tt, e.Message, `"page" should be of type`)
	})

	t.Run("unknown params are rejected", func(tt *testing.T) {
		c := newQueryContext("/?foo=bar")
		q := query{}
		err := b.Bind(&q, c)
		assert.Equal(tt, errcodes.InvalidArgument(`Unknown Parameter "foo"`), err)
	})

	t.Run("validates query params", func(tt *testing.T) {
		c := newQueryContext("/?juz_number=31")
		q := query{}
		err := b.Bind(&q, c)
		assert.Equal(tt, errcodes.InvalidArgument(`"juz_number" must be less than or equal to 30`), err)
	})
}

func newContext(payload, mime string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(echo.POST, "/", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, mime)
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr)
}

func newQueryContext(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(echo.GET, target, nil)
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr)
}
