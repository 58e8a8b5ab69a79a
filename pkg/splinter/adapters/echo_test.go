package adapters

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/splinter/pkg/splinter"
)

func newEcho(root *splinter.ScopeNode) *echo.Echo {
	e := echo.New()
	e.Use(NewRequestScope(root, requestAnnotation).Echo())
	e.GET("/state", func(c echo.Context) error {
		scope := EchoScope(c)
		ctx := splinter.GetInstance[echo.Context](scope, "")
		return c.JSON(http.StatusOK, resolveState(scope, ctx.Path()))
	})
	e.GET("/missing", func(c echo.Context) error {
		splinter.GetInstance[string](EchoScope(c), "missing")
		return nil
	})
	return e
}

func TestEcho_RequestScope(t *testing.T) {
	root := splinter.NewScope("root")
	e := newEcho(root)

	var ids []int64
	for range 2 {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/state", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var body stateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Same)
		assert.Equal(t, "/state", body.Path)
		ids = append(ids, body.ID)
	}

	assert.NotEqual(t, ids[0], ids[1])
	assert.Empty(t, root.Children())
}

func TestEcho_InjectionFailure(t *testing.T) {
	e := newEcho(splinter.NewScope("root"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestEchoScope_WithoutMiddleware(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Nil(t, EchoScope(c))
}
