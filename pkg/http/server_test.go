package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type routes map[string]echo.HandlerFunc

func (r routes) RegisterRoutes(e *echo.Echo) {
	for path, h := range r {
		e.GET(path, h)
	}
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var out APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestServerRoutesAndMetrics(t *testing.T) {
	s := NewServer(nil, Handlers{
		routes{"/a": func(c echo.Context) error { return SuccessResponse(c, "a") }},
		nil,
		routes{"/b": func(c echo.Context) error { return SuccessResponse(c, "b") }},
	})

	assert.Equal(t, "a", decode(t, get(s, "/a")).Data)
	assert.Equal(t, "b", decode(t, get(s, "/b")).Data)

	rec := get(s, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "stockcast_http_requests_total")
}

func TestServerMetricsDisabled(t *testing.T) {
	s := NewServer(nil, nil, WithMetricsPath(""))
	assert.Equal(t, http.StatusNotFound, get(s, "/metrics").Code)
}

func TestServerExtraMiddleware(t *testing.T) {
	deny := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error { return c.NoContent(http.StatusTeapot) }
	}
	s := NewServer(nil, routes{"/a": func(c echo.Context) error { return SuccessResponse(c, "a") }},
		WithMiddleware(deny), WithCORS(false))
	assert.Equal(t, http.StatusTeapot, get(s, "/a").Code)
}

func TestServerRecoversPanics(t *testing.T) {
	s := NewServer(nil, routes{"/panic": func(echo.Context) error { panic("boom") }})
	assert.Equal(t, http.StatusInternalServerError, get(s, "/panic").Code)
}

func TestAppErrorResponse(t *testing.T) {
	s := NewServer(nil, routes{
		"/app": func(c echo.Context) error {
			return AppErrorResponse(c, NewAppError("INVALID_SYMBOL", "symbol", "bad symbol", http.StatusBadRequest).
				WithParam("got", "12$"))
		},
		"/plain": func(c echo.Context) error { return AppErrorResponse(c, errors.New("db down")) },
		"/list":  func(c echo.Context) error { return ListResponse(c, []int{1, 2}, 2) },
	})

	rec := get(s, "/app")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, http.StatusBadRequest, body.Status)
	errs, ok := body.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, errs, 1)
	first := errs[0].(map[string]interface{})
	assert.Equal(t, "INVALID_SYMBOL", first["code"])
	assert.Equal(t, "symbol", first["field"])

	rec = get(s, "/plain")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Something went wrong", decode(t, rec).Data)

	rec = get(s, "/list")
	list := decode(t, rec).Data.(map[string]interface{})
	assert.EqualValues(t, 2, list["total"])
}

func TestAppErrorWraps(t *testing.T) {
	cause := errors.New("timeout")
	err := InternalError("provider failed").WithError(cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "provider failed: timeout", err.Error())
}
