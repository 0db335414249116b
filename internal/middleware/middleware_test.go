package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/users-service/internal/config"
	"github.com/deppfellow/users-service/internal/errs"
	"github.com/deppfellow/users-service/internal/server"
)

func newTestServer(env string) *server.Server {
	logger := zerolog.Nop()
	cfg := &config.Config{
		Primary:       config.Primary{Env: env},
		Observability: config.DefaultObservabilityConfig(),
	}
	return server.NewWithDB(cfg, &logger, nil, nil)
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen string
	err := RequestID()(func(c echo.Context) error {
		seen = GetRequestID(c)
		return nil
	})(c)

	require.NoError(t, err)
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
}

func TestLoggerFromContext(t *testing.T) {
	fallback := zerolog.Nop()
	assert.Same(t, &fallback, LoggerFromContext(context.Background(), &fallback))

	s := newTestServer("development")
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/users", nil), httptest.NewRecorder())

	err := NewContextEnhancer(s).EnhanceContext()(func(c echo.Context) error {
		fromEcho := GetLogger(c)
		fromCtx := LoggerFromContext(c.Request().Context(), &fallback)
		assert.Same(t, fromEcho, fromCtx)
		return nil
	})(c)
	require.NoError(t, err)
}

func TestGlobalErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		env        string
		method     string
		err        error
		wantStatus int
		wantCode   string
		wantDetail string
	}{
		{
			name:       "http error keeps shape",
			env:        "development",
			method:     http.MethodGet,
			err:        errs.NewNotFoundError("User not found", true, nil),
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "plain error becomes 500 with detail",
			env:        "development",
			method:     http.MethodGet,
			err:        errors.New("pool exhausted"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
			wantDetail: "pool exhausted",
		},
		{
			name:       "production hides detail",
			env:        "production",
			method:     http.MethodGet,
			err:        errors.New("pool exhausted"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
		},
		{
			name:       "echo method not allowed",
			env:        "development",
			method:     http.MethodGet,
			err:        echo.ErrMethodNotAllowed,
			wantStatus: http.StatusMethodNotAllowed,
			wantCode:   "METHOD_NOT_ALLOWED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			global := NewGlobalMiddlewares(newTestServer(tt.env))

			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(tt.method, "/users", nil), rec)

			global.GlobalErrorHandler(tt.err, c)

			require.Equal(t, tt.wantStatus, rec.Code)

			var body errs.HTTPError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantDetail, body.Detail)
		})
	}
}

func TestGlobalErrorHandler_Head(t *testing.T) {
	global := NewGlobalMiddlewares(newTestServer("development"))

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodHead, "/users", nil), rec)

	global.GlobalErrorHandler(errs.NewNotFoundError("User not found", true, nil), c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
}
