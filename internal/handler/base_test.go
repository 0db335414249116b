package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/users-service/internal/errs"
	"github.com/deppfellow/users-service/internal/model"
)

func serve(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestHandle_FreshRequestPerCall(t *testing.T) {
	var seen []model.ListUsersRequest

	e := echo.New()
	e.GET("/users", Handle(Handler{}, func(c echo.Context, req *model.ListUsersRequest) (int, error) {
		seen = append(seen, *req)
		return req.PageSize, nil
	}, http.StatusOK, model.NewListUsersRequest))

	require.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/users?page=4&page_size=50").Code)
	require.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/users").Code)

	require.Len(t, seen, 2)
	assert.Equal(t, model.ListUsersRequest{Page: 4, PageSize: 50}, seen[0])
	assert.Equal(t, model.ListUsersRequest{Page: model.DefaultPage, PageSize: model.DefaultPageSize}, seen[1])
}

func TestHandle_ValidationStopsHandler(t *testing.T) {
	called := false

	e := echo.New()

	var handled error
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		handled = err
		_ = c.NoContent(http.StatusTeapot)
	}

	e.GET("/users", Handle(Handler{}, func(c echo.Context, req *model.ListUsersRequest) (int, error) {
		called = true
		return 0, nil
	}, http.StatusOK, model.NewListUsersRequest))

	serve(e, http.MethodGet, "/users?page_size=500")

	var httpErr *errs.HTTPError
	require.ErrorAs(t, handled, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "page_size", httpErr.Errors[0].Field)
	assert.False(t, called)
}

func TestHandle_HandlerError(t *testing.T) {
	e := echo.New()

	var handled error
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		handled = err
		_ = c.NoContent(http.StatusTeapot)
	}

	e.GET("/ping", Handle(Handler{}, func(c echo.Context, _ *model.EmptyRequest) (string, error) {
		return "", errs.NewInternalServerError().WithCause(errors.New("boom"))
	}, http.StatusOK, NewRequest[model.EmptyRequest]))

	serve(e, http.MethodGet, "/ping")

	var httpErr *errs.HTTPError
	require.ErrorAs(t, handled, &httpErr)
	assert.Equal(t, "boom", httpErr.Detail)
}

func TestHandleNoContent(t *testing.T) {
	var gotID int64

	e := echo.New()
	e.DELETE("/users/:id", HandleNoContent(Handler{}, func(c echo.Context, req *model.DeleteUserRequest) error {
		gotID = req.ID
		return nil
	}, http.StatusNoContent, NewRequest[model.DeleteUserRequest]))

	rec := serve(e, http.MethodDelete, "/users/12")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, int64(12), gotID)
}

func TestHandleFile(t *testing.T) {
	e := echo.New()
	e.GET("/docs/openapi.json", HandleFile(Handler{}, (&OpenAPIHandler{}).OpenAPISpec,
		http.StatusOK, NewRequest[model.EmptyRequest], "openapi.json", echo.MIMEApplicationJSON, true))

	rec := serve(e, http.MethodGet, "/docs/openapi.json")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "inline; filename=openapi.json", rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Body.String(), `"openapi"`)
}
