package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"gymtrack_echo/internal/models"
	"gymtrack_echo/internal/services"
)

func handleErr(t *testing.T, err error) (int, map[string]string) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	JSONErrorHandler(err, c)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestJSONErrorHandler(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    int
		wantMessage string
	}{
		{
			name:        "validation maps to 400",
			err:         &services.ValidationError{Message: "Bill amount must be greater than 0"},
			wantCode:    http.StatusBadRequest,
			wantMessage: "Bill amount must be greater than 0",
		},
		{
			name:        "not found maps to 404",
			err:         &services.NotFoundError{Resource: "Bill"},
			wantCode:    http.StatusNotFound,
			wantMessage: "Bill not found",
		},
		{
			name:        "authorization maps to 403",
			err:         &services.AuthorizationError{Message: "Access denied"},
			wantCode:    http.StatusForbidden,
			wantMessage: "Access denied",
		},
		{
			name:        "duplicate key maps to 400",
			err:         &services.StoreError{Op: "create user", Err: gorm.ErrDuplicatedKey},
			wantCode:    http.StatusBadRequest,
			wantMessage: "Email already exists",
		},
		{
			name:        "other store errors hide details behind 500",
			err:         &services.StoreError{Op: "list bills", Err: errors.New("connection refused")},
			wantCode:    http.StatusInternalServerError,
			wantMessage: "Internal server error",
		},
		{
			name:        "echo errors pass through",
			err:         echo.NewHTTPError(http.StatusUnauthorized, "Please log in to continue"),
			wantCode:    http.StatusUnauthorized,
			wantMessage: "Please log in to continue",
		},
		{
			name:        "unknown errors hide details behind 500",
			err:         errors.New("something exploded"),
			wantCode:    http.StatusInternalServerError,
			wantMessage: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := handleErr(t, tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantMessage, body["error"])
		})
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	handler := RequireRole(models.RoleAdmin)(next)

	newCtx := func(auth *services.AuthContext) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		if auth != nil {
			c.Set("auth", auth)
		}
		return c
	}

	var authErr *services.AuthorizationError

	err := handler(newCtx(nil))
	assert.ErrorAs(t, err, &authErr, "missing auth context")

	err = handler(newCtx(&services.AuthContext{UserID: 1, Role: models.RoleMember}))
	assert.ErrorAs(t, err, &authErr, "wrong role")

	err = handler(newCtx(&services.AuthContext{UserID: 1, Role: models.RoleAdmin}))
	assert.NoError(t, err)
}

func TestRequireAuthWithoutStore(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	handler := RequireAuth(nil)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	err := handler(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestRequireAuthMissingCookie(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	handler := RequireAuth(&services.SessionStore{})(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	err := handler(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}
