package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"gymtrack_echo/internal/services"
)

// JSONErrorHandler converts tagged service failures and echo HTTP errors to
// the JSON wire contract: {"error": "..."} with the matching status code.
func JSONErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"

	var (
		validationErr *services.ValidationError
		notFoundErr   *services.NotFoundError
		authErr       *services.AuthorizationError
		storeErr      *services.StoreError
		httpErr       *echo.HTTPError
	)

	switch {
	case errors.As(err, &validationErr):
		code = http.StatusBadRequest
		message = validationErr.Message
	case errors.As(err, &notFoundErr):
		code = http.StatusNotFound
		message = notFoundErr.Error()
	case errors.As(err, &authErr):
		code = http.StatusForbidden
		message = authErr.Message
	case errors.As(err, &storeErr):
		if errors.Is(storeErr, gorm.ErrDuplicatedKey) {
			code = http.StatusBadRequest
			message = "Email already exists"
		} else {
			c.Logger().Error(err)
		}
	case errors.As(err, &httpErr):
		code = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok && msg != "" {
			message = msg
		} else {
			message = http.StatusText(code)
		}
	default:
		c.Logger().Error(err)
	}

	if writeErr := c.JSON(code, map[string]string{"error": message}); writeErr != nil {
		c.Logger().Error(writeErr)
	}
}
