package handlers

import (
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"

	"gymtrack_echo/internal/middleware"
	"gymtrack_echo/internal/models"
	"gymtrack_echo/internal/services"
)

// AuthHandler handles registration, login and logout
type AuthHandler struct {
	accounts *services.AccountService
	sessions *services.SessionStore
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(accounts *services.AccountService, sessions *services.SessionStore) *AuthHandler {
	return &AuthHandler{accounts: accounts, sessions: sessions}
}

// Register creates a new user account
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}

	in := services.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Gender:    req.Gender,
		Phone:     req.Phone,
		Role:      models.Role(req.Role),
	}
	if req.DateOfBirth != "" {
		dob, err := parseDate(req.DateOfBirth)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid date of birth")
		}
		in.DateOfBirth = &dob
	}

	user, err := h.accounts.Register(c.Request().Context(), in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User registered successfully!",
		"userId":  user.ID,
	})
}

// Login verifies credentials and opens a session
func (h *AuthHandler) Login(c echo.Context) error {
	if h.sessions == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Sessions not configured")
	}

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}

	user, err := h.accounts.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	token, err := h.sessions.Create(c.Request().Context(), *user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create session")
	}

	cookie := &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		MaxAge:   int((5 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		Secure:   os.Getenv("ENV") == "production",
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	}
	c.SetCookie(cookie)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":     true,
		"message":     "Login successful!",
		"redirectUrl": user.Role.DashboardURL(),
		"user": map[string]interface{}{
			"id":   user.ID,
			"name": user.FullName(),
			"role": user.Role,
		},
	})
}

// Logout ends the session and clears the cookie
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" && h.sessions != nil {
		_ = h.sessions.Delete(c.Request().Context(), cookie.Value)
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Path:     "/",
	})

	return c.JSON(http.StatusOK, map[string]string{
		"status": "logged out",
	})
}
