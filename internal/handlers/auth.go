package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mlebedev/coursehub/internal/events"
	"github.com/mlebedev/coursehub/internal/hash"
	"github.com/mlebedev/coursehub/internal/logging"
	authmw "github.com/mlebedev/coursehub/internal/middleware/auth"
	"github.com/mlebedev/coursehub/internal/models"
	"github.com/mlebedev/coursehub/internal/service/token"
)

type AuthHandler struct {
	DB         *gorm.DB
	Tokens     *token.Service
	Producer   *events.Producer
	BcryptCost int
}

func (h *AuthHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicUserEvents, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Warn("event publish failed", "error", err)
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req struct {
		FullName        string `json:"fullName"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
		Contact         string `json:"contact"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("register_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if req.FullName == "" || req.Email == "" || req.Password == "" || req.ConfirmPassword == "" {
		l.Warn("register_failed", "status", 400, "reason", "missing required fields")
		return echo.NewHTTPError(http.StatusBadRequest, "All required fields must be provided.")
	}
	if !isNameValid(req.FullName) {
		l.Warn("register_failed", "status", 400, "reason", "invalid full name")
		return echo.NewHTTPError(http.StatusBadRequest, "Full name must contain only letters and spaces (2-60 chars).")
	}
	if !isEmailValid(req.Email) {
		l.Warn("register_failed", "status", 400, "reason", "invalid email")
		return echo.NewHTTPError(http.StatusBadRequest, "Please enter a valid email address.")
	}
	if req.Password != req.ConfirmPassword {
		l.Warn("register_failed", "status", 400, "reason", "passwords do not match")
		return echo.NewHTTPError(http.StatusBadRequest, "Passwords do not match.")
	}
	if !isPasswordStrong(req.Password) {
		l.Warn("register_failed", "status", 400, "reason", "weak password")
		return echo.NewHTTPError(http.StatusBadRequest, "Password must be at least 8 chars with upper, lower, number and special char.")
	}

	email := strings.ToLower(req.Email)

	var existing models.User
	err := h.DB.Where("email = ?", email).First(&existing).Error
	switch {
	case err == nil:
		l.Warn("register_failed", "status", 409, "reason", "email already registered")
		return echo.NewHTTPError(http.StatusConflict, "An account with this email already exists.")
	case !errors.Is(err, gorm.ErrRecordNotFound):
		l.Error("register_failed", "status", 500, "reason", "email lookup failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error. Try again later.")
	}

	pwHash, err := hash.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot hash the password", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error. Try again later.")
	}

	user := models.User{
		FullName:     strings.TrimSpace(req.FullName),
		Email:        email,
		PasswordHash: pwHash,
		Contact:      req.Contact,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot create user", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error. Try again later.")
	}

	h.publish(c, user.ID.String(), map[string]any{
		"type":   "user_registered",
		"userID": user.ID.String(),
		"email":  user.Email,
	})

	l.Info("register_successful", "userID", user.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Registration successful. Please login.",
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Email == "" || req.Password == "" {
		l.Warn("login_failed", "status", 400, "reason", "missing credentials")
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password required.")
	}

	var user models.User
	err := h.DB.Where("email = ?", strings.ToLower(req.Email)).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		l.Warn("login_failed", "status", 404, "reason", "unknown email")
		return echo.NewHTTPError(http.StatusNotFound, "No account found with this email.")
	case err != nil:
		l.Error("login_failed", "status", 500, "reason", "email lookup failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error. Try again later.")
	}

	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password", "userID", user.ID)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password.")
	}

	signed, _, err := h.Tokens.Issue(user.ID)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot sign token", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error. Try again later.")
	}

	h.publish(c, user.ID.String(), map[string]any{
		"type":   "user_logged_in",
		"userID": user.ID.String(),
		"email":  user.Email,
	})

	l.Info("login_successful", "userID", user.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"token":   signed,
	})
}

func (h *AuthHandler) Profile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.profile")

	userID, ok := authmw.UserID(c)
	if !ok {
		l.Warn("profile_failed", "status", 401, "reason", "no identity in context")
		return echo.NewHTTPError(http.StatusUnauthorized, "authorization required")
	}

	var user models.User
	err := h.DB.Where("id = ?", userID).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		l.Warn("profile_failed", "status", 404, "reason", "user not found", "userID", userID)
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	case err != nil:
		l.Error("profile_failed", "status", 500, "reason", "user lookup failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error. Try again later.")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"fullName":  user.FullName,
		"email":     user.Email,
		"contact":   user.Contact,
		"createdAt": user.CreatedAt,
	})
}
