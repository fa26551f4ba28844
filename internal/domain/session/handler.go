package session

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medmatch/medmatch/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api, authed *echo.Group) {
	api.POST("/session/login", h.Login)
	authed.POST("/session/logout", h.Logout)
	authed.GET("/session/profile", h.Profile)
	authed.PUT("/session/profile", h.UpdateProfile)
}

// LoginRequest carries the fabricated identity. Password is accepted for
// interface compatibility and never checked.
type LoginRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, token, err := h.svc.Login(c.Request().Context(), req.Name, req.Email)
	if err != nil {
		if errors.Is(err, ErrInvalidLogin) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, LoginResponse{Token: token, User: user})
}

func (h *Handler) Logout(c echo.Context) error {
	userID, err := uuid.Parse(auth.UserIDFromEcho(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid session user")
	}
	if err := h.svc.Logout(c.Request().Context(), userID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Profile(c echo.Context) error {
	userID, err := uuid.Parse(auth.UserIDFromEcho(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid session user")
	}
	user, err := h.svc.Profile(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, user)
}

type UpdateProfileRequest struct {
	AgeGroup string `json:"ageGroup"`
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	userID, err := uuid.Parse(auth.UserIDFromEcho(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid session user")
	}
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	user, err := h.svc.UpdateAgeGroup(c.Request().Context(), userID, req.AgeGroup)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, user)
}
