package booking

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medmatch/medmatch/internal/domain/session"
	"github.com/medmatch/medmatch/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the booking endpoints on the authenticated group.
func (h *Handler) RegisterRoutes(authed *echo.Group) {
	authed.POST("/bookings", h.Create)
	authed.GET("/bookings", h.List)
}

type CreateRequest struct {
	DoctorName string `json:"doctorName"`
	Specialty  string `json:"specialty"`
	Time       string `json:"time"`
}

func (h *Handler) Create(c echo.Context) error {
	userID, err := uuid.Parse(auth.UserIDFromEcho(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid session user")
	}

	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	booking, err := h.svc.Create(c.Request().Context(), userID, req.DoctorName, req.Specialty, req.Time)
	switch {
	case errors.Is(err, ErrMissingTimeSlot) || errors.Is(err, ErrMissingDoctor):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrAlreadyBooked):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "profile not found")
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, booking)
}

func (h *Handler) List(c echo.Context) error {
	userID, err := uuid.Parse(auth.UserIDFromEcho(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid session user")
	}

	bookings, err := h.svc.List(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, bookings)
}
