package triage

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medmatch/medmatch/internal/platform/auth"
	"github.com/medmatch/medmatch/internal/platform/oracle"
	"github.com/medmatch/medmatch/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the triage endpoints. Analysis works anonymously;
// history requires a session.
func (h *Handler) RegisterRoutes(api, authed *echo.Group) {
	api.POST("/triage", h.Analyze)
	api.GET("/meta/intake", h.IntakeOptions)
	authed.GET("/triage/history", h.History)
}

func (h *Handler) Analyze(c echo.Context) error {
	var input oracle.UserInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	userID := uuid.Nil
	if id := auth.UserIDFromEcho(c); id != "" {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid session user")
		}
		userID = parsed
	}

	result, err := h.svc.Analyze(c.Request().Context(), userID, input)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadGateway,
			"symptom analysis is temporarily unavailable, please try again")
	}

	return c.JSON(http.StatusOK, AnalyzeResponse{
		Result:    result,
		Emergency: result.EmergencyDetected(),
	})
}

func (h *Handler) History(c echo.Context) error {
	userID, err := uuid.Parse(auth.UserIDFromEcho(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid session user")
	}

	pg := pagination.FromContext(c)
	items, total, err := h.svc.History(c.Request().Context(), userID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) IntakeOptions(c echo.Context) error {
	return c.JSON(http.StatusOK, IntakeOptions{
		QuickSymptoms: QuickSymptoms,
		AgeGroups:     AgeGroups,
	})
}
