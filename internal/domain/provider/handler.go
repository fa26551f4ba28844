package provider

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/medmatch/medmatch/internal/platform/oracle"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/providers", h.Discover)
	api.GET("/emergency-facilities", h.EmergencyFacilities)
}

func (h *Handler) Discover(c echo.Context) error {
	specialty := c.QueryParam("specialty")
	symptoms := c.QueryParam("symptoms")

	coords, err := coordsFromQuery(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	discovery, err := h.svc.Discover(c.Request().Context(), specialty, symptoms, coords, c.RealIP())
	if err != nil {
		if errors.Is(err, ErrMissingSpecialty) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return c.JSON(http.StatusBadGateway, echo.Map{
			"error":        "provider search is temporarily unavailable",
			"fallback_url": FallbackSearchURL(specialty),
		})
	}
	return c.JSON(http.StatusOK, discovery)
}

func (h *Handler) EmergencyFacilities(c echo.Context) error {
	coords, err := coordsFromQuery(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sources, err := h.svc.EmergencyFacilities(c.Request().Context(), coords, c.RealIP())
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{
			"error":        "failed to locate hospitals, please use standard maps or call emergency services",
			"fallback_url": FallbackMapsURL,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"sources": sources})
}

// coordsFromQuery parses optional lat/lng parameters. Both must be present
// together; a lone or unparseable value is rejected rather than silently
// treated as absent.
func coordsFromQuery(c echo.Context) (*oracle.Coordinates, error) {
	latStr, lngStr := c.QueryParam("lat"), c.QueryParam("lng")
	if latStr == "" && lngStr == "" {
		return nil, nil
	}
	if latStr == "" || lngStr == "" {
		return nil, errors.New("lat and lng must be provided together")
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, errors.New("invalid lat")
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return nil, errors.New("invalid lng")
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, errors.New("coordinates out of range")
	}
	return &oracle.Coordinates{Lat: lat, Lng: lng}, nil
}
