package review

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medmatch/medmatch/internal/platform/auth"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts review endpoints. Reading is public; writing needs a
// session so the review carries a user name.
func (h *Handler) RegisterRoutes(api, authed *echo.Group) {
	api.GET("/providers/:provider/reviews", h.List)
	authed.POST("/providers/:provider/reviews", h.Create)
}

type CreateRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *Handler) Create(c echo.Context) error {
	userName := auth.UserNameFromEcho(c)
	if userName == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid session user")
	}

	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	review, err := h.store.Add(c.Param("provider"), userName, req.Rating, req.Comment)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, review)
}

func (h *Handler) List(c echo.Context) error {
	provider := c.Param("provider")
	return c.JSON(http.StatusOK, echo.Map{
		"reviews":       h.store.List(provider),
		"averageRating": h.store.AverageRating(provider),
	})
}
