package handler

import (
	"net/http"

	"food-ordering-api/internal/dto"
	"food-ordering-api/internal/middleware"
	"food-ordering-api/internal/service"

	"github.com/labstack/echo/v4"
)

type LocationHandler struct {
	locationService service.LocationService
}

func NewLocationHandler(locationService service.LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

// POST /api/locations
func (h *LocationHandler) CreateLocation(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.LocationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	location, err := h.locationService.CreateLocation(ctx, middleware.UserID(c), &req)
	if err != nil {
		return respondError(c, err)
	}

	return respondData(c, http.StatusCreated, "location created", location)
}

// GET /api/locations
func (h *LocationHandler) ListLocations(c echo.Context) error {
	ctx := c.Request().Context()

	locations, err := h.locationService.ListLocations(ctx, middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return respondData(c, http.StatusOK, "locations", locations)
}
