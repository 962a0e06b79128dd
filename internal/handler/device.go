package handler

import (
	"net/http"

	"food-ordering-api/internal/dto"
	"food-ordering-api/internal/middleware"
	"food-ordering-api/internal/repository"

	"github.com/labstack/echo/v4"
)

type DeviceHandler struct {
	userRepo repository.UserRepository
}

func NewDeviceHandler(userRepo repository.UserRepository) *DeviceHandler {
	return &DeviceHandler{userRepo: userRepo}
}

// POST /api/devices — register the caller's push token.
func (h *DeviceHandler) RegisterDeviceToken(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.DeviceTokenRequest
	if err := c.Bind(&req); err != nil || req.Token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if err := h.userRepo.SaveDeviceToken(ctx, middleware.UserID(c), req.Token); err != nil {
		return respondError(c, err)
	}

	return respondData(c, http.StatusCreated, "device token registered", nil)
}
