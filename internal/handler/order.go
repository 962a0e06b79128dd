package handler

import (
	"net/http"
	"strconv"

	"food-ordering-api/internal/dto"
	"food-ordering-api/internal/middleware"
	"food-ordering-api/internal/service"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orderService   service.OrderService
	reorderService service.ReorderService
}

func NewOrderHandler(orderService service.OrderService, reorderService service.ReorderService) *OrderHandler {
	return &OrderHandler{
		orderService:   orderService,
		reorderService: reorderService,
	}
}

func idFromPath(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

// POST /api/orders
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	result, err := h.orderService.CreateOrder(ctx, middleware.UserID(c), &req)
	if err != nil {
		return respondError(c, err)
	}

	return respondData(c, http.StatusCreated, "order created", result)
}

// GET /api/orders
func (h *OrderHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.orderService.ListOrders(ctx, middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return respondData(c, http.StatusOK, "orders", orders)
}

// GET /api/orders/:id
func (h *OrderHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := idFromPath(c)
	if err != nil {
		return err
	}

	order, err := h.orderService.GetOrder(ctx, middleware.UserID(c), orderID)
	if err != nil {
		return respondError(c, err)
	}

	return respondData(c, http.StatusOK, "order", order)
}

// PUT /api/orders/:id — rebuild the active cart from a past order.
func (h *OrderHandler) Reorder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := idFromPath(c)
	if err != nil {
		return err
	}

	cart, err := h.reorderService.Reorder(ctx, middleware.UserID(c), orderID)
	if err != nil {
		return respondError(c, err)
	}

	return respondData(c, http.StatusCreated, "order items added to a new cart", cart)
}
