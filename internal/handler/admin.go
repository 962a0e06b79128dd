package handler

import (
	"net/http"

	"food-ordering-api/internal/dto"
	"food-ordering-api/internal/service"

	"github.com/labstack/echo/v4"
)

type AdminHandler struct {
	orderService   service.OrderService
	productService service.ProductService
}

func NewAdminHandler(orderService service.OrderService, productService service.ProductService) *AdminHandler {
	return &AdminHandler{
		orderService:   orderService,
		productService: productService,
	}
}

// GET /api/admin/orders
func (h *AdminHandler) ListAllOrders(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.orderService.ListAllOrders(ctx)
	if err != nil {
		return respondError(c, err)
	}

	return respondData(c, http.StatusOK, "orders", orders)
}

// PATCH /api/admin/orders/:id
func (h *AdminHandler) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := idFromPath(c)
	if err != nil {
		return err
	}

	var req dto.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	order, err := h.orderService.UpdateOrderStatus(ctx, orderID, req.OrderStatusID)
	if err != nil {
		return respondError(c, err)
	}

	return respondData(c, http.StatusOK, "order status updated", order)
}

// POST /api/admin/products
func (h *AdminHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	product, err := h.productService.CreateProduct(ctx, &req)
	if err != nil {
		return respondError(c, err)
	}

	return respondData(c, http.StatusCreated, "product created", product)
}

// PUT /api/admin/products/:id
func (h *AdminHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := idFromPath(c)
	if err != nil {
		return err
	}

	var req dto.ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	product, err := h.productService.UpdateProduct(ctx, productID, &req)
	if err != nil {
		return respondError(c, err)
	}

	return respondData(c, http.StatusOK, "product updated", product)
}

// DELETE /api/admin/products/:id — soft delete.
func (h *AdminHandler) DeactivateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := idFromPath(c)
	if err != nil {
		return err
	}

	if err := h.productService.DeactivateProduct(ctx, productID); err != nil {
		return respondError(c, err)
	}

	return respondData(c, http.StatusOK, "product deactivated", nil)
}
