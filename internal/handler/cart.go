package handler

import (
	"net/http"
	"strconv"

	"food-ordering-api/internal/dto"
	"food-ordering-api/internal/middleware"
	"food-ordering-api/internal/service"

	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

func productIDFromPath(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("idProduct"), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	return uint(id), nil
}

// PUT /api/cart/items/:idProduct
func (h *CartHandler) SetItem(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := productIDFromPath(c)
	if err != nil {
		return err
	}

	var req dto.CartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	item, err := h.cartService.AddItem(ctx, middleware.UserID(c), productID, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}

	return respondData(c, http.StatusOK, "item added to cart", item)
}

// POST /api/cart/items/:idProduct
func (h *CartHandler) AddOneUnit(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := productIDFromPath(c)
	if err != nil {
		return err
	}

	item, err := h.cartService.AddOneUnit(ctx, middleware.UserID(c), productID)
	if err != nil {
		return respondError(c, err)
	}

	return respondData(c, http.StatusOK, "item quantity increased", item)
}

// DELETE /api/cart/items/:idProduct
func (h *CartHandler) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := productIDFromPath(c)
	if err != nil {
		return err
	}

	if err := h.cartService.RemoveItem(ctx, middleware.UserID(c), productID); err != nil {
		return respondError(c, err)
	}

	return respondData(c, http.StatusOK, "item removed from cart", nil)
}

// GET /api/cart
func (h *CartHandler) ListItems(c echo.Context) error {
	ctx := c.Request().Context()

	items, err := h.cartService.ListItems(ctx, middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return respondData(c, http.StatusOK, "cart items", items)
}

// GET /api/cart/total
func (h *CartHandler) Totals(c echo.Context) error {
	ctx := c.Request().Context()

	totals, err := h.cartService.Totals(ctx, middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return respondData(c, http.StatusOK, "cart totals", totals)
}

// DELETE /api/cart
func (h *CartHandler) DisableCart(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.cartService.DisableCart(ctx, middleware.UserID(c)); err != nil {
		return respondError(c, err)
	}

	return respondData(c, http.StatusOK, "cart disabled", nil)
}
