package handler

import (
	"net/http"

	"food-ordering-api/internal/service"

	"github.com/labstack/echo/v4"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// GET /api/products
func (h *ProductHandler) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.productService.ListProducts(ctx)
	if err != nil {
		return respondError(c, err)
	}

	return respondData(c, http.StatusOK, "products", products)
}

// GET /api/products/:id
func (h *ProductHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := idFromPath(c)
	if err != nil {
		return err
	}

	product, err := h.productService.GetProduct(ctx, productID)
	if err != nil {
		return respondError(c, err)
	}

	return respondData(c, http.StatusOK, "product", product)
}
