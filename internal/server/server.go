package server

import (
	"food-ordering-api/internal/handler"
	"food-ordering-api/internal/middleware"
	"food-ordering-api/internal/repository"
	"food-ordering-api/internal/service"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo            *echo.Echo
	jwtSecret       string
	cartHandler     *handler.CartHandler
	orderHandler    *handler.OrderHandler
	adminHandler    *handler.AdminHandler
	productHandler  *handler.ProductHandler
	locationHandler *handler.LocationHandler
	deviceHandler   *handler.DeviceHandler
	webhookHandler  *handler.WebhookHandler
}

func NewServer(
	jwtSecret string,
	cartService service.CartService,
	orderService service.OrderService,
	reorderService service.ReorderService,
	paymentService service.PaymentService,
	productService service.ProductService,
	locationService service.LocationService,
	userRepo repository.UserRepository,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.RequestLogger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	s := &Server{
		echo:            e,
		jwtSecret:       jwtSecret,
		cartHandler:     handler.NewCartHandler(cartService),
		orderHandler:    handler.NewOrderHandler(orderService, reorderService),
		adminHandler:    handler.NewAdminHandler(orderService, productService),
		productHandler:  handler.NewProductHandler(productService),
		locationHandler: handler.NewLocationHandler(locationService),
		deviceHandler:   handler.NewDeviceHandler(userRepo),
		webhookHandler:  handler.NewWebhookHandler(paymentService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// Public catalog.
	api.GET("/products", s.productHandler.ListProducts)
	api.GET("/products/:id", s.productHandler.GetProduct)

	// Gateway callbacks authenticate through their signature, not a user token.
	api.POST("/webhooks/stripe", s.webhookHandler.HandleStripeWebhook)

	authed := api.Group("", middleware.Auth(s.jwtSecret))

	cart := authed.Group("/cart")
	cart.GET("", s.cartHandler.ListItems)
	cart.GET("/total", s.cartHandler.Totals)
	cart.DELETE("", s.cartHandler.DisableCart)
	cart.PUT("/items/:idProduct", s.cartHandler.SetItem)
	cart.POST("/items/:idProduct", s.cartHandler.AddOneUnit)
	cart.DELETE("/items/:idProduct", s.cartHandler.RemoveItem)

	orders := authed.Group("/orders")
	orders.POST("", s.orderHandler.CreateOrder)
	orders.GET("", s.orderHandler.ListOrders)
	orders.GET("/:id", s.orderHandler.GetOrder)
	orders.PUT("/:id", s.orderHandler.Reorder)

	authed.POST("/locations", s.locationHandler.CreateLocation)
	authed.GET("/locations", s.locationHandler.ListLocations)
	authed.POST("/devices", s.deviceHandler.RegisterDeviceToken)

	admin := authed.Group("/admin", middleware.RequireAdmin())
	admin.GET("/orders", s.adminHandler.ListAllOrders)
	admin.PATCH("/orders/:id", s.adminHandler.UpdateOrderStatus)
	admin.POST("/products", s.adminHandler.CreateProduct)
	admin.PUT("/products/:id", s.adminHandler.UpdateProduct)
	admin.DELETE("/products/:id", s.adminHandler.DeactivateProduct)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
