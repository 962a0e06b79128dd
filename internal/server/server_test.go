package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"food-ordering-api/internal/client"
	"food-ordering-api/internal/config"
	"food-ordering-api/internal/model"
	"food-ordering-api/internal/repository"
	"food-ordering-api/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testJWTSecret = "test-secret"

func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := client.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cartRepo := repository.NewCartRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)
	userRepo := repository.NewUserRepository(db)

	// None of the routes exercised here reach the gateway, so a client with
	// placeholder credentials is enough.
	gateway := client.NewStripeClient(&config.Stripe{
		BaseApiURL:    "http://localhost:0",
		SecretKey:     "sk_test",
		WebhookSecret: "whsec_test",
		Currency:      "usd",
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cartService := service.NewCartService(db, cartRepo, productRepo)
	orderService := service.NewOrderService(db, cartRepo, orderRepo, locationRepo, notificationRepo, gateway, "usd", logger)
	reorderService := service.NewReorderService(db, orderRepo, cartRepo, productRepo)
	paymentService := service.NewPaymentService(db, orderRepo, cartRepo, webhookEventRepo, notificationRepo, gateway, logger)
	productService := service.NewProductService(productRepo)
	locationService := service.NewLocationService(db, locationRepo)

	srv := NewServer(testJWTSecret, cartService, orderService, reorderService, paymentService, productService, locationService, userRepo)
	return srv, db
}

func mintToken(t *testing.T, userID uint, role model.UserRole) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": float64(userID),
		"role":    float64(role),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func do(srv *Server, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

func TestRouteAuthorization(t *testing.T) {
	srv, db := newTestServer(t)

	if err := db.Create(&model.User{Email: "c@example.com", Role: model.RoleCustomer, Active: true}).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	customer := mintToken(t, 1, model.RoleCustomer)
	admin := mintToken(t, 1, model.RoleAdmin)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"health is open", http.MethodGet, "/api/health", "", http.StatusOK},
		{"catalog is open", http.MethodGet, "/api/products", "", http.StatusOK},
		{"cart needs auth", http.MethodGet, "/api/cart", "", http.StatusUnauthorized},
		{"orders need auth", http.MethodGet, "/api/orders", "", http.StatusUnauthorized},
		{"cart with token", http.MethodGet, "/api/cart/total", customer, http.StatusOK},
		{"customer blocked from admin", http.MethodGet, "/api/admin/orders", customer, http.StatusForbidden},
		{"admin allowed", http.MethodGet, "/api/admin/orders", admin, http.StatusOK},
	}
	for _, tc := range cases {
		if rec := do(srv, tc.method, tc.path, tc.token); rec.Code != tc.want {
			t.Errorf("%s: expected %d, got %d (body %s)", tc.name, tc.want, rec.Code, rec.Body)
		}
	}
}

func TestWebhookRouteRejectsUnsignedRequests(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(srv, http.MethodPost, "/api/webhooks/stripe", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("unsigned webhook should get 403, got %d", rec.Code)
	}
}
