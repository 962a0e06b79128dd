package service

// Shared fixtures for the service tests: an in-memory sqlite database with
// the production schema, plus stub gateway and push clients.

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"food-ordering-api/internal/client"
	"food-ordering-api/internal/model"
	"food-ordering-api/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// A single connection keeps every session on the same in-memory database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := client.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedUser(t *testing.T, db *gorm.DB, email string, role model.UserRole) *model.User {
	t.Helper()
	user := &model.User{Email: email, Name: email, Role: role, Active: true}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, name, price string, active bool) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:   name,
		Price:  mustDecimal(t, price),
		Active: active,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	// The Active column defaults to true, so GORM skips the zero value on
	// Create; persist an inactive product explicitly.
	if !active {
		if err := db.Model(product).Update("active", false).Error; err != nil {
			t.Fatalf("deactivate product: %v", err)
		}
	}
	return product
}

func seedLocation(t *testing.T, db *gorm.DB, userID uint) *model.Location {
	t.Helper()
	location := &model.Location{
		UserID: userID,
		Street: "1 Main St",
		City:   "Springfield",
		Active: true,
	}
	if err := db.Create(location).Error; err != nil {
		t.Fatalf("seed location: %v", err)
	}
	return location
}

func mustDecimal(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", value, err)
	}
	return d
}

func countRows(t *testing.T, db *gorm.DB, value interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var count int64
	q := db.Model(value)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return count
}

func newCartService(db *gorm.DB) CartService {
	return NewCartService(db, repository.NewCartRepository(db), repository.NewProductRepository(db))
}

// stubGateway implements client.PaymentGateway without talking to anything.
type stubGateway struct {
	createCalls   int
	failCreate    bool
	failSignature bool
	lastAmount    decimal.Decimal
}

func (g *stubGateway) CreatePaymentIntent(_ context.Context, amount decimal.Decimal, _ string, orderID uint) (*client.PaymentIntent, error) {
	if g.failCreate {
		return nil, fmt.Errorf("gateway unavailable")
	}
	g.createCalls++
	g.lastAmount = amount
	return &client.PaymentIntent{
		ID:           fmt.Sprintf("pi_test_%d", orderID),
		ClientSecret: fmt.Sprintf("pi_test_%d_secret", orderID),
		Status:       "requires_payment_method",
	}, nil
}

func (g *stubGateway) VerifyWebhookSignature(_ string, _ []byte) error {
	if g.failSignature {
		return fmt.Errorf("bad signature")
	}
	return nil
}

// stubPush records every send instead of calling the push service.
type stubPush struct {
	sends  [][]string
	titles []string
	fail   bool
}

func (p *stubPush) Send(_ context.Context, tokens []string, title, _ string, _ map[string]string) error {
	if p.fail {
		return fmt.Errorf("push service unavailable")
	}
	p.sends = append(p.sends, tokens)
	p.titles = append(p.titles, title)
	return nil
}
