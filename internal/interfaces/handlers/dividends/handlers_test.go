package dividends

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	divsvc "brickvest-backend/internal/application/dividends"
	"brickvest-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDividendsTest(t *testing.T) (*Handlers, *gorm.DB, uuid.UUID) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Account{}, &domain.Property{}, &domain.Investment{},
		&domain.Dividend{}, &domain.DividendPayment{}, &domain.Transaction{},
	))

	prop := &domain.Property{
		Title:         "Mill Quarter",
		City:          "Gdansk",
		Country:       "PL",
		TotalValue:    decimal.RequireFromString("100000"),
		FundingTarget: decimal.RequireFromString("100000"),
		FundingRaised: decimal.RequireFromString("100000"),
		MinInvestment: decimal.RequireFromString("100"),
		MaxInvestment: decimal.RequireFromString("50000"),
		Status:        domain.PropertyStatusFunded,
	}
	require.NoError(t, db.Create(prop).Error)

	return &Handlers{Service: &divsvc.Service{DB: db}}, db, prop.PropertyID
}

func adminApp() *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"user_id": uuid.New().String(),
			"role":    "admin",
		})
		return c.Next()
	})
	return app
}

func TestDistributeHandler(t *testing.T) {
	h, db, propertyID := setupDividendsTest(t)
	investor := uuid.New()
	require.NoError(t, db.Create(&domain.Account{UserID: investor, Balance: decimal.Zero}).Error)
	require.NoError(t, db.Create(&domain.Investment{
		InvestorID:  investor,
		PropertyID:  propertyID,
		SharesOwned: decimal.RequireFromString("100"),
	}).Error)

	app := adminApp()
	app.Post("/distribute", h.Distribute)

	body, _ := json.Marshal(map[string]interface{}{
		"property_id":         propertyID.String(),
		"quarter":             2,
		"year":                2026,
		"total_rental_income": 10000,
		"total_expenses":      4000,
	})
	req := httptest.NewRequest("POST", "/distribute", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	data, _ := result["data"].(map[string]interface{})
	assert.Equal(t, "600", data["total_paid"])
}

func TestDistributeHandler_DuplicateQuarterMapsTo422(t *testing.T) {
	h, _, propertyID := setupDividendsTest(t)
	app := adminApp()
	app.Post("/distribute", h.Distribute)

	body, _ := json.Marshal(map[string]interface{}{
		"property_id":         propertyID.String(),
		"quarter":             1,
		"year":                2026,
		"total_rental_income": 1000,
	})
	for i, want := range []int{201, 422} {
		req := httptest.NewRequest("POST", "/distribute", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, "request %d", i)
	}
}

func TestDistributeHandler_InvalidPropertyID(t *testing.T) {
	h, _, _ := setupDividendsTest(t)
	app := adminApp()
	app.Post("/distribute", h.Distribute)

	body, _ := json.Marshal(map[string]interface{}{
		"property_id":         "nope",
		"quarter":             1,
		"year":                2026,
		"total_rental_income": 1000,
	})
	req := httptest.NewRequest("POST", "/distribute", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}
