package marketplace

import (
	"time"

	mktsvc "brickvest-backend/internal/application/marketplace"
	"brickvest-backend/internal/middleware"
	"brickvest-backend/internal/pkg/response"
	"brickvest-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Handlers struct {
	Service *mktsvc.Service
}

type createListingBody struct {
	PropertyID    string          `json:"property_id"`
	Shares        decimal.Decimal `json:"shares"`
	PricePerShare decimal.Decimal `json:"price_per_share"`
	ExpiresAt     *time.Time      `json:"expires_at"`
}

// POST /api/v1/marketplace/listings
func (h *Handlers) CreateListing(c *fiber.Ctx) error {
	sellerID, err := middleware.SessionUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body createListingBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	propertyID, err := uuid.Parse(body.PropertyID)
	if err != nil {
		return response.Error(c, "Invalid property_id", fiber.StatusBadRequest, nil)
	}
	if !validation.IsPositiveAmount(body.Shares) || !validation.IsPositiveAmount(body.PricePerShare) {
		return response.Error(c, "Shares and price_per_share must be positive", fiber.StatusBadRequest, nil)
	}

	listing, err := h.Service.CreateListing(c.Context(), mktsvc.CreateListingInput{
		SellerID:      sellerID,
		PropertyID:    propertyID,
		Shares:        body.Shares,
		PricePerShare: body.PricePerShare,
		ExpiresAt:     body.ExpiresAt,
	})
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.SuccessCreated(c, "Listing created", listing, nil)
}

type buyBody struct {
	ListingID string          `json:"listing_id"`
	Shares    decimal.Decimal `json:"shares"`
}

// POST /api/v1/marketplace/buy
func (h *Handlers) BuyShares(c *fiber.Ctx) error {
	buyerID, err := middleware.SessionUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body buyBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	listingID, err := uuid.Parse(body.ListingID)
	if err != nil {
		return response.Error(c, "Invalid listing_id", fiber.StatusBadRequest, nil)
	}
	if !validation.IsPositiveAmount(body.Shares) {
		return response.Error(c, "Shares must be positive", fiber.StatusBadRequest, nil)
	}

	trade, err := h.Service.BuyShares(c.Context(), listingID, buyerID, body.Shares)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.SuccessCreated(c, "Shares purchased", trade, nil)
}

// POST /api/v1/marketplace/listings/:listing_id/cancel
func (h *Handlers) CancelListing(c *fiber.Ctx) error {
	callerID, err := middleware.SessionUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid listing_id", fiber.StatusBadRequest, nil)
	}

	listing, err := h.Service.CancelListing(c.Context(), listingID, callerID, middleware.IsAdmin(c))
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Listing cancelled", listing, nil)
}

// GET /api/v1/marketplace/listings
func (h *Handlers) GetListings(c *fiber.Ctx) error {
	var filters mktsvc.ListingFilters
	if s := c.Query("property_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return response.Error(c, "Invalid property_id", fiber.StatusBadRequest, nil)
		}
		filters.PropertyID = &id
	}
	if s := c.Query("status"); s != "" {
		filters.Status = &s
	}
	if s := c.Query("min_price"); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return response.Error(c, "Invalid min_price", fiber.StatusBadRequest, nil)
		}
		filters.MinPrice = &d
	}
	if s := c.Query("max_price"); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return response.Error(c, "Invalid max_price", fiber.StatusBadRequest, nil)
		}
		filters.MaxPrice = &d
	}

	listings, err := h.Service.GetListings(c.Context(), filters)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Listings fetched", listings, nil)
}

// GET /api/v1/marketplace/my-listings
func (h *Handlers) GetUserListings(c *fiber.Ctx) error {
	sellerID, err := middleware.SessionUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	listings, err := h.Service.GetUserListings(c.Context(), sellerID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "User listings fetched", listings, nil)
}

// GET /api/v1/marketplace/my-trades
func (h *Handlers) GetUserTrades(c *fiber.Ctx) error {
	userID, err := middleware.SessionUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	trades, err := h.Service.GetUserTrades(c.Context(), userID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "User trades fetched", trades, nil)
}

// GET /api/v1/marketplace/properties/:property_id/stats
func (h *Handlers) GetPropertyMarketStats(c *fiber.Ctx) error {
	propertyID, err := uuid.Parse(c.Params("property_id"))
	if err != nil {
		return response.Error(c, "Invalid property_id", fiber.StatusBadRequest, nil)
	}
	stats, err := h.Service.GetPropertyMarketStats(c.Context(), propertyID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Market stats fetched", stats, nil)
}
