package router

import (
	authsvc "brickvest-backend/internal/application/auth"
	divsvc "brickvest-backend/internal/application/dividends"
	"brickvest-backend/internal/application/events"
	invsvc "brickvest-backend/internal/application/investments"
	mktsvc "brickvest-backend/internal/application/marketplace"
	notifsvc "brickvest-backend/internal/application/notifications"
	propsvc "brickvest-backend/internal/application/properties"
	setsvc "brickvest-backend/internal/application/settings"
	txsvc "brickvest-backend/internal/application/transactions"
	"brickvest-backend/internal/config"
	"brickvest-backend/internal/infrastructure/database"
	authhandler "brickvest-backend/internal/interfaces/handlers/auth"
	divhandler "brickvest-backend/internal/interfaces/handlers/dividends"
	healthhandler "brickvest-backend/internal/interfaces/handlers/health"
	invhandler "brickvest-backend/internal/interfaces/handlers/investments"
	mkthandler "brickvest-backend/internal/interfaces/handlers/marketplace"
	notifhandler "brickvest-backend/internal/interfaces/handlers/notifications"
	prophandler "brickvest-backend/internal/interfaces/handlers/properties"
	wallethandler "brickvest-backend/internal/interfaces/handlers/wallet"
	"brickvest-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app and wires every service behind it. The DB
// and Redis client are returned so cmd/api can verify connectivity before
// listening.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
	}))

	sessionCfg := middleware.SessionConfig{
		Secret:       cfg.SessionSecret,
		RedisURL:     cfg.RedisURL,
		IsProduction: cfg.Env == "production",
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	hh := &healthhandler.Handlers{DB: db, Rdb: rdb}
	app.Get("/health/json", hh.JSON)

	var userFinder authsvc.UserFinder
	if db != nil {
		userFinder = &authsvc.GormUserFinder{DB: db}
	}
	ah := &authhandler.Handlers{UserFinder: userFinder, Rdb: rdb, Config: sessionCfg}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", ah.Login)
	authGroup.Get("/me", ah.Me)
	authGroup.Delete("/logout", ah.Logout)

	if db != nil {
		notifier := &notifsvc.Service{DB: db}
		dispatcher := &events.Dispatcher{Audit: events.LogAudit{}, Notifier: notifier}
		settings := &setsvc.Service{DB: db, Rdb: rdb}

		// Properties (read only; listing lifecycle is an admin concern
		// handled out of band)
		ps := &propsvc.Service{DB: db}
		ph := &prophandler.Handlers{Service: ps}
		pg := app.Group("/api/v1/properties")
		pg.Get("/", ph.List)
		pg.Get("/:property_id", ph.Get)

		// Wallet
		txs := &txsvc.Service{DB: db}
		wh := &wallethandler.Handlers{DB: db, Transactions: txs}
		wg := app.Group("/api/v1/wallet", middleware.RequireAuth())
		wg.Get("/balance", wh.Balance)
		wg.Get("/transactions", wh.ListTransactions)

		// Investments (primary market)
		is := &invsvc.Service{DB: db, Events: dispatcher}
		ih := &invhandler.Handlers{Service: is}
		ig := app.Group("/api/v1/investments", middleware.RequireAuth())
		ig.Post("/invest", ih.Invest)
		ig.Get("/portfolio", ih.GetPortfolio)
		ig.Get("/property/:property_id", ih.GetPropertyInvestments)

		// Marketplace (secondary market)
		ms := mktsvc.NewService(db, settings, dispatcher)
		mh := &mkthandler.Handlers{Service: ms}
		mg := app.Group("/api/v1/marketplace", middleware.RequireAuth())
		mg.Post("/listings", mh.CreateListing)
		mg.Get("/listings", mh.GetListings)
		mg.Get("/my-listings", mh.GetUserListings)
		mg.Post("/buy", mh.BuyShares)
		mg.Post("/listings/:listing_id/cancel", mh.CancelListing)
		mg.Get("/my-trades", mh.GetUserTrades)
		mg.Get("/properties/:property_id/stats", mh.GetPropertyMarketStats)

		// Dividends
		ds := &divsvc.Service{DB: db, Events: dispatcher}
		dh := &divhandler.Handlers{Service: ds}
		dg := app.Group("/api/v1/dividends", middleware.RequireAuth())
		dg.Post("/distribute", middleware.RequireAdmin(), dh.Distribute)
		dg.Get("/property/:property_id", dh.GetByProperty)
		dg.Get("/mine", dh.GetMine)

		// Notifications
		nh := &notifhandler.Handlers{Service: notifier}
		ng := app.Group("/api/v1/notifications", middleware.RequireAuth())
		ng.Get("/", nh.List)
		ng.Patch("/:notification_id/read", nh.MarkRead)
	}

	return app, db, rdb, nil
}
