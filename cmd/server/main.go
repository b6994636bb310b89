package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-booking/internal/booking"
	"github.com/iliyamo/hotel-room-booking/internal/config"
	"github.com/iliyamo/hotel-room-booking/internal/database"
	"github.com/iliyamo/hotel-room-booking/internal/handler"
	"github.com/iliyamo/hotel-room-booking/internal/middleware"
	"github.com/iliyamo/hotel-room-booking/internal/payment"
	"github.com/iliyamo/hotel-room-booking/internal/queue"
	"github.com/iliyamo/hotel-room-booking/internal/repository"
	"github.com/iliyamo/hotel-room-booking/internal/router"
	"github.com/iliyamo/hotel-room-booking/internal/scoring"
	queue_publisher "github.com/iliyamo/hotel-room-booking/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: without it the response cache and rate limiter
	// are disabled and payment sessions fall back to process memory.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, cache/ratelimit disabled and payment sessions held in memory")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	bookings := repository.NewBookingRepo(db)
	rooms := repository.NewRoomRepo(db)
	roomTypes := repository.NewRoomTypeRepo(db)
	mealPlans := repository.NewMealPlanRepo(db)
	segments := repository.NewMarketSegmentRepo(db)

	avail := booking.NewChecker(bookings)
	publisher := queue_publisher.NewPublisher("")

	sessionTTL := time.Duration(cfg.PaymentSessionTTL) * time.Minute
	var sessions payment.SessionStore
	if rdb != nil {
		sessions = payment.NewRedisSessionStore(rdb, "paysession", sessionTTL)
	} else {
		sessions = payment.NewMemorySessionStore(sessionTTL)
	}
	gateway := payment.NewHTTPGateway(cfg.GatewayBaseURL, cfg.GatewaySecretKey)
	coordinator := payment.NewCoordinator(sessions, gateway, avail, bookings, publisher, cfg.PaymentReturnURL)

	scorer := scoring.Load(cfg.ModelDir)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	publicH := handler.NewPublicHandler(rooms, mealPlans, segments, avail)
	customerH := handler.NewCustomerHandler(bookings, rooms, mealPlans, segments, avail, publisher)
	paymentH := handler.NewPaymentHandler(coordinator, users, customerH)
	adminH := handler.NewAdminHandler(roomTypes, rooms, mealPlans, segments, bookings, users)
	adminBookingH := handler.NewAdminBookingHandler(bookings, scorer)

	// Broker consumer runs for the life of the process and reconnects on
	// its own; failures never take the API down.
	go func() {
		if err := queue.StartConsumers(); err != nil {
			log.Printf("queue consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true

	var publicMW []echo.MiddlewareFunc
	if rdb != nil {
		publicMW = append(publicMW,
			middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
			middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
		)
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, publicMW...)
	router.RegisterCustomer(e, customerH, paymentH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, adminBookingH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
