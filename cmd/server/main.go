package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"    // .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/roamstack/travel-backend/internal/amadeus"
	"github.com/roamstack/travel-backend/internal/config"
	"github.com/roamstack/travel-backend/internal/database"
	"github.com/roamstack/travel-backend/internal/handler"
	"github.com/roamstack/travel-backend/internal/middleware"
	"github.com/roamstack/travel-backend/internal/queue"
	"github.com/roamstack/travel-backend/internal/repository"
	"github.com/roamstack/travel-backend/internal/router"
	"github.com/roamstack/travel-backend/internal/service"
	"github.com/roamstack/travel-backend/internal/supabase"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use the environment

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: with a nil client the cache and limiter become
	// pass-throughs and the consumer skips invalidation.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiting disabled")
	}
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	// Repositories share the single connection pool.
	destinations := repository.NewDestinationRepo(db)
	wishlist := repository.NewWishlistRepo(db)
	tokens := repository.NewTokenRepo(db)
	users := repository.NewUserRepo(db)

	// Hotel API client and the shared token cache.  The warm refresher
	// keeps the token alive between requests.
	amadeusClient := amadeus.NewClient(cfg.AmadeusHost, cfg.AmadeusClientID, cfg.AmadeusClientSecret, cfg.Verbose)
	tokenCache := amadeus.NewTokenCache(amadeusClient, tokens, cfg.Verbose)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go amadeus.StartWarmRefresher(ctx, tokenCache, amadeus.WarmRefreshInterval)

	// Hosted auth provider client; all credential handling lives there.
	auth := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseKey)

	hotelSearch := service.NewHotelSearch(amadeusClient, tokenCache, cfg.Verbose)
	phoneVerifier := service.NewPhoneVerifier(cfg.PhoneJWTSecret, cfg.PhoneJWTIssuer, cfg.PhoneJWTAudience)

	// Destination change consumer: cache invalidation plus audit log.
	go func() {
		if err := queue.StartDestinationConsumer(rdb, cacheCfg.Prefix); err != nil {
			log.Printf("destination consumer stopped: %v", err)
		}
	}()

	destHandler := handler.NewDestinationHandler(destinations)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(auth, users), middleware.NewTokenBucket(rlCfg, rdb))
	router.RegisterPhone(e, handler.NewPhoneHandler(phoneVerifier))
	router.RegisterPublic(e, destHandler, handler.NewHotelHandler(hotelSearch),
		middleware.NewResponseCache(cacheCfg, rdb))
	router.RegisterPrivate(e, destHandler, handler.NewWishlistHandler(wishlist),
		middleware.RequireAuth(auth))

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
