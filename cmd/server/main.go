package main // Entry point package

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/social-network-api/internal/config"
	"github.com/iliyamo/social-network-api/internal/database"
	"github.com/iliyamo/social-network-api/internal/handler"
	"github.com/iliyamo/social-network-api/internal/mailer"
	"github.com/iliyamo/social-network-api/internal/queue"
	"github.com/iliyamo/social-network-api/internal/repository"
	"github.com/iliyamo/social-network-api/internal/router"
	"github.com/iliyamo/social-network-api/internal/token"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	if err := database.EnsureSchema(db); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	// Redis backs rate limiting, response caching and the shared token
	// revocation set. Without it the service still runs, but revocation
	// falls back to process-local memory, which is only correct for a
	// single instance.
	rdb := config.NewRedisClient()
	var revoked token.RevocationStore
	if rdb != nil {
		revoked = token.NewRedisRevocationStore(rdb)
	} else {
		log.Printf("redis unavailable: using in-process revocation store (single instance only)")
		revoked = token.NewMemoryRevocationStore()
	}

	tokens := token.NewService(cfg.JWTSecret,
		time.Duration(cfg.AccessTTLMin)*time.Minute,
		time.Duration(cfg.RefreshTTLDays)*24*time.Hour,
		revoked)
	activation := token.NewActivationCodec(cfg.JWTSecret)

	users := repository.NewUserRepo(db)
	friends := repository.NewFriendshipRepo(db)
	cacheCfg := config.LoadCacheConfig()

	// Activation emails are consumed off the queue in the background.
	go queue.StartActivationEmailConsumer(mailer.New(cfg.MailgunDomain, cfg.MailgunAPIKey))

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), tokens)
	router.RegisterUsers(e, handler.NewUserHandler(cfg, cacheCfg, users, friends, activation, rdb), tokens, rdb, cacheCfg)
	router.RegisterFriends(e, handler.NewFriendHandler(cfg, cacheCfg, users, friends, rdb), tokens, rdb, cacheCfg)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
