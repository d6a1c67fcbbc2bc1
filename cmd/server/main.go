package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/jondawson917/snappycamper/internal/auth"
	"github.com/jondawson917/snappycamper/internal/config"
	"github.com/jondawson917/snappycamper/internal/database"
	"github.com/jondawson917/snappycamper/internal/handler"
	"github.com/jondawson917/snappycamper/internal/queue"
	"github.com/jondawson917/snappycamper/internal/repository"
	"github.com/jondawson917/snappycamper/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database open: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatalf("database migrate: %v", err)
	}
	cancel()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and caching disabled")
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTLMin)
	users := repository.NewUserRepo(db)
	camps := repository.NewCampRepo(db)
	facilities := repository.NewFacilityRepo(db)
	reservations := repository.NewReservationRepo(db)

	// Reservation audit consumer runs for the life of the process.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.Register(e, router.Deps{
		Cfg:        cfg,
		DB:         db,
		Redis:      rdb,
		Tokens:     tokens,
		Auth:       handler.NewAuthHandler(cfg, users, tokens),
		Users:      handler.NewUserHandler(cfg, users, camps, reservations, tokens),
		Camps:      handler.NewCampHandler(camps),
		Facilities: handler.NewFacilityHandler(facilities),
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
