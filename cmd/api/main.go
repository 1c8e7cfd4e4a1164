package main

import (
	"context"
	"log"

	"backoffice/internal/cache"
	"backoffice/internal/config"
	"backoffice/internal/database"
	jwtsvc "backoffice/internal/pkg/jwt"
	"backoffice/internal/server"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate failed: %v", err)
	}

	store, err := cache.NewStore(context.Background(), cfg.RedisURL, cfg.CacheTTL)
	if err != nil {
		log.Fatal(err)
	}

	r := server.NewRouter(server.Deps{
		Config: cfg,
		DB:     db,
		JWT:    jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL),
		Cache:  cache.NewAvailability(store),
	})

	log.Printf("listening addr=%s env=%s", cfg.HTTPAddr, cfg.AppEnv)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
