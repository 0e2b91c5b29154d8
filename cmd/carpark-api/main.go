// README: Entry point; loads config, wires stores and services, starts the
// HTTP server with graceful shutdown.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"carpark/internal/config"
	httptransport "carpark/internal/http"
	"carpark/internal/infra"
	"carpark/internal/modules/movement"
	"carpark/internal/modules/tariff"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatalf("postgres init: %v", err)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	tariffStore := tariff.NewStore(dbPool)
	tariffSvc := tariff.NewService(tariffStore, redisClient, cfg.Tariff.CacheTTL)

	movementStore := movement.NewStore(dbPool)
	occupancy := movement.NewRedisCounter(redisClient)
	movementSvc := movement.NewService(movementStore, occupancy, tariffSvc)

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Tariff:         tariffSvc,
		Movement:       movementSvc,
		RateLimitRPS:   cfg.RateLimit.RPS,
		RateLimitBurst: cfg.RateLimit.Burst,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: router}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
