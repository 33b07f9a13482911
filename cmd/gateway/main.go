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

	"github.com/gin-gonic/gin"

	"failoverlimit/internal/config"
	"failoverlimit/internal/gateway"
	"failoverlimit/internal/handlers"
	"failoverlimit/internal/middleware"
	"failoverlimit/internal/ratelimiter"
)

func main() {
	cfg := config.Load()

	if cfg.UpstreamURL == "" {
		log.Fatal("UPSTREAM_URL environment variable is required in gateway mode")
	}
	proxy, err := gateway.NewReverseProxy(cfg.UpstreamURL)
	if err != nil {
		log.Fatalf("invalid UPSTREAM_URL: %v", err)
	}

	rdb := config.NewRedisClient(cfg)
	pool, err := config.NewPostgresPool(context.Background(), cfg)
	if err != nil {
		log.Fatalf("invalid DATABASE_URL: %v", err)
	}

	primary := ratelimiter.NewRedisStore(rdb, cfg.ProbeTimeout)
	fallback := ratelimiter.NewPostgresStore(pool)

	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 5*time.Second)
	if err := fallback.EnsureSchema(schemaCtx); err != nil {
		log.Printf("could not ensure fallback schema (continuing): %v", err)
	}
	cancelSchema()

	engine := ratelimiter.NewEngine(primary, fallback, cfg.FailPolicy, nil)

	r := gin.Default()
	r.Use(middleware.RequestID())

	// Health endpoint: no rate limiting, not forwarded upstream.
	r.GET("/health", handlers.HealthCheck)

	// All other routes: rate-limit first, then forward to the upstream.
	// NoRoute catches every request that doesn't match a registered route.
	r.NoRoute(
		middleware.RateLimiter(engine, cfg.LimiterConfig()),
		gateway.ProxyHandler(proxy),
	)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("gateway failed: %v", err)
		}
	}()
	log.Printf("gateway listening on :%s -> %s", cfg.Port, cfg.UpstreamURL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("gateway shutdown: %v", err)
	}

	if err := rdb.Close(); err != nil {
		log.Printf("redis close: %v", err)
	}
	pool.Close()
}
