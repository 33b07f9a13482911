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
	"failoverlimit/internal/handlers"
	"failoverlimit/internal/middleware"
	"failoverlimit/internal/ratelimiter"
)

func main() {
	cfg := config.Load()

	rdb := config.NewRedisClient(cfg)
	pool, err := config.NewPostgresPool(context.Background(), cfg)
	if err != nil {
		log.Fatalf("invalid DATABASE_URL: %v", err)
	}

	primary := ratelimiter.NewRedisStore(rdb, cfg.ProbeTimeout)
	fallback := ratelimiter.NewPostgresStore(pool)

	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 5*time.Second)
	if err := fallback.EnsureSchema(schemaCtx); err != nil {
		// Not fatal: the fallback may be down at boot and recover later.
		log.Printf("could not ensure fallback schema (continuing): %v", err)
	}
	cancelSchema()

	engine := ratelimiter.NewEngine(primary, fallback, cfg.FailPolicy, nil)

	r := gin.Default()
	r.Use(middleware.RequestID())

	// Health is never rate limited.
	r.GET("/health", handlers.HealthCheck)

	limited := r.Group("/", middleware.RateLimiter(engine, cfg.LimiterConfig()))
	limited.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()
	log.Printf("server listening on :%s (limit=%d window=%s)", cfg.Port, cfg.RateLimit, cfg.WindowSize)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}

	// Release the store handles exactly once, after in-flight checks drain.
	if err := rdb.Close(); err != nil {
		log.Printf("redis close: %v", err)
	}
	pool.Close()
}
