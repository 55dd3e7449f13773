package main // Entry point package

import (
	"context"   // Startup deadlines and shutdown
	"errors"    // errors.Is against http.ErrServerClosed
	"log"       // Logging library
	"net/http"  // http.ErrServerClosed
	"os"        // os.Interrupt
	"os/signal" // Graceful shutdown on SIGINT/SIGTERM
	"syscall"   // SIGTERM
	"time"      // Timeouts

	"github.com/labstack/echo/v4"                   // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware" // Echo's bundled middleware

	"github.com/iliyamo/seat-booking/internal/config"     // Internal config loader
	"github.com/iliyamo/seat-booking/internal/database"   // MySQL connection and schema
	"github.com/iliyamo/seat-booking/internal/handler"    // HTTP handlers
	"github.com/iliyamo/seat-booking/internal/middleware" // Redis cache and rate limiting
	"github.com/iliyamo/seat-booking/internal/queue"      // Seat event consumer
	"github.com/iliyamo/seat-booking/internal/repository" // Seat ledger over MySQL
	"github.com/iliyamo/seat-booking/internal/router"     // Internal router setup
	"github.com/iliyamo/seat-booking/internal/seating"    // Grid size for seeding
	"github.com/iliyamo/seat-booking/internal/service"    // RabbitMQ publisher
)

func main() {
	cfg := config.Load() // Load environment config
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		mctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		err := database.Migrate(mctx, db, seating.TotalSeats)
		cancel()
		if err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	rdb := config.NewRedisClient(ctx, config.LoadRedisConfig()) // nil when Redis is unreachable
	if rdb != nil {
		defer rdb.Close()
	}
	cacheCfg := config.LoadCacheConfig()
	qcfg := config.LoadQueueConfig()

	var events handler.EventPublisher
	if qcfg.PublishEnabled {
		events = service.NewPublisher(qcfg.URL, qcfg.Queue)
	}
	if qcfg.ConsumerEnabled {
		consumer := &queue.Consumer{URL: qcfg.URL, Queue: qcfg.Queue, LogDir: qcfg.LogDir}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("seat-consumer stopped: %v", err)
			}
		}()
	}

	h := handler.NewSeatHandler(
		repository.NewLedger(db),
		events,
		middleware.NewCachePurger(cacheCfg, rdb),
		cfg.RecentLimit,
	)

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())

	router.RegisterRoutes(e, db) // Register health routes
	router.RegisterSeats(e, h,
		middleware.NewSeatLimiter(config.LoadRateLimitConfig(), rdb),
		middleware.NewSeatListCache(cacheCfg, rdb),
	)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) { // Start HTTP server
			log.Fatal(err) // Log and exit if server fails
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
