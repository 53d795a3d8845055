package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/iliyamo/cinema-seat-picker/internal/config"
	"github.com/iliyamo/cinema-seat-picker/internal/database"
	"github.com/iliyamo/cinema-seat-picker/internal/handler"
	"github.com/iliyamo/cinema-seat-picker/internal/metrics"
	"github.com/iliyamo/cinema-seat-picker/internal/middleware"
	"github.com/iliyamo/cinema-seat-picker/internal/queue"
	"github.com/iliyamo/cinema-seat-picker/internal/repository"
	"github.com/iliyamo/cinema-seat-picker/internal/router"
	"github.com/iliyamo/cinema-seat-picker/internal/seating"
	"github.com/iliyamo/cinema-seat-picker/internal/service"
	"github.com/iliyamo/cinema-seat-picker/internal/utils"
)

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.OperatorPasswordHash == "" && cfg.OperatorPassword != "" {
		hash, err := utils.HashPassword(cfg.OperatorPassword, cfg.BcryptCost)
		if err != nil {
			log.Fatalf("hash operator password: %v", err)
		}
		cfg.OperatorPasswordHash = hash
		log.Printf("config: OPERATOR_PASSWORD hashed at start-up; prefer OPERATOR_PASSWORD_HASH")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	seatingMetrics := metrics.NewSeatingCollector()
	if err := seatingMetrics.Register(reg); err != nil {
		log.Fatalf("register metrics: %v", err)
	}

	var publisher service.Publisher = service.NopPublisher{}
	if cfg.AMQPEnabled {
		publisher = service.NewAMQPPublisher(cfg.AMQPURL)
		go func() {
			if err := queue.StartSeatsOrderedConsumer(ctx, cfg.AMQPURL, cfg.EventLogDir); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("seating-consumer: stopped: %v", err)
			}
		}()
	}

	picker, err := service.NewSeatPicker(service.Options{
		Rows:        cfg.Rows,
		SeatsPerRow: cfg.SeatsPerRow,
		Scenario:    cfg.Scenario,
		Policy:      seating.Policy{OccupancyPrecheck: cfg.OccupancyPrecheck},
		Publisher:   publisher,
		Metrics:     seatingMetrics,
	})
	if err != nil {
		log.Fatalf("seat picker: %v", err)
	}

	var store handler.SimulationStore
	if cfg.DBEnabled() {
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.Fatalf("mysql: %v", err)
		}
		defer db.Close()
		if err := database.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("mysql: ensure schema: %v", err)
		}
		store = repository.NewSimulationRunRepo(db)
	} else {
		log.Printf("mysql: DB_HOST not set; simulation history disabled")
	}

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb != nil {
		defer rdb.Close()
	}
	rl := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	router.RegisterRoutes(e, reg)
	router.RegisterSeats(e, handler.NewSeatsHandler(picker), rl)
	router.RegisterOperator(e, handler.NewOperatorHandler(cfg, picker), cfg.JWTSecret, rl)
	router.RegisterSimulations(e, handler.NewSimulationHandler(store, cfg.Rows, cfg.SeatsPerRow, cfg.SimulationSeed), rl, cache)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, house=%dx%d, scenario=%s)", addr, cfg.Env, cfg.Rows, cfg.SeatsPerRow, cfg.Scenario)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
