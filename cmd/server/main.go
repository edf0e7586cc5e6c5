package main // Entry point package

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
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/rental-booking/internal/booking"
	"github.com/iliyamo/rental-booking/internal/config"
	"github.com/iliyamo/rental-booking/internal/database"
	"github.com/iliyamo/rental-booking/internal/handler"
	"github.com/iliyamo/rental-booking/internal/middleware"
	"github.com/iliyamo/rental-booking/internal/queue"
	"github.com/iliyamo/rental-booking/internal/repository"
	"github.com/iliyamo/rental-booking/internal/router"
	"github.com/iliyamo/rental-booking/internal/service"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()
	if cfg.MigrateOnStart {
		mctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		err := database.Migrate(mctx, db)
		cancel()
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		log.Printf("db: schema applied")
	}

	// Redis is optional: without it requests are neither cached nor limited.
	var rdb *redis.Client
	if c, err := config.NewRedisClient(config.LoadRedisConfig()); err != nil {
		log.Printf("redis: unavailable, cache and rate limit disabled: %v", err)
	} else {
		rdb = c
		defer rdb.Close()
	}

	properties := repository.NewPropertyRepo(db)
	bookings := repository.NewBookingRepo(db)

	var opts []booking.Option
	qcfg := config.LoadQueueConfig()
	if qcfg.Enabled {
		opts = append(opts, booking.WithEvents(service.NewQueuePublisher(qcfg.URL, qcfg.Queue)))
		if qcfg.ConsumerEnabled {
			consumer := &queue.Consumer{URL: qcfg.URL, Queue: qcfg.Queue, LogPath: qcfg.LogPath}
			go func() {
				if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Printf("booking-consumer: stopped: %v", err)
				}
			}()
		}
	}
	svc := booking.NewService(properties, bookings, opts...)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.RequestMetrics())

	router.Register(e,
		router.Deps{
			JWTSecret: cfg.JWTSecret,
			Limit:     middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
			Cache:     middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
		},
		handler.NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db)),
		handler.NewPropertyHandler(properties),
		handler.NewBookingHandler(svc),
	)

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	svc.Wait()
}
