package main

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"pms_gateway/internal/adapters/observability"
	"pms_gateway/internal/adapters/pms"
	redisad "pms_gateway/internal/adapters/redis"
	"pms_gateway/internal/app"
	"pms_gateway/internal/shared"
	mysqlrepo "pms_gateway/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Int("workers", cfg.SyncWorkers).
		Int("window_days", cfg.SyncWindowDays).
		Msg("sync starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, "")

	gw := app.NewGateway(pms.New, repo, cache)
	if err := gw.Hydrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("registry hydration failed")
	}

	svc := app.NewSyncService(gw, repo, cfg.SyncWindowDays)
	sem := semaphore.NewWeighted(int64(cfg.SyncWorkers))
	var wg sync.WaitGroup

	for _, conn := range gw.ListConnections() {
		if !conn.IsActive {
			continue
		}

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(hotelID string) {
			defer wg.Done()
			defer sem.Release(int64(1))

			if err := svc.SyncHotel(ctx, hotelID); err != nil {
				log.Warn().Str("hotel", hotelID).Err(err).Msg("sync failed")
				return
			}
			log.Info().Str("hotel", hotelID).Msg("sync ok")
		}(conn.HotelID)
	}

	wg.Wait()
	log.Info().Msg("sync completed")
}
