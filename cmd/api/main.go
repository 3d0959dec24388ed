package main

import (
	"context"
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "pms_gateway/internal/adapters/http_server"
	"pms_gateway/internal/adapters/observability"
	"pms_gateway/internal/adapters/pms"
	redisad "pms_gateway/internal/adapters/redis"
	"pms_gateway/internal/app"
	"pms_gateway/internal/domain"
	"pms_gateway/internal/shared"
	mysqlrepo "pms_gateway/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db is optional; without it the registry lives in memory only
	var store domain.ConnectionStore
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		store = mysqlrepo.New(db)
	}

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, "")
	gw := app.NewGateway(pms.New, store, cache)
	if err := gw.Hydrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("registry hydration failed")
	}
	q := app.NewQueryService(gw, cache, cfg.CacheTTL)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{GW: gw, Q: q})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
