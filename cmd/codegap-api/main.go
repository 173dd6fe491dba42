// @title         Codegap API
// @version       0.1.0
// @description   Community-moderated catalog of papers without code

package main

import (
	"context"

	"codegap/internal/platform/config"
	"codegap/internal/platform/logger"
	phttp "codegap/internal/platform/net/http"
	"codegap/internal/platform/store"

	"codegap/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (CODEGAP_API_*)
	root := config.New()
	apiCfg := root.Prefix("CODEGAP_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_")      // pgCfg lives under SERVICE_PGSQL_*
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_") // chCfg lives under SERVICE_CLICKHOUSE_*
	// bring up logging early
	l := logger.Get()

	// no clickhouse url means no audit trail, the api still serves
	chURL := chCfg.MayString("DBURL", "")

	// open the platform store (postgres live set + clickhouse audit sink)
	st, err := store.Open(
		context.Background(),
		store.Config{
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", true),
			},
			CH: store.CHConfig{
				Enabled:    chURL != "",
				URL:        chURL,
				ClientName: "codegap",
				ClientTag:  "api",
			},
		},
		store.WithLogger(*logger.Get()),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// http server (reads CODEGAP_API_PORT / CODEGAP_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	// mount our API
	api.Mount(
		srv.Router(),
		api.Options{
			Config:         apiCfg,
			Store:          st,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", true),
		},
	)

	// run
	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
