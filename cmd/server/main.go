package main

import (
	"context"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	gommonlog "github.com/labstack/gommon/log"

	"backend/internal/api"
	"backend/internal/config"
	"backend/internal/engine"
	"backend/internal/logger"
	"backend/internal/monitoring"
)

func main() {
	cfgPath := os.Getenv("SURVEY_CONFIG")
	if cfgPath == "" {
		cfgPath = "config.yml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.NewLogger(nil).Error("Invalid configuration", "path", cfgPath, "err", err)
		os.Exit(1)
	}

	log := logger.NewLogger(&logger.Config{
		Level:      logger.LogLevel(cfg.Log.Level),
		Output:     os.Stdout,
		JSON:       cfg.Log.JSON,
		TimeFormat: "15:04:05",
	})
	ctx := logger.ContextWithLogger(context.Background(), log)

	// 1. Initialize Echo (starts instantly)
	e := echo.New()
	e.HideBanner = true
	e.JSONSerializer = api.JSONSerializer{}
	e.Logger.SetLevel(echoLevel(cfg.Log.Level))
	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	var metrics *monitoring.Service
	if cfg.Metrics.Enabled {
		metrics = monitoring.NewService()
		e.Use(metrics.Middleware())
		e.GET(cfg.Metrics.Path, echo.WrapHandler(metrics.Handler()))
	}

	// 2. Handler without data: chart routes answer 503 until the load is done
	h := api.NewHandler(nil, cfg.TopN.Default)
	h.RegisterRoutes(e)
	if cfg.Server.DataDir != "" {
		e.Static("/data", cfg.Server.DataDir)
	}

	// 3. Load sources in the background
	go func() {
		sources := make([]engine.Source, 0, len(cfg.Sources))
		for _, s := range cfg.Sources {
			sources = append(sources, engine.Source{Location: s.Location, Continent: s.Continent})
		}
		fetcher := engine.NewSourceFetcher(engine.HTTPOptions{
			Timeout:       cfg.Fetch.Timeout,
			Retries:       cfg.Fetch.Retries,
			RatePerSecond: cfg.Fetch.RatePerSecond,
			Burst:         cfg.Fetch.Burst,
		})

		t0 := time.Now()
		rs := engine.LoadSources(ctx, fetcher, sources)
		h.SetData(rs)
		if metrics != nil {
			metrics.ObserveLoad(rs.Sources, rs.Len(), time.Since(t0))
		}
		log.Info("Survey data ready", "records", rs.Len(), "elapsed", time.Since(t0))
	}()

	// 4. Start server
	log.Info("Server ready (data loading in background)", "addr", cfg.Server.Addr)
	e.Logger.Fatal(e.Start(cfg.Server.Addr))
}

func echoLevel(level string) gommonlog.Lvl {
	switch level {
	case "debug":
		return gommonlog.DEBUG
	case "warn":
		return gommonlog.WARN
	case "error":
		return gommonlog.ERROR
	default:
		return gommonlog.INFO
	}
}
