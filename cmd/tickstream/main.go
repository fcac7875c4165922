// Command tickstream runs the SSE counter demo service.
//
// It serves the embedded demo page at /, the ten-frame counter stream at
// /api/v1/stream, and the live tick feed at /api/v1/events.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/tickstream/component"
	"github.com/kbukum/tickstream/config"
	"github.com/kbukum/tickstream/logger"
	"github.com/kbukum/tickstream/server"
	"github.com/kbukum/tickstream/sse"
	"github.com/kbukum/tickstream/stream"
	"github.com/kbukum/tickstream/telemetry"
	"github.com/kbukum/tickstream/version"
	"github.com/kbukum/tickstream/web"
)

const serviceName = "tickstream"

const gracefulTimeout = 15 * time.Second

func main() {
	var cfg config.Config
	if err := config.Load(serviceName, &cfg); err != nil {
		logger.NewDefault(serviceName).Fatal("failed to load config", logger.ErrorFields("config.load", err))
	}
	if err := cfg.Validate(); err != nil {
		logger.NewDefault(serviceName).Fatal("invalid config", logger.ErrorFields("config.validate", err))
	}

	logger.Init(cfg.Logging)
	log := logger.GetGlobalLogger()

	info := version.GetVersionInfo()
	log.Info("starting tickstream", logger.Fields(
		"version", info.Version,
		"commit", info.GitCommit,
		"environment", cfg.Environment,
	))

	ctx := context.Background()

	providers, err := telemetry.Init(ctx, cfg.Telemetry, serviceName, info.Version)
	if err != nil {
		log.Fatal("failed to init telemetry", logger.ErrorFields("telemetry.init", err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Warn("telemetry shutdown", logger.ErrorFields("telemetry.shutdown", err))
		}
	}()

	var metrics *telemetry.StreamMetrics
	if cfg.Telemetry.Enabled {
		metrics, err = telemetry.NewStreamMetrics(telemetry.Meter())
		if err != nil {
			log.Fatal("failed to create stream metrics", logger.ErrorFields("telemetry.metrics", err))
		}
	}

	hubComponent := sse.NewComponent()
	feed := stream.NewFeed(hubComponent.Hub(), cfg.Stream.Interval, metrics)

	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware()

	engine := srv.GinEngine()
	web.Register(engine)
	engine.GET(stream.CounterEndpoint, stream.CounterHandler(cfg.Stream, metrics))
	engine.GET(stream.EventsEndpoint, stream.EventsHandler(hubComponent.Hub()))

	registry := component.NewRegistry()
	for _, c := range []component.Component{
		hubComponent,
		feed,
		server.NewComponent(srv),
	} {
		if err := registry.Register(c); err != nil {
			log.Fatal("failed to register component", logger.Fields(
				logger.FieldComponent, c.Name(),
				logger.FieldError, err.Error(),
			))
		}
	}

	srv.RegisterDefaultEndpoints(serviceName, registry.HealthAll)

	if err := registry.StartAll(ctx); err != nil {
		log.Fatal("startup failed", logger.ErrorFields("startup", err))
	}
	log.Info("tickstream ready", logger.Fields("addr", srv.Addr()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info("shutting down", logger.Fields("signal", sig.String()))

	stopCtx, cancel := context.WithTimeout(context.Background(), gracefulTimeout)
	defer cancel()
	if err := registry.StopAll(stopCtx); err != nil {
		log.Error("shutdown error", logger.ErrorFields("shutdown", err))
	}
}
