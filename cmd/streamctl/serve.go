package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	router "github.com/goliatone/go-router"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-activity-stream/components/stream"
	"github.com/goliatone/go-activity-stream/components/stream/commands"
	"github.com/goliatone/go-activity-stream/components/stream/gorouter"
	"github.com/goliatone/go-activity-stream/components/stream/httpapi"
	"github.com/goliatone/go-activity-stream/components/stream/metrics"
	"github.com/goliatone/go-activity-stream/components/stream/queries"
	"github.com/goliatone/go-activity-stream/components/stream/sqlite"
)

const (
	metricsNamespace = "activity_stream"
	shutdownTimeout  = 5 * time.Second
)

type serveCmd struct {
	Listen        string `help:"HTTP listen address (overrides config)."`
	Engine        string `default:"router" enum:"router,fiber" help:"HTTP engine: go-router routes or plain fiber handlers."`
	MetricsListen string `name:"metrics-listen" default:":9090" help:"Prometheus metrics listen address (empty disables)."`
	BasePath      string `name:"base-path" default:"/activity" help:"Route prefix for the stream endpoints."`
}

// server holds the wired stream components shared by both engines.
type server struct {
	controller *stream.Controller
	record     *commands.RecordActivityCommand
	handlers   *httpapi.Handlers
	registry   *prometheus.Registry
}

func (cmd *serveCmd) Run(ctx context.Context, app *cli) error {
	rt, err := app.runtime()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := rt.openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	srv, err := cmd.wire(rt, db)
	if err != nil {
		return err
	}

	listen := cmd.Listen
	if listen == "" {
		listen = rt.cfg.Listen
	}
	if cmd.MetricsListen != "" {
		go serveMetrics(ctx, rt, srv.registry, cmd.MetricsListen)
	}
	rt.logger.InfoContext(ctx, "serving activity stream",
		"listen", listen,
		"engine", cmd.Engine,
		"stream", cmd.BasePath+"/stream",
	)
	if cmd.Engine == "fiber" {
		return cmd.serveFiber(ctx, srv, listen)
	}
	return cmd.serveRouter(ctx, srv, listen)
}

func (cmd *serveCmd) wire(rt *runtime, db *sqlite.DB) (*server, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	telemetry, err := metrics.NewTelemetry(registry, metricsNamespace)
	if err != nil {
		return nil, err
	}
	display, err := rt.display(telemetry)
	if err != nil {
		return nil, err
	}
	repo := sqlite.NewActivityRepository(db)
	controller := stream.NewController(stream.ControllerOptions{
		Feed:     repo,
		Display:  display,
		Renderer: rt.renderer,
		Limit:    rt.cfg.Stream.Limit,
		Logger:   rt.logger,
	})
	record := commands.NewRecordActivityCommand(repo, stream.NewActivityValidator(), telemetry)
	return &server{
		controller: controller,
		record:     record,
		handlers: &httpapi.Handlers{
			Record:   record,
			Stream:   queries.NewRecentStreamQuery(controller),
			Renderer: rt.renderer,
		},
		registry: registry,
	}, nil
}

func (cmd *serveCmd) serveRouter(ctx context.Context, srv *server, listen string) error {
	adapter := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config{
		Router:     adapter.Router(),
		Controller: srv.controller,
		Record:     srv.record,
		BasePath:   cmd.BasePath,
	}); err != nil {
		return fmt.Errorf("streamctl: register routes: %w", err)
	}
	go shutdownOnDone(ctx, adapter.Shutdown)
	return adapter.Serve(listen)
}

func (cmd *serveCmd) serveFiber(ctx context.Context, srv *server, listen string) error {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	group := app.Group(cmd.BasePath)
	group.Get("/stream", adaptor.HTTPHandlerFunc(srv.handlers.HandleStream))
	group.Post("/stream/activities", adaptor.HTTPHandlerFunc(srv.handlers.HandleRecordActivity))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(srv.registry, promhttp.HandlerOpts{})))

	go shutdownOnDone(ctx, app.ShutdownWithContext)
	return app.Listen(listen)
}

func serveMetrics(ctx context.Context, rt *runtime, registry *prometheus.Registry, listen string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	httpServer := &http.Server{Addr: listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go shutdownOnDone(ctx, httpServer.Shutdown)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		rt.logger.ErrorContext(ctx, "metrics server stopped", "error", err)
	}
}

// shutdownOnDone waits for ctx to end and then stops a server with a bounded
// grace period.
func shutdownOnDone(ctx context.Context, shutdown func(context.Context) error) error {
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return shutdown(shutdownCtx)
}
