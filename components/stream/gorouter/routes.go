package gorouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-activity-stream/components/stream"
	"github.com/goliatone/go-activity-stream/components/stream/commands"
	"github.com/goliatone/go-activity-stream/components/stream/httpapi"
	gocommand "github.com/goliatone/go-command"
)

// Mounter is the part of router.Router[T] the stream routes need.
type Mounter interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

// ViewerResolver converts a router.Context into a stream.ViewerContext.
type ViewerResolver func(router.Context) stream.ViewerContext

// Config wires go-router with the stream controller and record command.
type Config struct {
	Router         Mounter
	Controller     *stream.Controller
	Record         gocommand.Commander[commands.RecordActivityInput]
	ViewerResolver ViewerResolver
	BasePath       string
	Routes         RouteConfig
}

// RouteConfig customizes the relative paths used for stream endpoints.
type RouteConfig struct {
	HTML       string
	Activities string
}

// requestContext is the subset of router.Context used by the handlers.
type requestContext interface {
	Context() context.Context
	Body() []byte
	SetHeader(k, v string) router.Context
	Send(body []byte) error
	JSON(code int, v any) error
}

// Register mounts the stream page and the activity ingestion endpoint.
func Register(cfg Config) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := strings.TrimRight(cfg.BasePath, "/")
	if cfg.BasePath == "" {
		base = "/activity"
	}
	viewerResolver := cfg.ViewerResolver
	if viewerResolver == nil {
		viewerResolver = defaultViewerResolver
	}
	h := &handlers{controller: cfg.Controller, record: cfg.Record}

	cfg.Router.Get(base+routes.HTML, router.WrapHandler(func(ctx router.Context) error {
		return h.stream(ctx, viewerResolver(ctx))
	}))
	if cfg.Record != nil {
		cfg.Router.Post(base+routes.Activities, router.WrapHandler(func(ctx router.Context) error {
			return h.recordActivity(ctx)
		}))
	}
	return nil
}

type handlers struct {
	controller *stream.Controller
	record     gocommand.Commander[commands.RecordActivityInput]
}

func (h *handlers) stream(ctx requestContext, viewer stream.ViewerContext) error {
	if viewer.UserID == "" {
		return respondError(ctx, http.StatusUnauthorized, errors.New("viewer is required"))
	}
	var buf bytes.Buffer
	if err := h.controller.RenderTemplate(ctx.Context(), viewer, &buf); err != nil {
		return respondError(ctx, http.StatusInternalServerError, err)
	}
	ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
	return ctx.Send(buf.Bytes())
}

func (h *handlers) recordActivity(ctx requestContext) error {
	var payload stream.ActivityRecord
	if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
		return respondError(ctx, http.StatusBadRequest, err)
	}
	if err := h.record.Execute(ctx.Context(), commands.RecordActivityInput{Activity: payload}); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, stream.ErrInvalidActivity) {
			status = http.StatusBadRequest
		}
		return respondError(ctx, status, err)
	}
	return ctx.JSON(http.StatusCreated, map[string]string{"status": "created"})
}

func defaultViewerResolver(ctx router.Context) stream.ViewerContext {
	var viewer stream.ViewerContext
	if v, ok := ctx.Locals("user_id").(string); ok {
		viewer.UserID = v
	}
	if viewer.UserID == "" {
		viewer.UserID = strings.TrimSpace(ctx.Header(httpapi.UserHeader))
	}
	viewer.Locale = inferLocale(ctx)
	return viewer
}

func inferLocale(ctx router.Context) string {
	if locale, ok := ctx.Locals("locale").(string); ok && locale != "" {
		return locale
	}
	if locale := strings.TrimSpace(ctx.Query("locale")); locale != "" {
		return strings.ToLower(locale)
	}
	return httpapi.ParseAcceptLanguage(ctx.Header("Accept-Language"))
}

func respondError(ctx requestContext, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.HTML == "" {
		routes.HTML = "/stream"
	}
	if routes.Activities == "" {
		routes.Activities = "/stream/activities"
	}
	return routes
}
