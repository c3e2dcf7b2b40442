package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

const (
	// ListTemplate renders a page of stream items.
	ListTemplate = "stream/list"
	// DefaultStreamLimit caps the number of items rendered per page.
	DefaultStreamLimit = 30
)

var errMissingFeed = errors.New("stream: activity feed not configured")

// ControllerOptions wires the stream controller.
type ControllerOptions struct {
	Feed         ActivityFeed
	Display      *Display
	Renderer     Renderer
	Template     string
	Limit        int
	EmptyMessage string
	Logger       *slog.Logger
}

// Controller renders the activity stream for a viewer.
type Controller struct {
	opts ControllerOptions
}

// NewController wires the feed and display into a controller.
func NewController(opts ControllerOptions) *Controller {
	if opts.Template == "" {
		opts.Template = ListTemplate
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultStreamLimit
	}
	if opts.EmptyMessage == "" {
		opts.EmptyMessage = "No activity yet"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Controller{opts: opts}
}

// Items renders up to limit recent activities individually.
func (c *Controller) Items(ctx context.Context, viewer ViewerContext, limit int) ([]RenderedActivity, error) {
	if c.opts.Feed == nil {
		return nil, errMissingFeed
	}
	if c.opts.Display == nil {
		return nil, errMissingRenderer
	}
	if limit <= 0 {
		limit = c.opts.Limit
	}
	ctx = ContextWithViewer(ctx, viewer)
	records, err := c.opts.Feed.Recent(ctx, viewer, limit)
	if err != nil {
		return nil, fmt.Errorf("stream: load activities for %s: %w", viewer.UserID, err)
	}
	items := make([]RenderedActivity, 0, len(records))
	for _, record := range records {
		html, err := c.opts.Display.Show(ctx, record)
		if err != nil {
			return nil, fmt.Errorf("stream: render activity %s: %w", record.ID, err)
		}
		items = append(items, RenderedActivity{ID: record.ID, HTML: html})
	}
	c.opts.Logger.DebugContext(ctx, "stream rendered",
		slog.String("viewer", viewer.UserID),
		slog.Int("items", len(items)),
	)
	return items, nil
}

// RenderTemplate renders the stream page for the viewer into out.
func (c *Controller) RenderTemplate(ctx context.Context, viewer ViewerContext, out io.Writer) error {
	if c.opts.Renderer == nil {
		return errMissingRenderer
	}
	items, err := c.Items(ctx, viewer, c.opts.Limit)
	if err != nil {
		return err
	}
	_, err = c.opts.Renderer.Render(c.opts.Template, map[string]any{
		"viewer":       viewer,
		"items":        items,
		"emptyMessage": c.opts.EmptyMessage,
	}, out)
	return err
}
