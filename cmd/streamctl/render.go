package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goliatone/go-activity-stream/components/stream"
)

type renderCmd struct {
	File   string `arg:"" optional:"" type:"existingfile" help:"JSON or YAML activity document (demo activities when omitted)."`
	User   string `help:"Only render activities affecting this user."`
	Locale string `help:"Viewer locale (e.g. de, es-MX)."`
	Limit  int    `help:"Maximum number of activities to render."`
}

func (cmd *renderCmd) Run(ctx context.Context, app *cli) error {
	rt, err := app.runtime()
	if err != nil {
		return err
	}
	return cmd.render(ctx, rt, os.Stdout)
}

func (cmd *renderCmd) render(ctx context.Context, rt *runtime, out io.Writer) error {
	feed, err := cmd.feed()
	if err != nil {
		return err
	}
	display, err := rt.display(nil)
	if err != nil {
		return err
	}
	controller := stream.NewController(stream.ControllerOptions{
		Feed:     feed,
		Display:  display,
		Renderer: rt.renderer,
		Limit:    cmd.Limit,
		Logger:   rt.logger,
	})
	viewer := stream.ViewerContext{UserID: cmd.User, Locale: cmd.Locale}
	return controller.RenderTemplate(ctx, viewer, out)
}

func (cmd *renderCmd) feed() (stream.ActivityFeed, error) {
	if cmd.File == "" {
		return stream.DefaultActivityFeed(cmd.User), nil
	}
	f, err := os.Open(cmd.File)
	if err != nil {
		return nil, fmt.Errorf("streamctl: open %s: %w", cmd.File, err)
	}
	defer f.Close()
	records, err := stream.DecodeActivities(f, stream.NewActivityValidator())
	if err != nil {
		return nil, err
	}
	return stream.StaticActivityFeed{Items: records}, nil
}
