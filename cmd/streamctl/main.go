package main

import (
	"context"

	"github.com/alecthomas/kong"
)

type cli struct {
	Config string `short:"c" type:"path" help:"Path to the stream YAML config." env:"STREAMCTL_CONFIG"`

	Render renderCmd `cmd:"" help:"Render an activity document as stream HTML."`
	Import importCmd `cmd:"" help:"Validate activities and store them in the SQLite database."`
	Serve  serveCmd  `cmd:"" help:"Serve the activity stream over HTTP."`
}

func main() {
	var app cli
	ctx := kong.Parse(&app,
		kong.Name("streamctl"),
		kong.Description("Activity stream rendering and ingestion utility."),
		kong.UsageOnError(),
		kong.BindTo(context.Background(), (*context.Context)(nil)),
	)
	err := ctx.Run(&app)
	ctx.FatalIfErrorf(err)
}
