package stream

import (
	"fmt"
	"log/slog"
	"os"
)

// BootstrapOptions carries runtime collaborators that do not come from Config.
type BootstrapOptions struct {
	Renderer  Renderer
	Files     FileView
	Telemetry Telemetry
	Logger    *slog.Logger
}

// NewDisplayFromConfig assembles a Display from configuration. Files defaults
// to an OSFileView over cfg.DataDir when one is configured.
func NewDisplayFromConfig(cfg Config, opts BootstrapOptions) (*Display, error) {
	preview, err := NewGlobPreviewCapability(cfg.Preview.MimeTypes...)
	if err != nil {
		return nil, err
	}
	icons := DefaultIconCatalog(cfg.Icons.Prefix)
	if cfg.Icons.Dir != "" {
		icons, err = IconCatalogFromFS(os.DirFS(cfg.Icons.Dir), ".", cfg.Icons.Prefix)
		if err != nil {
			return nil, fmt.Errorf("stream: load icons: %w", err)
		}
	}
	files := opts.Files
	if files == nil && cfg.DataDir != "" {
		files = NewOSFileView(cfg.DataDir)
	}
	return NewDisplay(DisplayOptions{
		DateTime:  NewLocalizedDateTimeFormatter(cfg.Locale),
		Preview:   preview,
		URLs:      NewRouteURLBuilder(cfg.BaseURL),
		Files:     files,
		Mime:      NewExtensionMimeResolver(nil),
		Icons:     icons,
		Renderer:  opts.Renderer,
		Telemetry: opts.Telemetry,
		Logger:    opts.Logger,
	}), nil
}
