package stream

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ettle/strcase"
)

const (
	// ItemTemplate renders a single stream entry.
	ItemTemplate = "stream/item"
	// ThumbnailWidth and ThumbnailHeight size preview thumbnails.
	ThumbnailWidth  = 150
	ThumbnailHeight = 150

	variantThumbnail = "thumbnail"
	variantIcon      = "icon"
	variantNone      = "none"
)

var errMissingRenderer = errors.New("stream: renderer not configured")

// DisplayOptions wires Display collaborators. Nil collaborators fall back to
// the package defaults; Renderer is required for Show.
type DisplayOptions struct {
	DateTime  DateTimeFormatter
	Preview   PreviewCapability
	URLs      URLBuilder
	Files     FileView
	Mime      MimeResolver
	Icons     IconResolver
	Renderer  Renderer
	Template  string
	Telemetry Telemetry
	Logger    *slog.Logger
}

// Display turns activity records into HTML fragments.
type Display struct {
	opts DisplayOptions
}

// NewDisplay builds a Display with safe defaults.
func NewDisplay(opts DisplayOptions) *Display {
	if opts.DateTime == nil {
		opts.DateTime = NewLocalizedDateTimeFormatter("")
	}
	if opts.Preview == nil {
		opts.Preview = MustGlobPreviewCapability(DefaultPreviewMimeTypes...)
	}
	if opts.URLs == nil {
		opts.URLs = NewRouteURLBuilder("")
	}
	if opts.Files == nil {
		opts.Files = missingFileView{}
	}
	if opts.Mime == nil {
		opts.Mime = NewExtensionMimeResolver(nil)
	}
	if opts.Icons == nil {
		opts.Icons = DefaultIconCatalog(DefaultIconPrefix)
	}
	if opts.Template == "" {
		opts.Template = ItemTemplate
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	return &Display{opts: opts}
}

// Show renders the activity through the item template.
func (d *Display) Show(ctx context.Context, activity ActivityRecord) (string, error) {
	if d.opts.Renderer == nil {
		return "", errMissingRenderer
	}
	vm := d.ViewModel(ctx, activity)
	return d.opts.Renderer.Render(d.opts.Template, vm.TemplateData())
}

// ViewModel resolves dates, links and preview imagery for the activity.
func (d *Display) ViewModel(ctx context.Context, activity ActivityRecord) ViewModel {
	occurred := activity.OccurredAt()
	vm := ViewModel{
		FormattedDate:      d.opts.DateTime.FormatAbsolute(ctx, occurred),
		FormattedTimestamp: d.opts.DateTime.FormatRelative(ctx, occurred),
		TypeClass:          typeClass(activity.Type),
	}

	// Parameters carry their own links; a linked subject would nest anchors.
	if strings.Contains(activity.SubjectFormatted.Markup.Trimmed, "<a ") {
		activity.Link = ""
	}
	vm.Event = activity

	variant := variantNone
	if activity.File != "" {
		variant = d.resolvePreview(&vm, activity)
	}

	d.opts.Logger.DebugContext(ctx, "stream item resolved",
		slog.String("activity_id", activity.ID),
		slog.String("affected_user", activity.AffectedUser),
		slog.String("file", activity.File),
		slog.String("variant", variant),
	)
	d.opts.Telemetry.Record(ctx, "stream.item.render", map[string]any{
		"type":    activity.Type,
		"variant": variant,
	})
	return vm
}

func (d *Display) resolvePreview(vm *ViewModel, activity ActivityRecord) string {
	root := userRoot(activity.AffectedUser)
	exists := d.opts.Files.Exists(root, activity.File)
	isDir := d.opts.Files.IsDir(root, activity.File)
	vm.PreviewLink = PreviewLink(d.opts.URLs, activity.File, isDir)

	mimeType := d.opts.Mime.MimeType(activity.File)
	if mimeType != "" && !isDir && exists && d.opts.Preview.SupportsPreview(mimeType) {
		vm.PreviewImageLink = d.opts.URLs.PreviewURL(activity.File, ThumbnailWidth, ThumbnailHeight)
		return variantThumbnail
	}

	iconKey := mimeType
	if isDir {
		iconKey = DirIcon
	}
	vm.PreviewImageLink = d.opts.Icons.Icon(iconKey)
	vm.PreviewLinkIsDir = true
	return variantIcon
}

func typeClass(activityType string) string {
	activityType = strings.TrimSpace(activityType)
	if activityType == "" {
		return ""
	}
	return "activity-" + strcase.ToKebab(activityType)
}

// missingFileView reports every path as absent so previews fall back to icons.
type missingFileView struct{}

func (missingFileView) Exists(string, string) bool { return false }

func (missingFileView) IsDir(string, string) bool { return false }
