package stream

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultFilesPath is the file browser entry point.
	DefaultFilesPath = "/index.php/apps/files"
	// DefaultPreviewPath is the thumbnail endpoint.
	DefaultPreviewPath = "/index.php/core/preview.png"
)

// RouteURLBuilder generates file browser and preview URLs below a base URL.
type RouteURLBuilder struct {
	BaseURL     string
	FilesPath   string
	PreviewPath string
}

// NewRouteURLBuilder builds a URL builder using the default host routes.
func NewRouteURLBuilder(baseURL string) *RouteURLBuilder {
	return &RouteURLBuilder{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		FilesPath:   DefaultFilesPath,
		PreviewPath: DefaultPreviewPath,
	}
}

// PreviewURL links to a width x height thumbnail of path.
func (b *RouteURLBuilder) PreviewURL(path string, width, height int) string {
	query := url.Values{}
	query.Set("file", path)
	query.Set("x", strconv.Itoa(width))
	query.Set("y", strconv.Itoa(height))
	return b.link(b.PreviewPath, DefaultPreviewPath, query)
}

// FileBrowserURL links to a folder listing, optionally scrolled to a file.
func (b *RouteURLBuilder) FileBrowserURL(params BrowseParams) string {
	query := url.Values{}
	query.Set("dir", params.Dir)
	if params.ScrollTo != "" {
		query.Set("scrollto", params.ScrollTo)
	}
	return b.link(b.FilesPath, DefaultFilesPath, query)
}

func (b *RouteURLBuilder) link(route, fallback string, query url.Values) string {
	if route == "" {
		route = fallback
	}
	return strings.TrimRight(b.BaseURL, "/") + "/" + strings.TrimLeft(route, "/") + "?" + query.Encode()
}
