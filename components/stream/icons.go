package stream

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// DirIcon is the icon key used for folders.
	DirIcon = "dir"
	// DefaultIconPrefix is where the host serves file-type icons.
	DefaultIconPrefix = "/core/img/filetypes"

	fallbackIcon  = "file"
	iconCacheSize = 256
)

// iconFormats lists asset formats from most to least preferred.
var iconFormats = []string{"svg", "png"}

// defaultIconAliases maps MIME types onto shared logical icon names.
var defaultIconAliases = [][2]string{
	{DirIcon, "folder"},
	{"httpd/unix-directory", "folder"},
	{"application/msword", "x-office-document"},
	{"application/vnd.oasis.opendocument.text", "x-office-document"},
	{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "x-office-document"},
	{"application/vnd.ms-excel", "x-office-spreadsheet"},
	{"application/vnd.oasis.opendocument.spreadsheet", "x-office-spreadsheet"},
	{"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "x-office-spreadsheet"},
	{"application/vnd.ms-powerpoint", "x-office-presentation"},
	{"application/vnd.oasis.opendocument.presentation", "x-office-presentation"},
	{"application/vnd.openxmlformats-officedocument.presentationml.presentation", "x-office-presentation"},
	{"application/zip", "package-x-generic"},
	{"application/x-gzip", "package-x-generic"},
	{"application/x-tar", "package-x-generic"},
	{"application/json", "text-code"},
	{"text/html", "text-code"},
}

var defaultIconAssets = []string{
	"application", "application-pdf", "audio", "file", "folder", "image",
	"package-x-generic", "text", "text-code", "video",
	"x-office-document", "x-office-presentation", "x-office-spreadsheet",
}

// IconCatalog resolves MIME types to file-type icon assets. Each logical icon
// name records the formats available for it and the catalog always hands out
// the preferred one, so callers never rewrite extensions.
type IconCatalog struct {
	prefix  string
	aliases map[string]string

	mu     sync.RWMutex
	assets map[string]map[string]bool

	cache *lru.Cache[string, string]
}

// NewIconCatalog builds an empty catalog serving icons below prefix.
func NewIconCatalog(prefix string, aliases map[string]string) *IconCatalog {
	cache, _ := lru.New[string, string](iconCacheSize)
	merged := make(map[string]string, len(defaultIconAliases)+len(aliases))
	for _, alias := range defaultIconAliases {
		merged[alias[0]] = alias[1]
	}
	for key, name := range aliases {
		merged[strings.ToLower(key)] = name
	}
	return &IconCatalog{
		prefix:  strings.TrimRight(prefix, "/"),
		aliases: merged,
		assets:  map[string]map[string]bool{},
		cache:   cache,
	}
}

// DefaultIconCatalog registers the stock file-type icons in SVG and PNG.
func DefaultIconCatalog(prefix string) *IconCatalog {
	catalog := NewIconCatalog(prefix, nil)
	for _, name := range defaultIconAssets {
		catalog.Register(name, iconFormats...)
	}
	return catalog
}

// IconCatalogFromFS registers every icon file found in dir of fsys.
func IconCatalogFromFS(fsys fs.FS, dir, prefix string) (*IconCatalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("stream: read icon dir %s: %w", dir, err)
	}
	catalog := NewIconCatalog(prefix, nil)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := path.Ext(entry.Name())
		catalog.Register(strings.TrimSuffix(entry.Name(), ext), strings.TrimPrefix(ext, "."))
	}
	return catalog, nil
}

// Register records the formats available for a logical icon name.
func (c *IconCatalog) Register(name string, formats ...string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.assets[name] == nil {
		c.assets[name] = map[string]bool{}
	}
	for _, format := range formats {
		format = strings.ToLower(strings.TrimPrefix(format, "."))
		if format != "" {
			c.assets[name][format] = true
		}
	}
	c.cache.Purge()
}

// Icon returns the asset path for a MIME type or DirIcon.
func (c *IconCatalog) Icon(mimeType string) string {
	key := baseMimeType(mimeType)
	if key == "" {
		key = fallbackIcon
	}
	if cached, ok := c.cache.Get(key); ok {
		return cached
	}
	resolved := c.resolve(key)
	c.cache.Add(key, resolved)
	return resolved
}

func (c *IconCatalog) resolve(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, name := range c.candidates(key) {
		if format, ok := c.preferredFormat(name); ok {
			return c.assetPath(name, format)
		}
	}
	return c.assetPath(fallbackIcon, iconFormats[0])
}

// candidates lists logical names to try: alias, exact ("image-png"), the
// top-level type ("image"), then the generic file icon.
func (c *IconCatalog) candidates(key string) []string {
	var names []string
	if alias, ok := c.aliases[key]; ok {
		names = append(names, alias)
	}
	names = append(names, strings.ReplaceAll(key, "/", "-"))
	if major, _, ok := strings.Cut(key, "/"); ok && major != "" {
		names = append(names, major)
	}
	return append(names, fallbackIcon)
}

func (c *IconCatalog) preferredFormat(name string) (string, bool) {
	formats := c.assets[name]
	for _, format := range iconFormats {
		if formats[format] {
			return format, true
		}
	}
	for format := range formats {
		return format, true
	}
	return "", false
}

func (c *IconCatalog) assetPath(name, format string) string {
	return c.prefix + "/" + name + "." + format
}
