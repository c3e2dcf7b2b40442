package stream

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// DefaultPreviewMimeTypes lists the MIME patterns the preview endpoint can thumbnail.
var DefaultPreviewMimeTypes = []string{
	"image/*",
	"text/plain",
	"text/markdown",
	"audio/mpeg",
	"application/pdf",
}

// GlobPreviewCapability matches MIME types against glob patterns such as "image/*".
type GlobPreviewCapability struct {
	patterns []glob.Glob
}

// NewGlobPreviewCapability compiles the provided patterns.
func NewGlobPreviewCapability(patterns ...string) (*GlobPreviewCapability, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(strings.ToLower(pattern))
		if pattern == "" {
			continue
		}
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("stream: compile preview pattern %q: %w", pattern, err)
		}
		compiled = append(compiled, g)
	}
	return &GlobPreviewCapability{patterns: compiled}, nil
}

// MustGlobPreviewCapability panics when a pattern fails to compile.
func MustGlobPreviewCapability(patterns ...string) *GlobPreviewCapability {
	capability, err := NewGlobPreviewCapability(patterns...)
	if err != nil {
		panic(err)
	}
	return capability
}

// SupportsPreview reports whether any pattern matches the MIME type.
func (c *GlobPreviewCapability) SupportsPreview(mimeType string) bool {
	if c == nil {
		return false
	}
	mimeType = baseMimeType(mimeType)
	if mimeType == "" {
		return false
	}
	for _, pattern := range c.patterns {
		if pattern.Match(mimeType) {
			return true
		}
	}
	return false
}
