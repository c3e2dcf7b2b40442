package stream

import (
	"mime"
	"path"
	"strings"
)

var builtinMimeTypes = map[string]string{
	".txt":  "text/plain",
	".md":   "text/markdown",
	".csv":  "text/csv",
	".html": "text/html",
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".svg":  "image/svg+xml",
	".webp": "image/webp",
	".mp3":  "audio/mpeg",
	".ogg":  "audio/ogg",
	".mp4":  "video/mp4",
	".zip":  "application/zip",
	".gz":   "application/x-gzip",
	".tar":  "application/x-tar",
	".json": "application/json",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".odt":  "application/vnd.oasis.opendocument.text",
	".ods":  "application/vnd.oasis.opendocument.spreadsheet",
	".odp":  "application/vnd.oasis.opendocument.presentation",
}

// ExtensionMimeResolver resolves MIME types from file extensions. Overrides
// win over the built-in table, which wins over the system mime database.
type ExtensionMimeResolver struct {
	overrides map[string]string
}

// NewExtensionMimeResolver builds a resolver with optional ".ext" overrides.
func NewExtensionMimeResolver(overrides map[string]string) *ExtensionMimeResolver {
	normalized := make(map[string]string, len(overrides))
	for ext, mimeType := range overrides {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" || mimeType == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized[ext] = baseMimeType(mimeType)
	}
	return &ExtensionMimeResolver{overrides: normalized}
}

// MimeType returns the MIME type for p or "" when unknown.
func (r *ExtensionMimeResolver) MimeType(p string) string {
	ext := strings.ToLower(path.Ext(p))
	if ext == "" {
		return ""
	}
	if r != nil {
		if mimeType, ok := r.overrides[ext]; ok {
			return mimeType
		}
	}
	if mimeType, ok := builtinMimeTypes[ext]; ok {
		return mimeType
	}
	return baseMimeType(mime.TypeByExtension(ext))
}

// baseMimeType drops parameters such as "; charset=utf-8".
func baseMimeType(mimeType string) string {
	mimeType, _, _ = strings.Cut(mimeType, ";")
	return strings.TrimSpace(strings.ToLower(mimeType))
}
