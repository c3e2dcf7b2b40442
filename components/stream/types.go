package stream

import (
	"context"
	"io"
	"time"
)

// ActivityRecord is a single file-related event as produced by the activity
// backend. Display treats it as a value and never mutates the caller's copy.
type ActivityRecord struct {
	ID               string        `json:"id,omitempty" yaml:"id,omitempty"`
	App              string        `json:"app,omitempty" yaml:"app,omitempty"`
	Type             string        `json:"type,omitempty" yaml:"type,omitempty"`
	User             string        `json:"user,omitempty" yaml:"user,omitempty"`
	AffectedUser     string        `json:"affecteduser" yaml:"affecteduser"`
	Timestamp        int64         `json:"timestamp" yaml:"timestamp"`
	Subject          string        `json:"subject,omitempty" yaml:"subject,omitempty"`
	SubjectFormatted FormattedText `json:"subjectformatted" yaml:"subjectformatted"`
	Message          string        `json:"message,omitempty" yaml:"message,omitempty"`
	MessageFormatted FormattedText `json:"messageformatted" yaml:"messageformatted"`
	Link             string        `json:"link,omitempty" yaml:"link,omitempty"`
	File             string        `json:"file,omitempty" yaml:"file,omitempty"`
}

// FormattedText carries plain and markup renditions of a subject or message.
type FormattedText struct {
	Full    string `json:"full,omitempty" yaml:"full,omitempty"`
	Trimmed string `json:"trimmed,omitempty" yaml:"trimmed,omitempty"`
	Markup  Markup `json:"markup" yaml:"markup"`
}

// Markup holds the HTML variants of a formatted text.
type Markup struct {
	Full    string `json:"full,omitempty" yaml:"full,omitempty"`
	Trimmed string `json:"trimmed,omitempty" yaml:"trimmed,omitempty"`
}

// OccurredAt converts the epoch timestamp into a time value.
func (a ActivityRecord) OccurredAt() time.Time {
	return time.Unix(a.Timestamp, 0)
}

// ViewModel is the template payload for a single stream item.
type ViewModel struct {
	Event              ActivityRecord
	FormattedDate      string
	FormattedTimestamp string
	PreviewLink        string
	PreviewImageLink   string
	PreviewLinkIsDir   bool
	TypeClass          string
}

// TemplateData flattens the view model into the map consumed by templates.
func (vm ViewModel) TemplateData() map[string]any {
	data := map[string]any{
		"event":              vm.Event,
		"formattedDate":      vm.FormattedDate,
		"formattedTimestamp": vm.FormattedTimestamp,
		"typeClass":          vm.TypeClass,
	}
	if vm.Event.File != "" {
		data["previewLink"] = vm.PreviewLink
		data["previewImageLink"] = vm.PreviewImageLink
		data["previewLinkIsDir"] = vm.PreviewLinkIsDir
	}
	return data
}

// DateTimeFormatter renders timestamps for humans.
type DateTimeFormatter interface {
	FormatAbsolute(ctx context.Context, ts time.Time) string
	FormatRelative(ctx context.Context, ts time.Time) string
}

// PreviewCapability reports whether the host can thumbnail a MIME type.
type PreviewCapability interface {
	SupportsPreview(mimeType string) bool
}

// BrowseParams addresses a folder listing in the file browser.
type BrowseParams struct {
	Dir      string
	ScrollTo string
}

// URLBuilder generates links into the host application.
type URLBuilder interface {
	PreviewURL(path string, width, height int) string
	FileBrowserURL(params BrowseParams) string
}

// FileView answers existence questions relative to a user's file root.
// The root is passed on every call so a single view can be shared.
type FileView interface {
	Exists(root, path string) bool
	IsDir(root, path string) bool
}

// MimeResolver maps a path to its MIME type. Unknown types resolve to "".
type MimeResolver interface {
	MimeType(path string) string
}

// IconResolver maps a MIME type (or DirIcon) to an icon asset path.
type IconResolver interface {
	Icon(mimeType string) string
}

// Renderer describes the template renderer contract needed by Display and Controller.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}

// ViewerContext captures the active user/locale information needed to render streams.
type ViewerContext struct {
	UserID string
	Locale string
}

// RenderedActivity pairs a record id with its rendered fragment.
type RenderedActivity struct {
	ID   string `json:"id"`
	HTML string `json:"html"`
}
