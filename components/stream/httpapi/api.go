package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/goliatone/go-activity-stream/components/stream"
	"github.com/goliatone/go-activity-stream/components/stream/commands"
	"github.com/goliatone/go-activity-stream/components/stream/queries"
	gocommand "github.com/goliatone/go-command"
)

// UserHeader carries the authenticated viewer when no query override is set.
const UserHeader = "X-User-ID"

// Handlers exposes HTTP endpoints backed by shared commands.
type Handlers struct {
	Record gocommand.Commander[commands.RecordActivityInput]
	Stream gocommand.Querier[queries.StreamInput, []stream.RenderedActivity]

	// Renderer wraps the rendered items in Template. Without it items are
	// written back to back.
	Renderer     stream.Renderer
	Template     string
	EmptyMessage string
}

func (h *Handlers) HandleRecordActivity(w http.ResponseWriter, r *http.Request) {
	var payload stream.ActivityRecord
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Record.Execute(r.Context(), commands.RecordActivityInput{Activity: payload}); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handlers) HandleStream(w http.ResponseWriter, r *http.Request) {
	viewer := ViewerFromRequest(r)
	if viewer.UserID == "" {
		http.Error(w, "viewer is required", http.StatusUnauthorized)
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}
	items, err := h.Stream.Query(r.Context(), queries.StreamInput{Viewer: viewer, Limit: limit})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := h.render(&buf, viewer, items); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handlers) render(buf *bytes.Buffer, viewer stream.ViewerContext, items []stream.RenderedActivity) error {
	if h.Renderer == nil {
		for _, item := range items {
			buf.WriteString(item.HTML)
		}
		return nil
	}
	template := h.Template
	if template == "" {
		template = stream.ListTemplate
	}
	_, err := h.Renderer.Render(template, map[string]any{
		"viewer":       viewer,
		"items":        items,
		"emptyMessage": h.EmptyMessage,
	}, buf)
	return err
}

// ViewerFromRequest reads the viewer from the "user" query parameter or the
// X-User-ID header, and the locale from "locale" or Accept-Language.
func ViewerFromRequest(r *http.Request) stream.ViewerContext {
	query := r.URL.Query()
	viewer := stream.ViewerContext{
		UserID: strings.TrimSpace(query.Get("user")),
		Locale: strings.TrimSpace(query.Get("locale")),
	}
	if viewer.UserID == "" {
		viewer.UserID = strings.TrimSpace(r.Header.Get(UserHeader))
	}
	if viewer.Locale == "" {
		viewer.Locale = ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	}
	return viewer
}

// ParseAcceptLanguage returns the first language tag of an Accept-Language header.
func ParseAcceptLanguage(header string) string {
	for _, token := range strings.Split(header, ",") {
		token, _, _ = strings.Cut(token, ";")
		token = strings.TrimSpace(token)
		if token != "" && token != "*" {
			return strings.ToLower(token)
		}
	}
	return ""
}

func statusFor(err error) int {
	if errors.Is(err, stream.ErrInvalidActivity) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
