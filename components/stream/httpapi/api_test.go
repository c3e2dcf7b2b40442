package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goliatone/go-activity-stream/components/stream"
	"github.com/goliatone/go-activity-stream/components/stream/commands"
	"github.com/goliatone/go-activity-stream/components/stream/queries"
)

type stubCommander[T any] struct {
	last  T
	calls int
	err   error
}

func (s *stubCommander[T]) Execute(ctx context.Context, msg T) error {
	s.last = msg
	s.calls++
	return s.err
}

type stubQuerier struct {
	last  queries.StreamInput
	items []stream.RenderedActivity
	err   error
}

func (s *stubQuerier) Query(_ context.Context, input queries.StreamInput) ([]stream.RenderedActivity, error) {
	s.last = input
	return s.items, s.err
}

type stubRenderer struct {
	name string
	data map[string]any
}

func (s *stubRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	s.name = name
	s.data, _ = data.(map[string]any)
	html := fmt.Sprintf("<ul>%d</ul>", len(s.data["items"].([]stream.RenderedActivity)))
	for _, w := range out {
		if _, err := io.WriteString(w, html); err != nil {
			return "", err
		}
	}
	return html, nil
}

func TestHandleRecordActivity(t *testing.T) {
	record := &stubCommander[commands.RecordActivityInput]{}
	api := &Handlers{Record: record}
	payload := stream.ActivityRecord{Type: "file_created", AffectedUser: "alice", Timestamp: 1700000000, File: "/a.txt"}
	buf, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/stream/activities", bytes.NewReader(buf))
	rec := httptest.NewRecorder()
	api.HandleRecordActivity(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if record.calls != 1 {
		t.Fatalf("expected record to execute")
	}
	if record.last.Activity.File != "/a.txt" {
		t.Fatalf("expected activity propagation, got %+v", record.last.Activity)
	}
}

func TestHandleRecordActivityRejectsBadJSON(t *testing.T) {
	record := &stubCommander[commands.RecordActivityInput]{}
	api := &Handlers{Record: record}
	req := httptest.NewRequest(http.MethodPost, "/stream/activities", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()
	api.HandleRecordActivity(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if record.calls != 0 {
		t.Fatalf("command must not run for malformed payloads")
	}
}

func TestHandleRecordActivityMapsErrors(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: missing type", stream.ErrInvalidActivity), http.StatusBadRequest},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		cmdErr, want := tc.err, tc.want
		api := &Handlers{Record: &stubCommander[commands.RecordActivityInput]{err: cmdErr}}
		req := httptest.NewRequest(http.MethodPost, "/stream/activities", bytes.NewReader([]byte(`{"affecteduser":"alice"}`)))
		rec := httptest.NewRecorder()
		api.HandleRecordActivity(rec, req)
		if rec.Code != want {
			t.Fatalf("%v: expected %d, got %d", cmdErr, want, rec.Code)
		}
	}
}

func TestHandleStreamRendersList(t *testing.T) {
	query := &stubQuerier{items: []stream.RenderedActivity{{ID: "a1", HTML: "<li>a1</li>"}}}
	renderer := &stubRenderer{}
	api := &Handlers{Stream: query, Renderer: renderer, EmptyMessage: "nothing"}
	req := httptest.NewRequest(http.MethodGet, "/stream?user=alice&limit=5", nil)
	req.Header.Set("Accept-Language", "de-DE,de;q=0.9,en;q=0.8")
	rec := httptest.NewRecorder()
	api.HandleStream(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", got)
	}
	if rec.Body.String() != "<ul>1</ul>" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
	if renderer.name != stream.ListTemplate || renderer.data["emptyMessage"] != "nothing" {
		t.Fatalf("unexpected render call %q %+v", renderer.name, renderer.data)
	}
	if query.last.Viewer.UserID != "alice" || query.last.Viewer.Locale != "de-de" || query.last.Limit != 5 {
		t.Fatalf("unexpected query input %+v", query.last)
	}
}

func TestHandleStreamWithoutRendererWritesItems(t *testing.T) {
	query := &stubQuerier{items: []stream.RenderedActivity{{ID: "a1", HTML: "<li>a1</li>"}, {ID: "a2", HTML: "<li>a2</li>"}}}
	api := &Handlers{Stream: query}
	req := httptest.NewRequest(http.MethodGet, "/stream?locale=fr", nil)
	req.Header.Set(UserHeader, "bob")
	rec := httptest.NewRecorder()
	api.HandleStream(rec, req)
	if rec.Body.String() != "<li>a1</li><li>a2</li>" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
	if query.last.Viewer.UserID != "bob" || query.last.Viewer.Locale != "fr" {
		t.Fatalf("unexpected viewer %+v", query.last.Viewer)
	}
}

func TestHandleStreamRequiresViewer(t *testing.T) {
	api := &Handlers{Stream: &stubQuerier{}}
	rec := httptest.NewRecorder()
	api.HandleStream(rec, httptest.NewRequest(http.MethodGet, "/stream", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestHandleStreamRejectsBadLimit(t *testing.T) {
	api := &Handlers{Stream: &stubQuerier{}}
	rec := httptest.NewRecorder()
	api.HandleStream(rec, httptest.NewRequest(http.MethodGet, "/stream?user=alice&limit=abc", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleStreamQueryError(t *testing.T) {
	api := &Handlers{Stream: &stubQuerier{err: errors.New("boom")}}
	rec := httptest.NewRecorder()
	api.HandleStream(rec, httptest.NewRequest(http.MethodGet, "/stream?user=alice", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestParseAcceptLanguage(t *testing.T) {
	cases := [][2]string{
		{"", ""},
		{"*", ""},
		{"es-MX;q=0.9, en", "es-mx"},
		{" pt-BR , en;q=0.5", "pt-br"},
	}
	for _, tc := range cases {
		header, want := tc[0], tc[1]
		if got := ParseAcceptLanguage(header); got != want {
			t.Fatalf("ParseAcceptLanguage(%q) = %q, want %q", header, got, want)
		}
	}
}
