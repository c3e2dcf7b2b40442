package stream

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateRendererIgnoresWorkingDirectory(t *testing.T) {
	t.Chdir(t.TempDir())

	renderer, err := NewTemplateRenderer()
	require.NoError(t, err)

	display := NewDisplay(DisplayOptions{Renderer: renderer})
	html, err := display.Show(context.Background(), ActivityRecord{
		ID:           "a1",
		Type:         "file_created",
		AffectedUser: "alice",
		Timestamp:    1700000000,
		SubjectFormatted: FormattedText{
			Markup: Markup{Trimmed: "You created report.pdf"},
		},
		File: "/report.pdf",
	})
	require.NoError(t, err)
	assert.Contains(t, html, `data-activity-id="a1"`)
	assert.Contains(t, html, "You created report.pdf")
	assert.Contains(t, html, "activity-file-created")
}

func TestTemplateRendererRendersList(t *testing.T) {
	t.Chdir(t.TempDir())

	renderer, err := NewTemplateRenderer()
	require.NoError(t, err)

	html, err := renderer.Render(ListTemplate, map[string]any{
		"viewer":       ViewerContext{UserID: "alice"},
		"items":        []RenderedActivity{},
		"emptyMessage": "No activity yet",
	})
	require.NoError(t, err)
	assert.Contains(t, html, `data-user="alice"`)
	assert.Contains(t, html, "No activity yet")
}
