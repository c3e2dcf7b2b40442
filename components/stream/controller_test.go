package stream

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingFeed struct{}

func (failingFeed) Recent(context.Context, ViewerContext, int) ([]ActivityRecord, error) {
	return nil, errors.New("db down")
}

type localeCapture struct {
	locales []string
}

func (c *localeCapture) FormatAbsolute(ctx context.Context, _ time.Time) string {
	viewer, _ := ViewerFromContext(ctx)
	c.locales = append(c.locales, viewer.Locale)
	return ""
}

func (c *localeCapture) FormatRelative(context.Context, time.Time) string { return "" }

func TestControllerRenderTemplate(t *testing.T) {
	feed := StaticActivityFeed{Items: []ActivityRecord{
		{ID: "old", AffectedUser: "alice", Timestamp: 10},
		{ID: "new", AffectedUser: "alice", Timestamp: 20},
		{ID: "other", AffectedUser: "bob", Timestamp: 30},
	}}
	itemRenderer := &stubRenderer{}
	listRenderer := &stubRenderer{}
	controller := NewController(ControllerOptions{
		Feed:     feed,
		Display:  newTestDisplay(&stubFileView{}, itemRenderer, nil),
		Renderer: listRenderer,
	})

	var buf bytes.Buffer
	err := controller.RenderTemplate(context.Background(), ViewerContext{UserID: "alice"}, &buf)
	require.NoError(t, err)

	assert.Equal(t, ListTemplate, listRenderer.lastTemplate)
	assert.Equal(t, 2, itemRenderer.calls)
	items, ok := listRenderer.lastPayload["items"].([]RenderedActivity)
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.Equal(t, "new", items[0].ID)
	assert.Equal(t, "old", items[1].ID)
	assert.NotZero(t, buf.Len())
}

func TestControllerItemsRespectsLimit(t *testing.T) {
	feed := StaticActivityFeed{Items: []ActivityRecord{
		{ID: "1", AffectedUser: "alice", Timestamp: 1},
		{ID: "2", AffectedUser: "alice", Timestamp: 2},
		{ID: "3", AffectedUser: "alice", Timestamp: 3},
	}}
	controller := NewController(ControllerOptions{
		Feed:    feed,
		Display: newTestDisplay(&stubFileView{}, &stubRenderer{}, nil),
	})

	items, err := controller.Items(context.Background(), ViewerContext{UserID: "alice"}, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "3", items[0].ID)
}

func TestControllerItemsWrapsFeedError(t *testing.T) {
	controller := NewController(ControllerOptions{
		Feed:    failingFeed{},
		Display: newTestDisplay(&stubFileView{}, &stubRenderer{}, nil),
	})

	_, err := controller.Items(context.Background(), ViewerContext{UserID: "alice"}, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestControllerRequiresCollaborators(t *testing.T) {
	_, err := NewController(ControllerOptions{}).Items(context.Background(), ViewerContext{}, 0)
	require.ErrorIs(t, err, errMissingFeed)

	err = NewController(ControllerOptions{Feed: StaticActivityFeed{}}).RenderTemplate(context.Background(), ViewerContext{}, &bytes.Buffer{})
	require.ErrorIs(t, err, errMissingRenderer)
}

func TestDefaultActivityFeed(t *testing.T) {
	items, err := DefaultActivityFeed("alice").Recent(context.Background(), ViewerContext{UserID: "alice"}, 0)
	require.NoError(t, err)
	require.NotEmpty(t, items)
	for i := 1; i < len(items); i++ {
		assert.GreaterOrEqual(t, items[i-1].Timestamp, items[i].Timestamp)
	}
}

func TestControllerPassesViewerToDisplay(t *testing.T) {
	capture := &localeCapture{}
	controller := NewController(ControllerOptions{
		Feed: StaticActivityFeed{Items: []ActivityRecord{{ID: "1", AffectedUser: "alice"}}},
		Display: NewDisplay(DisplayOptions{
			DateTime: capture,
			Files:    &stubFileView{},
			Renderer: &stubRenderer{},
		}),
	})

	_, err := controller.Items(context.Background(), ViewerContext{UserID: "alice", Locale: "fr"}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"fr"}, capture.locales)
}
