package queries

import (
	"context"
	"errors"

	"github.com/goliatone/go-activity-stream/components/stream"
	gocommand "github.com/goliatone/go-command"
)

type streamService interface {
	Items(ctx context.Context, viewer stream.ViewerContext, limit int) ([]stream.RenderedActivity, error)
}

// StreamInput selects the viewer and page size.
type StreamInput struct {
	Viewer stream.ViewerContext
	Limit  int
}

// RecentStreamQuery returns the rendered stream items for a viewer.
type RecentStreamQuery struct {
	service streamService
}

// NewRecentStreamQuery builds the query.
func NewRecentStreamQuery(service streamService) *RecentStreamQuery {
	return &RecentStreamQuery{service: service}
}

var _ gocommand.Querier[StreamInput, []stream.RenderedActivity] = (*RecentStreamQuery)(nil)

// Query renders the most recent activities for the viewer.
func (q *RecentStreamQuery) Query(ctx context.Context, input StreamInput) ([]stream.RenderedActivity, error) {
	if q.service == nil {
		return nil, errors.New("stream query requires service")
	}
	return q.service.Items(ctx, input.Viewer, input.Limit)
}
