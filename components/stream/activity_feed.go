package stream

import (
	"context"
	"sort"
	"time"
)

// ActivityFeed fetches recent activity records affecting the viewer.
type ActivityFeed interface {
	Recent(ctx context.Context, viewer ViewerContext, limit int) ([]ActivityRecord, error)
}

// StaticActivityFeed returns fixed entries useful for demos/tests.
type StaticActivityFeed struct {
	Items []ActivityRecord
}

// Recent returns up to limit items for the viewer, newest first.
func (f StaticActivityFeed) Recent(_ context.Context, viewer ViewerContext, limit int) ([]ActivityRecord, error) {
	var items []ActivityRecord
	for _, item := range f.Items {
		if viewer.UserID == "" || item.AffectedUser == viewer.UserID {
			items = append(items, item)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp > items[j].Timestamp
	})
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items, nil
}

// DefaultActivityFeed provides placeholder entries for demos.
func DefaultActivityFeed(user string) ActivityFeed {
	now := time.Now()
	return StaticActivityFeed{
		Items: []ActivityRecord{
			demoActivity(user, "file_created", "/Photos/paris.jpg", now.Add(-5*time.Minute)),
			demoActivity(user, "file_changed", "/Documents/report.pdf", now.Add(-22*time.Minute)),
			demoActivity(user, "shared_with_by", "/Projects", now.Add(-2*time.Hour)),
			demoActivity(user, "file_deleted", "/notes.txt", now.Add(-6*time.Hour)),
		},
	}
}

func demoActivity(user, activityType, file string, at time.Time) ActivityRecord {
	subject := "You changed " + file
	return ActivityRecord{
		App:          "files",
		Type:         activityType,
		User:         user,
		AffectedUser: user,
		Timestamp:    at.Unix(),
		Subject:      subject,
		SubjectFormatted: FormattedText{
			Full:    subject,
			Trimmed: subject,
			Markup:  Markup{Full: subject, Trimmed: subject},
		},
		File: file,
	}
}
