package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-activity-stream/components/stream"
)

// ErrMissingAffectedUser is returned when inserting a record without an owner.
var ErrMissingAffectedUser = errors.New("sqlite: affected user is required")

// ActivityRepository persists activity records and serves them as a stream.ActivityFeed.
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

var _ stream.ActivityFeed = (*ActivityRepository)(nil)

// Insert stores the record, assigning an id when empty, and returns the stored copy.
func (r *ActivityRepository) Insert(ctx context.Context, record stream.ActivityRecord) (stream.ActivityRecord, error) {
	if strings.TrimSpace(record.AffectedUser) == "" {
		return stream.ActivityRecord{}, ErrMissingAffectedUser
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	query := `
		INSERT INTO activity (
			id, app, type, actor, affected_user, timestamp,
			subject, subject_full, subject_trimmed, subject_markup_full, subject_markup_trimmed,
			message, message_full, message_trimmed, message_markup_full, message_markup_trimmed,
			link, file
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.App,
		record.Type,
		record.User,
		record.AffectedUser,
		record.Timestamp,
		record.Subject,
		record.SubjectFormatted.Full,
		record.SubjectFormatted.Trimmed,
		record.SubjectFormatted.Markup.Full,
		record.SubjectFormatted.Markup.Trimmed,
		record.Message,
		record.MessageFormatted.Full,
		record.MessageFormatted.Trimmed,
		record.MessageFormatted.Markup.Full,
		record.MessageFormatted.Markup.Trimmed,
		record.Link,
		record.File,
	)
	if err != nil {
		return stream.ActivityRecord{}, fmt.Errorf("failed to insert activity: %w", err)
	}
	return record, nil
}

// Recent returns the newest records affecting the viewer.
func (r *ActivityRepository) Recent(ctx context.Context, viewer stream.ViewerContext, limit int) ([]stream.ActivityRecord, error) {
	if limit <= 0 {
		limit = stream.DefaultStreamLimit
	}
	query := `
		SELECT id, app, type, actor, affected_user, timestamp,
			subject, subject_full, subject_trimmed, subject_markup_full, subject_markup_trimmed,
			message, message_full, message_trimmed, message_markup_full, message_markup_trimmed,
			link, file
		FROM activity
		WHERE affected_user = ?
		ORDER BY timestamp DESC, rowid DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, viewer.UserID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var records []stream.ActivityRecord
	for rows.Next() {
		var record stream.ActivityRecord
		if err := rows.Scan(
			&record.ID,
			&record.App,
			&record.Type,
			&record.User,
			&record.AffectedUser,
			&record.Timestamp,
			&record.Subject,
			&record.SubjectFormatted.Full,
			&record.SubjectFormatted.Trimmed,
			&record.SubjectFormatted.Markup.Full,
			&record.SubjectFormatted.Markup.Trimmed,
			&record.Message,
			&record.MessageFormatted.Full,
			&record.MessageFormatted.Trimmed,
			&record.MessageFormatted.Markup.Full,
			&record.MessageFormatted.Markup.Trimmed,
			&record.Link,
			&record.File,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity: %w", err)
	}
	return records, nil
}
