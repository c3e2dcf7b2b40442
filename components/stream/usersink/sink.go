package usersink

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"

	"github.com/goliatone/go-activity-stream/components/stream"
)

// Data keys read from go-users activity payloads.
const (
	DataFile          = "file"
	DataSubject       = "subject"
	DataSubjectMarkup = "subject_markup"
	DataMessage       = "message"
	DataLink          = "link"
	DataApp           = "app"
)

// Writer persists converted stream records.
type Writer interface {
	Insert(ctx context.Context, record stream.ActivityRecord) (stream.ActivityRecord, error)
}

// Sink adapts go-users activity logging into the file activity stream.
type Sink struct {
	Writer Writer
	// RequireFile drops records that do not reference a file.
	RequireFile bool
}

// Log converts and stores a go-users activity record.
func (s Sink) Log(ctx context.Context, record types.ActivityRecord) error {
	if s.Writer == nil {
		return errors.New("usersink: writer not configured")
	}
	if strings.TrimSpace(record.Verb) == "" {
		return nil
	}
	converted := FromRecord(record)
	if converted.AffectedUser == "" {
		return nil
	}
	if s.RequireFile && converted.File == "" {
		return nil
	}
	if _, err := s.Writer.Insert(ctx, converted); err != nil {
		return fmt.Errorf("usersink: store activity %s: %w", record.Verb, err)
	}
	return nil
}

// FromRecord maps a go-users activity record onto a stream record. The
// affected user falls back to the actor when the record has no target user.
func FromRecord(record types.ActivityRecord) stream.ActivityRecord {
	affected := uuidString(record.UserID)
	actor := uuidString(record.ActorID)
	if affected == "" {
		affected = actor
	}
	occurred := record.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now()
	}
	app := dataString(record.Data, DataApp)
	if app == "" {
		app = record.Channel
	}
	subject := dataString(record.Data, DataSubject)
	markup := dataString(record.Data, DataSubjectMarkup)
	if markup == "" {
		markup = subject
	}
	message := dataString(record.Data, DataMessage)
	return stream.ActivityRecord{
		App:          app,
		Type:         strings.TrimSpace(record.Verb),
		User:         actor,
		AffectedUser: affected,
		Timestamp:    occurred.Unix(),
		Subject:      subject,
		SubjectFormatted: stream.FormattedText{
			Full:    subject,
			Trimmed: subject,
			Markup:  stream.Markup{Full: markup, Trimmed: markup},
		},
		Message: message,
		MessageFormatted: stream.FormattedText{
			Full:    message,
			Trimmed: message,
			Markup:  stream.Markup{Full: message, Trimmed: message},
		},
		Link: dataString(record.Data, DataLink),
		File: dataString(record.Data, DataFile),
	}
}

func uuidString(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}

func dataString(data map[string]any, key string) string {
	if data == nil {
		return ""
	}
	value, ok := data[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}
