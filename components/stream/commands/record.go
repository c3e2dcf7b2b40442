package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-activity-stream/components/stream"
	gocommand "github.com/goliatone/go-command"
)

type activityWriter interface {
	Insert(ctx context.Context, record stream.ActivityRecord) (stream.ActivityRecord, error)
}

type activityValidator interface {
	Validate(record stream.ActivityRecord) error
}

// RecordActivityInput carries a single activity to persist.
type RecordActivityInput struct {
	Activity stream.ActivityRecord `json:"activity"`
}

// RecordActivityCommand validates and stores activities so transports and the
// import CLI share one write path.
type RecordActivityCommand struct {
	writer    activityWriter
	validator activityValidator
	telemetry stream.Telemetry
}

// NewRecordActivityCommand creates a command instance. A nil validator skips
// schema checks.
func NewRecordActivityCommand(writer activityWriter, validator activityValidator, telemetry stream.Telemetry) *RecordActivityCommand {
	return &RecordActivityCommand{
		writer:    writer,
		validator: validator,
		telemetry: telemetry,
	}
}

var _ gocommand.Commander[RecordActivityInput] = (*RecordActivityCommand)(nil)

// Execute validates the activity and hands it to the writer.
func (c *RecordActivityCommand) Execute(ctx context.Context, msg RecordActivityInput) error {
	if c.writer == nil {
		return errors.New("record command requires writer")
	}
	if c.validator != nil {
		if err := c.validator.Validate(msg.Activity); err != nil {
			return err
		}
	}
	stored, err := c.writer.Insert(ctx, msg.Activity)
	if err != nil {
		return fmt.Errorf("record activity: %w", err)
	}
	if c.telemetry != nil {
		c.telemetry.Record(ctx, "stream.activity.record", map[string]any{
			"id":   stored.ID,
			"type": stored.Type,
			"app":  stored.App,
		})
	}
	return nil
}
