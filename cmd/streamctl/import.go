package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-activity-stream/components/stream"
	"github.com/goliatone/go-activity-stream/components/stream/commands"
	"github.com/goliatone/go-activity-stream/components/stream/sqlite"
	"github.com/goliatone/go-activity-stream/components/stream/usersink"
)

type importCmd struct {
	File        string `arg:"" type:"existingfile" help:"JSON or YAML activity document."`
	Users       bool   `help:"Treat the document as go-users activity records."`
	RequireFile bool   `name:"require-file" help:"With --users, skip records that do not reference a file."`
}

// userActivity is the document shape accepted with --users.
type userActivity struct {
	ActorID    uuid.UUID      `yaml:"actor_id"`
	UserID     uuid.UUID      `yaml:"user_id"`
	TenantID   uuid.UUID      `yaml:"tenant_id"`
	Verb       string         `yaml:"verb"`
	ObjectType string         `yaml:"object_type"`
	ObjectID   string         `yaml:"object_id"`
	Channel    string         `yaml:"channel"`
	Data       map[string]any `yaml:"data"`
	OccurredAt time.Time      `yaml:"occurred_at"`
}

func (cmd *importCmd) Run(ctx context.Context, app *cli) error {
	rt, err := app.runtime()
	if err != nil {
		return err
	}
	db, err := rt.openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	repo := sqlite.NewActivityRepository(db)

	f, err := os.Open(cmd.File)
	if err != nil {
		return fmt.Errorf("streamctl: open %s: %w", cmd.File, err)
	}
	defer f.Close()

	var count int
	if cmd.Users {
		count, err = cmd.importUsers(ctx, f, repo)
	} else {
		count, err = cmd.importActivities(ctx, f, repo)
	}
	if err != nil {
		return err
	}
	rt.logger.InfoContext(ctx, "activities processed", "file", cmd.File, "count", count, "database", rt.cfg.Database)
	fmt.Fprintf(os.Stdout, "✓ Processed %d activities into %s\n", count, rt.cfg.Database)
	return nil
}

func (cmd *importCmd) importActivities(ctx context.Context, r io.Reader, repo *sqlite.ActivityRepository) (int, error) {
	validator := stream.NewActivityValidator()
	records, err := stream.DecodeActivities(r, validator)
	if err != nil {
		return 0, err
	}
	record := commands.NewRecordActivityCommand(repo, validator, nil)
	for idx, activity := range records {
		if err := record.Execute(ctx, commands.RecordActivityInput{Activity: activity}); err != nil {
			return idx, fmt.Errorf("streamctl: import activity at index %d: %w", idx, err)
		}
	}
	return len(records), nil
}

func (cmd *importCmd) importUsers(ctx context.Context, r io.Reader, repo *sqlite.ActivityRepository) (int, error) {
	var entries []userActivity
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil {
		return 0, fmt.Errorf("streamctl: parse user activities: %w", err)
	}
	sink := usersink.Sink{Writer: repo, RequireFile: cmd.RequireFile}
	for idx, entry := range entries {
		if err := sink.Log(ctx, entry.record()); err != nil {
			return idx, err
		}
	}
	return len(entries), nil
}

func (a userActivity) record() types.ActivityRecord {
	return types.ActivityRecord{
		ActorID:    a.ActorID,
		UserID:     a.UserID,
		TenantID:   a.TenantID,
		Verb:       a.Verb,
		ObjectType: a.ObjectType,
		ObjectID:   a.ObjectID,
		Channel:    a.Channel,
		Data:       a.Data,
		OccurredAt: a.OccurredAt,
	}
}
