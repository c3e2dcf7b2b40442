package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-activity-stream/components/stream"
)

func NewTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestActivityRepository_InsertRecent(t *testing.T) {
	repo := NewActivityRepository(NewTestDB(t))
	ctx := context.Background()

	first, err := repo.Insert(ctx, stream.ActivityRecord{
		Type:         "file_created",
		AffectedUser: "alice",
		Timestamp:    100,
		File:         "/a.txt",
		SubjectFormatted: stream.FormattedText{
			Markup: stream.Markup{Trimmed: `You created <a href="/f">a.txt</a>`},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	_, err = repo.Insert(ctx, stream.ActivityRecord{ID: "second", Type: "file_changed", AffectedUser: "alice", Timestamp: 200})
	require.NoError(t, err)

	records, err := repo.Recent(ctx, stream.ViewerContext{UserID: "alice"}, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "second", records[0].ID)
	assert.Equal(t, first.ID, records[1].ID)
	assert.Equal(t, "/a.txt", records[1].File)
	assert.Equal(t, `You created <a href="/f">a.txt</a>`, records[1].SubjectFormatted.Markup.Trimmed)
}

func TestActivityRepository_UserIsolationAndLimit(t *testing.T) {
	repo := NewActivityRepository(NewTestDB(t))
	ctx := context.Background()

	for i, user := range []string{"alice", "bob", "alice", "alice"} {
		_, err := repo.Insert(ctx, stream.ActivityRecord{Type: "file_changed", AffectedUser: user, Timestamp: int64(i)})
		require.NoError(t, err)
	}

	records, err := repo.Recent(ctx, stream.ViewerContext{UserID: "alice"}, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, record := range records {
		assert.Equal(t, "alice", record.AffectedUser)
	}
	assert.Equal(t, int64(3), records[0].Timestamp)

	records, err = repo.Recent(ctx, stream.ViewerContext{UserID: "carol"}, 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestActivityRepository_InsertRequiresAffectedUser(t *testing.T) {
	repo := NewActivityRepository(NewTestDB(t))

	_, err := repo.Insert(context.Background(), stream.ActivityRecord{Type: "file_changed"})
	require.ErrorIs(t, err, ErrMissingAffectedUser)
}

func TestActivityRepository_DuplicateID(t *testing.T) {
	repo := NewActivityRepository(NewTestDB(t))
	ctx := context.Background()

	_, err := repo.Insert(ctx, stream.ActivityRecord{ID: "dup", Type: "t", AffectedUser: "alice"})
	require.NoError(t, err)
	_, err = repo.Insert(ctx, stream.ActivityRecord{ID: "dup", Type: "t", AffectedUser: "alice"})
	require.Error(t, err)
}
