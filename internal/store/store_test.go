package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdayat/artics-communication/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func historyEntry(id, room string, start time.Time) *models.UserReservation {
	return &models.UserReservation{
		ID:          id,
		MeetingRoom: models.MeetingRoom{ID: "m-" + id, Name: room},
		TimeSlot:    models.TimeSlot{ID: "s-" + id, StartDate: start, EndDate: start.Add(time.Hour)},
		ReservedAt:  start.Add(-24 * time.Hour),
	}
}

func TestReplaceHistoryRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	err := db.ReplaceHistory(ctx, []*models.UserReservation{
		historyEntry("r1", "Mawar", base),
		historyEntry("r2", "Melati", base.Add(2*time.Hour)),
	})
	require.NoError(t, err)

	got, err := db.CachedHistory(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Mawar", got[0].MeetingRoom.Name)
}

func TestReplaceHistoryPreservesRemindedFlag(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, db.ReplaceHistory(ctx, []*models.UserReservation{
		historyEntry("r1", "Mawar", base),
	}))
	require.NoError(t, db.MarkReminded(ctx, "r1"))

	// A later sync brings the same reservation back; it must stay
	// reminded so the user is not pinged twice.
	require.NoError(t, db.ReplaceHistory(ctx, []*models.UserReservation{
		historyEntry("r1", "Mawar", base),
		historyEntry("r2", "Melati", base.Add(2*time.Hour)),
	}))

	upcoming, err := db.UpcomingUnreminded(ctx, base.Add(-time.Hour), base.Add(4*time.Hour))
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "r2", upcoming[0].ID)
}

func TestUpcomingUnremindedWindow(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	past := historyEntry("past", "A", now.Add(-time.Hour))
	soon := historyEntry("soon", "B", now.Add(30*time.Minute))
	later := historyEntry("later", "C", now.Add(3*time.Hour))
	canceled := historyEntry("canceled", "D", now.Add(45*time.Minute))
	canceled.Canceled = true
	canceledAt := now.Add(-time.Minute)
	canceled.CanceledAt = &canceledAt

	require.NoError(t, db.ReplaceHistory(ctx, []*models.UserReservation{past, soon, later, canceled}))

	got, err := db.UpcomingUnreminded(ctx, now, now.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "soon", got[0].ID)
}

func TestMarkRemindedRemovesFromUpcoming(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, db.ReplaceHistory(ctx, []*models.UserReservation{
		historyEntry("r1", "Mawar", now.Add(30*time.Minute)),
	}))

	require.NoError(t, db.MarkReminded(ctx, "r1"))

	got, err := db.UpcomingUnreminded(ctx, now, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCachedHistoryNewestFirst(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	older := historyEntry("older", "A", base)
	newer := historyEntry("newer", "B", base)
	newer.ReservedAt = older.ReservedAt.Add(time.Hour)

	require.NoError(t, db.ReplaceHistory(ctx, []*models.UserReservation{older, newer}))

	got, err := db.CachedHistory(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "newer", got[0].ID)
	assert.Equal(t, "older", got[1].ID)
}
