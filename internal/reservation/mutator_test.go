package reservation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdayat/artics-communication/internal/api"
	"github.com/mdayat/artics-communication/internal/models"
	"github.com/mdayat/artics-communication/internal/notice"
)

func newTestMutator(t *testing.T, handler http.HandlerFunc) (*Mutator, *notice.Feed, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	client, err := api.NewClient(srv.URL, 2*time.Second, zerolog.Nop())
	require.NoError(t, err)
	feed := notice.NewFeed()
	return NewMutator(client, feed, zerolog.Nop()), feed, srv.Close
}

func TestCreateCreated(t *testing.T) {
	reserved := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	m, feed, done := newTestMutator(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/users/me/reservations", r.URL.Path)

		var body models.CreateReservationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "m1", body.MeetingRoomID)
		assert.Equal(t, "s1", body.TimeSlotID)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.Reservation{
			ID: "r1", MeetingRoomID: "m1", TimeSlotID: "s1", ReservedAt: reserved,
		})
	})
	defer done()

	result := m.Create(context.Background(), "m1", "s1")

	assert.Equal(t, CreateCreated, result.Outcome)
	require.NotNil(t, result.Reservation)
	assert.Equal(t, "r1", result.Reservation.ID)

	notices := feed.Drain()
	require.Len(t, notices, 1)
	assert.Equal(t, notice.LevelSuccess, notices[0].Level)
	assert.Equal(t, "Reservation successfully created", notices[0].Text)
}

func TestCreateConflictIsDistinctFromFailure(t *testing.T) {
	m, feed, done := newTestMutator(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})
	defer done()

	list := historyFixture()
	result := m.Create(context.Background(), "m1", "s1")

	assert.Equal(t, CreateConflict, result.Outcome)
	assert.Nil(t, result.Reservation)

	// No optimistic insert happened anywhere: the held list is exactly
	// what it was.
	assert.Len(t, list, 3)
	for i, r := range historyFixture() {
		assert.Equal(t, r.ID, list[i].ID)
	}

	notices := feed.Drain()
	require.Len(t, notices, 1)
	assert.Equal(t, notice.LevelError, notices[0].Level)
	assert.Equal(t, "Sorry, this time slot already reserved by someone else", notices[0].Text)
	assert.NotEqual(t, "Reservation failed, please try again", notices[0].Text)
}

func TestCreateRepeatedConflictStaysConflict(t *testing.T) {
	m, feed, done := newTestMutator(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})
	defer done()

	// No hidden retry: a second attempt just conflicts again.
	for i := 0; i < 2; i++ {
		result := m.Create(context.Background(), "m1", "s1")
		assert.Equal(t, CreateConflict, result.Outcome)
	}
	assert.Len(t, feed.Drain(), 2)
}

func TestCreateUndecodableBodyIsFailure(t *testing.T) {
	m, feed, done := newTestMutator(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("not json"))
	})
	defer done()

	result := m.Create(context.Background(), "m1", "s1")

	assert.Equal(t, CreateFailed, result.Outcome)
	assert.Nil(t, result.Reservation)
	notices := feed.Drain()
	require.Len(t, notices, 1)
	assert.Equal(t, "Reservation failed, please try again", notices[0].Text)
}

func TestCreateUnexpectedStatus(t *testing.T) {
	m, feed, done := newTestMutator(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	defer done()

	result := m.Create(context.Background(), "m1", "s1")

	assert.Equal(t, CreateFailed, result.Outcome)
	notices := feed.Drain()
	require.Len(t, notices, 1)
	assert.Equal(t, "Reservation failed, please try again", notices[0].Text)
}

func TestCreateTransportFailure(t *testing.T) {
	m, feed, done := newTestMutator(t, func(w http.ResponseWriter, _ *http.Request) {})
	done() // server already closed: every call is a transport failure

	result := m.Create(context.Background(), "m1", "s1")

	assert.Equal(t, CreateFailed, result.Outcome)
	notices := feed.Drain()
	require.Len(t, notices, 1)
	assert.Equal(t, "Reservation failed, please try again", notices[0].Text)
}

func TestCancelSuccessReturnsServerTimestamp(t *testing.T) {
	canceledAt := time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC)
	m, feed, done := newTestMutator(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/users/me/reservations/r2", r.URL.Path)

		json.NewEncoder(w).Encode(models.Reservation{
			ID: "r2", Canceled: true, CanceledAt: &canceledAt,
		})
	})
	defer done()

	result := m.Cancel(context.Background(), "r2")

	assert.Equal(t, CancelCanceled, result.Outcome)
	require.NotNil(t, result.CanceledAt)
	assert.True(t, result.CanceledAt.Equal(canceledAt))

	notices := feed.Drain()
	require.Len(t, notices, 1)
	assert.Equal(t, "Reservation successfully canceled", notices[0].Text)
}

func TestCancelNotFound(t *testing.T) {
	m, feed, done := newTestMutator(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	defer done()

	result := m.Cancel(context.Background(), "gone")

	assert.Equal(t, CancelNotFound, result.Outcome)
	assert.Nil(t, result.CanceledAt)

	notices := feed.Drain()
	require.Len(t, notices, 1)
	assert.Equal(t, "Reservation not found", notices[0].Text)
}

func TestCancelUndecodableBodyIsFailure(t *testing.T) {
	m, feed, done := newTestMutator(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	})
	defer done()

	result := m.Cancel(context.Background(), "r1")

	assert.Equal(t, CancelFailed, result.Outcome)
	assert.Nil(t, result.CanceledAt)
	notices := feed.Drain()
	require.Len(t, notices, 1)
	assert.Equal(t, "Cancel Reservation failed, please try again", notices[0].Text)
}

func TestCancelUnexpectedStatus(t *testing.T) {
	m, feed, done := newTestMutator(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	defer done()

	result := m.Cancel(context.Background(), "r1")

	assert.Equal(t, CancelFailed, result.Outcome)
	notices := feed.Drain()
	require.Len(t, notices, 1)
	assert.Equal(t, "Cancel Reservation failed, please try again", notices[0].Text)
}
