package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdayat/artics-communication/internal/api"
	"github.com/mdayat/artics-communication/internal/models"
	"github.com/mdayat/artics-communication/internal/notice"
)

func newTestStore(t *testing.T, handler http.HandlerFunc) (*Store, *notice.Feed, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	client, err := api.NewClient(srv.URL, 2*time.Second, zerolog.Nop())
	require.NoError(t, err)
	feed := notice.NewFeed()
	return NewStore(client, feed, zerolog.Nop()), feed, srv.Close
}

func TestStoreStartsResolving(t *testing.T) {
	store, _, done := newTestStore(t, func(w http.ResponseWriter, _ *http.Request) {})
	defer done()

	snap := store.Snapshot()
	assert.True(t, snap.Resolving)
	assert.Nil(t, snap.Identity)
}

func TestResolveWithActiveSession(t *testing.T) {
	store, feed, done := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/me", r.URL.Path)
		json.NewEncoder(w).Encode(models.Identity{ID: "u1", Email: "a@b.c", Role: models.RoleUser})
	})
	defer done()

	store.Resolve(context.Background())

	snap := store.Snapshot()
	assert.False(t, snap.Resolving)
	require.NotNil(t, snap.Identity)
	assert.Equal(t, "u1", snap.Identity.ID)
	assert.Empty(t, feed.Drain())
}

func TestResolveUnauthorizedIsQuiet(t *testing.T) {
	store, feed, done := newTestStore(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	defer done()

	store.Resolve(context.Background())

	snap := store.Snapshot()
	assert.False(t, snap.Resolving)
	assert.Nil(t, snap.Identity)
	assert.Empty(t, feed.Drain(), "an absent session is not an error")
}

func TestResolveUserNotFound(t *testing.T) {
	store, feed, done := newTestStore(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	defer done()

	store.Resolve(context.Background())

	assert.Nil(t, store.Snapshot().Identity)
	notices := feed.Drain()
	require.Len(t, notices, 1)
	assert.Equal(t, "User not found", notices[0].Text)
}

func TestResolveServerError(t *testing.T) {
	store, feed, done := newTestStore(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer done()

	store.Resolve(context.Background())

	snap := store.Snapshot()
	assert.False(t, snap.Resolving, "resolution finishes even on failure")
	assert.Nil(t, snap.Identity)
	notices := feed.Drain()
	require.Len(t, notices, 1)
	assert.Equal(t, "Something is wrong, please restart the client", notices[0].Text)
}

func TestResolveTransportFailure(t *testing.T) {
	store, feed, done := newTestStore(t, func(w http.ResponseWriter, _ *http.Request) {})
	done()

	store.Resolve(context.Background())

	assert.False(t, store.Snapshot().Resolving)
	notices := feed.Drain()
	require.Len(t, notices, 1)
	assert.Equal(t, "Something is wrong, please restart the client", notices[0].Text)
}

func TestResolveHappensExactlyOnce(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	store, _, done := newTestStore(t, func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		w.WriteHeader(http.StatusUnauthorized)
	})
	defer done()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Resolve(context.Background())
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
}

func TestSetIdentityReplacesWholesale(t *testing.T) {
	store, _, done := newTestStore(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	defer done()
	store.Resolve(context.Background())

	store.SetIdentity(&models.Identity{ID: "u2", Role: models.RoleAdmin})
	require.NotNil(t, store.Snapshot().Identity)
	assert.Equal(t, "u2", store.Snapshot().Identity.ID)

	store.SetIdentity(nil)
	assert.Nil(t, store.Snapshot().Identity)
	assert.False(t, store.Snapshot().Resolving, "logout never re-enters resolving")
}
