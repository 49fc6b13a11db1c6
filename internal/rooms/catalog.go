// Package rooms fetches the read-side collections: available rooms,
// the user's reservation history, and the privileged all-reservations
// list. Every fetch catches its own failures and reports through the
// notifier; nothing propagates past the caller.
package rooms

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/mdayat/artics-communication/internal/api"
	"github.com/mdayat/artics-communication/internal/models"
	"github.com/mdayat/artics-communication/internal/notice"
)

// ListOutcome classifies the privileged listing result.
type ListOutcome int

const (
	ListOK ListOutcome = iota
	ListForbidden
	ListFailed
)

// HistoryCache persists fetched history locally. Satisfied by
// store.DB; may be nil to skip caching.
type HistoryCache interface {
	ReplaceHistory(ctx context.Context, reservations []*models.UserReservation) error
}

// Catalog issues the read-only listing calls.
type Catalog struct {
	client *api.Client
	cache  HistoryCache
	notify notice.Notifier
	logger zerolog.Logger
}

func NewCatalog(client *api.Client, cache HistoryCache, notify notice.Notifier, logger zerolog.Logger) *Catalog {
	return &Catalog{client: client, cache: cache, notify: notify, logger: logger}
}

// AvailableRooms lists rooms with open slots. The second return is
// false when the listing could not be fetched; a notice has already
// been emitted by then.
func (c *Catalog) AvailableRooms(ctx context.Context) ([]models.RoomWithSlots, bool) {
	resp, err := c.client.GetAvailableRooms(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to get available meeting rooms")
		c.notify.Errorf("Cannot display available meeting rooms, please try again")
		return nil, false
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error().Int("status_code", resp.StatusCode).Msg("unknown status code for available meeting rooms")
		c.notify.Errorf("Cannot display available meeting rooms, please try again")
		return nil, false
	}

	var rooms []models.RoomWithSlots
	if err := resp.Decode(&rooms); err != nil {
		c.logger.Error().Err(err).Msg("failed to decode available meeting rooms")
		c.notify.Errorf("Cannot display available meeting rooms, please try again")
		return nil, false
	}
	return rooms, true
}

// History lists the user's own reservations and refreshes the local
// cache on success.
func (c *Catalog) History(ctx context.Context) ([]*models.UserReservation, bool) {
	resp, err := c.client.Get(ctx, "/users/me/reservations")
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to get reservation history")
		c.notify.Errorf("Cannot display reservation history, please try again")
		return nil, false
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error().Int("status_code", resp.StatusCode).Msg("unknown status code for reservation history")
		c.notify.Errorf("Cannot display reservation history, please try again")
		return nil, false
	}

	var history []*models.UserReservation
	if err := resp.Decode(&history); err != nil {
		c.logger.Error().Err(err).Msg("failed to decode reservation history")
		c.notify.Errorf("Cannot display reservation history, please try again")
		return nil, false
	}

	if c.cache != nil {
		if err := c.cache.ReplaceHistory(ctx, history); err != nil {
			// Cache refresh is best effort; the fetched list is valid.
			c.logger.Error().Err(err).Msg("failed to refresh local history cache")
		}
	}
	return history, true
}

// AllReservations lists every reservation. Requires the admin role;
// the server answers 403 otherwise.
func (c *Catalog) AllReservations(ctx context.Context) ([]models.EnrichedReservation, ListOutcome) {
	resp, err := c.client.Get(ctx, "/reservations")
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to get reservations")
		c.notify.Errorf("Cannot display reservations, please try again")
		return nil, ListFailed
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var reservations []models.EnrichedReservation
		if err := resp.Decode(&reservations); err != nil {
			c.logger.Error().Err(err).Msg("failed to decode reservations")
			c.notify.Errorf("Cannot display reservations, please try again")
			return nil, ListFailed
		}
		return reservations, ListOK
	case http.StatusForbidden:
		c.notify.Errorf("Insufficient permissions")
		return nil, ListForbidden
	default:
		c.logger.Error().Int("status_code", resp.StatusCode).Msg("unknown status code for reservations")
		c.notify.Errorf("Cannot display reservations, please try again")
		return nil, ListFailed
	}
}
