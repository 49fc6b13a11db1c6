// Package reservation holds the conflict-aware mutation flow and the
// list reducer for reservation collections.
package reservation

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/mdayat/artics-communication/internal/api"
	"github.com/mdayat/artics-communication/internal/metrics"
	"github.com/mdayat/artics-communication/internal/models"
	"github.com/mdayat/artics-communication/internal/notice"
)

// CreateOutcome is the closed set of results a create call produces.
type CreateOutcome int

const (
	// CreateCreated means the server accepted the reservation.
	CreateCreated CreateOutcome = iota
	// CreateConflict means another actor claimed the slot between the
	// caller viewing it and submitting. A business outcome, not a
	// fault: the caller keeps its confirmation surface open since the
	// same dialog's other slots may still be valid.
	CreateConflict
	// CreateFailed covers unexpected statuses and transport failures.
	CreateFailed
)

// CancelOutcome is the closed set of results a cancel call produces.
type CancelOutcome int

const (
	CancelCanceled CancelOutcome = iota
	CancelNotFound
	CancelFailed
)

// CreateResult carries the outcome and, on success, the server's record.
type CreateResult struct {
	Outcome     CreateOutcome
	Reservation *models.Reservation
}

// CancelResult carries the outcome and, on success, the server's
// authoritative cancellation timestamp.
type CancelResult struct {
	Outcome    CancelOutcome
	CanceledAt *time.Time
}

// Mutator issues create and cancel requests. It never retries, never
// inserts optimistically, and never assumes success before the server
// says so; the server is the sole arbiter of one-reservation-per-slot.
type Mutator struct {
	client *api.Client
	notify notice.Notifier
	logger zerolog.Logger
}

func NewMutator(client *api.Client, notify notice.Notifier, logger zerolog.Logger) *Mutator {
	return &Mutator{client: client, notify: notify, logger: logger}
}

// Create reserves the given slot in the given room. The caller must
// have confirmed intent already; no confirmation happens here.
func (m *Mutator) Create(ctx context.Context, roomID, slotID string) CreateResult {
	body := models.CreateReservationRequest{MeetingRoomID: roomID, TimeSlotID: slotID}
	resp, err := m.client.Post(ctx, "/users/me/reservations", body)
	if err != nil {
		m.logger.Error().Err(err).Msg("failed to reserve")
		m.notify.Errorf("Reservation failed, please try again")
		metrics.IncReservationCreated("failed")
		return CreateResult{Outcome: CreateFailed}
	}

	switch resp.StatusCode {
	case http.StatusCreated:
		var created models.Reservation
		if err := resp.Decode(&created); err != nil {
			m.logger.Error().Err(err).Msg("failed to decode created reservation")
			m.notify.Errorf("Reservation failed, please try again")
			metrics.IncReservationCreated("failed")
			return CreateResult{Outcome: CreateFailed}
		}
		m.notify.Successf("Reservation successfully created")
		metrics.IncReservationCreated("created")
		return CreateResult{Outcome: CreateCreated, Reservation: &created}
	case http.StatusConflict:
		m.notify.Errorf("Sorry, this time slot already reserved by someone else")
		metrics.IncReservationCreated("conflict")
		return CreateResult{Outcome: CreateConflict}
	default:
		m.logger.Error().Int("status_code", resp.StatusCode).Msg("unknown status code for create reservation")
		m.notify.Errorf("Reservation failed, please try again")
		metrics.IncReservationCreated("failed")
		return CreateResult{Outcome: CreateFailed}
	}
}

// Cancel cancels the reservation with the given id. Canceling an
// already-canceled reservation is the server's call to make; the client
// just reports what came back.
func (m *Mutator) Cancel(ctx context.Context, reservationID string) CancelResult {
	path := fmt.Sprintf("/users/me/reservations/%s", reservationID)
	resp, err := m.client.Patch(ctx, path, nil)
	if err != nil {
		m.logger.Error().Err(err).Msg("failed to cancel reservation")
		m.notify.Errorf("Cancel Reservation failed, please try again")
		metrics.IncReservationCancelled("failed")
		return CancelResult{Outcome: CancelFailed}
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var canceled models.Reservation
		if err := resp.Decode(&canceled); err != nil {
			m.logger.Error().Err(err).Msg("failed to decode canceled reservation")
			m.notify.Errorf("Cancel Reservation failed, please try again")
			metrics.IncReservationCancelled("failed")
			return CancelResult{Outcome: CancelFailed}
		}
		m.notify.Successf("Reservation successfully canceled")
		metrics.IncReservationCancelled("canceled")
		return CancelResult{Outcome: CancelCanceled, CanceledAt: canceled.CanceledAt}
	case http.StatusNotFound:
		m.notify.Errorf("Reservation not found")
		metrics.IncReservationCancelled("not_found")
		return CancelResult{Outcome: CancelNotFound}
	default:
		m.logger.Error().Int("status_code", resp.StatusCode).Msg("unknown status code for cancel reservation")
		m.notify.Errorf("Cancel Reservation failed, please try again")
		metrics.IncReservationCancelled("failed")
		return CancelResult{Outcome: CancelFailed}
	}
}
