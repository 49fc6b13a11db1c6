package google

import (
	"testing"
	"time"

	"github.com/mdayat/artics-communication/internal/models"
)

func TestFilterActive(t *testing.T) {
	s := &SheetsService{}

	canceledAt := time.Date(2025, 5, 30, 12, 0, 0, 0, time.UTC)
	reservations := []*models.UserReservation{
		{ID: "r1"},
		{ID: "r2", Canceled: true, CanceledAt: &canceledAt},
		nil,
		{ID: "r3"},
	}

	active := s.filterActive(reservations)

	if len(active) != 2 {
		t.Fatalf("expected 2 active reservations, got %d", len(active))
	}
	for _, r := range active {
		if r.Canceled {
			t.Errorf("canceled reservation %s found in active list", r.ID)
		}
	}
}

func TestReservationRowValues(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	r := &models.UserReservation{
		ID:          "r1",
		MeetingRoom: models.MeetingRoom{Name: "Mawar"},
		TimeSlot:    models.TimeSlot{StartDate: start, EndDate: start.Add(time.Hour)},
		ReservedAt:  start.Add(-24 * time.Hour),
	}

	values := reservationRowValues(r)

	if len(values) != len(headerRow) {
		t.Fatalf("expected %d columns, got %d", len(headerRow), len(values))
	}
	if values[0] != "r1" || values[1] != "Mawar" {
		t.Errorf("unexpected identity columns: %v", values[:2])
	}
	if values[2] != "2025-06-01 09:00" {
		t.Errorf("unexpected start date format: %v", values[2])
	}
}
