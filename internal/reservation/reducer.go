package reservation

import (
	"time"

	"github.com/mdayat/artics-communication/internal/models"
)

// Patch is the field update merged into a reservation after a
// successful cancel. CanceledAt must be the server's timestamp, never
// one minted locally.
type Patch struct {
	Canceled   bool
	CanceledAt *time.Time
}

// Apply returns a new list where the entry matching id is replaced by a
// merged copy and every other entry keeps its pointer. An unknown id
// returns the input list unchanged. This is the only sanctioned way to
// mutate a held reservation collection; entries are never removed,
// cancellation is a field update.
func Apply(list []*models.UserReservation, id string, patch Patch) []*models.UserReservation {
	idx := -1
	for i, r := range list {
		if r != nil && r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return list
	}

	next := make([]*models.UserReservation, len(list))
	copy(next, list)

	merged := *list[idx]
	merged.Canceled = patch.Canceled
	merged.CanceledAt = patch.CanceledAt
	next[idx] = &merged

	return next
}
