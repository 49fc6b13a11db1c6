package reservation

import (
	"testing"
	"time"

	"github.com/mdayat/artics-communication/internal/models"
)

func historyFixture() []*models.UserReservation {
	reserved := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	return []*models.UserReservation{
		{ID: "r1", MeetingRoom: models.MeetingRoom{ID: "m1", Name: "Aurora"}, ReservedAt: reserved},
		{ID: "r2", MeetingRoom: models.MeetingRoom{ID: "m2", Name: "Borealis"}, ReservedAt: reserved},
		{ID: "r3", MeetingRoom: models.MeetingRoom{ID: "m1", Name: "Aurora"}, ReservedAt: reserved},
	}
}

func TestApplyPatchesOnlyMatchingEntry(t *testing.T) {
	list := historyFixture()
	canceledAt := time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC)

	next := Apply(list, "r2", Patch{Canceled: true, CanceledAt: &canceledAt})

	if len(next) != len(list) {
		t.Fatalf("length changed: %d -> %d", len(list), len(next))
	}

	// The patched entry is a fresh value with the merge applied.
	if next[1] == list[1] {
		t.Error("patched entry should be a new value, not a mutation of the old one")
	}
	if !next[1].Canceled || next[1].CanceledAt == nil || !next[1].CanceledAt.Equal(canceledAt) {
		t.Errorf("patch not applied: %+v", next[1])
	}
	if next[1].ID != "r2" || next[1].MeetingRoom.Name != "Borealis" {
		t.Errorf("unpatched fields lost: %+v", next[1])
	}

	// Every other entry is reference-identical.
	if next[0] != list[0] || next[2] != list[2] {
		t.Error("untouched entries must keep their pointers")
	}

	// The input list itself is untouched.
	if list[1].Canceled {
		t.Error("input list mutated")
	}
}

func TestApplyUnknownIDReturnsListUnchanged(t *testing.T) {
	list := historyFixture()
	canceledAt := time.Now()

	next := Apply(list, "nonexistent", Patch{Canceled: true, CanceledAt: &canceledAt})

	if len(next) != len(list) {
		t.Fatalf("length changed: %d -> %d", len(list), len(next))
	}
	for i := range list {
		if next[i] != list[i] {
			t.Errorf("entry %d changed for unknown id", i)
		}
	}
}

func TestApplyEmptyAndNilList(t *testing.T) {
	if got := Apply(nil, "r1", Patch{Canceled: true}); len(got) != 0 {
		t.Errorf("Apply(nil) = %v, want empty", got)
	}
	if got := Apply([]*models.UserReservation{}, "r1", Patch{Canceled: true}); len(got) != 0 {
		t.Errorf("Apply(empty) = %v, want empty", got)
	}
}

func TestApplySkipsNilEntries(t *testing.T) {
	list := []*models.UserReservation{nil, {ID: "r1"}}
	canceledAt := time.Now()

	next := Apply(list, "r1", Patch{Canceled: true, CanceledAt: &canceledAt})

	if next[0] != nil {
		t.Error("nil entry should stay nil")
	}
	if !next[1].Canceled {
		t.Error("matching entry should be patched")
	}
}
