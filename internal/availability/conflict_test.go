package availability

import (
	"reflect"
	"testing"
)

func candidate(providerID string, start, end int) Slot {
	return Slot{ProviderID: providerID, Date: "2025-06-09", Start: start, End: end, Available: true}
}

func TestParseBookedInterval(t *testing.T) {
	b, err := ParseBookedInterval("doc-1", "10:00", "10:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Start != 600 || b.End != 630 {
		t.Errorf("parsed %+v, want 600-630", b)
	}

	if _, err := ParseBookedInterval("doc-1", "10:30", "10:00"); err == nil {
		t.Error("expected error for end before start")
	}
	if _, err := ParseBookedInterval("doc-1", "bad", "10:00"); err == nil {
		t.Error("expected error for malformed start")
	}
}

func TestMarkConflictsAbutmentIsNotConflict(t *testing.T) {
	slots := MarkConflicts(
		[]Slot{candidate("doc-1", 600, 630)}, // 10:00-10:30
		[]BookedInterval{
			{ProviderID: "doc-1", Start: 570, End: 600}, // 09:30-10:00
			{ProviderID: "doc-1", Start: 630, End: 660}, // 10:30-11:00
		},
	)
	if !slots[0].Available {
		t.Fatalf("abutting bookings must not conflict: %+v", slots[0])
	}
}

func TestMarkConflictsStrictOverlap(t *testing.T) {
	slots := MarkConflicts(
		[]Slot{candidate("doc-1", 600, 630)},
		[]BookedInterval{{ProviderID: "doc-1", Start: 615, End: 645}}, // 10:15-10:45
	)
	if slots[0].Available {
		t.Fatal("overlapping booking must conflict")
	}
	if slots[0].Reason == "" {
		t.Error("conflicting slot must carry a reason")
	}
}

func TestMarkConflictsRetainsSlots(t *testing.T) {
	slots := MarkConflicts(
		[]Slot{candidate("doc-1", 600, 630), candidate("doc-1", 630, 660)},
		[]BookedInterval{{ProviderID: "doc-1", Start: 600, End: 660}},
	)
	if len(slots) != 2 {
		t.Fatalf("conflicting slots must be retained, got %d", len(slots))
	}
	for _, s := range slots {
		if s.Available {
			t.Errorf("slot %s should be unavailable", s.StartClock())
		}
	}
}

func TestMarkConflictsIgnoresOtherProviders(t *testing.T) {
	slots := MarkConflicts(
		[]Slot{candidate("doc-1", 600, 630)},
		[]BookedInterval{{ProviderID: "doc-2", Start: 600, End: 630}},
	)
	if !slots[0].Available {
		t.Fatal("another provider's booking must not conflict")
	}
}

func TestMarkConflictsIdempotent(t *testing.T) {
	booked := []BookedInterval{{ProviderID: "doc-1", Start: 615, End: 645}}
	once := MarkConflicts([]Slot{candidate("doc-1", 600, 630), candidate("doc-1", 660, 690)}, booked)
	twice := MarkConflicts(append([]Slot(nil), once...), booked)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("second application changed the result:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestDedupeSlots(t *testing.T) {
	slots := DedupeSlots([]Slot{
		candidate("doc-1", 540, 570),
		candidate("doc-1", 540, 570),
		candidate("doc-2", 540, 570),
		candidate("doc-1", 570, 600),
	})
	if len(slots) != 3 {
		t.Fatalf("got %d slots, want 3", len(slots))
	}
	type key struct {
		p string
		s int
	}
	seen := map[key]bool{}
	for _, s := range slots {
		k := key{s.ProviderID, s.Start}
		if seen[k] {
			t.Fatalf("duplicate (provider,start) survived: %+v", s)
		}
		seen[k] = true
	}
}
