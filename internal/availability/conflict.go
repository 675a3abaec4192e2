package availability

import "fmt"

// reasonBooked annotates slots that collide with an existing appointment.
const reasonBooked = "conflicts with an existing appointment"

// BookedInterval is provider time already committed to a confirmed or
// pending appointment on the requested date. Cancelled and completed
// appointments must be filtered out by the repository.
type BookedInterval struct {
	ProviderID string
	Start      int
	End        int
}

// ParseBookedInterval converts repository clock strings into a
// BookedInterval, rejecting rows where end is not after start.
func ParseBookedInterval(providerID, startClock, endClock string) (BookedInterval, error) {
	start, err := ParseClock(startClock)
	if err != nil {
		return BookedInterval{}, err
	}
	end, err := ParseClock(endClock)
	if err != nil {
		return BookedInterval{}, err
	}
	if end <= start {
		return BookedInterval{}, fmt.Errorf("availability: appointment end %s not after start %s", endClock, startClock)
	}
	return BookedInterval{ProviderID: providerID, Start: start, End: end}, nil
}

// MarkConflicts flags every candidate that strictly overlaps a booked
// interval for the same provider: slot.Start < booked.End && slot.End >
// booked.Start. A slot that exactly abuts a booking does not conflict.
// Conflicting slots stay in the list with Available=false so callers can
// tell "no slots" apart from "all slots busy". Applying the same booked
// list twice yields the same result.
func MarkConflicts(slots []Slot, booked []BookedInterval) []Slot {
	for i := range slots {
		if !slots[i].Available {
			continue
		}
		for _, b := range booked {
			if b.ProviderID != slots[i].ProviderID {
				continue
			}
			if slots[i].Start < b.End && slots[i].End > b.Start {
				slots[i].Available = false
				slots[i].Reason = reasonBooked
				break
			}
		}
	}
	return slots
}

// DedupeSlots collapses duplicate (provider, start) pairs, keeping the first
// occurrence. Overlapping schedule rows that survive merging as separate
// sources can otherwise surface the same slot twice.
func DedupeSlots(slots []Slot) []Slot {
	type key struct {
		provider string
		start    int
	}
	seen := make(map[key]struct{}, len(slots))
	out := slots[:0]
	for _, s := range slots {
		k := key{provider: s.ProviderID, start: s.Start}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}
