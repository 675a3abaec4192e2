package availability

import (
	"sort"
	"time"
)

// reasonAdvance annotates slots rejected by the standard advance rule.
const reasonAdvance = "minimum advance booking not met"

// PolicyConfig parameterizes the advance-booking rule per call so tests and
// per-organization settings can vary the threshold without global state.
type PolicyConfig struct {
	// MinAdvance is the minimum lead time between "now" and a bookable
	// slot under the standard rule.
	MinAdvance time.Duration
	// Location is the organization's timezone; slot instants are built
	// and compared in it. Nil falls back to UTC.
	Location *time.Location
}

// DefaultMinAdvance is the standard patient-facing lead time.
const DefaultMinAdvance = 4 * time.Hour

// ApplyHorizon applies the role-conditional advance rule and returns the
// slots sorted ascending by start time (then provider id for a stable
// order).
//
// Standard rule (patients, or any request with UseStandardRule): a slot
// whose absolute start instant (request date plus slot start, evaluated in
// cfg.Location) is less than cfg.MinAdvance from now is marked unavailable.
// The comparison is instant subtraction, never calendar-day equality, so
// near-term slots are rejected on any day, not just today.
//
// Override rule (staff, admin, superadmin without UseStandardRule): no
// advance filtering; conflicts alone decide availability.
func ApplyHorizon(slots []Slot, req Request, cfg PolicyConfig, now time.Time) []Slot {
	standard := req.UseStandardRule || !req.RequesterRole.privileged()
	if standard {
		loc := cfg.Location
		if loc == nil {
			loc = time.UTC
		}
		minAdvance := cfg.MinAdvance
		if day, err := time.ParseInLocation("2006-01-02", req.Date, loc); err == nil {
			for i := range slots {
				if !slots[i].Available {
					continue
				}
				startAt := day.Add(time.Duration(slots[i].Start) * time.Minute)
				if startAt.Sub(now) < minAdvance {
					slots[i].Available = false
					slots[i].Reason = reasonAdvance
				}
			}
		}
	}

	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Start != slots[j].Start {
			return slots[i].Start < slots[j].Start
		}
		return slots[i].ProviderID < slots[j].ProviderID
	})
	return slots
}
