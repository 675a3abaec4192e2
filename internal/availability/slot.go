package availability

// Slot is a fixed-duration candidate window for one provider. Slots are
// derived per request and never persisted.
type Slot struct {
	ProviderID string
	Date       string // "YYYY-MM-DD"
	Start      int    // minutes since midnight
	End        int
	Available  bool
	Reason     string // set when Available is false
}

// StartClock returns the slot start as "HH:MM".
func (s Slot) StartClock() string { return FormatClock(s.Start) }

// EndClock returns the slot end as "HH:MM".
func (s Slot) EndClock() string { return FormatClock(s.End) }

// GenerateSlots slices one merged interval into candidate slots of exactly
// durationMinutes, walking the interval in duration-sized steps. A trailing
// window that would overrun the interval end is not emitted, so an interval
// shorter than the duration yields no slots.
func GenerateSlots(providerID, date string, iv Interval, durationMinutes int) []Slot {
	if durationMinutes <= 0 {
		return nil
	}
	var slots []Slot
	for t := iv.Start; t+durationMinutes <= iv.End; t += durationMinutes {
		slots = append(slots, Slot{
			ProviderID: providerID,
			Date:       date,
			Start:      t,
			End:        t + durationMinutes,
			Available:  true,
		})
	}
	return slots
}
