// Package availability computes bookable time slots for a provider's day:
// weekly schedule blocks are merged into disjoint intervals, sliced into
// fixed-duration candidate slots, checked against existing appointments,
// and filtered by the advance-booking policy.
//
// All internal arithmetic uses integer minutes since midnight. Times cross
// the package boundary as zero-padded 24-hour "HH:MM" strings only.
package availability

import (
	"fmt"
	"sort"
	"time"
)

// minutesPerDay bounds every clock value handled by this package.
const minutesPerDay = 24 * 60

// Interval is a half-open [Start, End) window in minutes since midnight.
type Interval struct {
	Start int
	End   int
}

// Duration returns the interval length in minutes.
func (iv Interval) Duration() int {
	return iv.End - iv.Start
}

// WeeklyBlock is one recurring availability window for a provider on a
// weekday. Blocks for the same (provider, weekday) may overlap or abut;
// MergeBlocks collapses them.
type WeeklyBlock struct {
	ProviderID string
	DayOfWeek  time.Weekday
	StartTime  string // "HH:MM"
	EndTime    string // "HH:MM"
	IsActive   bool
}

// Diagnostic reports a schedule or appointment row that was excluded from
// the computation. One bad row never aborts the whole request.
type Diagnostic struct {
	ProviderID string `json:"provider_id,omitempty"`
	Reason     string `json:"reason"`
}

// ParseClock converts a zero-padded 24-hour "HH:MM" string to minutes since
// midnight.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("availability: malformed clock value %q", s)
	}
	h, m := 0, 0
	for i, c := range s {
		if i == 2 {
			continue
		}
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("availability: malformed clock value %q", s)
		}
		d := int(c - '0')
		if i < 2 {
			h = h*10 + d
		} else {
			m = m*10 + d
		}
	}
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("availability: clock value %q out of range", s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// MergeBlocks collapses a provider's blocks for one weekday into a minimal
// set of disjoint intervals, sorted by start. Adjacent blocks (end == next
// start) merge into one. Malformed blocks (unparsable clock, end <= start)
// are skipped and reported via diagnostics; inactive blocks are skipped
// silently.
func MergeBlocks(blocks []WeeklyBlock) ([]Interval, []Diagnostic) {
	var (
		intervals   []Interval
		diagnostics []Diagnostic
	)
	for _, b := range blocks {
		if !b.IsActive {
			continue
		}
		start, err := ParseClock(b.StartTime)
		if err != nil {
			diagnostics = append(diagnostics, Diagnostic{
				ProviderID: b.ProviderID,
				Reason:     fmt.Sprintf("schedule block skipped: %v", err),
			})
			continue
		}
		end, err := ParseClock(b.EndTime)
		if err != nil {
			diagnostics = append(diagnostics, Diagnostic{
				ProviderID: b.ProviderID,
				Reason:     fmt.Sprintf("schedule block skipped: %v", err),
			})
			continue
		}
		if end <= start {
			diagnostics = append(diagnostics, Diagnostic{
				ProviderID: b.ProviderID,
				Reason:     fmt.Sprintf("schedule block skipped: end %s not after start %s", b.EndTime, b.StartTime),
			})
			continue
		}
		intervals = append(intervals, Interval{Start: start, End: end})
	}
	if len(intervals) == 0 {
		return nil, diagnostics
	}

	sort.Slice(intervals, func(i, j int) bool {
		if intervals[i].Start != intervals[j].Start {
			return intervals[i].Start < intervals[j].Start
		}
		return intervals[i].End < intervals[j].End
	})

	merged := intervals[:1]
	for _, iv := range intervals[1:] {
		last := &merged[len(merged)-1]
		if last.End >= iv.Start {
			if iv.End > last.End {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged, diagnostics
}
