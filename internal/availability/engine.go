package availability

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kinopsis/agensalud/pkg/logging"
)

var engineTracer = otel.Tracer("agensalud.internal.availability")

// ProviderDay bundles one provider's inputs for the requested date: the
// active weekly blocks matching the date's weekday and the booked intervals
// on the date. The repositories do that filtering; stale or unfiltered
// input is a caller error this package does not detect.
type ProviderDay struct {
	ProviderID string
	Blocks     []WeeklyBlock
	Booked     []BookedInterval
}

// DayAvailability is the result of one availability computation.
type DayAvailability struct {
	Date            string
	DayOfWeek       time.Weekday
	DurationMinutes int
	Slots           []Slot
	Diagnostics     []Diagnostic
}

// Available returns only the bookable slots, preserving order.
func (d *DayAvailability) Available() []Slot {
	out := make([]Slot, 0, len(d.Slots))
	for _, s := range d.Slots {
		if s.Available {
			out = append(out, s)
		}
	}
	return out
}

// Engine runs the merge → generate → conflict → horizon pipeline. It holds
// no mutable state; a single Engine is safe for concurrent use.
type Engine struct {
	bounds DurationBounds
	logger *logging.Logger
}

// NewEngine constructs an engine with the configured duration bounds.
func NewEngine(bounds DurationBounds, logger *logging.Logger) *Engine {
	if bounds.Min <= 0 || bounds.Max < bounds.Min {
		bounds = DefaultDurationBounds
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{bounds: bounds, logger: logger}
}

// Compute produces the authoritative slot list for the request. Providers
// are computed in parallel; each provider's pipeline is independent and
// side-effect-free. Per-row problems become diagnostics, empty results are
// valid, and only request validation returns an error.
func (e *Engine) Compute(ctx context.Context, req Request, providers []ProviderDay, cfg PolicyConfig, now time.Time) (*DayAvailability, error) {
	_, span := engineTracer.Start(ctx, "availability.compute")
	defer span.End()
	span.SetAttributes(
		attribute.String("agensalud.org_id", req.OrganizationID),
		attribute.String("agensalud.date", req.Date),
		attribute.Int("agensalud.duration_minutes", req.DurationMinutes),
		attribute.Int("agensalud.providers", len(providers)),
	)

	if err := req.Validate(e.bounds); err != nil {
		span.RecordError(err)
		return nil, err
	}
	weekday, _ := req.Weekday()

	if cfg.MinAdvance <= 0 {
		cfg.MinAdvance = DefaultMinAdvance
	}

	type providerResult struct {
		slots       []Slot
		diagnostics []Diagnostic
	}
	results := make([]providerResult, len(providers))

	var wg sync.WaitGroup
	for i, p := range providers {
		wg.Add(1)
		go func(i int, p ProviderDay) {
			defer wg.Done()
			intervals, diags := MergeBlocks(p.Blocks)
			var slots []Slot
			for _, iv := range intervals {
				slots = append(slots, GenerateSlots(p.ProviderID, req.Date, iv, req.DurationMinutes)...)
			}
			slots = DedupeSlots(slots)
			slots = MarkConflicts(slots, p.Booked)
			results[i] = providerResult{slots: slots, diagnostics: diags}
		}(i, p)
	}
	wg.Wait()

	day := &DayAvailability{
		Date:            req.Date,
		DayOfWeek:       weekday,
		DurationMinutes: req.DurationMinutes,
	}
	for _, res := range results {
		day.Slots = append(day.Slots, res.slots...)
		day.Diagnostics = append(day.Diagnostics, res.diagnostics...)
	}
	day.Slots = ApplyHorizon(day.Slots, req, cfg, now)

	span.SetAttributes(
		attribute.Int("agensalud.slots_total", len(day.Slots)),
		attribute.Int("agensalud.slots_available", len(day.Available())),
	)
	e.logger.Debug("availability computed",
		"org_id", req.OrganizationID,
		"date", req.Date,
		"providers", len(providers),
		"slots", len(day.Slots),
		"available", len(day.Available()),
		"diagnostics", len(day.Diagnostics),
	)
	return day, nil
}
