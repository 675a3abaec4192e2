package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kinopsis/agensalud/internal/availability"
	"github.com/kinopsis/agensalud/internal/observability/metrics"
	"github.com/kinopsis/agensalud/internal/orgsettings"
	"github.com/kinopsis/agensalud/internal/tenancy"
	"github.com/kinopsis/agensalud/pkg/logging"
)

var availabilityTracer = otel.Tracer("agensalud.internal.http.availability")

// ScheduleSource supplies active weekly blocks for the requested weekday.
type ScheduleSource interface {
	ListActiveBlocks(ctx context.Context, orgID, doctorID string, weekday time.Weekday) ([]availability.WeeklyBlock, error)
}

// AppointmentSource supplies the booked intervals on the requested date.
type AppointmentSource interface {
	ListBookedIntervals(ctx context.Context, orgID, doctorID, date string) ([]availability.BookedInterval, []availability.Diagnostic, error)
}

// SettingsSource supplies per-organization policy settings.
type SettingsSource interface {
	Get(ctx context.Context, orgID string) (*orgsettings.Settings, error)
}

// AvailabilityHandler serves the bookable-slot listing for a day.
type AvailabilityHandler struct {
	engine       *availability.Engine
	schedules    ScheduleSource
	appointments AppointmentSource
	settings     SettingsSource
	metrics      *metrics.AvailabilityMetrics
	logger       *logging.Logger
	now          func() time.Time
}

// NewAvailabilityHandler constructs the handler. metrics may be nil.
func NewAvailabilityHandler(
	engine *availability.Engine,
	schedules ScheduleSource,
	appointments AppointmentSource,
	settings SettingsSource,
	m *metrics.AvailabilityMetrics,
	logger *logging.Logger,
) *AvailabilityHandler {
	if engine == nil {
		panic("handlers: availability engine required")
	}
	if schedules == nil || appointments == nil || settings == nil {
		panic("handlers: schedule, appointment and settings sources required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AvailabilityHandler{
		engine:       engine,
		schedules:    schedules,
		appointments: appointments,
		settings:     settings,
		metrics:      m,
		logger:       logger,
		now:          time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (h *AvailabilityHandler) WithClock(now func() time.Time) *AvailabilityHandler {
	h.now = now
	return h
}

type slotResponse struct {
	DoctorID  string `json:"doctor_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

type availabilityResponse struct {
	Date            string                    `json:"date"`
	DayOfWeek       string                    `json:"day_of_week"`
	DurationMinutes int                       `json:"duration_minutes"`
	Slots           []slotResponse            `json:"slots"`
	Diagnostics     []availability.Diagnostic `json:"diagnostics,omitempty"`
}

// GetAvailability computes the slot list for one organization and date.
// GET /api/v1/organizations/{orgID}/availability?date=YYYY-MM-DD&duration=30
// Optional: doctorId, serviceId, includeUnavailable, useStandardRules.
// The requester role arrives via tenancy context; this handler trusts it.
func (h *AvailabilityHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, span := availabilityTracer.Start(r.Context(), "availability.get", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()
	started := h.now()

	orgID, ok := tenancy.OrgIDFromContext(ctx)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "organization id required")
		return
	}
	roleValue, _ := tenancy.RoleFromContext(ctx)
	role := availability.ParseRole(roleValue)
	span.SetAttributes(
		attribute.String("agensalud.org_id", orgID),
		attribute.String("agensalud.role", string(role)),
	)

	q := r.URL.Query()
	duration, err := strconv.Atoi(q.Get("duration"))
	if err != nil {
		h.metrics.ObserveQuery(string(role), "invalid_request")
		writeJSONError(w, http.StatusBadRequest, "duration must be an integer number of minutes")
		return
	}
	req := availability.Request{
		OrganizationID:  orgID,
		Date:            q.Get("date"),
		DurationMinutes: duration,
		DoctorID:        q.Get("doctorId"),
		ServiceID:       q.Get("serviceId"),
		RequesterRole:   role,
		UseStandardRule: q.Get("useStandardRules") == "true",
	}

	settings, err := h.settings.Get(ctx, orgID)
	if err != nil {
		h.logger.Error("failed to load org settings", "org_id", orgID, "error", err)
		h.metrics.ObserveQuery(string(role), "settings_error")
		writeJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	bounds := availability.DurationBounds{Min: settings.MinSlotDurationMins, Max: settings.MaxSlotDurationMins}
	if err := req.Validate(bounds); err != nil {
		h.metrics.ObserveQuery(string(role), "invalid_request")
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	weekday, _ := req.Weekday()

	// Schedules and bookings are independent reads; fetch them
	// concurrently before handing the snapshots to the engine.
	var (
		blocks     []availability.WeeklyBlock
		booked     []availability.BookedInterval
		fetchDiags []availability.Diagnostic
		blocksErr  error
		bookedErr  error
	)
	done := make(chan struct{}, 2)
	go func() {
		blocks, blocksErr = h.schedules.ListActiveBlocks(ctx, orgID, req.DoctorID, weekday)
		done <- struct{}{}
	}()
	go func() {
		booked, fetchDiags, bookedErr = h.appointments.ListBookedIntervals(ctx, orgID, req.DoctorID, req.Date)
		done <- struct{}{}
	}()
	<-done
	<-done
	if blocksErr != nil || bookedErr != nil {
		if blocksErr != nil {
			h.logger.Error("failed to load schedules", "org_id", orgID, "error", blocksErr)
		}
		if bookedErr != nil {
			h.logger.Error("failed to load appointments", "org_id", orgID, "error", bookedErr)
		}
		h.metrics.ObserveQuery(string(role), "fetch_error")
		writeJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	day, err := h.engine.Compute(ctx, req, groupByProvider(blocks, booked), availability.PolicyConfig{
		MinAdvance: settings.MinAdvance(),
		Location:   settings.Location(),
	}, h.now())
	if err != nil {
		h.metrics.ObserveQuery(string(role), "invalid_request")
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	day.Diagnostics = append(day.Diagnostics, fetchDiags...)

	slots := day.Slots
	if q.Get("includeUnavailable") != "true" {
		slots = day.Available()
	}
	resp := availabilityResponse{
		Date:            day.Date,
		DayOfWeek:       day.DayOfWeek.String(),
		DurationMinutes: day.DurationMinutes,
		Slots:           make([]slotResponse, 0, len(slots)),
		Diagnostics:     day.Diagnostics,
	}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, slotResponse{
			DoctorID:  s.ProviderID,
			StartTime: s.StartClock(),
			EndTime:   s.EndClock(),
			Available: s.Available,
			Reason:    s.Reason,
		})
	}

	h.metrics.ObserveQuery(string(role), "ok")
	h.metrics.ObserveSlots(len(day.Available()))
	h.metrics.ObserveLatency(h.now().Sub(started).Seconds())
	span.SetAttributes(attribute.Int("agensalud.slots_available", len(day.Available())))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode availability response", "org_id", orgID, "error", err)
	}
}

// groupByProvider turns flat repository rows into per-provider inputs.
// Providers appear in the order their first block was returned; bookings
// without a matching schedule yield no provider since they cannot produce
// slots.
func groupByProvider(blocks []availability.WeeklyBlock, booked []availability.BookedInterval) []availability.ProviderDay {
	index := map[string]int{}
	var providers []availability.ProviderDay
	for _, b := range blocks {
		i, ok := index[b.ProviderID]
		if !ok {
			i = len(providers)
			index[b.ProviderID] = i
			providers = append(providers, availability.ProviderDay{ProviderID: b.ProviderID})
		}
		providers[i].Blocks = append(providers[i].Blocks, b)
	}
	for _, bk := range booked {
		if i, ok := index[bk.ProviderID]; ok {
			providers[i].Booked = append(providers[i].Booked, bk)
		}
	}
	return providers
}

// HealthCheck reports liveness.
func (h *AvailabilityHandler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
