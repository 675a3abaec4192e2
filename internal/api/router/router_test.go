package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/require"

	"github.com/kinopsis/agensalud/internal/availability"
	"github.com/kinopsis/agensalud/internal/http/handlers"
	"github.com/kinopsis/agensalud/internal/orgsettings"
)

type fixedSchedules struct {
	blocks []availability.WeeklyBlock
}

func (f *fixedSchedules) ListActiveBlocks(context.Context, string, string, time.Weekday) ([]availability.WeeklyBlock, error) {
	return f.blocks, nil
}

type emptyAppointments struct{}

func (emptyAppointments) ListBookedIntervals(context.Context, string, string, string) ([]availability.BookedInterval, []availability.Diagnostic, error) {
	return nil, nil, nil
}

type defaultSettings struct{}

func (defaultSettings) Get(_ context.Context, orgID string) (*orgsettings.Settings, error) {
	return orgsettings.DefaultSettings(orgID, "UTC"), nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	engine := availability.NewEngine(availability.DefaultDurationBounds, nil)
	sched := &fixedSchedules{blocks: []availability.WeeklyBlock{
		{ProviderID: "doc-1", DayOfWeek: time.Monday, StartTime: "09:00", EndTime: "12:00", IsActive: true},
	}}
	h := handlers.NewAvailabilityHandler(engine, sched, emptyAppointments{}, defaultSettings{}, nil, nil).
		WithClock(func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) })

	return New(&Config{
		AvailabilityHandler: h,
		MetricsHandler:      promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{}),
	})
}

func TestRouterHealth(t *testing.T) {
	r := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterMetrics(t *testing.T) {
	r := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterAvailabilityRoute(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/organizations/org-1/availability?date=2025-06-09&duration=30", nil)
	req.Header.Set(roleHeader, "staff")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Slots []struct {
			DoctorID  string `json:"doctor_id"`
			StartTime string `json:"start_time"`
		} `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Slots, 6)
	require.Equal(t, "doc-1", resp.Slots[0].DoctorID)
	require.Equal(t, "09:00", resp.Slots[0].StartTime)
}

func TestRouterUnknownRouteIs404(t *testing.T) {
	r := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/availability", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
