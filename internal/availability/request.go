package availability

import (
	"fmt"
	"time"
)

// Role identifies who is asking for availability. The authenticated request
// handler supplies it; this package trusts the value and performs no
// authorization of its own.
type Role string

const (
	RolePatient    Role = "patient"
	RoleDoctor     Role = "doctor"
	RoleStaff      Role = "staff"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// ParseRole normalizes a role string from the boundary. Unknown values fall
// back to patient so an unrecognized caller always gets the strictest rule.
func ParseRole(s string) Role {
	switch Role(s) {
	case RolePatient, RoleDoctor, RoleStaff, RoleAdmin, RoleSuperAdmin:
		return Role(s)
	default:
		return RolePatient
	}
}

// privileged reports whether the role may bypass the standard advance rule.
func (r Role) privileged() bool {
	switch r {
	case RoleStaff, RoleAdmin, RoleSuperAdmin:
		return true
	default:
		return false
	}
}

// DurationBounds limits the slot duration a request may ask for.
type DurationBounds struct {
	Min int
	Max int
}

// DefaultDurationBounds matches the booking flows: 15 minutes up to 4 hours.
var DefaultDurationBounds = DurationBounds{Min: 15, Max: 240}

// Request carries the parameters of one availability computation.
type Request struct {
	OrganizationID  string
	Date            string // "YYYY-MM-DD"
	DurationMinutes int
	DoctorID        string // optional, empty means all providers
	ServiceID       string // optional
	RequesterRole   Role
	// UseStandardRule forces the patient-facing advance rule even for
	// privileged roles; patient-facing flows set it regardless of role.
	UseStandardRule bool
}

// Day parses the request date.
func (r Request) Day() (time.Time, error) {
	return time.Parse("2006-01-02", r.Date)
}

// Weekday returns the weekday of the request date (Sunday = 0).
func (r Request) Weekday() (time.Weekday, error) {
	day, err := r.Day()
	if err != nil {
		return 0, err
	}
	return day.Weekday(), nil
}

// Validate checks the request against the configured duration bounds.
// Validation failures are the only hard errors this package returns to the
// caller; everything downstream degrades to diagnostics or annotated slots.
func (r Request) Validate(bounds DurationBounds) error {
	if r.OrganizationID == "" {
		return fmt.Errorf("availability: organization id required")
	}
	if _, err := r.Day(); err != nil {
		return fmt.Errorf("availability: invalid date %q: want YYYY-MM-DD", r.Date)
	}
	if r.DurationMinutes < bounds.Min || r.DurationMinutes > bounds.Max {
		return fmt.Errorf("availability: duration %d outside allowed range %d-%d minutes",
			r.DurationMinutes, bounds.Min, bounds.Max)
	}
	return nil
}
