// Package orgsettings stores per-organization booking policy settings.
package orgsettings

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Settings holds the per-organization knobs of the availability engine.
// Organizations that never saved settings get the defaults.
type Settings struct {
	OrgID string `json:"org_id"`
	Name  string `json:"name,omitempty"`
	// Timezone is the IANA zone slot instants are evaluated in,
	// e.g. "America/Bogota".
	Timezone string `json:"timezone"`
	// AdvanceNoticeHours is the standard-rule minimum lead time.
	AdvanceNoticeHours int `json:"advance_notice_hours"`
	// Slot duration bounds accepted from booking requests, in minutes.
	MinSlotDurationMins int `json:"min_slot_duration_mins"`
	MaxSlotDurationMins int `json:"max_slot_duration_mins"`
}

// MinAdvance returns the advance notice as a duration.
func (s *Settings) MinAdvance() time.Duration {
	return time.Duration(s.AdvanceNoticeHours) * time.Hour
}

// Location resolves the configured timezone, falling back to UTC when the
// zone name is unknown.
func (s *Settings) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DefaultSettings returns the defaults applied to unconfigured orgs.
func DefaultSettings(orgID, timezone string) *Settings {
	if timezone == "" {
		timezone = "UTC"
	}
	return &Settings{
		OrgID:               orgID,
		Timezone:            timezone,
		AdvanceNoticeHours:  4,
		MinSlotDurationMins: 15,
		MaxSlotDurationMins: 240,
	}
}

// Store provides persistence for organization settings.
type Store struct {
	redis           *redis.Client
	defaultTimezone string
}

// NewStore creates a settings store. defaultTimezone seeds the fallback for
// orgs without saved settings.
func NewStore(redisClient *redis.Client, defaultTimezone string) *Store {
	if redisClient == nil {
		panic("orgsettings: redis client required")
	}
	return &Store{redis: redisClient, defaultTimezone: defaultTimezone}
}

func (s *Store) key(orgID string) string {
	return fmt.Sprintf("org:settings:%s", orgID)
}

// Get retrieves org settings, returning defaults if none were saved.
func (s *Store) Get(ctx context.Context, orgID string) (*Settings, error) {
	data, err := s.redis.Get(ctx, s.key(orgID)).Bytes()
	if err == redis.Nil {
		return DefaultSettings(orgID, s.defaultTimezone), nil
	}
	if err != nil {
		return nil, fmt.Errorf("orgsettings: get: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("orgsettings: unmarshal: %w", err)
	}
	if settings.Timezone == "" {
		settings.Timezone = s.defaultTimezone
	}
	if settings.AdvanceNoticeHours <= 0 {
		settings.AdvanceNoticeHours = 4
	}
	if settings.MinSlotDurationMins <= 0 {
		settings.MinSlotDurationMins = 15
	}
	if settings.MaxSlotDurationMins <= 0 {
		settings.MaxSlotDurationMins = 240
	}
	return &settings, nil
}

// Set saves org settings.
func (s *Store) Set(ctx context.Context, settings *Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("orgsettings: marshal: %w", err)
	}
	if err := s.redis.Set(ctx, s.key(settings.OrgID), data, 0).Err(); err != nil {
		return fmt.Errorf("orgsettings: set: %w", err)
	}
	return nil
}
