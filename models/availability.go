package models

import "time"

// DateLayout is the cache key date format, interpreted in the clinic timezone.
const DateLayout = "2006-01-02"

// Slot is a single bookable instant for one practitioner at one location.
// Slots are immutable once produced by upstream; an entry's slot list is only
// ever replaced wholesale.
type Slot struct {
	StartTime       time.Time `bson:"startTime" json:"startTime"` // absolute, timezone-aware
	DurationMinutes int       `bson:"durationMinutes" json:"durationMinutes"`
	ServiceName     string    `bson:"serviceName" json:"serviceName"`
}

// AvailabilityCacheEntry is the stored snapshot of all slots for one
// (practitioner, business, date) triple. At most one entry exists per key;
// writes are whole-document replaces.
type AvailabilityCacheEntry struct {
	ClinicID       string    `bson:"clinicId" json:"clinicId"`
	PractitionerID string    `bson:"practitionerId" json:"practitionerId"`
	BusinessID     string    `bson:"businessId" json:"businessId"`
	Date           string    `bson:"date" json:"date"` // DateLayout in clinic timezone
	Slots          []Slot    `bson:"slots" json:"slots"`
	CachedAt       time.Time `bson:"cachedAt" json:"cachedAt"`
	ExpiresAt      time.Time `bson:"expiresAt" json:"expiresAt"`
	IsStale        bool      `bson:"isStale" json:"isStale"`
}

// Valid reports whether the entry may serve reads at the given instant. A
// stale or expired entry is treated as absent, never as fallback data.
func (e AvailabilityCacheEntry) Valid(now time.Time) bool {
	return !e.IsStale && e.ExpiresAt.After(now)
}

// WarmTaskPayload is the asynq payload for one clinic warm cycle.
type WarmTaskPayload struct {
	ClinicID string `json:"clinicId"`
}
