package models

import "time"

// Booking failure classifications reported by the booking executor.
const (
	ErrorTypeSlotTaken   = "slot_taken"
	ErrorTypeNoSlotFound = "no_slot_found"
	ErrorTypeUpstream    = "upstream_error"
)

// BookingAttemptRecord is an append-only record of one booking attempt,
// written by the staleness monitor. Records are never updated; a retention
// job purges them after the configured window.
type BookingAttemptRecord struct {
	ID             string    `bson:"id" json:"id"`
	SessionID      string    `bson:"sessionId" json:"sessionId"`
	ClinicID       string    `bson:"clinicId" json:"clinicId"`
	PractitionerID string    `bson:"practitionerId" json:"practitionerId"`
	RequestedTime  time.Time `bson:"requestedTime" json:"requestedTime"` // UTC
	FoundSlot      bool      `bson:"foundSlot" json:"foundSlot"`
	ErrorType      string    `bson:"errorType,omitempty" json:"errorType,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}
