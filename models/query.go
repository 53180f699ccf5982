package models

// ErrorKind classifies a terminal query outcome. The query engine never
// returns a raw error across the boundary; every failure maps onto one of
// these kinds.
type ErrorKind string

const (
	ErrKindClinicNotFound       ErrorKind = "clinic_not_found"
	ErrKindPractitionerNotFound ErrorKind = "practitioner_not_found"
	ErrKindServiceNotFound      ErrorKind = "service_not_found"
	ErrKindNoAvailability       ErrorKind = "no_availability"
	ErrKindInternalError        ErrorKind = "internal_error"
)

// SlotView is a slot shaped for the query boundary.
type SlotView struct {
	Date            string `json:"date"` // DateLayout in clinic timezone
	Time            string `json:"time"` // "15:04" in clinic timezone
	DurationMinutes int    `json:"durationMinutes"`
	ServiceName     string `json:"serviceName"`
	LocationID      string `json:"locationId"`
	LocationName    string `json:"locationName"`
}

// PractitionerView is the resolved practitioner echoed back to the caller.
type PractitionerView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AvailabilitySummary aggregates the matched slot set.
type AvailabilitySummary struct {
	DaysWithAvailability int    `json:"daysWithAvailability"`
	TotalSlots           int    `json:"totalSlots"`
	EarliestDate         string `json:"earliestDate,omitempty"`
	NextAvailable        string `json:"nextAvailable,omitempty"` // human phrase, e.g. "today at 2:30 PM"
}

// LocationFirstSlot is the per-location rank-1 slot, computed during ranking.
// Used internally for diagnostics; not part of the boundary contract.
type LocationFirstSlot struct {
	LocationID string   `json:"locationId"`
	Slot       SlotView `json:"slot"`
}

// NextAvailableResult is the structured outcome of a find-next-available query.
type NextAvailableResult struct {
	Success            bool                `json:"success"`
	ErrorKind          ErrorKind           `json:"errorKind,omitempty"`
	Message            string              `json:"message,omitempty"`
	SuggestedServices  []string            `json:"suggestedServices,omitempty"`
	Practitioner       *PractitionerView   `json:"practitioner,omitempty"`
	Slot               *SlotView           `json:"slot,omitempty"`
	Alternatives       []SlotView          `json:"alternatives,omitempty"`
	Summary            *AvailabilitySummary `json:"summary,omitempty"`
	LocationFirstSlots []LocationFirstSlot `json:"-"`
}

// DayAvailabilityResult is the structured outcome of a list-on-date query.
// Slots carry the full ordered list for the day, never truncated.
type DayAvailabilityResult struct {
	Success           bool              `json:"success"`
	ErrorKind         ErrorKind         `json:"errorKind,omitempty"`
	Message           string            `json:"message,omitempty"`
	SuggestedServices []string          `json:"suggestedServices,omitempty"`
	Practitioner      *PractitionerView `json:"practitioner,omitempty"`
	Date              string            `json:"date,omitempty"`
	Slots             []SlotView        `json:"slots,omitempty"`
}
