package models

import "strings"

// Practitioner is a bookable staff member of a clinic.
type Practitioner struct {
	ID        string `bson:"id" json:"id"`
	ClinicID  string `bson:"clinicId" json:"clinicId"`
	FirstName string `bson:"firstName" json:"firstName"`
	LastName  string `bson:"lastName" json:"lastName"`
	Title     string `bson:"title,omitempty" json:"title,omitempty"` // e.g. "Dr"
	Active    bool   `bson:"active" json:"active"`

	// Many-to-many links maintained by directory sync.
	AppointmentTypeIDs []string `bson:"appointmentTypeIds" json:"appointmentTypeIds"`
	BusinessIDs        []string `bson:"businessIds" json:"businessIds"`
}

// FullName returns "First Last" without the title.
func (p Practitioner) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// DisplayName returns the title-prefixed name used in responses.
func (p Practitioner) DisplayName() string {
	if p.Title == "" {
		return p.FullName()
	}
	return p.Title + " " + p.FullName()
}

// AppointmentType is a bookable service offered by one or more practitioners.
type AppointmentType struct {
	ID              string `bson:"id" json:"id"`
	ClinicID        string `bson:"clinicId" json:"clinicId"`
	Name            string `bson:"name" json:"name"`
	DurationMinutes int    `bson:"durationMinutes" json:"durationMinutes"`
	Active          bool   `bson:"active" json:"active"`
}
