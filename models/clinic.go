package models

// Clinic is a tenant resolved from the caller's dialed number. Its timezone is
// required before any cache key can be clinic-scoped.
type Clinic struct {
	ID          string `bson:"id" json:"id"`
	Name        string `bson:"name" json:"name"`
	PhoneNumber string `bson:"phoneNumber" json:"phoneNumber"` // E.164 dialed number
	Timezone    string `bson:"timezone" json:"timezone"`       // IANA name, e.g. "Australia/Sydney"
	Active      bool   `bson:"active" json:"active"`
}

// Business is a physical location of a clinic.
type Business struct {
	ID       string `bson:"id" json:"id"`
	ClinicID string `bson:"clinicId" json:"clinicId"`
	Name     string `bson:"name" json:"name"`
	Primary  bool   `bson:"primary" json:"primary"`
}
