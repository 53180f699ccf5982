// File: services/availability/interface.go
package availability

import (
	"context"
	"time"

	"go.uber.org/zap"

	availabilityRepo "clinicvoice/database/repository/availability"
	directoryRepo "clinicvoice/database/repository/directory"
	"clinicvoice/models"
	"clinicvoice/services/matching"
	"clinicvoice/upstream"
)

// Source is the slice of the upstream client the warmer depends on.
type Source interface {
	GetAvailableTimes(ctx context.Context, businessID, practitionerID, appointmentTypeID, dateFrom, dateTo string) ([]upstream.AvailableTime, error)
}

// FindNextParams are the inputs to a find-next-available query.
type FindNextParams struct {
	PractitionerName string
	ServiceName      string // optional
	LocationHint     string // optional
	MaxDaysAhead     int    // defaults to DefaultMaxDaysAhead when <= 0
}

// ListOnDateParams are the inputs to a list-available-on-date query.
type ListOnDateParams struct {
	PractitionerName string
	Date             string // models.DateLayout, clinic timezone
	ServiceName      string // optional
	LocationHint     string // optional
}

// QueryService answers availability questions from the cache only; it never
// calls upstream and never returns a raw error across the boundary.
type QueryService interface {
	FindNextAvailable(ctx context.Context, clinic *models.Clinic, params FindNextParams) models.NextAvailableResult
	ListAvailableOnDate(ctx context.Context, clinic *models.Clinic, params ListOnDateParams) models.DayAvailabilityResult
}

// DefaultMaxDaysAhead bounds a find-next search when the caller gives none.
const DefaultMaxDaysAhead = 14

// DefaultQueryService is the production query engine.
type DefaultQueryService struct {
	Cache     availabilityRepo.CacheRepository
	Directory directoryRepo.DirectoryRepository
	Resolver  *matching.Resolver
	Logger    *zap.Logger

	// Now is the clock, overridable in tests. Defaults to time.Now.
	Now func() time.Time
}

func (s *DefaultQueryService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
