// File: services/availability/query.go
package availability

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	availabilityRepo "clinicvoice/database/repository/availability"
	"clinicvoice/models"
)

const maxServiceSuggestions = 3

// resolution is the shared outcome of practitioner/service/location lookup.
type resolution struct {
	practitioner  *models.Practitioner
	service       *models.AppointmentType // nil when no service filter applies
	business      *models.Business        // nil unless a location hint matched
	businessNames map[string]string       // businessID -> display name
	loc           *time.Location
}

// failure is a terminal classified outcome short of internal_error.
type failure struct {
	kind        models.ErrorKind
	message     string
	suggestions []string
}

func (s *DefaultQueryService) FindNextAvailable(ctx context.Context, clinic *models.Clinic, params FindNextParams) models.NextAvailableResult {
	res, fail, err := s.resolve(ctx, clinic, params.PractitionerName, params.ServiceName, params.LocationHint)
	if err != nil {
		return s.internalNext(err)
	}
	if fail != nil {
		return models.NextAvailableResult{
			Success:           false,
			ErrorKind:         fail.kind,
			Message:           fail.message,
			SuggestedServices: fail.suggestions,
		}
	}

	maxDays := params.MaxDaysAhead
	if maxDays <= 0 {
		maxDays = DefaultMaxDaysAhead
	}

	now := s.now().In(res.loc)
	dateFrom := now.Format(models.DateLayout)
	dateTo := now.AddDate(0, 0, maxDays-1).Format(models.DateLayout)

	filter := availabilityRepo.ReadFilter{
		PractitionerID: res.practitioner.ID,
		DateFrom:       dateFrom,
		DateTo:         dateTo,
	}
	if res.business != nil {
		filter.BusinessID = res.business.ID
	}
	if res.service != nil {
		filter.ServiceName = res.service.Name
	}

	entries, err := s.Cache.ReadValid(ctx, clinic.ID, filter)
	if err != nil {
		return s.internalNext(err)
	}

	serviceName := ""
	if res.service != nil {
		serviceName = res.service.Name
	}
	ranked := rankSlots(entries, res.businessNames, res.loc, now, serviceName)

	view := &models.PractitionerView{ID: res.practitioner.ID, Name: res.practitioner.DisplayName()}

	if len(ranked.slots) == 0 {
		if len(entries) == 0 {
			s.Logger.Debug("no valid cache entries in range",
				zap.String("practitionerId", res.practitioner.ID),
				zap.String("dateFrom", dateFrom), zap.String("dateTo", dateTo))
		}
		return models.NextAvailableResult{
			Success:      false,
			ErrorKind:    models.ErrKindNoAvailability,
			Message:      fmt.Sprintf("%s has no availability in the next %d days", res.practitioner.DisplayName(), maxDays),
			Practitioner: view,
		}
	}

	primary := ranked.slots[0]
	alternatives := ranked.slots[1:]
	if len(alternatives) > maxAlternatives {
		alternatives = alternatives[:maxAlternatives]
	}

	return models.NextAvailableResult{
		Success:            true,
		Practitioner:       view,
		Slot:               &primary,
		Alternatives:       alternatives,
		Summary:            ranked.summary(now),
		LocationFirstSlots: ranked.locationFirsts(),
	}
}

func (s *DefaultQueryService) ListAvailableOnDate(ctx context.Context, clinic *models.Clinic, params ListOnDateParams) models.DayAvailabilityResult {
	res, fail, err := s.resolve(ctx, clinic, params.PractitionerName, params.ServiceName, params.LocationHint)
	if err != nil {
		return s.internalDay(err)
	}
	if fail != nil {
		return models.DayAvailabilityResult{
			Success:           false,
			ErrorKind:         fail.kind,
			Message:           fail.message,
			SuggestedServices: fail.suggestions,
		}
	}

	if _, err := time.ParseInLocation(models.DateLayout, params.Date, res.loc); err != nil {
		return models.DayAvailabilityResult{
			Success:   false,
			ErrorKind: models.ErrKindInternalError,
			Message:   "Invalid date format; expected YYYY-MM-DD.",
		}
	}

	filter := availabilityRepo.ReadFilter{
		PractitionerID: res.practitioner.ID,
		DateFrom:       params.Date,
		DateTo:         params.Date,
	}
	if res.business != nil {
		filter.BusinessID = res.business.ID
	}
	if res.service != nil {
		filter.ServiceName = res.service.Name
	}

	entries, err := s.Cache.ReadValid(ctx, clinic.ID, filter)
	if err != nil {
		return s.internalDay(err)
	}

	serviceName := ""
	if res.service != nil {
		serviceName = res.service.Name
	}
	// The day listing is the full ordered slot set; no truncation, the caller
	// presents every option for the single day.
	ranked := rankSlots(entries, res.businessNames, res.loc, time.Time{}, serviceName)

	view := &models.PractitionerView{ID: res.practitioner.ID, Name: res.practitioner.DisplayName()}

	if len(ranked.slots) == 0 {
		return models.DayAvailabilityResult{
			Success:      false,
			ErrorKind:    models.ErrKindNoAvailability,
			Message:      fmt.Sprintf("%s has no availability on %s", res.practitioner.DisplayName(), params.Date),
			Practitioner: view,
			Date:         params.Date,
		}
	}

	return models.DayAvailabilityResult{
		Success:      true,
		Practitioner: view,
		Date:         params.Date,
		Slots:        ranked.slots,
	}
}

func (s *DefaultQueryService) resolve(ctx context.Context, clinic *models.Clinic, practitionerName, serviceName, locationHint string) (*resolution, *failure, error) {
	loc, err := time.LoadLocation(clinic.Timezone)
	if err != nil {
		s.Logger.Warn("invalid clinic timezone, falling back to UTC",
			zap.String("clinicId", clinic.ID), zap.String("timezone", clinic.Timezone))
		loc = time.UTC
	}

	practitioners, err := s.Directory.ListActivePractitioners(ctx, clinic.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list practitioners: %w", err)
	}

	practitioner, _ := s.Resolver.ResolvePractitioner(practitioners, practitionerName)
	if practitioner == nil {
		return nil, &failure{
			kind:    models.ErrKindPractitionerNotFound,
			message: fmt.Sprintf("No practitioner matching %q works at this clinic.", practitionerName),
		}, nil
	}

	types, err := s.Directory.ListAppointmentTypes(ctx, clinic.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list appointment types: %w", err)
	}
	offered := offeredTypes(practitioner, types)

	var service *models.AppointmentType
	if serviceName != "" {
		matched, suggestions := s.Resolver.MatchService(offered, serviceName, maxServiceSuggestions)
		if matched == nil {
			return nil, &failure{
				kind:        models.ErrKindServiceNotFound,
				message:     fmt.Sprintf("%s does not offer %q.", practitioner.DisplayName(), serviceName),
				suggestions: suggestions,
			}, nil
		}
		service = matched
	}

	businesses, err := s.Directory.ListBusinesses(ctx, clinic.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list businesses: %w", err)
	}
	names := make(map[string]string, len(businesses))
	for _, b := range businesses {
		names[b.ID] = b.Name
	}

	var business *models.Business
	if locationHint != "" {
		business = s.Resolver.MatchBusiness(businesses, locationHint)
	}

	return &resolution{
		practitioner:  practitioner,
		service:       service,
		business:      business,
		businessNames: names,
		loc:           loc,
	}, nil, nil
}

func offeredTypes(p *models.Practitioner, types []models.AppointmentType) []models.AppointmentType {
	linked := make(map[string]struct{}, len(p.AppointmentTypeIDs))
	for _, id := range p.AppointmentTypeIDs {
		linked[id] = struct{}{}
	}
	var offered []models.AppointmentType
	for _, t := range types {
		if _, ok := linked[t.ID]; ok {
			offered = append(offered, t)
		}
	}
	return offered
}

func (s *DefaultQueryService) internalNext(err error) models.NextAvailableResult {
	s.Logger.Error("availability query failed", zap.Error(err))
	return models.NextAvailableResult{
		Success:   false,
		ErrorKind: models.ErrKindInternalError,
		Message:   "Something went wrong on our end. Please try again shortly.",
	}
}

func (s *DefaultQueryService) internalDay(err error) models.DayAvailabilityResult {
	s.Logger.Error("availability query failed", zap.Error(err))
	return models.DayAvailabilityResult{
		Success:   false,
		ErrorKind: models.ErrKindInternalError,
		Message:   "Something went wrong on our end. Please try again shortly.",
	}
}
