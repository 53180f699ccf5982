// File: services/monitoring/monitor.go
package monitoring

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"clinicvoice/config"
	availabilityRepo "clinicvoice/database/repository/availability"
	monitoringRepo "clinicvoice/database/repository/monitoring"
	"clinicvoice/models"
)

// MonitorService records booking attempt outcomes and quarantines a
// practitioner's future cache when failures cluster, biasing toward freshness
// over cache-hit rate.
type MonitorService interface {
	LogBookingAttempt(ctx context.Context, attempt models.BookingAttemptRecord) error
}

// DefaultMonitorService is the production staleness monitor.
type DefaultMonitorService struct {
	Records monitoringRepo.MonitoringRepository
	Cache   availabilityRepo.CacheRepository
	Cfg     *config.Config
	Logger  *zap.Logger

	// Now is the clock, overridable in tests. Defaults to time.Now.
	Now func() time.Time
}

// LogBookingAttempt durably appends the attempt. A failed attempt triggers
// the failure-pattern check: when failures for the same (practitioner,
// errorType) reach the configured threshold inside the trailing window, all
// of that practitioner's cache entries from today onward are marked stale.
//
// The invalidation side effect is best-effort; its failure is logged and
// never fails the originating log call. This is a control loop, not a hard
// guarantee: unrelated errors sharing an errorType can trip it, which is an
// accepted safe-by-default false positive.
func (s *DefaultMonitorService) LogBookingAttempt(ctx context.Context, attempt models.BookingAttemptRecord) error {
	if _, err := s.Records.Create(ctx, attempt); err != nil {
		return fmt.Errorf("log booking attempt: %w", err)
	}

	if attempt.FoundSlot {
		return nil
	}

	count, err := s.Records.CountRecentFailures(ctx, attempt.PractitionerID, attempt.ErrorType, s.Cfg.FailureWindow())
	if err != nil {
		s.Logger.Error("failure-pattern check failed",
			zap.String("practitionerId", attempt.PractitionerID),
			zap.Error(err))
		return nil
	}
	if count < int64(s.Cfg.FailureThreshold) {
		return nil
	}

	fromDate := s.clock().UTC().Format(models.DateLayout)
	modified, err := s.Cache.MarkStale(ctx, attempt.PractitionerID, fromDate)
	if err != nil {
		s.Logger.Error("failed to quarantine practitioner cache",
			zap.String("practitionerId", attempt.PractitionerID),
			zap.String("fromDate", fromDate),
			zap.Error(err))
		return nil
	}

	s.Logger.Warn("booking failures clustered, practitioner cache quarantined",
		zap.String("practitionerId", attempt.PractitionerID),
		zap.String("errorType", attempt.ErrorType),
		zap.Int64("failures", count),
		zap.Int64("entriesMarked", modified))
	return nil
}

func (s *DefaultMonitorService) clock() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
