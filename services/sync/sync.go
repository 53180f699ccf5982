// File: services/sync/sync.go
package sync

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	directoryRepo "clinicvoice/database/repository/directory"
	"clinicvoice/models"
	"clinicvoice/services/availability"
	"clinicvoice/upstream"
)

// DirectorySource is the slice of the upstream client the directory sync
// depends on.
type DirectorySource interface {
	ListPractitioners(ctx context.Context) ([]upstream.PractitionerRecord, error)
	ListBusinesses(ctx context.Context) ([]upstream.BusinessRecord, error)
	ListAppointmentTypes(ctx context.Context) ([]upstream.AppointmentTypeRecord, error)
}

// SyncService runs the full synchronization pass for a clinic: refresh the
// practitioner/business/appointment-type directory from upstream, then warm
// the availability cache on top of the fresh directory.
type SyncService interface {
	SyncClinic(ctx context.Context, clinicID string) (availability.WarmStats, error)
}

// DefaultSyncService is the production implementation.
type DefaultSyncService struct {
	Source    DirectorySource
	Directory directoryRepo.DirectoryRepository
	Warmer    *availability.Warmer
	Logger    *zap.Logger
}

func (s *DefaultSyncService) SyncClinic(ctx context.Context, clinicID string) (availability.WarmStats, error) {
	if err := s.syncDirectory(ctx, clinicID); err != nil {
		// Warming still proceeds on the previously synced directory.
		s.Logger.Error("directory sync failed, warming with existing directory",
			zap.String("clinicId", clinicID), zap.Error(err))
	}
	return s.Warmer.WarmClinic(ctx, clinicID)
}

func (s *DefaultSyncService) syncDirectory(ctx context.Context, clinicID string) error {
	records, err := s.Source.ListPractitioners(ctx)
	if err != nil {
		return fmt.Errorf("sync practitioners: %w", err)
	}
	practitioners := make([]models.Practitioner, 0, len(records))
	for _, rec := range records {
		practitioners = append(practitioners, models.Practitioner{
			ID:                 rec.ID,
			ClinicID:           clinicID,
			FirstName:          rec.FirstName,
			LastName:           rec.LastName,
			Title:              rec.Title,
			Active:             rec.Active,
			AppointmentTypeIDs: rec.AppointmentTypeIDs,
			BusinessIDs:        rec.BusinessIDs,
		})
	}
	if err := s.Directory.UpsertPractitioners(ctx, practitioners); err != nil {
		return err
	}

	bizRecords, err := s.Source.ListBusinesses(ctx)
	if err != nil {
		return fmt.Errorf("sync businesses: %w", err)
	}
	businesses := make([]models.Business, 0, len(bizRecords))
	for _, rec := range bizRecords {
		businesses = append(businesses, models.Business{
			ID:       rec.ID,
			ClinicID: clinicID,
			Name:     rec.Name,
			Primary:  rec.Primary,
		})
	}
	if err := s.Directory.UpsertBusinesses(ctx, businesses); err != nil {
		return err
	}

	typeRecords, err := s.Source.ListAppointmentTypes(ctx)
	if err != nil {
		return fmt.Errorf("sync appointment types: %w", err)
	}
	types := make([]models.AppointmentType, 0, len(typeRecords))
	for _, rec := range typeRecords {
		types = append(types, models.AppointmentType{
			ID:              rec.ID,
			ClinicID:        clinicID,
			Name:            rec.Name,
			DurationMinutes: rec.DurationMinutes,
			Active:          rec.Active,
		})
	}
	if err := s.Directory.UpsertAppointmentTypes(ctx, types); err != nil {
		return err
	}

	s.Logger.Info("directory sync complete",
		zap.String("clinicId", clinicID),
		zap.Int("practitioners", len(practitioners)),
		zap.Int("businesses", len(businesses)),
		zap.Int("appointmentTypes", len(types)))
	return nil
}
