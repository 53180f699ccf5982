// File: services/availability/warmer.go
package availability

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"clinicvoice/config"
	availabilityRepo "clinicvoice/database/repository/availability"
	directoryRepo "clinicvoice/database/repository/directory"
	"clinicvoice/models"
)

// WarmStats summarizes one warm cycle. A cycle never aborts on individual
// upstream failures; failed day-fetches are counted and retried on the next
// scheduled cycle.
type WarmStats struct {
	Combinations int   `json:"combinations"` // practitioner x location pairs
	DaysWarmed   int64 `json:"daysWarmed"`
	DaysFailed   int64 `json:"daysFailed"`
	SlotsCached  int64 `json:"slotsCached"`
}

// Warmer populates the availability cache ahead of queries so typical reads
// never need a live upstream call.
type Warmer struct {
	Source    Source
	Cache     availabilityRepo.CacheRepository
	Directory directoryRepo.DirectoryRepository
	Cfg       *config.Config
	Logger    *zap.Logger

	// Now is the clock, overridable in tests. Defaults to time.Now.
	Now func() time.Time
}

// warmPair is one deduplicated practitioner x location combination with the
// services the practitioner offers.
type warmPair struct {
	practitioner models.Practitioner
	businessID   string
	services     []models.AppointmentType
}

// WarmClinic runs one warm cycle for a clinic: the cross-product of active
// practitioners x their locations x their services over the forward day
// window. Fetches for distinct pairs run concurrently under a bounded pool;
// each upsert writes a disjoint cache key, so parallel writes never conflict.
func (w *Warmer) WarmClinic(ctx context.Context, clinicID string) (WarmStats, error) {
	clinic, err := w.Directory.GetClinicByID(ctx, clinicID)
	if err != nil {
		return WarmStats{}, fmt.Errorf("warm: load clinic %s: %w", clinicID, err)
	}

	loc, err := time.LoadLocation(clinic.Timezone)
	if err != nil {
		loc = time.UTC
	}

	pairs, err := w.collectPairs(ctx, clinicID)
	if err != nil {
		return WarmStats{}, err
	}

	now := w.clock().In(loc)
	days := make([]string, 0, w.Cfg.WarmWindowDays)
	for d := 0; d < w.Cfg.WarmWindowDays; d++ {
		days = append(days, now.AddDate(0, 0, d).Format(models.DateLayout))
	}

	stats := WarmStats{Combinations: len(pairs)}

	g, gctx := errgroup.WithContext(ctx)
	limit := w.Cfg.WarmConcurrency
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for _, pair := range pairs {
		pair := pair
		g.Go(func() error {
			for _, day := range days {
				// Cancellation between days leaves the store consistent; every
				// completed upsert is independently whole.
				if gctx.Err() != nil {
					return nil
				}
				w.warmDay(gctx, clinicID, pair, day, &stats)
			}
			return nil
		})
	}
	g.Wait()

	w.Logger.Info("warm cycle complete",
		zap.String("clinicId", clinicID),
		zap.Int("combinations", stats.Combinations),
		zap.Int64("daysWarmed", atomic.LoadInt64(&stats.DaysWarmed)),
		zap.Int64("daysFailed", atomic.LoadInt64(&stats.DaysFailed)),
		zap.Int64("slotsCached", atomic.LoadInt64(&stats.SlotsCached)))
	return stats, nil
}

// warmDay fetches every offered service for one (practitioner, location, day)
// and upserts the combined slot list as a single atomic replace. If any
// service fetch fails the day's upsert is skipped entirely, leaving the prior
// entry in place (stale-by-expiry, never corrupted or partially overwritten).
func (w *Warmer) warmDay(ctx context.Context, clinicID string, pair warmPair, day string, stats *WarmStats) {
	var slots []models.Slot
	for _, svc := range pair.services {
		times, err := w.Source.GetAvailableTimes(ctx, pair.businessID, pair.practitioner.ID, svc.ID, day, day)
		if err != nil {
			w.Logger.Warn("warm fetch failed, skipping day",
				zap.String("practitionerId", pair.practitioner.ID),
				zap.String("businessId", pair.businessID),
				zap.String("appointmentTypeId", svc.ID),
				zap.String("date", day),
				zap.Error(err))
			atomic.AddInt64(&stats.DaysFailed, 1)
			return
		}
		for _, at := range times {
			slots = append(slots, models.Slot{
				StartTime:       at.StartsAt,
				DurationMinutes: svc.DurationMinutes,
				ServiceName:     svc.Name,
			})
		}
	}

	err := w.Cache.Upsert(ctx, clinicID, pair.practitioner.ID, pair.businessID, day, slots, w.Cfg.AvailabilityTTL())
	if err != nil {
		w.Logger.Warn("warm upsert failed",
			zap.String("practitionerId", pair.practitioner.ID),
			zap.String("businessId", pair.businessID),
			zap.String("date", day),
			zap.Error(err))
		atomic.AddInt64(&stats.DaysFailed, 1)
		return
	}
	atomic.AddInt64(&stats.DaysWarmed, 1)
	atomic.AddInt64(&stats.SlotsCached, int64(len(slots)))
}

// collectPairs enumerates the deduplicated practitioner x location
// combinations for a clinic, each carrying the practitioner's active services.
func (w *Warmer) collectPairs(ctx context.Context, clinicID string) ([]warmPair, error) {
	practitioners, err := w.Directory.ListActivePractitioners(ctx, clinicID)
	if err != nil {
		return nil, fmt.Errorf("warm: list practitioners: %w", err)
	}
	businesses, err := w.Directory.ListBusinesses(ctx, clinicID)
	if err != nil {
		return nil, fmt.Errorf("warm: list businesses: %w", err)
	}
	types, err := w.Directory.ListAppointmentTypes(ctx, clinicID)
	if err != nil {
		return nil, fmt.Errorf("warm: list appointment types: %w", err)
	}

	knownBusiness := make(map[string]struct{}, len(businesses))
	for _, b := range businesses {
		knownBusiness[b.ID] = struct{}{}
	}
	typeByID := make(map[string]models.AppointmentType, len(types))
	for _, t := range types {
		typeByID[t.ID] = t
	}

	seen := make(map[string]struct{})
	var pairs []warmPair
	for _, p := range practitioners {
		var services []models.AppointmentType
		for _, id := range p.AppointmentTypeIDs {
			if t, ok := typeByID[id]; ok {
				services = append(services, t)
			}
		}
		if len(services) == 0 {
			continue
		}
		for _, bid := range p.BusinessIDs {
			if _, ok := knownBusiness[bid]; !ok {
				continue
			}
			key := p.ID + "|" + bid
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			pairs = append(pairs, warmPair{practitioner: p, businessID: bid, services: services})
		}
	}
	return pairs, nil
}

func (w *Warmer) clock() time.Time {
	if w.Now != nil {
		return w.Now()
	}
	return time.Now()
}
