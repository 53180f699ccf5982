package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"clinicvoice/config"
	availabilityRepo "clinicvoice/database/repository/availability"
	directoryRepo "clinicvoice/database/repository/directory"
	monitoringRepo "clinicvoice/database/repository/monitoring"
	"clinicvoice/models"
	syncService "clinicvoice/services/sync"
)

const (
	TypeWarmClinic = "availability:warm"
	TypeWarmAll    = "availability:warm_all"
	TypeRetention  = "maintenance:retention"
)

// Worker runs the background side of the system: periodic warm cycles per
// clinic and the nightly retention pass.
type Worker struct {
	Cfg       *config.Config
	Sync      syncService.SyncService
	Directory directoryRepo.DirectoryRepository
	Cache     availabilityRepo.CacheRepository
	Records   monitoringRepo.MonitoringRepository
	Logger    *zap.Logger
}

// Start launches the asynq server and scheduler in the background. Server
// startup is retried with backoff; the process exits only after all attempts
// fail.
func (w *Worker) Start() {
	redisOpts := asynq.RedisClientOpt{
		Addr:     w.Cfg.RedisAddr,
		Password: w.Cfg.RedisPassword,
		DB:       w.Cfg.RedisTaskQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeWarmClinic, w.handleWarmClinic)
	mux.HandleFunc(TypeWarmAll, w.handleWarmAll(asynq.NewClient(redisOpts)))
	mux.HandleFunc(TypeRetention, w.handleRetention)

	go w.startScheduler(redisOpts)

	go func() {
		w.Logger.Info("starting background worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				w.Logger.Error("worker start failed",
					zap.Int("attempt", attempts),
					zap.Int("maxAttempts", maxAttempts),
					zap.Error(err))

				if attempts == maxAttempts {
					w.Logger.Fatal("worker max retry attempts reached")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func (w *Worker) startScheduler(redisOpts asynq.RedisClientOpt) {
	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{})

	warmSpec := fmt.Sprintf("@every %dm", w.Cfg.WarmIntervalMinutes)
	if _, err := scheduler.Register(warmSpec, asynq.NewTask(TypeWarmAll, nil)); err != nil {
		w.Logger.Error("failed to register warm schedule", zap.Error(err))
	}
	if _, err := scheduler.Register("@midnight", asynq.NewTask(TypeRetention, nil)); err != nil {
		w.Logger.Error("failed to register retention schedule", zap.Error(err))
	}

	if err := scheduler.Run(); err != nil {
		w.Logger.Error("scheduler stopped", zap.Error(err))
	}
}

// handleWarmAll fans out one warm task per active clinic so clinics warm
// independently and a slow tenant cannot stall the rest.
func (w *Worker) handleWarmAll(client *asynq.Client) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		clinics, err := w.Directory.ListActiveClinics(ctx)
		if err != nil {
			return fmt.Errorf("warm_all: list clinics: %w", err)
		}
		for _, clinic := range clinics {
			payload, err := json.Marshal(models.WarmTaskPayload{ClinicID: clinic.ID})
			if err != nil {
				return err
			}
			if _, err := client.EnqueueContext(ctx, asynq.NewTask(TypeWarmClinic, payload)); err != nil {
				w.Logger.Error("failed to enqueue warm task",
					zap.String("clinicId", clinic.ID), zap.Error(err))
			}
		}
		return nil
	}
}

func (w *Worker) handleWarmClinic(ctx context.Context, task *asynq.Task) error {
	var p models.WarmTaskPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		w.Logger.Error("invalid warm task payload", zap.Error(err))
		return err
	}

	stats, err := w.Sync.SyncClinic(ctx, p.ClinicID)
	if err != nil {
		w.Logger.Error("warm cycle failed", zap.String("clinicId", p.ClinicID), zap.Error(err))
		return err
	}
	w.Logger.Info("warm task done",
		zap.String("clinicId", p.ClinicID),
		zap.Int64("daysWarmed", stats.DaysWarmed),
		zap.Int64("daysFailed", stats.DaysFailed))
	return nil
}

// handleRetention removes historical cache entries and booking attempt
// records past the retention window.
func (w *Worker) handleRetention(ctx context.Context, task *asynq.Task) error {
	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format(models.DateLayout)
	deletedEntries, err := w.Cache.DeleteBefore(ctx, yesterday)
	if err != nil {
		w.Logger.Error("cache housekeeping failed", zap.Error(err))
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -w.Cfg.MonitoringRetentionDays)
	deletedRecords, err := w.Records.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		w.Logger.Error("monitoring retention failed", zap.Error(err))
	}

	w.Logger.Info("retention pass done",
		zap.Int64("cacheEntriesDeleted", deletedEntries),
		zap.Int64("monitoringRecordsDeleted", deletedRecords))
	return nil
}
