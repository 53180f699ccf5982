// File: database/repository/monitoring/interface.go
package monitoringRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"clinicvoice/models"
)

// MonitoringRepository stores append-only booking attempt records. Records are
// never updated; DeleteOlderThan is the only deletion path (retention job).
type MonitoringRepository interface {
	Create(ctx context.Context, record models.BookingAttemptRecord) (string, error)

	// CountRecentFailures counts failed attempts for the practitioner and error
	// classification with createdAt inside the trailing window ending now.
	CountRecentFailures(ctx context.Context, practitionerID, errorType string, window time.Duration) (int64, error)

	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	EnsureIndexes() error
}

type mongoMonitoringRepo struct {
	coll *mongo.Collection
}

// NewMongoMonitoringRepo constructs a new MongoDB MonitoringRepository.
func NewMongoMonitoringRepo(db *mongo.Database) MonitoringRepository {
	return &mongoMonitoringRepo{
		coll: db.Collection("booking_monitoring"),
	}
}
