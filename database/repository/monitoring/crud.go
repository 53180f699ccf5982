// File: database/repository/monitoring/crud.go
package monitoringRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"clinicvoice/models"
)

// Create inserts a new booking attempt record and returns its ID.
func (r *mongoMonitoringRepo) Create(ctx context.Context, record models.BookingAttemptRecord) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	if _, err := r.coll.InsertOne(ctx, record); err != nil {
		return "", fmt.Errorf("failed to insert booking attempt record: %w", err)
	}
	return record.ID, nil
}

func (r *mongoMonitoringRepo) CountRecentFailures(ctx context.Context, practitionerID, errorType string, window time.Duration) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"practitionerId": practitionerID,
		"errorType":      errorType,
		"foundSlot":      false,
		"createdAt":      bson.M{"$gte": time.Now().UTC().Add(-window)},
	}
	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count recent booking failures: %w", err)
	}
	return count, nil
}

func (r *mongoMonitoringRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := r.coll.DeleteMany(ctx, bson.M{"createdAt": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, fmt.Errorf("failed to purge booking attempt records: %w", err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the necessary indexes on the booking_monitoring
// collection.
func (r *mongoMonitoringRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Failure-pattern check: practitioner + errorType over a trailing window.
		{
			Keys: bson.D{
				{Key: "practitionerId", Value: 1},
				{Key: "errorType", Value: 1},
				{Key: "foundSlot", Value: 1},
				{Key: "createdAt", Value: 1},
			},
			Options: options.Index().SetName("failure_window_idx"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: 1}},
			Options: options.Index().SetName("created_at_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create monitoring indexes: %w", err)
	}
	return nil
}
