// FILE: database/repository/availability/indexes.go
package availabilityRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the availability_cache
// collection. The unique compound index enforces the one-entry-per-key
// invariant that Upsert relies on.
func (r *mongoCacheRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "practitionerId", Value: 1},
				{Key: "businessId", Value: 1},
				{Key: "date", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("unique_practitioner_business_date"),
		},
		// Primary read pattern: clinic-scoped validity scan over a date range.
		{
			Keys: bson.D{
				{Key: "clinicId", Value: 1},
				{Key: "isStale", Value: 1},
				{Key: "expiresAt", Value: 1},
				{Key: "date", Value: 1},
			},
			Options: options.Index().SetName("clinic_valid_date_idx"),
		},
		// MarkStale pattern: practitioner from-date-forward update.
		{
			Keys:    bson.D{{Key: "practitionerId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetName("practitioner_date_idx"),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create availability cache indexes: %w", err)
	}
	return nil
}
