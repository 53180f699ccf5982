// FILE: database/repository/directory/indexes.go
package directoryRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the directory collections.
func (r *mongoDirectoryRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := r.clinics.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "phoneNumber", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_phone_number"),
		},
	}); err != nil {
		return fmt.Errorf("failed to create clinic indexes: %w", err)
	}

	for _, c := range []*mongo.Collection{r.practitioners, r.businesses, r.apptTypes} {
		if _, err := c.Indexes().CreateMany(ctx, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "id", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("unique_id"),
			},
			{
				Keys:    bson.D{{Key: "clinicId", Value: 1}},
				Options: options.Index().SetName("clinic_idx"),
			},
		}); err != nil {
			return fmt.Errorf("failed to create directory indexes for %s: %w", c.Name(), err)
		}
	}
	return nil
}
