// File: database/repository/directory/crud.go
package directoryRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"clinicvoice/models"
)

func (r *mongoDirectoryRepo) ListActivePractitioners(ctx context.Context, clinicID string) ([]models.Practitioner, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.practitioners.Find(ctx, bson.M{"clinicId": clinicID, "active": true})
	if err != nil {
		return nil, fmt.Errorf("failed to list practitioners: %w", err)
	}
	defer cursor.Close(ctx)

	var practitioners []models.Practitioner
	if err := cursor.All(ctx, &practitioners); err != nil {
		return nil, fmt.Errorf("error decoding practitioners: %w", err)
	}
	return practitioners, nil
}

func (r *mongoDirectoryRepo) ListBusinesses(ctx context.Context, clinicID string) ([]models.Business, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.businesses.Find(ctx, bson.M{"clinicId": clinicID})
	if err != nil {
		return nil, fmt.Errorf("failed to list businesses: %w", err)
	}
	defer cursor.Close(ctx)

	var businesses []models.Business
	if err := cursor.All(ctx, &businesses); err != nil {
		return nil, fmt.Errorf("error decoding businesses: %w", err)
	}
	return businesses, nil
}

func (r *mongoDirectoryRepo) ListAppointmentTypes(ctx context.Context, clinicID string) ([]models.AppointmentType, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.apptTypes.Find(ctx, bson.M{"clinicId": clinicID, "active": true})
	if err != nil {
		return nil, fmt.Errorf("failed to list appointment types: %w", err)
	}
	defer cursor.Close(ctx)

	var types []models.AppointmentType
	if err := cursor.All(ctx, &types); err != nil {
		return nil, fmt.Errorf("error decoding appointment types: %w", err)
	}
	return types, nil
}

func (r *mongoDirectoryRepo) UpsertPractitioners(ctx context.Context, practitioners []models.Practitioner) error {
	writes := make([]mongo.WriteModel, 0, len(practitioners))
	for _, p := range practitioners {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"id": p.ID}).
			SetReplacement(p).
			SetUpsert(true))
	}
	return r.bulkUpsert(ctx, r.practitioners, writes, "practitioners")
}

func (r *mongoDirectoryRepo) UpsertBusinesses(ctx context.Context, businesses []models.Business) error {
	writes := make([]mongo.WriteModel, 0, len(businesses))
	for _, b := range businesses {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"id": b.ID}).
			SetReplacement(b).
			SetUpsert(true))
	}
	return r.bulkUpsert(ctx, r.businesses, writes, "businesses")
}

func (r *mongoDirectoryRepo) UpsertAppointmentTypes(ctx context.Context, types []models.AppointmentType) error {
	writes := make([]mongo.WriteModel, 0, len(types))
	for _, t := range types {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"id": t.ID}).
			SetReplacement(t).
			SetUpsert(true))
	}
	return r.bulkUpsert(ctx, r.apptTypes, writes, "appointment types")
}

func (r *mongoDirectoryRepo) bulkUpsert(ctx context.Context, coll *mongo.Collection, writes []mongo.WriteModel, what string) error {
	if len(writes) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	_, err := coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return fmt.Errorf("failed to upsert %s: %w", what, err)
	}
	return nil
}
