// File: database/repository/availability/crud.go
package availabilityRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"clinicvoice/models"
)

// Upsert is a single ReplaceOne with upsert semantics: the slot list, cachedAt
// and expiresAt are replaced atomically, so a concurrent reader sees either
// the previous document or the new one, never a mix.
//
// Precedence against a concurrent MarkStale is store write order: an upsert
// that commits after the mark clears the stale flag, which is correct because
// its slot list was just fetched from upstream and is fresher than the failure
// signal that triggered the quarantine.
func (r *mongoCacheRepo) Upsert(ctx context.Context, clinicID, practitionerID, businessID, date string, slots []models.Slot, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	entry := models.AvailabilityCacheEntry{
		ClinicID:       clinicID,
		PractitionerID: practitionerID,
		BusinessID:     businessID,
		Date:           date,
		Slots:          slots,
		CachedAt:       now,
		ExpiresAt:      now.Add(ttl),
		IsStale:        false,
	}

	filter := bson.M{
		"practitionerId": practitionerID,
		"businessId":     businessID,
		"date":           date,
	}
	_, err := r.coll.ReplaceOne(ctx, filter, entry, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert availability cache entry: %w", err)
	}
	return nil
}

func (r *mongoCacheRepo) MarkStale(ctx context.Context, practitionerID, fromDate string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"practitionerId": practitionerID,
		"date":           bson.M{"$gte": fromDate},
	}
	res, err := r.coll.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"isStale": true}})
	if err != nil {
		return 0, fmt.Errorf("failed to mark cache entries stale: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *mongoCacheRepo) DeleteBefore(ctx context.Context, date string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := r.coll.DeleteMany(ctx, bson.M{"date": bson.M{"$lt": date}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete historical cache entries: %w", err)
	}
	return res.DeletedCount, nil
}
