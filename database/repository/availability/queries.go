// File: database/repository/availability/queries.go
package availabilityRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"clinicvoice/models"
)

func (r *mongoCacheRepo) ReadValid(ctx context.Context, clinicID string, f ReadFilter) ([]models.AvailabilityCacheEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"clinicId":  clinicID,
		"isStale":   false,
		"expiresAt": bson.M{"$gt": time.Now().UTC()},
	}
	if f.PractitionerID != "" {
		filter["practitionerId"] = f.PractitionerID
	}
	if f.BusinessID != "" {
		filter["businessId"] = f.BusinessID
	}
	if f.DateFrom != "" || f.DateTo != "" {
		dateRange := bson.M{}
		if f.DateFrom != "" {
			dateRange["$gte"] = f.DateFrom
		}
		if f.DateTo != "" {
			dateRange["$lte"] = f.DateTo
		}
		filter["date"] = dateRange
	}
	if f.ServiceName != "" {
		// Case-insensitive substring match against the per-slot service name.
		filter["slots.serviceName"] = bson.M{
			"$regex": primitive.Regex{Pattern: regexEscape(f.ServiceName), Options: "i"},
		}
	}

	// Date-ascending scan so downstream ranking ties resolve deterministically.
	findOpts := options.Find().SetSort(bson.D{
		{Key: "date", Value: 1},
		{Key: "businessId", Value: 1},
	})
	cursor, err := r.coll.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to read availability cache: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.AvailabilityCacheEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("error decoding availability cache entries: %w", err)
	}
	return entries, nil
}

// regexEscape quotes regex metacharacters so a service name is matched
// literally.
func regexEscape(s string) string {
	const meta = `\.+*?()|[]{}^$`
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		for j := 0; j < len(meta); j++ {
			if s[i] == meta[j] {
				out = append(out, '\\')
				break
			}
		}
		out = append(out, s[i])
	}
	return string(out)
}
