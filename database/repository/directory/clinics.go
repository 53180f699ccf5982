// File: database/repository/directory/clinics.go
package directoryRepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"clinicvoice/models"
	"clinicvoice/utils"
)

func clinicCacheKey(dialedNumber string) string {
	return "clinic:number:" + dialedNumber
}

func (r *mongoDirectoryRepo) ResolveClinicByNumber(ctx context.Context, dialedNumber string) (*models.Clinic, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Read-through cache: a hit skips Mongo entirely; cache failures fall
	// through to the source of truth.
	if r.cache != nil {
		if data, err := r.cache.Get(ctx, clinicCacheKey(dialedNumber)).Bytes(); err == nil {
			var clinic models.Clinic
			if err := json.Unmarshal(data, &clinic); err == nil {
				return &clinic, nil
			}
		}
	}

	var clinic models.Clinic
	err := r.clinics.FindOne(ctx, bson.M{"phoneNumber": dialedNumber, "active": true}).Decode(&clinic)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if data, err := json.Marshal(clinic); err == nil {
			if err := r.cache.Set(ctx, clinicCacheKey(dialedNumber), data, r.cacheTTL).Err(); err != nil {
				utils.GetLogger().Warn("failed to cache clinic lookup",
					zap.String("dialedNumber", dialedNumber), zap.Error(err))
			}
		}
	}
	return &clinic, nil
}

func (r *mongoDirectoryRepo) GetClinicByID(ctx context.Context, clinicID string) (*models.Clinic, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var clinic models.Clinic
	if err := r.clinics.FindOne(ctx, bson.M{"id": clinicID}).Decode(&clinic); err != nil {
		return nil, err
	}
	return &clinic, nil
}

func (r *mongoDirectoryRepo) ListActiveClinics(ctx context.Context) ([]models.Clinic, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.clinics.Find(ctx, bson.M{"active": true})
	if err != nil {
		return nil, fmt.Errorf("failed to list clinics: %w", err)
	}
	defer cursor.Close(ctx)

	var clinics []models.Clinic
	if err := cursor.All(ctx, &clinics); err != nil {
		return nil, fmt.Errorf("error decoding clinics: %w", err)
	}
	return clinics, nil
}
