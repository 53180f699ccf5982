// File: database/repository/availability/interface.go
package availabilityRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"clinicvoice/models"
)

// ReadFilter narrows a ReadValid scan. Zero-value fields are ignored.
type ReadFilter struct {
	PractitionerID string
	BusinessID     string
	ServiceName    string // matched per-slot, case-insensitive substring
	DateFrom       string // inclusive, models.DateLayout
	DateTo         string // inclusive
}

// CacheRepository is the availability cache store. All writes are
// whole-document operations on a single (practitioner, business, date) key;
// readers never observe a torn mix of old and new slots.
type CacheRepository interface {
	// Upsert replaces or creates the entry for the key, resetting cachedAt to
	// now, expiresAt to now+ttl and isStale to false. Last write wins.
	Upsert(ctx context.Context, clinicID, practitionerID, businessID, date string, slots []models.Slot, ttl time.Duration) error

	// ReadValid returns entries matching the filter where isStale is false and
	// expiresAt is in the future. Stale or expired entries are absent from the
	// result; callers needing them must trigger a live refresh instead.
	ReadValid(ctx context.Context, clinicID string, filter ReadFilter) ([]models.AvailabilityCacheEntry, error)

	// MarkStale quarantines a practitioner's entries from fromDate onward.
	// Entries are flagged, not deleted, preserving the audit trail and avoiding
	// a thundering herd of re-fetches.
	MarkStale(ctx context.Context, practitionerID, fromDate string) (int64, error)

	// DeleteBefore removes historical entries older than the given date.
	DeleteBefore(ctx context.Context, date string) (int64, error)

	EnsureIndexes() error
}

type mongoCacheRepo struct {
	coll *mongo.Collection
}

// NewMongoCacheRepo constructs a new MongoDB CacheRepository.
func NewMongoCacheRepo(db *mongo.Database) CacheRepository {
	return &mongoCacheRepo{
		coll: db.Collection("availability_cache"),
	}
}
