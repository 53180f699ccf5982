// File: database/repository/directory/interface.go
package directoryRepo

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"

	"clinicvoice/models"
)

// DirectoryRepository is the clinic directory: clinics keyed by dialed number,
// plus the active practitioners, businesses and appointment types synced from
// the upstream provider.
type DirectoryRepository interface {
	// ResolveClinicByNumber maps a caller's dialed number to a clinic. Results
	// are served read-through from Redis; mongo.ErrNoDocuments is returned when
	// no clinic is configured for the number.
	ResolveClinicByNumber(ctx context.Context, dialedNumber string) (*models.Clinic, error)
	GetClinicByID(ctx context.Context, clinicID string) (*models.Clinic, error)
	ListActiveClinics(ctx context.Context) ([]models.Clinic, error)

	ListActivePractitioners(ctx context.Context, clinicID string) ([]models.Practitioner, error)
	ListBusinesses(ctx context.Context, clinicID string) ([]models.Business, error)
	ListAppointmentTypes(ctx context.Context, clinicID string) ([]models.AppointmentType, error)

	// Directory sync write path (full synchronization pass).
	UpsertPractitioners(ctx context.Context, practitioners []models.Practitioner) error
	UpsertBusinesses(ctx context.Context, businesses []models.Business) error
	UpsertAppointmentTypes(ctx context.Context, types []models.AppointmentType) error

	EnsureIndexes() error
}

type mongoDirectoryRepo struct {
	clinics       *mongo.Collection
	practitioners *mongo.Collection
	businesses    *mongo.Collection
	apptTypes     *mongo.Collection

	cache    *redis.Client
	cacheTTL time.Duration
}

// NewMongoDirectoryRepo constructs a DirectoryRepository backed by Mongo with
// a Redis read-through cache for dialed-number resolution.
func NewMongoDirectoryRepo(db *mongo.Database, cache *redis.Client, cacheTTL time.Duration) DirectoryRepository {
	return &mongoDirectoryRepo{
		clinics:       db.Collection("clinics"),
		practitioners: db.Collection("practitioners"),
		businesses:    db.Collection("businesses"),
		apptTypes:     db.Collection("appointment_types"),
		cache:         cache,
		cacheTTL:      cacheTTL,
	}
}
