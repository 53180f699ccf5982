package availability

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	availabilityRepo "clinicvoice/database/repository/availability"
	"clinicvoice/models"
	"clinicvoice/services/matching"
)

// fakeCache is an in-memory CacheRepository honoring the store contract:
// whole-entry last-write-wins upserts and validity filtering on reads.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string]models.AvailabilityCacheEntry
	now     func() time.Time
	readErr error
}

func newFakeCache(now func() time.Time) *fakeCache {
	return &fakeCache{entries: make(map[string]models.AvailabilityCacheEntry), now: now}
}

func cacheKey(practitionerID, businessID, date string) string {
	return practitionerID + "|" + businessID + "|" + date
}

func (f *fakeCache) Upsert(ctx context.Context, clinicID, practitionerID, businessID, date string, slots []models.Slot, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.now()
	f.entries[cacheKey(practitionerID, businessID, date)] = models.AvailabilityCacheEntry{
		ClinicID:       clinicID,
		PractitionerID: practitionerID,
		BusinessID:     businessID,
		Date:           date,
		Slots:          slots,
		CachedAt:       now,
		ExpiresAt:      now.Add(ttl),
		IsStale:        false,
	}
	return nil
}

func (f *fakeCache) ReadValid(ctx context.Context, clinicID string, filter availabilityRepo.ReadFilter) ([]models.AvailabilityCacheEntry, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	var out []models.AvailabilityCacheEntry
	for _, e := range f.entries {
		if e.ClinicID != clinicID || !e.Valid(now) {
			continue
		}
		if filter.PractitionerID != "" && e.PractitionerID != filter.PractitionerID {
			continue
		}
		if filter.BusinessID != "" && e.BusinessID != filter.BusinessID {
			continue
		}
		if filter.DateFrom != "" && e.Date < filter.DateFrom {
			continue
		}
		if filter.DateTo != "" && e.Date > filter.DateTo {
			continue
		}
		if filter.ServiceName != "" && !entryHasService(e, filter.ServiceName) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].BusinessID < out[j].BusinessID
	})
	return out, nil
}

func entryHasService(e models.AvailabilityCacheEntry, service string) bool {
	for _, s := range e.Slots {
		if strings.Contains(strings.ToLower(s.ServiceName), strings.ToLower(service)) {
			return true
		}
	}
	return false
}

func (f *fakeCache) MarkStale(ctx context.Context, practitionerID, fromDate string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for k, e := range f.entries {
		if e.PractitionerID == practitionerID && e.Date >= fromDate && !e.IsStale {
			e.IsStale = true
			f.entries[k] = e
			n++
		}
	}
	return n, nil
}

func (f *fakeCache) DeleteBefore(ctx context.Context, date string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for k, e := range f.entries {
		if e.Date < date {
			delete(f.entries, k)
			n++
		}
	}
	return n, nil
}

func (f *fakeCache) EnsureIndexes() error { return nil }

// fakeDirectory is an in-memory DirectoryRepository.
type fakeDirectory struct {
	clinics       []models.Clinic
	practitioners []models.Practitioner
	businesses    []models.Business
	types         []models.AppointmentType
}

func (f *fakeDirectory) ResolveClinicByNumber(ctx context.Context, dialedNumber string) (*models.Clinic, error) {
	for i := range f.clinics {
		if f.clinics[i].PhoneNumber == dialedNumber {
			return &f.clinics[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeDirectory) GetClinicByID(ctx context.Context, clinicID string) (*models.Clinic, error) {
	for i := range f.clinics {
		if f.clinics[i].ID == clinicID {
			return &f.clinics[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeDirectory) ListActiveClinics(ctx context.Context) ([]models.Clinic, error) {
	return f.clinics, nil
}

func (f *fakeDirectory) ListActivePractitioners(ctx context.Context, clinicID string) ([]models.Practitioner, error) {
	return f.practitioners, nil
}

func (f *fakeDirectory) ListBusinesses(ctx context.Context, clinicID string) ([]models.Business, error) {
	return f.businesses, nil
}

func (f *fakeDirectory) ListAppointmentTypes(ctx context.Context, clinicID string) ([]models.AppointmentType, error) {
	return f.types, nil
}

func (f *fakeDirectory) UpsertPractitioners(ctx context.Context, practitioners []models.Practitioner) error {
	f.practitioners = practitioners
	return nil
}

func (f *fakeDirectory) UpsertBusinesses(ctx context.Context, businesses []models.Business) error {
	f.businesses = businesses
	return nil
}

func (f *fakeDirectory) UpsertAppointmentTypes(ctx context.Context, types []models.AppointmentType) error {
	f.types = types
	return nil
}

func (f *fakeDirectory) EnsureIndexes() error { return nil }

// Fixture: Jane Smith offering Consultation and Follow-up at Main Clinic and
// North Branch.
func testFixture(now time.Time) (*fakeCache, *fakeDirectory, *models.Clinic) {
	clinic := &models.Clinic{ID: "c1", Name: "Test Clinic", PhoneNumber: "+15550100", Timezone: "UTC", Active: true}
	dir := &fakeDirectory{
		clinics: []models.Clinic{*clinic},
		practitioners: []models.Practitioner{
			{
				ID: "p1", ClinicID: "c1", FirstName: "Jane", LastName: "Smith", Title: "Dr", Active: true,
				AppointmentTypeIDs: []string{"s1", "s2"},
				BusinessIDs:        []string{"b1", "b2"},
			},
		},
		businesses: []models.Business{
			{ID: "b1", ClinicID: "c1", Name: "Main Clinic", Primary: true},
			{ID: "b2", ClinicID: "c1", Name: "North Branch"},
		},
		types: []models.AppointmentType{
			{ID: "s1", ClinicID: "c1", Name: "Consultation", DurationMinutes: 30, Active: true},
			{ID: "s2", ClinicID: "c1", Name: "Follow-up", DurationMinutes: 15, Active: true},
		},
	}
	return newFakeCache(func() time.Time { return now }), dir, clinic
}

func newQueryService(cache *fakeCache, dir *fakeDirectory, now time.Time) *DefaultQueryService {
	return &DefaultQueryService{
		Cache:     cache,
		Directory: dir,
		Resolver:  matching.NewResolver(0.3),
		Logger:    zap.NewNop(),
		Now:       func() time.Time { return now },
	}
}

func TestFindNextAvailableScenario(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	cache, dir, clinic := testFixture(now)
	svc := newQueryService(cache, dir, now)

	// Today 14:30 at Main Clinic, tomorrow 09:00 at North Branch.
	require.NoError(t, cache.Upsert(context.Background(), "c1", "p1", "b1", "2026-09-01", []models.Slot{
		{StartTime: time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC), DurationMinutes: 30, ServiceName: "Consultation"},
	}, 15*time.Minute))
	require.NoError(t, cache.Upsert(context.Background(), "c1", "p1", "b2", "2026-09-02", []models.Slot{
		{StartTime: time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC), DurationMinutes: 30, ServiceName: "Consultation"},
	}, 15*time.Minute))

	result := svc.FindNextAvailable(context.Background(), clinic, FindNextParams{PractitionerName: "Jane Smith"})

	require.True(t, result.Success, "message: %s", result.Message)
	require.NotNil(t, result.Slot)
	assert.Equal(t, "2026-09-01", result.Slot.Date)
	assert.Equal(t, "14:30", result.Slot.Time)
	assert.Equal(t, "Main Clinic", result.Slot.LocationName)

	require.Len(t, result.Alternatives, 1)
	assert.Equal(t, "2026-09-02", result.Alternatives[0].Date)
	assert.Equal(t, "09:00", result.Alternatives[0].Time)

	require.NotNil(t, result.Summary)
	assert.Equal(t, 2, result.Summary.DaysWithAvailability)
	assert.Equal(t, 2, result.Summary.TotalSlots)
	assert.Contains(t, result.Summary.NextAvailable, "today")

	require.NotNil(t, result.Practitioner)
	assert.Equal(t, "Dr Jane Smith", result.Practitioner.Name)
}

func TestFindNextAvailableAlternativesCap(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	cache, dir, clinic := testFixture(now)
	svc := newQueryService(cache, dir, now)

	var slots []models.Slot
	for h := 9; h < 17; h++ {
		slots = append(slots, models.Slot{
			StartTime:       time.Date(2026, 9, 1, h, 0, 0, 0, time.UTC),
			DurationMinutes: 30,
			ServiceName:     "Consultation",
		})
	}
	require.NoError(t, cache.Upsert(context.Background(), "c1", "p1", "b1", "2026-09-01", slots, 15*time.Minute))

	result := svc.FindNextAvailable(context.Background(), clinic, FindNextParams{PractitionerName: "Jane"})
	require.True(t, result.Success)
	assert.Equal(t, "09:00", result.Slot.Time)
	assert.Len(t, result.Alternatives, 4, "at most five slots total cross the boundary")
}

func TestFindNextAvailableNoAvailabilityWindowMessage(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	cache, dir, clinic := testFixture(now)
	svc := newQueryService(cache, dir, now)

	result := svc.FindNextAvailable(context.Background(), clinic, FindNextParams{
		PractitionerName: "Jane Smith",
		MaxDaysAhead:     30,
	})

	assert.False(t, result.Success)
	assert.Equal(t, models.ErrKindNoAvailability, result.ErrorKind)
	assert.Contains(t, result.Message, "30 days")
}

func TestFindNextAvailableEmptyEntriesSameAsNoEntries(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	cache, dir, clinic := testFixture(now)
	svc := newQueryService(cache, dir, now)

	// Entry exists but holds no slots; surfaced identically to a cache miss.
	require.NoError(t, cache.Upsert(context.Background(), "c1", "p1", "b1", "2026-09-01", nil, 15*time.Minute))

	result := svc.FindNextAvailable(context.Background(), clinic, FindNextParams{PractitionerName: "Jane Smith"})
	assert.Equal(t, models.ErrKindNoAvailability, result.ErrorKind)
}

func TestFindNextAvailableExcludesStaleAndExpired(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	cache, dir, clinic := testFixture(now)
	svc := newQueryService(cache, dir, now)

	require.NoError(t, cache.Upsert(context.Background(), "c1", "p1", "b1", "2026-09-01", []models.Slot{
		{StartTime: time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC), DurationMinutes: 30, ServiceName: "Consultation"},
	}, 15*time.Minute))

	// Stale entry must be treated as absent regardless of slot contents.
	_, err := cache.MarkStale(context.Background(), "p1", "2026-09-01")
	require.NoError(t, err)

	result := svc.FindNextAvailable(context.Background(), clinic, FindNextParams{PractitionerName: "Jane Smith"})
	assert.Equal(t, models.ErrKindNoAvailability, result.ErrorKind)

	// Re-warm revalidates, then expiry excludes it again.
	require.NoError(t, cache.Upsert(context.Background(), "c1", "p1", "b1", "2026-09-01", []models.Slot{
		{StartTime: time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC), DurationMinutes: 30, ServiceName: "Consultation"},
	}, -time.Minute))

	result = svc.FindNextAvailable(context.Background(), clinic, FindNextParams{PractitionerName: "Jane Smith"})
	assert.Equal(t, models.ErrKindNoAvailability, result.ErrorKind)
}

func TestFindNextAvailablePractitionerNotFound(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	cache, dir, clinic := testFixture(now)
	svc := newQueryService(cache, dir, now)

	result := svc.FindNextAvailable(context.Background(), clinic, FindNextParams{PractitionerName: "Zebediah Quux"})
	assert.False(t, result.Success)
	assert.Equal(t, models.ErrKindPractitionerNotFound, result.ErrorKind)
}

func TestFindNextAvailableServiceGate(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	cache, dir, clinic := testFixture(now)
	svc := newQueryService(cache, dir, now)

	result := svc.FindNextAvailable(context.Background(), clinic, FindNextParams{
		PractitionerName: "Jane Smith",
		ServiceName:      "Massage",
	})

	assert.Equal(t, models.ErrKindServiceNotFound, result.ErrorKind)
	assert.ElementsMatch(t, []string{"Consultation", "Follow-up"}, result.SuggestedServices)
}

func TestFindNextAvailableLocationHint(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	cache, dir, clinic := testFixture(now)
	svc := newQueryService(cache, dir, now)

	require.NoError(t, cache.Upsert(context.Background(), "c1", "p1", "b1", "2026-09-01", []models.Slot{
		{StartTime: time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC), DurationMinutes: 30, ServiceName: "Consultation"},
	}, 15*time.Minute))
	require.NoError(t, cache.Upsert(context.Background(), "c1", "p1", "b2", "2026-09-01", []models.Slot{
		{StartTime: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC), DurationMinutes: 30, ServiceName: "Consultation"},
	}, 15*time.Minute))

	result := svc.FindNextAvailable(context.Background(), clinic, FindNextParams{
		PractitionerName: "Jane Smith",
		LocationHint:     "North Branch",
	})

	require.True(t, result.Success)
	assert.Equal(t, "b2", result.Slot.LocationID, "hint narrows the search to one location")
}

func TestFindNextAvailableInternalError(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	cache, dir, clinic := testFixture(now)
	cache.readErr = errors.New("connection reset")
	svc := newQueryService(cache, dir, now)

	result := svc.FindNextAvailable(context.Background(), clinic, FindNextParams{PractitionerName: "Jane Smith"})
	assert.Equal(t, models.ErrKindInternalError, result.ErrorKind)
	assert.NotContains(t, result.Message, "connection reset", "internal error text must not leak")
}

func TestListAvailableOnDate(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	cache, dir, clinic := testFixture(now)
	svc := newQueryService(cache, dir, now)

	require.NoError(t, cache.Upsert(context.Background(), "c1", "p1", "b1", "2026-09-01", []models.Slot{
		{StartTime: time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC), DurationMinutes: 30, ServiceName: "Consultation"},
		{StartTime: time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC), DurationMinutes: 15, ServiceName: "Follow-up"},
	}, 15*time.Minute))
	// Slot on another day must not bleed into the listing.
	require.NoError(t, cache.Upsert(context.Background(), "c1", "p1", "b1", "2026-09-02", []models.Slot{
		{StartTime: time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC), DurationMinutes: 30, ServiceName: "Consultation"},
	}, 15*time.Minute))

	result := svc.ListAvailableOnDate(context.Background(), clinic, ListOnDateParams{
		PractitionerName: "Jane Smith",
		Date:             "2026-09-01",
	})

	require.True(t, result.Success, "message: %s", result.Message)
	require.Len(t, result.Slots, 2, "full list for the day, no truncation")
	assert.Equal(t, "09:00", result.Slots[0].Time, "ascending by start time")
	assert.Equal(t, "14:30", result.Slots[1].Time)
}

func TestListAvailableOnDateServiceFilter(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	cache, dir, clinic := testFixture(now)
	svc := newQueryService(cache, dir, now)

	require.NoError(t, cache.Upsert(context.Background(), "c1", "p1", "b1", "2026-09-01", []models.Slot{
		{StartTime: time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC), DurationMinutes: 30, ServiceName: "Consultation"},
		{StartTime: time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC), DurationMinutes: 15, ServiceName: "Follow-up"},
	}, 15*time.Minute))

	result := svc.ListAvailableOnDate(context.Background(), clinic, ListOnDateParams{
		PractitionerName: "Jane Smith",
		Date:             "2026-09-01",
		ServiceName:      "follow",
	})

	require.True(t, result.Success)
	require.Len(t, result.Slots, 1)
	assert.Equal(t, "Follow-up", result.Slots[0].ServiceName)
}

func TestListAvailableOnDateEmpty(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	cache, dir, clinic := testFixture(now)
	svc := newQueryService(cache, dir, now)

	result := svc.ListAvailableOnDate(context.Background(), clinic, ListOnDateParams{
		PractitionerName: "Jane Smith",
		Date:             "2026-09-01",
	})

	assert.False(t, result.Success)
	assert.Equal(t, models.ErrKindNoAvailability, result.ErrorKind)
	assert.Contains(t, result.Message, "2026-09-01")
}
