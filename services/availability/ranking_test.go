package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinicvoice/models"
)

var testNames = map[string]string{
	"b1": "Main Clinic",
	"b2": "North Branch",
}

func slotAt(t *testing.T, value string, service string) models.Slot {
	t.Helper()
	start, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return models.Slot{StartTime: start, DurationMinutes: 30, ServiceName: service}
}

func TestRankSlotsGlobalOrder(t *testing.T) {
	entries := []models.AvailabilityCacheEntry{
		{
			BusinessID: "b1", Date: "2026-09-01",
			Slots: []models.Slot{
				slotAt(t, "2026-09-01T14:30:00Z", "Consultation"),
				slotAt(t, "2026-09-01T09:00:00Z", "Consultation"),
			},
		},
		{
			BusinessID: "b2", Date: "2026-09-01",
			Slots: []models.Slot{
				slotAt(t, "2026-09-01T08:15:00Z", "Consultation"),
			},
		},
	}

	ranked := rankSlots(entries, testNames, time.UTC, time.Time{}, "")
	require.Len(t, ranked.slots, 3)
	assert.Equal(t, "08:15", ranked.slots[0].Time, "globally earliest slot must rank first regardless of location")
	assert.Equal(t, "b2", ranked.slots[0].LocationID)
	assert.Equal(t, "North Branch", ranked.slots[0].LocationName)
	assert.Equal(t, "09:00", ranked.slots[1].Time)
	assert.Equal(t, "14:30", ranked.slots[2].Time)
}

func TestRankSlotsDeterministicAcrossStorageOrder(t *testing.T) {
	a := models.AvailabilityCacheEntry{
		BusinessID: "b1", Date: "2026-09-01",
		Slots: []models.Slot{
			slotAt(t, "2026-09-01T11:00:00Z", "Consultation"),
			slotAt(t, "2026-09-01T09:00:00Z", "Consultation"),
		},
	}
	b := models.AvailabilityCacheEntry{
		BusinessID: "b1", Date: "2026-09-01",
		Slots: []models.Slot{
			slotAt(t, "2026-09-01T09:00:00Z", "Consultation"),
			slotAt(t, "2026-09-01T11:00:00Z", "Consultation"),
		},
	}

	// Two slot sets differing only in storage order must elect the same primary.
	first := rankSlots([]models.AvailabilityCacheEntry{a}, testNames, time.UTC, time.Time{}, "")
	second := rankSlots([]models.AvailabilityCacheEntry{b}, testNames, time.UTC, time.Time{}, "")
	assert.Equal(t, first.slots[0], second.slots[0])
}

func TestRankSlotsTieBreakStable(t *testing.T) {
	entries := []models.AvailabilityCacheEntry{
		{
			BusinessID: "b1", Date: "2026-09-01",
			Slots:      []models.Slot{slotAt(t, "2026-09-01T09:00:00Z", "Consultation")},
		},
		{
			BusinessID: "b2", Date: "2026-09-01",
			Slots:      []models.Slot{slotAt(t, "2026-09-01T09:00:00Z", "Consultation")},
		},
	}

	ranked := rankSlots(entries, testNames, time.UTC, time.Time{}, "")
	require.Len(t, ranked.slots, 2)
	// Identical start times keep entry scan order.
	assert.Equal(t, "b1", ranked.slots[0].LocationID)
	assert.Equal(t, "b2", ranked.slots[1].LocationID)
}

func TestRankSlotsFilters(t *testing.T) {
	entries := []models.AvailabilityCacheEntry{
		{
			BusinessID: "b1", Date: "2026-09-01",
			Slots: []models.Slot{
				slotAt(t, "2026-09-01T08:00:00Z", "Consultation"),
				slotAt(t, "2026-09-01T10:00:00Z", "Massage"),
				slotAt(t, "2026-09-01T12:00:00Z", "Consultation"),
			},
		},
	}

	notBefore := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	ranked := rankSlots(entries, testNames, time.UTC, notBefore, "consultation")
	require.Len(t, ranked.slots, 1, "past slots and non-matching services are dropped")
	assert.Equal(t, "12:00", ranked.slots[0].Time)
}

func TestRankSlotsLocationFirsts(t *testing.T) {
	entries := []models.AvailabilityCacheEntry{
		{
			BusinessID: "b1", Date: "2026-09-01",
			Slots: []models.Slot{
				slotAt(t, "2026-09-01T09:00:00Z", "Consultation"),
				slotAt(t, "2026-09-01T10:00:00Z", "Consultation"),
			},
		},
		{
			BusinessID: "b2", Date: "2026-09-01",
			Slots:      []models.Slot{slotAt(t, "2026-09-01T09:30:00Z", "Consultation")},
		},
	}

	ranked := rankSlots(entries, testNames, time.UTC, time.Time{}, "")
	firsts := ranked.locationFirsts()
	require.Len(t, firsts, 2)
	assert.Equal(t, "b1", firsts[0].LocationID)
	assert.Equal(t, "09:00", firsts[0].Slot.Time)
	assert.Equal(t, "b2", firsts[1].LocationID)
	assert.Equal(t, "09:30", firsts[1].Slot.Time)
}

func TestRankSlotsSummary(t *testing.T) {
	entries := []models.AvailabilityCacheEntry{
		{
			BusinessID: "b1", Date: "2026-09-01",
			Slots: []models.Slot{
				slotAt(t, "2026-09-01T14:30:00Z", "Consultation"),
			},
		},
		{
			BusinessID: "b1", Date: "2026-09-02",
			Slots: []models.Slot{
				slotAt(t, "2026-09-02T09:00:00Z", "Consultation"),
				slotAt(t, "2026-09-02T09:30:00Z", "Consultation"),
			},
		},
	}

	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	ranked := rankSlots(entries, testNames, time.UTC, now, "")
	summary := ranked.summary(now)

	assert.Equal(t, 2, summary.DaysWithAvailability)
	assert.Equal(t, 3, summary.TotalSlots)
	assert.Equal(t, "2026-09-01", summary.EarliestDate)
	assert.Contains(t, summary.NextAvailable, "today")
}

func TestHumanPhrase(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, "today at 2:30 PM", humanPhrase(time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC), now))
	assert.Equal(t, "tomorrow at 9:00 AM", humanPhrase(time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC), now))
	assert.Equal(t, "Friday, 4 September at 11:15 AM", humanPhrase(time.Date(2026, 9, 4, 11, 15, 0, 0, time.UTC), now))
}
