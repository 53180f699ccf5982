package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheEntryValid(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	fresh := AvailabilityCacheEntry{ExpiresAt: now.Add(10 * time.Minute)}
	assert.True(t, fresh.Valid(now))

	expired := AvailabilityCacheEntry{ExpiresAt: now.Add(-time.Second)}
	assert.False(t, expired.Valid(now))

	atBoundary := AvailabilityCacheEntry{ExpiresAt: now}
	assert.False(t, atBoundary.Valid(now), "an entry expiring exactly now is no longer servable")

	stale := AvailabilityCacheEntry{ExpiresAt: now.Add(10 * time.Minute), IsStale: true}
	assert.False(t, stale.Valid(now), "a stale entry never serves reads regardless of TTL")
}
