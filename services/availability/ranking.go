// File: services/availability/ranking.go
package availability

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"clinicvoice/models"
)

// maxAlternatives caps the alternatives offered after the primary slot, five
// slots total at the boundary.
const maxAlternatives = 4

type rankedSlot struct {
	view  models.SlotView
	start time.Time
}

type rankedSlots struct {
	slots  []models.SlotView
	starts []time.Time // parallel to slots
}

// rankSlots flattens cache entries into a single list ordered by absolute
// (date, start time) ascending across all locations. The sort is stable, so
// slots with identical start times keep the entry scan order, which the store
// returns date-then-business ascending; ties are therefore deterministic
// within a response.
//
// notBefore, when non-zero, drops slots that have already passed. serviceFilter,
// when non-empty, keeps only slots whose service name matches
// case-insensitively as a substring in either direction.
func rankSlots(entries []models.AvailabilityCacheEntry, businessNames map[string]string, loc *time.Location, notBefore time.Time, serviceFilter string) rankedSlots {
	var flat []rankedSlot
	for _, entry := range entries {
		for _, slot := range entry.Slots {
			if !notBefore.IsZero() && slot.StartTime.Before(notBefore) {
				continue
			}
			if serviceFilter != "" && !serviceMatches(slot.ServiceName, serviceFilter) {
				continue
			}
			local := slot.StartTime.In(loc)
			flat = append(flat, rankedSlot{
				view: models.SlotView{
					Date:            local.Format(models.DateLayout),
					Time:            local.Format("15:04"),
					DurationMinutes: slot.DurationMinutes,
					ServiceName:     slot.ServiceName,
					LocationID:      entry.BusinessID,
					LocationName:    businessNames[entry.BusinessID],
				},
				start: slot.StartTime,
			})
		}
	}

	sort.SliceStable(flat, func(i, j int) bool {
		return flat[i].start.Before(flat[j].start)
	})

	out := rankedSlots{
		slots:  make([]models.SlotView, len(flat)),
		starts: make([]time.Time, len(flat)),
	}
	for i, rs := range flat {
		out.slots[i] = rs.view
		out.starts[i] = rs.start
	}
	return out
}

func serviceMatches(slotService, filter string) bool {
	a := strings.ToLower(strings.TrimSpace(slotService))
	b := strings.ToLower(strings.TrimSpace(filter))
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// summary aggregates the ranked set: distinct days with availability, total
// slot count, earliest date, and a human phrase for the first slot.
func (r rankedSlots) summary(now time.Time) *models.AvailabilitySummary {
	if len(r.slots) == 0 {
		return &models.AvailabilitySummary{}
	}

	days := make(map[string]struct{}, len(r.slots))
	for _, s := range r.slots {
		days[s.Date] = struct{}{}
	}

	return &models.AvailabilitySummary{
		DaysWithAvailability: len(days),
		TotalSlots:           len(r.slots),
		EarliestDate:         r.slots[0].Date,
		NextAvailable:        humanPhrase(r.starts[0].In(now.Location()), now),
	}
}

// locationFirsts returns the rank-1 slot per location, in global rank order.
func (r rankedSlots) locationFirsts() []models.LocationFirstSlot {
	seen := make(map[string]struct{})
	var firsts []models.LocationFirstSlot
	for _, s := range r.slots {
		if _, ok := seen[s.LocationID]; ok {
			continue
		}
		seen[s.LocationID] = struct{}{}
		firsts = append(firsts, models.LocationFirstSlot{LocationID: s.LocationID, Slot: s})
	}
	return firsts
}

// humanPhrase renders a slot start relative to now, e.g. "today at 2:30 PM",
// "tomorrow at 9:00 AM", or "Monday, 2 March at 11:15 AM".
func humanPhrase(start, now time.Time) string {
	clock := start.Format("3:04 PM")

	today := now.Format(models.DateLayout)
	tomorrow := now.AddDate(0, 0, 1).Format(models.DateLayout)

	switch start.Format(models.DateLayout) {
	case today:
		return "today at " + clock
	case tomorrow:
		return "tomorrow at " + clock
	default:
		return fmt.Sprintf("%s, %d %s at %s", start.Weekday(), start.Day(), start.Month(), clock)
	}
}
