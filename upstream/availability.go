// File: upstream/availability.go
package upstream

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// AvailableTime is one open slot start as reported by the provider.
type AvailableTime struct {
	StartsAt time.Time `json:"appointment_start"`
}

type availableTimesResponse struct {
	AvailableTimes []AvailableTime `json:"available_times"`
}

// GetAvailableTimes fetches the open slot starts for one
// (business, practitioner, appointment type) combination across a date range.
// Dates are inclusive, formatted YYYY-MM-DD in the clinic timezone.
func (c *Client) GetAvailableTimes(ctx context.Context, businessID, practitionerID, appointmentTypeID, dateFrom, dateTo string) ([]AvailableTime, error) {
	endpoint := fmt.Sprintf(
		"%s/businesses/%s/practitioners/%s/appointment_types/%s/available_times?%s",
		c.baseURL,
		url.PathEscape(businessID),
		url.PathEscape(practitionerID),
		url.PathEscape(appointmentTypeID),
		url.Values{"from": {dateFrom}, "to": {dateTo}}.Encode(),
	)

	var resp availableTimesResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("get available times: %w", err)
	}
	return resp.AvailableTimes, nil
}
