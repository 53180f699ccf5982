// File: upstream/directory.go
package upstream

import (
	"context"
	"fmt"
)

// Bulk list endpoints are paginated with a "next link" cursor: each page's
// links.next holds the absolute URL of the following page, empty on the last.

type pageLinks struct {
	Next string `json:"next"`
}

// PractitionerRecord is the provider's practitioner representation.
type PractitionerRecord struct {
	ID                 string   `json:"id"`
	FirstName          string   `json:"first_name"`
	LastName           string   `json:"last_name"`
	Title              string   `json:"title"`
	Active             bool     `json:"active"`
	AppointmentTypeIDs []string `json:"appointment_type_ids"`
	BusinessIDs        []string `json:"business_ids"`
}

// BusinessRecord is the provider's location representation.
type BusinessRecord struct {
	ID      string `json:"id"`
	Name    string `json:"business_name"`
	Primary bool   `json:"primary"`
}

// AppointmentTypeRecord is the provider's service representation.
type AppointmentTypeRecord struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_in_minutes"`
	Active          bool   `json:"active"`
}

type practitionersPage struct {
	Practitioners []PractitionerRecord `json:"practitioners"`
	Links         pageLinks            `json:"links"`
}

type businessesPage struct {
	Businesses []BusinessRecord `json:"businesses"`
	Links      pageLinks        `json:"links"`
}

type appointmentTypesPage struct {
	AppointmentTypes []AppointmentTypeRecord `json:"appointment_types"`
	Links            pageLinks               `json:"links"`
}

// ListPractitioners walks every page of the practitioners endpoint.
func (c *Client) ListPractitioners(ctx context.Context) ([]PractitionerRecord, error) {
	var all []PractitionerRecord
	url := c.baseURL + "/practitioners"
	for url != "" {
		var page practitionersPage
		if err := c.getJSON(ctx, url, &page); err != nil {
			return nil, fmt.Errorf("list practitioners: %w", err)
		}
		all = append(all, page.Practitioners...)
		url = page.Links.Next
	}
	return all, nil
}

// ListBusinesses walks every page of the businesses endpoint.
func (c *Client) ListBusinesses(ctx context.Context) ([]BusinessRecord, error) {
	var all []BusinessRecord
	url := c.baseURL + "/businesses"
	for url != "" {
		var page businessesPage
		if err := c.getJSON(ctx, url, &page); err != nil {
			return nil, fmt.Errorf("list businesses: %w", err)
		}
		all = append(all, page.Businesses...)
		url = page.Links.Next
	}
	return all, nil
}

// ListAppointmentTypes walks every page of the appointment types endpoint.
func (c *Client) ListAppointmentTypes(ctx context.Context) ([]AppointmentTypeRecord, error) {
	var all []AppointmentTypeRecord
	url := c.baseURL + "/appointment_types"
	for url != "" {
		var page appointmentTypesPage
		if err := c.getJSON(ctx, url, &page); err != nil {
			return nil, fmt.Errorf("list appointment types: %w", err)
		}
		all = append(all, page.AppointmentTypes...)
		url = page.Links.Next
	}
	return all, nil
}
