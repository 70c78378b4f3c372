package client

import (
	"context"
	"fmt"
	"net/url"
)

// GetSystemSettings fetches the global settings record. Admin only.
func (c *Client) GetSystemSettings(ctx context.Context) (SystemSettings, error) {
	var s SystemSettings
	err := c.do(ctx, "GET", "/admin/settings", nil, &s)
	return s, err
}

// SaveSystemSettings writes the whole settings record. Admin only.
func (c *Client) SaveSystemSettings(ctx context.Context, req SystemSettingsUpdate) (SystemSettings, error) {
	var s SystemSettings
	err := c.do(ctx, "PUT", "/admin/settings", req, &s)
	return s, err
}

// ListTechnicians returns technician records, filtered by activation state
// when active is non-nil. Admin only.
func (c *Client) ListTechnicians(ctx context.Context, active *bool) ([]Technician, error) {
	path := "/admin/technicians"
	if active != nil {
		path += "?active=" + url.QueryEscape(fmt.Sprintf("%t", *active))
	}
	var ts []Technician
	err := c.do(ctx, "GET", path, nil, &ts)
	return ts, err
}

// CreateTechnician adds a staff record. Admin only.
func (c *Client) CreateTechnician(ctx context.Context, req TechnicianUpdate) (Technician, error) {
	var t Technician
	err := c.do(ctx, "POST", "/admin/technicians", req, &t)
	return t, err
}

// GetTechnician fetches one technician. Admin only.
func (c *Client) GetTechnician(ctx context.Context, id string) (Technician, error) {
	var t Technician
	err := c.do(ctx, "GET", "/admin/technicians/"+url.PathEscape(id), nil, &t)
	return t, err
}

// UpdateTechnician replaces a technician record. Admin only.
func (c *Client) UpdateTechnician(ctx context.Context, id string, req TechnicianUpdate) (Technician, error) {
	var t Technician
	err := c.do(ctx, "PUT", "/admin/technicians/"+url.PathEscape(id), req, &t)
	return t, err
}

// SetTechnicianStatus toggles whether the technician can take new tickets.
// Admin only.
func (c *Client) SetTechnicianStatus(ctx context.Context, id string, active bool) (Technician, error) {
	body := struct {
		Active bool `json:"active"`
	}{Active: active}
	var t Technician
	err := c.do(ctx, "PATCH", "/admin/technicians/"+url.PathEscape(id)+"/status", body, &t)
	return t, err
}

// AssignTicketTechnician links an active technician to a ticket. Admin only.
func (c *Client) AssignTicketTechnician(ctx context.Context, ticketID, technicianID string) (Ticket, error) {
	body := struct {
		TechnicianID string `json:"technician_id"`
	}{TechnicianID: technicianID}
	var t Ticket
	err := c.do(ctx, "PUT", "/tickets/"+url.PathEscape(ticketID)+"/technician", body, &t)
	return t, err
}
