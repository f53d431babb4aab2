package bexio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"ausmass_backend/platform/apperr"
)

const unauthorizedMsg = "Bexio: Unauthorized (Token ungültig/abgelaufen)"

type contact struct {
	ID int `json:"id"`
}

// ResolveContact finds the Bexio contact for a customer by free-text name
// search, creating one with the project address when none exists. A 401 on
// either call is fatal; any other creation failure leaves the contact unset,
// which degrades the quote header to a null contact reference but does not
// stop the export.
func (c *Client) ResolveContact(ctx context.Context, customerName, address string) (*int, error) {
	searchURL := c.baseURL + "/contact?search_term=" + url.QueryEscape(customerName)
	status, body, err := c.get(ctx, searchURL)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		return nil, apperr.Unauthorized(unauthorizedMsg)
	}
	if is2xx(status) {
		var contacts []contact
		if json.Unmarshal(body, &contacts) == nil && len(contacts) > 0 {
			return &contacts[0].ID, nil
		}
	}

	payload := map[string]any{
		"name_1":          customerName,
		"address":         address,
		"contact_type_id": 1,
	}
	status, body, err = c.postJSON(ctx, c.baseURL+"/contact", payload)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		return nil, apperr.Unauthorized(unauthorizedMsg)
	}
	if !is2xx(status) {
		c.log.Warn("bexio contact create failed", "status", status, "body", string(body))
		return nil, nil
	}

	var created contact
	if err := json.Unmarshal(body, &created); err != nil {
		c.log.Warn("bexio contact response decode failed", "error", err)
		return nil, nil
	}
	return &created.ID, nil
}
