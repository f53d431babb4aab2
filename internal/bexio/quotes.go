package bexio

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ausmass_backend/platform/apperr"
)

// Quote is the created offer header as returned by Bexio.
type Quote struct {
	ID         int    `json:"id"`
	DocumentNr string `json:"document_nr"`
}

// CreateQuote creates the offer header the positions will be posted against,
// valid from today. A 401 is fatal; any other non-success response is
// surfaced with the raw error body so the operator sees what Bexio rejected.
func (c *Client) CreateQuote(ctx context.Context, title string, contactID *int) (*Quote, error) {
	payload := map[string]any{
		"title":         title,
		"contact_id":    contactID,
		"user_id":       c.userID,
		"is_valid_from": time.Now().Format("2006-01-02"),
	}

	status, body, err := c.postJSON(ctx, c.baseURL+"/kb_offer", payload)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		return nil, apperr.Unauthorized(unauthorizedMsg)
	}
	if !is2xx(status) {
		return nil, apperr.Upstream(string(body))
	}

	var quote Quote
	if err := json.Unmarshal(body, &quote); err != nil {
		return nil, fmt.Errorf("decode quote response: %w", err)
	}
	return &quote, nil
}
