package bexio

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"ausmass_backend/platform/apperr"
)

// PositionType distinguishes plain text headers from priced lines.
type PositionType string

const (
	// PositionText is a text-only position, used for room headers.
	PositionText PositionType = "text"
	// PositionCustom is a priced line item.
	PositionCustom PositionType = "custom"
)

// Position is one quote line item. Positions exist only for the duration of
// a single export; nothing about them is persisted locally.
type Position struct {
	Type      PositionType
	Text      string
	Amount    float64
	UnitPrice float64
	UnitName  string
	TaxRate   float64
}

// PositionError records why one position could not be delivered through any
// candidate endpoint. Index is 1-based to match what the operator sees in
// the quote.
type PositionError struct {
	Index    int            `json:"index"`
	Endpoint string         `json:"endpoint"`
	Payload  map[string]any `json:"payload"`
	Error    string         `json:"error"`
	Status   int            `json:"status"`
}

// SubmitResult aggregates per-position outcomes. Partial failure is data in
// the result, not an error.
type SubmitResult struct {
	SuccessCount int
	FailCount    int
	Errors       []PositionError
}

// candidate is one guessed request shape: an endpoint plus the payload
// variant it accepts. New upstream quirks are added here as data.
type candidate struct {
	endpoint string
	payload  map[string]any
}

// SubmitPositions posts each position strictly in order, probing the
// candidate endpoints until one accepts it. It returns an error only for
// fatal conditions: a transport failure or an upstream 401.
func (c *Client) SubmitPositions(ctx context.Context, quoteID int, positions []Position, catalog *TaxCatalog) (*SubmitResult, error) {
	result := &SubmitResult{}

	for i, pos := range positions {
		base := c.basePayload(quoteID, pos, catalog)

		posted := false
		lastStatus := 0
		lastBody := ""
		lastEndpoint := ""

		for _, cand := range c.positionCandidates(quoteID, pos, base) {
			lastEndpoint = cand.endpoint
			clean := stripNil(cand.payload)

			status, body, err := c.postJSON(ctx, cand.endpoint, clean)
			if err != nil {
				return nil, err
			}
			if is2xx(status) {
				posted = true
				break
			}
			lastStatus, lastBody = status, string(body)

			if status == http.StatusUnprocessableEntity && mentions(lastBody, "tax_id") {
				posted, lastStatus, lastBody, err = c.retryTaxIDs(ctx, cand.endpoint, clean, catalog, lastStatus, lastBody)
				if err != nil {
					return nil, err
				}
			}

			if !posted && status == http.StatusUnprocessableEntity && mentions(lastBody, "unit_name") {
				if _, hasUnit := clean["unit_name"]; hasUnit {
					posted, lastStatus, lastBody, err = c.retryUnitNames(ctx, cand.endpoint, clean, lastStatus, lastBody)
					if err != nil {
						return nil, err
					}
				}
			}

			if posted {
				break
			}
			// 404/405 means wrong endpoint shape: keep probing. Anything
			// else is a genuine rejection for this position.
			if status != http.StatusNotFound && status != http.StatusMethodNotAllowed {
				break
			}
		}

		if posted {
			result.SuccessCount++
			continue
		}

		result.FailCount++
		if lastStatus == http.StatusUnauthorized {
			return nil, apperr.Unauthorized(unauthorizedMsg).WithDetails(map[string]any{
				"index":    i + 1,
				"endpoint": lastEndpoint,
			})
		}
		result.Errors = append(result.Errors, PositionError{
			Index:    i + 1,
			Endpoint: lastEndpoint,
			Payload:  payloadExcerpt(pos, base),
			Error:    lastBody,
			Status:   lastStatus,
		})
	}

	return result, nil
}

// basePayload builds the full-shape payload for a position. Reduced shapes
// for the nested endpoints are derived from it.
func (c *Client) basePayload(quoteID int, pos Position, catalog *TaxCatalog) map[string]any {
	if pos.Type == PositionText {
		return map[string]any{
			"kb_document_id": quoteID,
			"text":           pos.Text,
		}
	}

	amount := ToNumber(pos.Amount)
	if amount == 0 {
		amount = 1
	}
	unit := pos.UnitName
	if unit == "" {
		unit = "Stk"
	}
	taxRate := pos.TaxRate
	if taxRate == 0 {
		taxRate = 8.1
	}

	return map[string]any{
		"kb_document_id":      quoteID,
		"text":                pos.Text,
		"amount":              amount,
		"unit_price":          ToNumber(pos.UnitPrice),
		"unit_name":           unit,
		"tax_id":              c.IDForRate(catalog, taxRate),
		"discount_in_percent": 0,
	}
}

// positionCandidates returns the ordered endpoint probes for a position.
// Text positions prefer the current generation; custom positions prefer the
// prior generation's nested endpoint, whose reduced shape (no unit or tax
// fields) is the most reliably accepted.
func (c *Client) positionCandidates(quoteID int, pos Position, base map[string]any) []candidate {
	if pos.Type == PositionText {
		textOnly := map[string]any{"text": base["text"]}
		return []candidate{
			{endpoint: c.baseURL + "/kb_position_text", payload: base},
			{endpoint: fmt.Sprintf("%s/kb_offer/%d/kb_position_text", c.baseURL, quoteID), payload: textOnly},
			{endpoint: fmt.Sprintf("%s/kb_offer/%d/kb_position_text", c.legacyBaseURL, quoteID), payload: textOnly},
		}
	}

	reduced := map[string]any{
		"text":                base["text"],
		"amount":              base["amount"],
		"unit_price":          base["unit_price"],
		"discount_in_percent": base["discount_in_percent"],
	}
	return []candidate{
		{endpoint: fmt.Sprintf("%s/kb_offer/%d/kb_position_custom", c.legacyBaseURL, quoteID), payload: reduced},
		{endpoint: fmt.Sprintf("%s/kb_offer/%d/kb_position_custom", c.baseURL, quoteID), payload: reduced},
		{endpoint: c.baseURL + "/kb_position_custom", payload: base},
	}
}

// retryTaxIDs retries a 422 that names tax_id with every known identifier
// (catalog values, fixed fallbacks, then small integers), and finally with
// the tax field omitted so the server applies its default.
func (c *Client) retryTaxIDs(ctx context.Context, endpoint string, clean map[string]any, catalog *TaxCatalog, lastStatus int, lastBody string) (bool, int, string, error) {
	ids := dedupInts(append(catalog.IDs(), c.fallbackTaxID, c.fallbackTaxZeroID, 1, 2, 3, 0))

	for _, id := range ids {
		retry := clonePayload(clean)
		retry["tax_id"] = id

		status, body, err := c.postJSON(ctx, endpoint, retry)
		if err != nil {
			return false, lastStatus, lastBody, err
		}
		if is2xx(status) {
			return true, status, "", nil
		}
		lastStatus, lastBody = status, string(body)
		if status != http.StatusUnprocessableEntity {
			return false, lastStatus, lastBody, nil
		}
	}

	retry := clonePayload(clean)
	delete(retry, "tax_id")
	status, body, err := c.postJSON(ctx, endpoint, retry)
	if err != nil {
		return false, lastStatus, lastBody, err
	}
	if is2xx(status) {
		return true, status, "", nil
	}
	return false, status, string(body), nil
}

// retryUnitNames retries a 422 that names unit_name with the alternate
// spellings Bexio accepts for the same unit family.
func (c *Client) retryUnitNames(ctx context.Context, endpoint string, clean map[string]any, lastStatus int, lastBody string) (bool, int, string, error) {
	current, _ := clean["unit_name"].(string)

	var alternates []string
	switch strings.ToLower(current) {
	case "m2":
		alternates = []string{"m2", "m²", "qm"}
	case "m":
		alternates = []string{"m", "lfm"}
	default:
		alternates = []string{"Stk", "stk"}
	}

	for _, alt := range alternates {
		retry := clonePayload(clean)
		retry["unit_name"] = alt

		status, body, err := c.postJSON(ctx, endpoint, retry)
		if err != nil {
			return false, lastStatus, lastBody, err
		}
		if is2xx(status) {
			return true, status, "", nil
		}
		lastStatus, lastBody = status, string(body)
	}

	return false, lastStatus, lastBody, nil
}

// payloadExcerpt trims the payload for the failure list so error responses
// stay readable; long position texts are cut to 120 characters.
func payloadExcerpt(pos Position, base map[string]any) map[string]any {
	text, _ := base["text"].(string)
	if pos.Type == PositionText {
		return map[string]any{"text": text}
	}
	if runes := []rune(text); len(runes) > 120 {
		text = string(runes[:120])
	}
	return map[string]any{
		"text":       text,
		"amount":     base["amount"],
		"unit_price": base["unit_price"],
		"unit_name":  base["unit_name"],
		"tax_id":     base["tax_id"],
		"tax_rate":   pos.TaxRate,
	}
}

func mentions(body, field string) bool {
	return strings.Contains(strings.ToLower(body), field)
}

func stripNil(payload map[string]any) map[string]any {
	clean := make(map[string]any, len(payload))
	for k, v := range payload {
		if v == nil {
			continue
		}
		clean[k] = v
	}
	return clean
}

func clonePayload(payload map[string]any) map[string]any {
	clone := make(map[string]any, len(payload))
	for k, v := range payload {
		clone[k] = v
	}
	return clone
}

func dedupInts(values []int) []int {
	seen := make(map[int]struct{}, len(values))
	out := make([]int, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
