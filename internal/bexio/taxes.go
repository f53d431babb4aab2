package bexio

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// TaxCatalog maps tax percentages (rounded to one decimal) to Bexio tax
// identifiers. Insertion order is preserved because the first recorded
// identifier doubles as the fallback for unknown rates.
type TaxCatalog struct {
	rates []float64
	ids   map[float64]int
}

// NewTaxCatalog creates an empty catalog.
func NewTaxCatalog() *TaxCatalog {
	return &TaxCatalog{ids: make(map[float64]int)}
}

func roundRate(rate float64) float64 {
	return math.Round(rate*10) / 10
}

// Set records an identifier for a rate unless the rate is already present.
func (t *TaxCatalog) Set(rate float64, id int) {
	key := roundRate(rate)
	if _, ok := t.ids[key]; ok {
		return
	}
	t.rates = append(t.rates, key)
	t.ids[key] = id
}

// Len returns the number of recorded rates.
func (t *TaxCatalog) Len() int {
	return len(t.rates)
}

// IDs returns all identifiers in insertion order.
func (t *TaxCatalog) IDs() []int {
	out := make([]int, 0, len(t.rates))
	for _, rate := range t.rates {
		out = append(out, t.ids[rate])
	}
	return out
}

// IDForRate resolves the identifier for a rate. Unknown rates fall back to
// the first recorded identifier, and an empty catalog to the configured
// fixed fallback, so a caller always receives a usable id.
func (c *Client) IDForRate(catalog *TaxCatalog, rate float64) int {
	if id, ok := catalog.ids[roundRate(rate)]; ok {
		return id
	}
	if len(catalog.rates) > 0 {
		return catalog.ids[catalog.rates[0]]
	}
	return c.fallbackTaxID
}

// taxEntry tolerates both API generations: 3.0 reports "percentage",
// 2.0 reports "value", and either may arrive as string or number.
type taxEntry struct {
	ID         int             `json:"id"`
	Percentage json.RawMessage `json:"percentage"`
	Value      json.RawMessage `json:"value"`
}

func (e taxEntry) rate() (float64, bool) {
	for _, raw := range []json.RawMessage{e.Percentage, e.Value} {
		if len(raw) == 0 || string(raw) == "null" {
			continue
		}
		var num float64
		if err := json.Unmarshal(raw, &num); err == nil {
			return num, true
		}
		var str string
		if err := json.Unmarshal(raw, &str); err == nil {
			if parsed, perr := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(str, ",", ".")), 64); perr == nil {
				return parsed, true
			}
		}
	}
	return 0, false
}

// FetchTaxCatalog loads the valid tax identifiers from Bexio. Both the
// current and the prior API generation are queried because the identifiers
// differ between them; the current generation wins ties. Both requests are
// best effort, and an empty result is seeded with the configured fallback
// pairs so the catalog is never empty.
func (c *Client) FetchTaxCatalog(ctx context.Context) *TaxCatalog {
	catalog := NewTaxCatalog()

	c.mergeTaxes(ctx, c.baseURL+"/taxes", catalog)
	c.mergeTaxes(ctx, c.legacyBaseURL+"/taxes", catalog)

	if catalog.Len() == 0 {
		catalog.Set(8.1, c.fallbackTaxID)
		catalog.Set(0, c.fallbackTaxZeroID)
	}

	return catalog
}

func (c *Client) mergeTaxes(ctx context.Context, url string, catalog *TaxCatalog) {
	status, body, err := c.get(ctx, url)
	if err != nil || !is2xx(status) {
		c.log.Debug("tax catalog fetch skipped", "url", url, "status", status, "error", err)
		return
	}

	var entries []taxEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		c.log.Debug("tax catalog decode failed", "url", url, "error", err)
		return
	}

	for _, entry := range entries {
		if rate, ok := entry.rate(); ok {
			catalog.Set(rate, entry.ID)
		}
	}
}
