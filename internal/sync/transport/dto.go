// Package transport defines the request and response shapes of the Bexio
// sync endpoint.
package transport

import "ausmass_backend/internal/bexio"

// SyncRequest triggers an export by project id.
type SyncRequest struct {
	ProjectID string `json:"projectId"`
}

// SyncResult reports what happened during one export. Per-position
// failures are listed in Errors; the call as a whole still succeeds so the
// operator can see "quote created, N of M positions failed".
type SyncResult struct {
	Success        bool                  `json:"success"`
	Message        string                `json:"message"`
	QuoteID        int                   `json:"quoteId"`
	QuoteNumber    string                `json:"quoteNumber"`
	SuccessCount   int                   `json:"successCount"`
	FailCount      int                   `json:"failCount"`
	PositionsCount int                   `json:"positionsCount"`
	Errors         []bexio.PositionError `json:"errors"`
}
