package bexio

import (
	"ausmass_backend/platform/logger"
)

type testConfig struct {
	baseURL string
}

func (c testConfig) GetBexioAPIToken() string       { return "test-token" }
func (c testConfig) GetBexioBaseURL() string        { return c.baseURL }
func (c testConfig) GetBexioFallbackTaxID() int     { return 383 }
func (c testConfig) GetBexioFallbackTaxZeroID() int { return 2 }
func (c testConfig) GetBexioUserID() int            { return 1 }

// newTestClient points a client at a test server. The server URL gets a
// "/3.0" suffix so the derived legacy base URL lands on "/2.0" of the same
// server.
func newTestClient(serverURL string) *Client {
	return NewClient(testConfig{baseURL: serverURL + "/3.0"}, logger.New("development"))
}
