package bexio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchTaxCatalogMergesGenerations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/3.0/taxes":
			w.Write([]byte(`[{"id":10,"percentage":8.1},{"id":20,"percentage":"2,6"}]`))
		case "/2.0/taxes":
			w.Write([]byte(`[{"id":99,"value":"8.1"},{"id":30,"value":0}]`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	catalog := c.FetchTaxCatalog(context.Background())

	if catalog.Len() != 3 {
		t.Fatalf("catalog has %d rates, want 3", catalog.Len())
	}
	// The current generation registered 8.1 first, so id 99 must not win.
	if got := c.IDForRate(catalog, 8.1); got != 10 {
		t.Errorf("IDForRate(8.1) = %d, want 10", got)
	}
	if got := c.IDForRate(catalog, 2.6); got != 20 {
		t.Errorf("IDForRate(2.6) = %d, want 20", got)
	}
	if got := c.IDForRate(catalog, 0); got != 30 {
		t.Errorf("IDForRate(0) = %d, want 30", got)
	}
	// Unknown rates resolve to the first recorded identifier.
	if got := c.IDForRate(catalog, 5.5); got != 10 {
		t.Errorf("IDForRate(5.5) = %d, want 10", got)
	}
}

func TestFetchTaxCatalogRoundsRates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/3.0/taxes" {
			w.Write([]byte(`[{"id":42,"percentage":8.099}]`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	catalog := c.FetchTaxCatalog(context.Background())

	if got := c.IDForRate(catalog, 8.1); got != 42 {
		t.Fatalf("IDForRate(8.1) = %d, want 42", got)
	}
}

func TestFetchTaxCatalogSeedsFallbacks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	catalog := c.FetchTaxCatalog(context.Background())

	if catalog.Len() != 2 {
		t.Fatalf("catalog has %d rates, want 2 seeded fallbacks", catalog.Len())
	}
	if got := c.IDForRate(catalog, 8.1); got != 383 {
		t.Errorf("IDForRate(8.1) = %d, want 383", got)
	}
	if got := c.IDForRate(catalog, 0); got != 2 {
		t.Errorf("IDForRate(0) = %d, want 2", got)
	}
}

func TestIDForRateEmptyCatalog(t *testing.T) {
	c := newTestClient("http://localhost:0")
	if got := c.IDForRate(NewTaxCatalog(), 8.1); got != 383 {
		t.Fatalf("IDForRate on empty catalog = %d, want configured fallback 383", got)
	}
}
