package bexio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"ausmass_backend/platform/apperr"
)

func TestResolveContactFindsExisting(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected %s request, search hit should suffice", r.Method)
		}
		if got := r.URL.Query().Get("search_term"); got != "Muster AG" {
			t.Errorf("search_term = %q, want %q", got, "Muster AG")
		}
		w.Write([]byte(`[{"id":55},{"id":56}]`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	id, err := c.ResolveContact(context.Background(), "Muster AG", "Dorfstrasse 1")
	if err != nil {
		t.Fatalf("ResolveContact returned error: %v", err)
	}
	if id == nil || *id != 55 {
		t.Fatalf("contact id = %v, want 55", id)
	}
}

func TestResolveContactCreatesWhenMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`[]`))
			return
		}
		payload := decodePayload(t, r)
		if payload["name_1"] != "Muster AG" {
			t.Errorf("name_1 = %v", payload["name_1"])
		}
		if payload["address"] != "Dorfstrasse 1" {
			t.Errorf("address = %v", payload["address"])
		}
		if payload["contact_type_id"] != float64(1) {
			t.Errorf("contact_type_id = %v, want 1", payload["contact_type_id"])
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":77}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	id, err := c.ResolveContact(context.Background(), "Muster AG", "Dorfstrasse 1")
	if err != nil {
		t.Fatalf("ResolveContact returned error: %v", err)
	}
	if id == nil || *id != 77 {
		t.Fatalf("contact id = %v, want 77", id)
	}
}

func TestResolveContactDegradesOnCreateFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	id, err := c.ResolveContact(context.Background(), "Muster AG", "")
	if err != nil {
		t.Fatalf("ResolveContact returned error: %v", err)
	}
	if id != nil {
		t.Fatalf("contact id = %v, want nil on degraded resolve", *id)
	}
}

func TestResolveContactUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	if _, err := c.ResolveContact(context.Background(), "Muster AG", ""); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("error = %v, want KindUnauthorized", err)
	}
}
