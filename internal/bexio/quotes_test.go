package bexio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ausmass_backend/platform/apperr"
)

func TestCreateQuote(t *testing.T) {
	var gotPayload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/3.0/kb_offer" {
			t.Errorf("posted to %s, want /3.0/kb_offer", r.URL.Path)
		}
		gotPayload = decodePayload(t, r)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":123,"document_nr":"AN-00042"}`))
	}))
	defer server.Close()

	contactID := 55
	c := newTestClient(server.URL)
	quote, err := c.CreateQuote(context.Background(), "Ausmass - Muster AG", &contactID)
	if err != nil {
		t.Fatalf("CreateQuote returned error: %v", err)
	}

	if quote.ID != 123 || quote.DocumentNr != "AN-00042" {
		t.Fatalf("quote = %+v", quote)
	}
	if gotPayload["title"] != "Ausmass - Muster AG" {
		t.Errorf("title = %v", gotPayload["title"])
	}
	if gotPayload["contact_id"] != float64(55) {
		t.Errorf("contact_id = %v, want 55", gotPayload["contact_id"])
	}
	if gotPayload["user_id"] != float64(1) {
		t.Errorf("user_id = %v, want 1", gotPayload["user_id"])
	}
	if gotPayload["is_valid_from"] != time.Now().Format("2006-01-02") {
		t.Errorf("is_valid_from = %v, want today", gotPayload["is_valid_from"])
	}
}

func TestCreateQuoteWithoutContact(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := decodePayload(t, r)
		if payload["contact_id"] != nil {
			t.Errorf("contact_id = %v, want null", payload["contact_id"])
		}
		w.Write([]byte(`{"id":124,"document_nr":"AN-00043"}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	if _, err := c.CreateQuote(context.Background(), "Ausmass - Muster AG", nil); err != nil {
		t.Fatalf("CreateQuote returned error: %v", err)
	}
}

func TestCreateQuoteErrors(t *testing.T) {
	status := http.StatusUnauthorized
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(`{"message":"rejected"}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	if _, err := c.CreateQuote(context.Background(), "t", nil); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("error = %v, want KindUnauthorized", err)
	}

	status = http.StatusBadRequest
	_, err := c.CreateQuote(context.Background(), "t", nil)
	if !apperr.Is(err, apperr.KindUpstream) {
		t.Fatalf("error = %v, want KindUpstream", err)
	}
}
