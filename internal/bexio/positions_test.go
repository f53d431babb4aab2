package bexio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ausmass_backend/platform/apperr"
)

func decodePayload(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		t.Fatalf("decode request payload: %v", err)
	}
	return payload
}

func seededCatalog() *TaxCatalog {
	catalog := NewTaxCatalog()
	catalog.Set(8.1, 10)
	catalog.Set(0, 20)
	return catalog
}

func TestSubmitPositionsTextFirstCandidate(t *testing.T) {
	var gotPath string
	var gotPayload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotPayload = decodePayload(t, r)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":1}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	result, err := c.SubmitPositions(context.Background(), 7, []Position{
		{Type: PositionText, Text: "<strong><u>Küche</u></strong>"},
	}, seededCatalog())
	if err != nil {
		t.Fatalf("SubmitPositions returned error: %v", err)
	}

	if result.SuccessCount != 1 || result.FailCount != 0 {
		t.Fatalf("got %d/%d success/fail, want 1/0", result.SuccessCount, result.FailCount)
	}
	if gotPath != "/3.0/kb_position_text" {
		t.Errorf("posted to %s, want /3.0/kb_position_text", gotPath)
	}
	if gotPayload["kb_document_id"] != float64(7) {
		t.Errorf("kb_document_id = %v, want 7", gotPayload["kb_document_id"])
	}
	if gotPayload["text"] != "<strong><u>Küche</u></strong>" {
		t.Errorf("text = %v", gotPayload["text"])
	}
}

func TestSubmitPositionsTaxIDRetrySequence(t *testing.T) {
	var taxIDs []int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := decodePayload(t, r)
		raw, ok := payload["tax_id"]
		if !ok {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"message":"invalid tax_id"}`))
			return
		}
		id := int(raw.(float64))
		taxIDs = append(taxIDs, id)
		if id == 1 {
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":5}`))
			return
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"invalid tax_id"}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	result, err := c.SubmitPositions(context.Background(), 7, []Position{
		{Type: PositionCustom, Text: "Wand streichen", Amount: 12, UnitName: "m2", TaxRate: 8.1},
	}, seededCatalog())
	if err != nil {
		t.Fatalf("SubmitPositions returned error: %v", err)
	}

	if result.SuccessCount != 1 {
		t.Fatalf("SuccessCount = %d, want 1, errors: %+v", result.SuccessCount, result.Errors)
	}
	// Catalog identifiers first, then fixed fallbacks, then small integers,
	// deduplicated. Delivery succeeded at id 1.
	want := []int{10, 20, 383, 2, 1}
	if len(taxIDs) != len(want) {
		t.Fatalf("tax id attempts = %v, want %v", taxIDs, want)
	}
	for i := range want {
		if taxIDs[i] != want[i] {
			t.Fatalf("tax id attempts = %v, want %v", taxIDs, want)
		}
	}
}

func TestSubmitPositionsDropsTaxIDAfterExhaustion(t *testing.T) {
	requests := 0
	withoutTax := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		payload := decodePayload(t, r)
		if _, ok := payload["tax_id"]; ok {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"message":"invalid tax_id"}`))
			return
		}
		withoutTax++
		if withoutTax == 1 {
			// Initial reduced payload, rejected to trigger the retries.
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"message":"invalid tax_id"}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":5}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	result, err := c.SubmitPositions(context.Background(), 7, []Position{
		{Type: PositionCustom, Text: "Decke spachteln", Amount: 4, UnitName: "m2", TaxRate: 8.1},
	}, seededCatalog())
	if err != nil {
		t.Fatalf("SubmitPositions returned error: %v", err)
	}

	if result.SuccessCount != 1 {
		t.Fatalf("SuccessCount = %d, want 1, errors: %+v", result.SuccessCount, result.Errors)
	}
	// Initial post, seven distinct id retries, final post without tax id.
	if requests != 9 {
		t.Errorf("total requests = %d, want 9", requests)
	}
}

func TestSubmitPositionsUnitNameRetry(t *testing.T) {
	var unitNames []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/kb_offer/") {
			// Nested endpoints are gone in this scenario, forcing the
			// full-payload root endpoint that carries unit_name.
			w.WriteHeader(http.StatusNotFound)
			return
		}
		payload := decodePayload(t, r)
		unit, _ := payload["unit_name"].(string)
		unitNames = append(unitNames, unit)
		if unit == "qm" {
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":5}`))
			return
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"unit_name not accepted"}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	result, err := c.SubmitPositions(context.Background(), 7, []Position{
		{Type: PositionCustom, Text: "Boden schleifen", Amount: 30, UnitName: "m2", TaxRate: 8.1},
	}, seededCatalog())
	if err != nil {
		t.Fatalf("SubmitPositions returned error: %v", err)
	}

	if result.SuccessCount != 1 {
		t.Fatalf("SuccessCount = %d, want 1, errors: %+v", result.SuccessCount, result.Errors)
	}
	want := []string{"m2", "m2", "m²", "qm"}
	if len(unitNames) != len(want) {
		t.Fatalf("unit name attempts = %v, want %v", unitNames, want)
	}
	for i := range want {
		if unitNames[i] != want[i] {
			t.Fatalf("unit name attempts = %v, want %v", unitNames, want)
		}
	}
}

func TestSubmitPositionsUnauthorizedAborts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	result, err := c.SubmitPositions(context.Background(), 7, []Position{
		{Type: PositionCustom, Text: "Wand streichen", Amount: 1, UnitName: "m2", TaxRate: 8.1},
	}, seededCatalog())
	if err == nil {
		t.Fatal("expected error for upstream 401")
	}
	if result != nil {
		t.Fatalf("expected nil result, got %+v", result)
	}
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("error kind = %v, want KindUnauthorized", apperr.GetKind(err))
	}
}

func TestSubmitPositionsRecordsRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := decodePayload(t, r)
		if text, _ := payload["text"].(string); strings.Contains(text, "gut") {
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":5}`))
			return
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"text too long"}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	result, err := c.SubmitPositions(context.Background(), 7, []Position{
		{Type: PositionCustom, Text: "schlecht", Amount: 1, UnitName: "m2", TaxRate: 8.1},
		{Type: PositionCustom, Text: "gut", Amount: 1, UnitName: "m2", TaxRate: 8.1},
	}, seededCatalog())
	if err != nil {
		t.Fatalf("SubmitPositions returned error: %v", err)
	}

	if result.SuccessCount != 1 || result.FailCount != 1 {
		t.Fatalf("got %d/%d success/fail, want 1/1", result.SuccessCount, result.FailCount)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("got %d errors, want 1", len(result.Errors))
	}
	posErr := result.Errors[0]
	if posErr.Index != 1 {
		t.Errorf("error index = %d, want 1", posErr.Index)
	}
	if posErr.Status != http.StatusUnprocessableEntity {
		t.Errorf("error status = %d, want 422", posErr.Status)
	}
	if !strings.Contains(posErr.Error, "text too long") {
		t.Errorf("error body = %q, want it to carry the upstream message", posErr.Error)
	}
}
