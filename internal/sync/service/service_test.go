package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ausmass_backend/internal/bexio"
	"ausmass_backend/internal/sync/repository"
	"ausmass_backend/platform/apperr"
	"ausmass_backend/platform/logger"

	"github.com/google/uuid"
)

type stubBexioConfig struct {
	baseURL string
}

func (c stubBexioConfig) GetBexioAPIToken() string       { return "test-token" }
func (c stubBexioConfig) GetBexioBaseURL() string        { return c.baseURL }
func (c stubBexioConfig) GetBexioFallbackTaxID() int     { return 383 }
func (c stubBexioConfig) GetBexioFallbackTaxZeroID() int { return 2 }
func (c stubBexioConfig) GetBexioUserID() int            { return 1 }

type fakeStore struct {
	project       *repository.Project
	rooms         []repository.Room
	measurements  map[uuid.UUID][]repository.Measurement
	settings      []repository.CategorySetting
	scopedErr     error
	scopedCalls   int
	unscopedCalls int
	sent          []uuid.UUID
}

func (f *fakeStore) GetProject(_ context.Context, id uuid.UUID) (*repository.Project, error) {
	if f.project == nil || f.project.ID != id {
		return nil, apperr.NotFound("Projekt nicht gefunden")
	}
	return f.project, nil
}

func (f *fakeStore) RoomsByProject(context.Context, uuid.UUID) ([]repository.Room, error) {
	return f.rooms, nil
}

func (f *fakeStore) MeasurementsByRoom(_ context.Context, roomID uuid.UUID) ([]repository.Measurement, error) {
	return f.measurements[roomID], nil
}

func (f *fakeStore) ActiveCategorySettingsForScope(context.Context, string) ([]repository.CategorySetting, error) {
	f.scopedCalls++
	if f.scopedErr != nil {
		return nil, f.scopedErr
	}
	return f.settings, nil
}

func (f *fakeStore) ActiveCategorySettings(context.Context) ([]repository.CategorySetting, error) {
	f.unscopedCalls++
	return f.settings, nil
}

func (f *fakeStore) MarkProjectSent(_ context.Context, id uuid.UUID) error {
	f.sent = append(f.sent, id)
	return nil
}

// newBexioStub answers every endpoint the happy-path export touches.
func newBexioStub(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/contact"):
			w.Write([]byte(`[{"id":55}]`))
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/kb_offer"):
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":123,"document_nr":"AN-00042"}`))
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/taxes"):
			w.Write([]byte(`[{"id":10,"percentage":8.1}]`))
		case r.Method == http.MethodPost && strings.Contains(r.URL.Path, "kb_position"):
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":1}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newService(store Store, serverURL string) *Service {
	log := logger.New("development")
	client := bexio.NewClient(stubBexioConfig{baseURL: serverURL + "/3.0"}, log)
	return New(store, client, log)
}

func TestSyncProjectHappyPath(t *testing.T) {
	server := newBexioStub(t)
	defer server.Close()

	roomID := uuid.New()
	scope := "innen"
	store := &fakeStore{
		project: &repository.Project{
			ID:           uuid.New(),
			CustomerName: "Muster AG",
			Address:      "Dorfstrasse 1",
			Scope:        &scope,
		},
		rooms: []repository.Room{{ID: roomID, Name: "Küche"}},
		measurements: map[uuid.UUID][]repository.Measurement{
			roomID: {
				{Category: "Decke weisseln", Quantity: 12, Unit: "m2"},
				{Category: "Sockelleisten", Quantity: 8, Unit: "lfm"},
			},
		},
		settings: []repository.CategorySetting{
			{Category: "Decke weisseln", OfferTitle: "Decke weisseln", TaxRate: 8.1, UnitPrice: 18.5},
		},
	}

	svc := newService(store, server.URL)
	result, err := svc.SyncProject(context.Background(), store.project.ID.String())
	if err != nil {
		t.Fatalf("SyncProject returned error: %v", err)
	}

	if !result.Success {
		t.Error("result not marked successful")
	}
	if result.Message != "Offerte erfolgreich zu Bexio übertragen" {
		t.Errorf("message = %q", result.Message)
	}
	if result.QuoteID != 123 || result.QuoteNumber != "AN-00042" {
		t.Errorf("quote = %d/%q, want 123/AN-00042", result.QuoteID, result.QuoteNumber)
	}
	if result.PositionsCount != 3 {
		t.Errorf("PositionsCount = %d, want header + 2 measurements", result.PositionsCount)
	}
	if result.SuccessCount != 3 || result.FailCount != 0 {
		t.Errorf("got %d/%d success/fail, want 3/0", result.SuccessCount, result.FailCount)
	}
	if result.Errors == nil || len(result.Errors) != 0 {
		t.Errorf("Errors = %v, want empty non-nil slice", result.Errors)
	}
	if len(store.sent) != 1 || store.sent[0] != store.project.ID {
		t.Errorf("sent flags = %v, want exactly the exported project", store.sent)
	}
	if store.scopedCalls != 1 || store.unscopedCalls != 0 {
		t.Errorf("settings lookups scoped=%d unscoped=%d, want 1/0", store.scopedCalls, store.unscopedCalls)
	}
}

func TestSyncProjectScopedSettingsFallback(t *testing.T) {
	server := newBexioStub(t)
	defer server.Close()

	roomID := uuid.New()
	scope := "aussen"
	store := &fakeStore{
		project: &repository.Project{
			ID:           uuid.New(),
			CustomerName: "Muster AG",
			Scope:        &scope,
		},
		rooms: []repository.Room{{ID: roomID, Name: "Fassade"}},
		measurements: map[uuid.UUID][]repository.Measurement{
			roomID: {{Category: "Fassade streichen", Quantity: 80, Unit: "m2"}},
		},
		scopedErr: context.DeadlineExceeded,
	}

	svc := newService(store, server.URL)
	if _, err := svc.SyncProject(context.Background(), store.project.ID.String()); err != nil {
		t.Fatalf("SyncProject returned error: %v", err)
	}

	if store.scopedCalls != 1 || store.unscopedCalls != 1 {
		t.Errorf("settings lookups scoped=%d unscoped=%d, want fallback to unfiltered", store.scopedCalls, store.unscopedCalls)
	}
}

func TestSyncProjectInputErrors(t *testing.T) {
	svc := newService(&fakeStore{}, "http://127.0.0.1:0")

	if _, err := svc.SyncProject(context.Background(), "   "); !apperr.Is(err, apperr.KindBadRequest) {
		t.Errorf("blank id error = %v, want KindBadRequest", err)
	}
	if _, err := svc.SyncProject(context.Background(), "not-a-uuid"); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("malformed id error = %v, want KindNotFound", err)
	}
	if _, err := svc.SyncProject(context.Background(), uuid.NewString()); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("unknown id error = %v, want KindNotFound", err)
	}
}
