package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/shaiso/xws/internal/domain"
	"github.com/shaiso/xws/internal/repo"
	"github.com/shaiso/xws/internal/services"
)

// --- Fakes ---

type fakeRuns struct {
	runs   []domain.Run
	filter repo.RunFilter
	err    error
}

func (f *fakeRuns) List(_ context.Context, filter repo.RunFilter) ([]domain.Run, error) {
	f.filter = filter
	return f.runs, f.err
}

func (f *fakeRuns) GetByID(_ context.Context, id uuid.UUID) (*domain.Run, error) {
	for i := range f.runs {
		if f.runs[i].ID == id {
			return &f.runs[i], nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeRuns) GetByInvocationID(_ context.Context, id uuid.UUID) (*domain.Run, error) {
	for i := range f.runs {
		if f.runs[i].InvocationID == id {
			return &f.runs[i], nil
		}
	}
	return nil, repo.ErrNotFound
}

type fakePublisher struct {
	invocations []domain.Invocation
	err         error
}

func (p *fakePublisher) PublishInvocationRequested(_ context.Context, inv domain.Invocation) error {
	if p.err != nil {
		return p.err
	}
	p.invocations = append(p.invocations, inv)
	return nil
}

// --- Helpers ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(runs RunSource, pub InvocationPublisher) *http.ServeMux {
	h := NewHandler(Config{
		Registry:  services.DefaultRegistry(),
		Runs:      runs,
		Publisher: pub,
		Logger:    discardLogger(),
	})
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return mux
}

func do(t *testing.T, mux http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var resp struct {
		Data T `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v\n%s", err, rec.Body.String())
	}
	return resp.Data
}

// --- Workers ---

func TestListWorkers(t *testing.T) {
	rec := do(t, newTestServer(nil, nil), http.MethodGet, "/api/v1/workers", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	workers := decodeData[[]WorkerResponse](t, rec)
	var names []string
	for _, w := range workers {
		names = append(names, w.Name)
	}
	if diff := cmp.Diff([]string{"rank", "weighted-sum"}, names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestGetWorker(t *testing.T) {
	mux := newTestServer(nil, nil)

	rec := do(t, mux, http.MethodGet, "/api/v1/workers/weighted-sum", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	w := decodeData[WorkerResponse](t, rec)

	var weights *FieldResponse
	for i := range w.Fields {
		if w.Fields[i].Name == "weights" {
			weights = &w.Fields[i]
		}
	}
	if weights == nil || !weights.Optional || weights.File != "weights.xml" {
		t.Errorf("unexpected weights field: %+v", weights)
	}

	if rec := do(t, mux, http.MethodGet, "/api/v1/workers/nope", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

// --- Invocations ---

func TestCreateInvocation(t *testing.T) {
	pub := &fakePublisher{}
	mux := newTestServer(nil, pub)

	id := uuid.New()
	body := `{"id":"` + id.String() + `","worker":"rank","input_dir":"/data/in","output_dir":"/data/out","dry_run":true}`
	rec := do(t, mux, http.MethodPost, "/api/v1/invocations", body)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}

	if len(pub.invocations) != 1 {
		t.Fatalf("expected 1 published invocation, got %d", len(pub.invocations))
	}
	inv := pub.invocations[0]
	if inv.ID != id || inv.Source != "api" || !inv.DryRun {
		t.Errorf("unexpected invocation: %+v", inv)
	}

	resp := decodeData[InvocationResponse](t, rec)
	if resp.ID != id {
		t.Errorf("response id = %s, want %s", resp.ID, id)
	}
}

func TestCreateInvocation_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"not json", "{", http.StatusBadRequest},
		{"no worker", `{"input_dir":"/a","output_dir":"/b"}`, http.StatusBadRequest},
		{"unknown worker", `{"worker":"nope","input_dir":"/a","output_dir":"/b"}`, http.StatusNotFound},
		{"relative dir", `{"worker":"rank","input_dir":"a","output_dir":"/b"}`, http.StatusBadRequest},
		{"no output", `{"worker":"rank","input_dir":"/a"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &fakePublisher{}
			rec := do(t, newTestServer(nil, pub), http.MethodPost, "/api/v1/invocations", tt.body)
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
			if len(pub.invocations) != 0 {
				t.Error("nothing should be published")
			}
		})
	}
}

func TestCreateInvocation_Unavailable(t *testing.T) {
	rec := do(t, newTestServer(nil, nil), http.MethodPost, "/api/v1/invocations",
		`{"worker":"rank","input_dir":"/a","output_dir":"/b"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
}

func TestCreateInvocation_PublishError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("channel closed")}
	rec := do(t, newTestServer(nil, pub), http.MethodPost, "/api/v1/invocations",
		`{"worker":"rank","input_dir":"/a","output_dir":"/b"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "channel closed") {
		t.Error("internal error details should not leak")
	}
}

// --- Runs ---

func sampleRun() domain.Run {
	started := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	finished := started.Add(1500 * time.Millisecond)
	return domain.Run{
		ID:           uuid.New(),
		InvocationID: uuid.New(),
		Worker:       "rank",
		Status:       domain.RunStatusSucceeded,
		Outputs:      []string{"alternativesRanks.xml"},
		StartedAt:    &started,
		FinishedAt:   &finished,
		CreatedAt:    started,
	}
}

func TestListRuns(t *testing.T) {
	runs := &fakeRuns{runs: []domain.Run{sampleRun()}}
	mux := newTestServer(runs, nil)

	rec := do(t, mux, http.MethodGet, "/api/v1/runs?worker=rank&status=SUCCEEDED&limit=10&offset=-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	want := repo.RunFilter{Worker: "rank", Status: domain.RunStatusSucceeded, Limit: 10}
	if diff := cmp.Diff(want, runs.filter); diff != "" {
		t.Errorf("filter mismatch (-want +got):\n%s", diff)
	}

	list := decodeData[[]RunResponse](t, rec)
	if len(list) != 1 || list[0].DurationMs != 1500 {
		t.Errorf("unexpected runs: %+v", list)
	}

	if rec := do(t, mux, http.MethodGet, "/api/v1/runs?status=bogus", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad status, got %d", rec.Code)
	}
}

func TestListRuns_RepoError(t *testing.T) {
	runs := &fakeRuns{err: errors.New("db down")}
	rec := do(t, newTestServer(runs, nil), http.MethodGet, "/api/v1/runs", "")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestGetRun(t *testing.T) {
	run := sampleRun()
	mux := newTestServer(&fakeRuns{runs: []domain.Run{run}}, nil)

	tests := []struct {
		name string
		path string
		want int
	}{
		{"by id", "/api/v1/runs/" + run.ID.String(), http.StatusOK},
		{"by invocation", "/api/v1/invocations/" + run.InvocationID.String() + "/run", http.StatusOK},
		{"missing", "/api/v1/runs/" + uuid.NewString(), http.StatusNotFound},
		{"invocation not started", "/api/v1/invocations/" + uuid.NewString() + "/run", http.StatusNotFound},
		{"bad id", "/api/v1/runs/xyz", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, mux, http.MethodGet, tt.path, "")
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
			if tt.want == http.StatusOK {
				if got := decodeData[RunResponse](t, rec); got.ID != run.ID {
					t.Errorf("got run %s, want %s", got.ID, run.ID)
				}
			}
		})
	}
}

func TestRuns_Unavailable(t *testing.T) {
	mux := newTestServer(nil, nil)
	for _, path := range []string{"/api/v1/runs", "/api/v1/runs/" + uuid.NewString()} {
		if rec := do(t, mux, http.MethodGet, path, ""); rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s: expected 503, got %d", path, rec.Code)
		}
	}
}

// --- Middleware ---

func TestRecovery(t *testing.T) {
	handler := Recovery(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestInstrument(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := NewHandler(Config{Registry: services.DefaultRegistry(), Logger: discardLogger()})
	mux := http.NewServeMux()
	h.RegisterRoutes(mux, Instrument(reg))

	do(t, mux, http.MethodGet, "/api/v1/workers", "")
	do(t, mux, http.MethodGet, "/api/v1/workers/nope", "")
	do(t, mux, http.MethodGet, "/api/v1/workers/rank", "")

	expected := `
# HELP xws_api_http_requests_total Total HTTP requests handled by xws-api
# TYPE xws_api_http_requests_total counter
xws_api_http_requests_total{route="GET /api/v1/workers",status="200"} 1
xws_api_http_requests_total{route="GET /api/v1/workers/{name}",status="200"} 1
xws_api_http_requests_total{route="GET /api/v1/workers/{name}",status="404"} 1
`
	if err := testutil.GatherAndCompare(reg, bytes.NewBufferString(expected), "xws_api_http_requests_total"); err != nil {
		t.Error(err)
	}
}
