package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/shaiso/xws/internal/domain"
	"github.com/shaiso/xws/internal/repo"
	"github.com/shaiso/xws/internal/services"
	"github.com/shaiso/xws/internal/xws"
)

const valuesXML = `<?xml version="1.0" encoding="UTF-8"?>
<xmcda:XMCDA xmlns:xmcda="http://www.decision-deck.org/2012/XMCDA-2.2.0">
<alternativesValues>
  <alternativeValue><alternativeID>a1</alternativeID><value><real>1</real></value></alternativeValue>
  <alternativeValue><alternativeID>a2</alternativeID><value><real>2</real></value></alternativeValue>
</alternativesValues>
</xmcda:XMCDA>
`

// --- Fakes ---

type fakeRuns struct {
	runs   []domain.Run
	filter repo.RunFilter
	closed bool
}

func (f *fakeRuns) List(_ context.Context, filter repo.RunFilter) ([]domain.Run, error) {
	f.filter = filter
	return f.runs, nil
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
}

func (p *fakePublisher) PublishInvocationRequested(_ context.Context, inv domain.Invocation) error {
	p.invocations = append(p.invocations, inv)
	return nil
}

// --- Harness ---

type harness struct {
	stdout, stderr bytes.Buffer
	runs           *fakeRuns
	pub            *fakePublisher
	jsonOutput     bool
}

func newHarness() *harness {
	return &harness{runs: &fakeRuns{}, pub: &fakePublisher{}}
}

func (h *harness) deps() Deps {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return Deps{
		Output:   func() *Output { return NewOutputTo(h.jsonOutput, &h.stdout, &h.stderr) },
		Registry: services.DefaultRegistry,
		NewExecutor: func(validate bool) (*xws.Executor, error) {
			return services.NewExecutor(nil, logger, nil, validate)
		},
		Runs: func(context.Context) (RunSource, func(), error) {
			return h.runs, func() { h.runs.closed = true }, nil
		},
		Publisher: func(context.Context) (InvocationPublisher, func(), error) {
			return h.pub, func() {}, nil
		},
	}
}

func (h *harness) run(args ...string) error {
	root := NewRootCmd("test", &h.jsonOutput, h.deps())
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func inputDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "alternativesValues.xml"), []byte(valuesXML), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

// --- run ---

func TestRunCmd_Local(t *testing.T) {
	h := newHarness()
	out := filepath.Join(t.TempDir(), "out")

	if err := h.run("run", "-i", inputDir(t), "-o", out, "-w", "rank"); err != nil {
		t.Fatalf("run: %v", err)
	}

	if !strings.Contains(h.stdout.String(), "alternativesRanks.xml") {
		t.Errorf("table should list outputs, got:\n%s", h.stdout.String())
	}
	if !strings.Contains(h.stderr.String(), "SUCCEEDED") {
		t.Errorf("expected status message, got %q", h.stderr.String())
	}
	if _, err := os.Stat(filepath.Join(out, "alternativesRanks.xml")); err != nil {
		t.Errorf("output not written: %v", err)
	}
}

func TestRunCmd_InvalidInput(t *testing.T) {
	h := newHarness()

	err := h.run("run", "-i", t.TempDir(), "-o", t.TempDir(), "-w", "rank")
	if !errors.Is(err, xws.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if !strings.Contains(h.stderr.String(), "Warning:") {
		t.Errorf("failures should be printed, got %q", h.stderr.String())
	}
}

func TestRunCmd_JSON(t *testing.T) {
	h := newHarness()

	if err := h.run("--json", "run", "-i", inputDir(t), "-o", t.TempDir(), "-w", "rank", "--dry-run"); err != nil {
		t.Fatalf("run: %v", err)
	}

	var got struct {
		Worker   string   `json:"worker"`
		Invoked  bool     `json:"invoked"`
		Failures []string `json:"failures"`
		Outputs  []struct {
			Field   string `json:"field"`
			Written bool   `json:"written"`
		} `json:"outputs"`
	}
	if err := json.Unmarshal(h.stdout.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, h.stdout.String())
	}
	if got.Worker != "rank" || !got.Invoked || len(got.Failures) != 0 {
		t.Errorf("unexpected report: %+v", got)
	}
	if len(got.Outputs) != 2 || got.Outputs[0].Written {
		t.Errorf("dry run should not write outputs: %+v", got.Outputs)
	}
}

func TestRunCmd_Remote(t *testing.T) {
	h := newHarness()

	if err := h.run("run", "-i", "in", "-o", "out", "-w", "rank", "--remote"); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(h.pub.invocations) != 1 {
		t.Fatalf("expected 1 invocation, got %d", len(h.pub.invocations))
	}
	inv := h.pub.invocations[0]
	if !filepath.IsAbs(inv.InputDir) || !filepath.IsAbs(inv.OutputDir) {
		t.Errorf("paths should be absolute: %s, %s", inv.InputDir, inv.OutputDir)
	}
	if inv.Source != "cli" || inv.Worker != "rank" {
		t.Errorf("unexpected invocation: %+v", inv)
	}
}

func TestRunCmd_MissingFlags(t *testing.T) {
	h := newHarness()
	if err := h.run("run", "-i", "in"); err == nil {
		t.Error("expected error for missing required flags")
	}
}

func TestRunCmd_UnknownWorker(t *testing.T) {
	h := newHarness()
	err := h.run("run", "-i", t.TempDir(), "-o", t.TempDir(), "-w", "nope")
	if !errors.Is(err, xws.ErrUnresolvableWorkerType) {
		t.Errorf("expected ErrUnresolvableWorkerType, got %v", err)
	}
}

// --- workers ---

func TestWorkersCmd(t *testing.T) {
	h := newHarness()
	if err := h.run("workers"); err != nil {
		t.Fatalf("workers: %v", err)
	}
	for _, want := range []string{"weighted-sum", "performanceTable.xml", "rank", "errors"} {
		if !strings.Contains(h.stdout.String(), want) {
			t.Errorf("output should contain %q:\n%s", want, h.stdout.String())
		}
	}
}

func TestWorkersCmd_JSON(t *testing.T) {
	h := newHarness()
	if err := h.run("--json", "workers", "rank"); err != nil {
		t.Fatalf("workers: %v", err)
	}

	var got []workerInfo
	if err := json.Unmarshal(h.stdout.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var fields []string
	for _, w := range got {
		fields = append(fields, w.Role+":"+w.Field)
	}
	want := []string{"errors:messages", "input:alternativesValues", "output:alternativesRanks", "output:messages"}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestWorkersCmd_Unknown(t *testing.T) {
	h := newHarness()
	if err := h.run("workers", "nope"); !errors.Is(err, xws.ErrUnresolvableWorkerType) {
		t.Errorf("expected ErrUnresolvableWorkerType, got %v", err)
	}
}

// --- runs ---

func sampleRuns() []domain.Run {
	started := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	finished := started.Add(2 * time.Second)
	return []domain.Run{
		{
			ID: uuid.New(), InvocationID: uuid.New(), Worker: "rank",
			Status: domain.RunStatusSucceeded, Outputs: []string{"alternativesRanks.xml"},
			StartedAt: &started, FinishedAt: &finished, CreatedAt: started,
		},
		{
			ID: uuid.New(), InvocationID: uuid.New(), Worker: "weighted-sum",
			Status: domain.RunStatusInvalidInput, Failures: []string{"criteria.xml: file not found"},
			StartedAt: &started, FinishedAt: &finished, CreatedAt: started,
		},
	}
}

func TestRunsList(t *testing.T) {
	h := newHarness()
	h.runs.runs = sampleRuns()

	if err := h.run("runs", "list", "--status", "invalid_input", "--worker", "rank", "--limit", "5"); err != nil {
		t.Fatalf("runs list: %v", err)
	}

	want := repo.RunFilter{Worker: "rank", Status: domain.RunStatusInvalidInput, Limit: 5}
	if diff := cmp.Diff(want, h.runs.filter); diff != "" {
		t.Errorf("filter mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(h.stdout.String(), "2s") {
		t.Errorf("duration should be shown:\n%s", h.stdout.String())
	}
	if !h.runs.closed {
		t.Error("connection should be closed")
	}
}

func TestRunsList_BadStatus(t *testing.T) {
	h := newHarness()
	if err := h.run("runs", "list", "--status", "CANCELLED"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestRunsShow(t *testing.T) {
	h := newHarness()
	h.runs.runs = sampleRuns()
	target := h.runs.runs[1]

	// поиск по invocation ID
	if err := h.run("runs", "show", target.InvocationID.String()); err != nil {
		t.Fatalf("runs show: %v", err)
	}
	if !strings.Contains(h.stdout.String(), target.ID.String()) {
		t.Errorf("run id not shown:\n%s", h.stdout.String())
	}
	if !strings.Contains(h.stderr.String(), "criteria.xml: file not found") {
		t.Errorf("failures not shown: %q", h.stderr.String())
	}
}

func TestRunsShow_NotFound(t *testing.T) {
	h := newHarness()
	if err := h.run("runs", "show", uuid.NewString()); !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := h.run("runs", "show", "not-a-uuid"); err == nil {
		t.Error("expected error for invalid id")
	}
}

// --- jobs ---

func TestJobsCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.yaml")
	data := "jobs:\n  - {name: hourly, worker: rank, input_dir: /in, output_dir: /out, cron: \"0 * * * *\"}\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	h := newHarness()
	if err := h.run("jobs", path); err != nil {
		t.Fatalf("jobs: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "hourly") {
		t.Errorf("job not listed:\n%s", h.stdout.String())
	}
}

func TestJobsCmd_UnknownWorker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.yaml")
	data := "jobs:\n  - {name: x, worker: nope, input_dir: /in, output_dir: /out, interval_sec: 60}\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	h := newHarness()
	if err := h.run("jobs", path); err == nil {
		t.Error("expected error for unknown worker")
	}
}

// --- Output ---

func TestOutput_Table(t *testing.T) {
	var stdout, stderr bytes.Buffer
	out := NewOutputTo(false, &stdout, &stderr)

	out.Print([]string{"NAME", "STATUS"}, [][]string{{"a", "ok"}}, nil)
	want := "NAME  STATUS\n----  ------\na     ok\n"
	if diff := cmp.Diff(want, stdout.String()); diff != "" {
		t.Errorf("table mismatch (-want +got):\n%s", diff)
	}

	out.Error("boom")
	if stderr.String() != "Error: boom\n" {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
}
