package evidence

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zen-systems/routesim/pkg/router"
)

func TestNewWriter(t *testing.T) {
	base := t.TempDir()
	w, err := NewWriter(base, "run-1")
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if w.RunDir() != filepath.Join(base, "run-1") {
		t.Fatalf("run dir = %q", w.RunDir())
	}
	if _, err := os.Stat(w.RunDir()); err != nil {
		t.Fatalf("run dir not created: %v", err)
	}
}

func TestNewWriterRequiresArgs(t *testing.T) {
	if _, err := NewWriter("", "run-1"); err == nil {
		t.Error("expected an error for a missing base dir")
	}
	if _, err := NewWriter(t.TempDir(), ""); err == nil {
		t.Error("expected an error for a missing run ID")
	}
}

func TestWriteRun(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "run-2")
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	at := time.Now()
	if err := w.WriteRun("run-2", "renew my lease", "sess-1", at, false); err != nil {
		t.Fatalf("WriteRun: %v", err)
	}

	var record RunRecord
	readJSON(t, filepath.Join(w.RunDir(), "run.json"), &record)

	if record.ID != "run-2" || record.SessionID != "sess-1" {
		t.Fatalf("identity fields wrong: %+v", record)
	}
	if record.Query != "renew my lease" {
		t.Fatalf("query not recorded: %+v", record)
	}
	if record.QueryHash != HashQuery("renew my lease") {
		t.Fatalf("hash mismatch: %+v", record)
	}
	if record.Redacted {
		t.Fatal("record must not be marked redacted")
	}
}

func TestWriteRunRedacted(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "run-3")
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	if err := w.WriteRun("run-3", "my SSN is 123-45-6789", "", time.Now(), true); err != nil {
		t.Fatalf("WriteRun: %v", err)
	}

	var record RunRecord
	readJSON(t, filepath.Join(w.RunDir(), "run.json"), &record)

	if record.Query != "" {
		t.Fatalf("redacted record must omit the raw query, got %q", record.Query)
	}
	if record.QueryHash == "" || !record.Redacted {
		t.Fatalf("redacted record incomplete: %+v", record)
	}
}

func TestWriteDecisionAndTrace(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "run-4")
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	d := &router.Decision{
		ID:            "dec-1",
		SelectedAgent: router.AgentHR,
		Confidence:    0.8,
		Method:        router.MethodRegex,
		LatencyMs:     52,
		Metadata:      map[string]string{"query_length": "14"},
		Timestamp:     time.Now(),
	}
	if err := w.WriteDecision(d); err != nil {
		t.Fatalf("WriteDecision: %v", err)
	}

	tr := router.BuildTrace(d, "sess-1")
	if err := w.WriteTrace(tr); err != nil {
		t.Fatalf("WriteTrace: %v", err)
	}

	var gotDecision router.Decision
	readJSON(t, filepath.Join(w.RunDir(), "decision.json"), &gotDecision)
	if gotDecision.ID != "dec-1" || gotDecision.SelectedAgent != router.AgentHR {
		t.Fatalf("decision round-trip failed: %+v", gotDecision)
	}

	var gotTrace router.Trace
	readJSON(t, filepath.Join(w.RunDir(), "trace.json"), &gotTrace)
	if gotTrace.ID != "dec-1" || len(gotTrace.Steps) != 2 {
		t.Fatalf("trace round-trip failed: %+v", gotTrace)
	}
}

func TestWriteNilRejected(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "run-5")
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.WriteDecision(nil); err == nil {
		t.Error("expected an error for a nil decision")
	}
	if err := w.WriteTrace(nil); err == nil {
		t.Error("expected an error for a nil trace")
	}
}

func TestHashQueryStable(t *testing.T) {
	a := HashQuery("same input")
	b := HashQuery("same input")
	if a != b {
		t.Fatalf("hash not stable: %q vs %q", a, b)
	}
	if len(a) != 16 {
		t.Fatalf("hash length = %d, want 16", len(a))
	}
	if a == HashQuery("different input") {
		t.Fatal("different inputs must hash differently")
	}
}

func readJSON(t *testing.T, path string, value any) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if err := json.Unmarshal(data, value); err != nil {
		t.Fatalf("unmarshal %s: %v", path, err)
	}
}
