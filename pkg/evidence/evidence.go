package evidence

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zen-systems/routesim/pkg/router"
)

// RunRecord captures run-level metadata for a recorded decision.
type RunRecord struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Query     string    `json:"query,omitempty"`
	QueryHash string    `json:"query_hash"`
	SessionID string    `json:"session_id,omitempty"`
	Redacted  bool      `json:"redacted,omitempty"`
}

// Writer writes decision evidence bundles to disk.
type Writer struct {
	baseDir string
	runDir  string
}

// NewWriter creates a new evidence writer rooted at baseDir/runID.
func NewWriter(baseDir, runID string) (*Writer, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("base directory is required")
	}
	if runID == "" {
		return nil, fmt.Errorf("run ID is required")
	}

	runDir := filepath.Join(baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, err
	}

	return &Writer{baseDir: baseDir, runDir: runDir}, nil
}

// RunDir returns the run directory path.
func (w *Writer) RunDir() string {
	return w.runDir
}

// WriteRun writes run metadata to run.json. When redact is set the raw
// query is omitted and only its hash is recorded.
func (w *Writer) WriteRun(runID, query, sessionID string, at time.Time, redact bool) error {
	record := RunRecord{
		ID:        runID,
		Timestamp: at,
		QueryHash: HashQuery(query),
		SessionID: sessionID,
		Redacted:  redact,
	}
	if !redact {
		record.Query = query
	}
	return writeJSON(filepath.Join(w.runDir, "run.json"), record)
}

// WriteDecision writes the decision record to decision.json.
func (w *Writer) WriteDecision(d *router.Decision) error {
	if d == nil {
		return fmt.Errorf("decision is required")
	}
	return writeJSON(filepath.Join(w.runDir, "decision.json"), d)
}

// WriteTrace writes the audit trace to trace.json.
func (w *Writer) WriteTrace(t *router.Trace) error {
	if t == nil {
		return fmt.Errorf("trace is required")
	}
	return writeJSON(filepath.Join(w.runDir, "trace.json"), t)
}

// HashQuery returns a short stable hash of a query string.
func HashQuery(query string) string {
	sum := sha256.Sum256([]byte(query))
	return hex.EncodeToString(sum[:])[:16]
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
