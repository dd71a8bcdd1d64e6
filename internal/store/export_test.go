package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/diffeq/internal/diffeq"
	"github.com/san-kum/diffeq/internal/solve"
)

func TestExportJSON(t *testing.T) {
	sol := &solve.Solution{
		Ts: []float64{0.0, 0.5, 1.0},
		Ys: []diffeq.State{
			{2.0},
			{1.2},
			{0.73},
		},
		Stats:  solve.Stats{Steps: 12, Rejected: 1, Evaluations: 84},
		Status: solve.StatusCompleted,
	}

	path := filepath.Join(t.TempDir(), "run.json")
	if err := ExportJSON(path, "decay", "dopri5", "pid", 0.0, 1.0, 0.1, sol); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if data.Model != "decay" || data.Scheme != "dopri5" {
		t.Errorf("unexpected header: %s/%s", data.Model, data.Scheme)
	}

	if data.Status != "completed" {
		t.Errorf("expected status 'completed', got '%s'", data.Status)
	}

	if data.Steps != 12 || data.Evaluations != 84 {
		t.Errorf("unexpected counters: %d/%d", data.Steps, data.Evaluations)
	}

	if data.EventT != nil {
		t.Error("event_t should be absent without an event")
	}

	if len(data.Times) != 3 || len(data.States) != 3 {
		t.Fatalf("expected 3 points, got %d/%d", len(data.Times), len(data.States))
	}

	if data.States[2][0] != 0.73 {
		t.Errorf("expected final state 0.73, got %g", data.States[2][0])
	}
}

func TestExportJSONEvent(t *testing.T) {
	sol := &solve.Solution{
		Ts:     []float64{0.0, 1.57},
		Ys:     []diffeq.State{{1.0, 0.0}, {0.0, -1.0}},
		Status: solve.StatusEventTerminated,
		EventT: 1.57,
	}

	path := filepath.Join(t.TempDir(), "run.json")
	if err := ExportJSON(path, "oscillator", "heun", "constant", 0.0, 3.14, 0.01, sol); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if data.Status != "event-terminated" {
		t.Errorf("expected status 'event-terminated', got '%s'", data.Status)
	}

	if data.EventT == nil || *data.EventT != 1.57 {
		t.Errorf("expected event_t 1.57, got %v", data.EventT)
	}
}
