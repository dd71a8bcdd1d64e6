package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/diffeq/internal/diffeq"
	"github.com/san-kum/diffeq/internal/solve"
)

func sampleSolution() *solve.Solution {
	return &solve.Solution{
		Ts: []float64{0.0, 0.1},
		Ys: []diffeq.State{
			{1.0, 0.0},
			{0.9, -0.1},
		},
		Stats:  solve.Stats{Steps: 10, Rejected: 2, Evaluations: 60},
		Status: solve.StatusCompleted,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("decay", 0.0, 1.0, 0.01, 42, "dopri5", "pid", sampleSolution())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Model != "decay" {
		t.Errorf("expected model 'decay', got '%s'", meta.Model)
	}

	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}

	if meta.Status != "completed" {
		t.Errorf("expected status 'completed', got '%s'", meta.Status)
	}

	if meta.Steps != 10 || meta.Rejected != 2 || meta.Evaluations != 60 {
		t.Errorf("unexpected counters: %d/%d/%d", meta.Steps, meta.Rejected, meta.Evaluations)
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		t.Fatalf("load states failed: %v", err)
	}

	if len(states) != 2 {
		t.Errorf("expected 2 states, got %d", len(states))
	}

	if len(times) != 2 {
		t.Errorf("expected 2 times, got %d", len(times))
	}

	if len(states) == 2 && states[1][1] != -0.1 {
		t.Errorf("expected states[1][1] = -0.1, got %g", states[1][1])
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	_, err = st.Save("decay", 0.0, 1.0, 0.01, 42, "euler", "constant", sampleSolution())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("oscillator", 0.0, 6.28, 0.01, 7, "heun", "pid", sampleSolution())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	metaPath := filepath.Join(runDir, "metadata.json")
	csvPath := filepath.Join(runDir, "states.csv")

	if _, err := os.Stat(metaPath); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}

	if _, err := os.Stat(csvPath); os.IsNotExist(err) {
		t.Error("states.csv not created")
	}
}
