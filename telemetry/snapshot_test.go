package telemetry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/convect/fluid"
	"github.com/pthm-cable/convect/systems"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	s := newStatsSolver(t)
	candles := systems.NewCandleSystem(ecs.NewWorld())
	candles.Add(20, 10, 0.4, 3, 0)
	for i := 0; i < 3; i++ {
		s.Step()
	}

	snapshot := NewSnapshot(s, candles)
	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Snapshot file not created at %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if loaded.Version != SnapshotVersion {
		t.Errorf("Version mismatch: got %d, want %d", loaded.Version, SnapshotVersion)
	}
	if loaded.State.Frame != 3 {
		t.Errorf("Frame mismatch: got %d, want 3", loaded.State.Frame)
	}
	if len(loaded.Candles) != 1 {
		t.Errorf("Candle count mismatch: got %d, want 1", len(loaded.Candles))
	}

	// Diverge, then restore into a fresh world
	s.Step()
	other := systems.NewCandleSystem(ecs.NewWorld())
	if err := loaded.Apply(s, other); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if s.Frame() != 3 {
		t.Errorf("expected solver frame 3 after apply, got %d", s.Frame())
	}
	if other.Count() != 1 {
		t.Errorf("expected 1 candle after apply, got %d", other.Count())
	}

	heat := s.Heat().Data
	for i, v := range snapshot.State.Heat {
		if heat[i] != v {
			t.Fatalf("heat[%d] = %v after apply, want %v", i, heat[i], v)
		}
	}
}

func TestSnapshotFilename(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version: SnapshotVersion,
		State:   fluid.State{Frame: 5000},
		Label:   "manual",
	}
	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if expected := filepath.Join(tmpDir, "snapshot_5000_manual.json"); path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}

	snapshot.Label = ""
	path, err = SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if expected := filepath.Join(tmpDir, "snapshot_5000.json"); path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}
}

func TestSnapshotApplyRejectsOtherGrid(t *testing.T) {
	s := newStatsSolver(t)
	snapshot := &Snapshot{
		Version: SnapshotVersion,
		State:   fluid.State{Width: 8, Height: 8},
	}

	err := snapshot.Apply(s, nil)
	if !errors.Is(err, fluid.ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}
}
