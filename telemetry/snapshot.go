package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/convect/fluid"
	"github.com/pthm-cable/convect/systems"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the complete simulation state for resuming a run.
type Snapshot struct {
	Version int `json:"version"`

	// Parameters the state was produced with; a restore keeps the
	// current ones and only checks the grid shape.
	DT        float32 `json:"dt"`
	DX        float32 `json:"dx"`
	NoiseSeed int64   `json:"noise_seed"`

	State   fluid.State            `json:"state"`
	Candles []systems.CandleRecord `json:"candles"`

	Label string `json:"label,omitempty"`
}

// NewSnapshot captures the solver and candles.
func NewSnapshot(sv *fluid.Solver, candles *systems.CandleSystem) *Snapshot {
	p := sv.Params()
	snap := &Snapshot{
		Version:   SnapshotVersion,
		DT:        p.DT,
		DX:        p.DX,
		NoiseSeed: p.Seed.NoiseSeed,
		State:     sv.Snapshot(),
	}
	if candles != nil {
		snap.Candles = candles.Records()
	}
	return snap
}

// Apply restores the snapshot into the solver and candles.
func (s *Snapshot) Apply(sv *fluid.Solver, candles *systems.CandleSystem) error {
	if s.Version != SnapshotVersion {
		return fmt.Errorf("snapshot version %d, expected %d", s.Version, SnapshotVersion)
	}
	if err := sv.Restore(s.State); err != nil {
		return fmt.Errorf("restoring fields: %w", err)
	}
	if candles != nil {
		candles.Restore(s.Candles)
	}
	return nil
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.State.Frame)
	if snapshot.Label != "" {
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.State.Frame, snapshot.Label)
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}
