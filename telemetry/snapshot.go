package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the tank state at a notable moment.
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`
	Tick    int   `json:"tick"`

	TankWidth   int     `json:"tank_width"`
	TankHeight  int     `json:"tank_height"`
	WaterLine   float64 `json:"water_line"`
	SandSurface float64 `json:"sand_surface"`
	SandBase    float64 `json:"sand_base"`
	Light       float64 `json:"light"`

	Oxygen        float64 `json:"oxygen"`
	CarbonDioxide float64 `json:"carbon_dioxide"`

	Cells []BodyState  `json:"cells"`
	Plant []BodyState  `json:"plant"`
	Food  []BodyState  `json:"food"`
	Fish  FishSnapshot `json:"fish"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// BodyState is one entity's position, velocity and stored carbon.
type BodyState struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VelX   float64 `json:"vel_x"`
	VelY   float64 `json:"vel_y"`
	Carbon float64 `json:"carbon"`
	Energy float64 `json:"energy,omitempty"`
}

// FishSnapshot holds the fish's state.
type FishSnapshot struct {
	BodyState
	State  string  `json:"state"`
	Oxygen float64 `json:"oxygen"`
	Eaten  int     `json:"eaten"`
	Age    int     `json:"age"`
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
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
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snapshot.Version)
	}
	return &snapshot, nil
}
