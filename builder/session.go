package builder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"drerwrk/model"
)

// Snapshot persists an in-progress build as one JSON file per browsing
// session. Builds are never synced to a server and are not tied to a user
// identity.
type Snapshot struct {
	path string
}

// NewSnapshot keys the snapshot file by session id under dir.
func NewSnapshot(dir, sessionKey string) *Snapshot {
	return &Snapshot{path: filepath.Join(dir, "build_"+sessionKey+".json")}
}

func (s *Snapshot) Load() (map[string]*model.Product, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]*model.Product{}, nil
		}
		return nil, fmt.Errorf("failed to read build snapshot: %w", err)
	}
	saved := map[string]*model.Product{}
	if err := json.Unmarshal(raw, &saved); err != nil {
		return nil, fmt.Errorf("failed to decode build snapshot: %w", err)
	}
	return saved, nil
}

func (s *Snapshot) Save(slots map[string]*model.Product) error {
	raw, err := json.MarshalIndent(slots, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode build snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0644); err != nil {
		return fmt.Errorf("failed to write build snapshot: %w", err)
	}
	return nil
}

func (s *Snapshot) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove build snapshot: %w", err)
	}
	return nil
}
