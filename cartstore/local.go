package cartstore

import (
	"encoding/json"
	"fmt"
	"os"

	"drerwrk/model"
)

// LocalBackend persists the guest cart as one JSON snapshot file, the
// server-side stand-in for the browser's local storage. Mutations are
// optimistic: there is no network round trip to confirm.
type LocalBackend struct {
	path string
}

func NewLocalBackend(path string) *LocalBackend {
	return &LocalBackend{path: path}
}

func (b *LocalBackend) Load() ([]model.CartLine, error) {
	raw, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.CartLine{}, nil
		}
		return nil, fmt.Errorf("failed to read cart snapshot: %w", err)
	}
	lines := []model.CartLine{}
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("failed to decode cart snapshot: %w", err)
	}
	return lines, nil
}

func (b *LocalBackend) save(lines []model.CartLine) error {
	raw, err := json.MarshalIndent(lines, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cart snapshot: %w", err)
	}
	if err := os.WriteFile(b.path, raw, 0644); err != nil {
		return fmt.Errorf("failed to write cart snapshot: %w", err)
	}
	return nil
}

func (b *LocalBackend) Add(line model.CartLine) error {
	lines, err := b.Load()
	if err != nil {
		return err
	}
	for i := range lines {
		if lines[i].Ref == line.Ref {
			lines[i].Quantity += line.Quantity
			return b.save(lines)
		}
	}
	return b.save(append(lines, line))
}

func (b *LocalBackend) SetQuantity(ref model.ItemRef, quantity int) error {
	lines, err := b.Load()
	if err != nil {
		return err
	}
	for i := range lines {
		if lines[i].Ref == ref {
			lines[i].Quantity = quantity
			return b.save(lines)
		}
	}
	return nil
}

func (b *LocalBackend) Remove(ref model.ItemRef) error {
	lines, err := b.Load()
	if err != nil {
		return err
	}
	kept := lines[:0]
	for _, line := range lines {
		if line.Ref != ref {
			kept = append(kept, line)
		}
	}
	return b.save(kept)
}

func (b *LocalBackend) Clear() error {
	if err := os.Remove(b.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cart snapshot: %w", err)
	}
	return nil
}
