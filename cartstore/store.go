// Package cartstore is the single source of truth for the active cart. The
// same Store API runs over two backends: a local snapshot file for guests and
// the cart API for authenticated users. Which backend is active is decided at
// construction time by login state, never by the store itself.
package cartstore

import (
	"errors"
	"fmt"
	"log"

	"drerwrk/model"
	"drerwrk/money"
)

// ErrInvalidQuantity rejects non-positive quantities before any backend call.
var ErrInvalidQuantity = errors.New("quantity must be a positive integer")

// Backend is the storage strategy behind a Store. Load is the authoritative
// read; every mutation is re-read through Load afterwards.
type Backend interface {
	Load() ([]model.CartLine, error)
	Add(line model.CartLine) error
	SetQuantity(ref model.ItemRef, quantity int) error
	Remove(ref model.ItemRef) error
	Clear() error
}

type Store struct {
	backend Backend
	lines   []model.CartLine
}

func New(backend Backend) *Store {
	return &Store{backend: backend}
}

// InitGuest builds a store over the local snapshot.
func InitGuest(local *LocalBackend) *Store {
	s := New(local)
	s.Refresh()
	return s
}

// InitForUser builds a store over the remote cart. A non-empty guest snapshot
// is submitted once through the bulk sync and then cleared locally — even
// when individual lines failed server-side — so it is never re-submitted on
// the next login. A failed sync call keeps the snapshot for a later attempt.
func InitForUser(local *LocalBackend, remote *RemoteBackend) *Store {
	if local != nil {
		guestLines, err := local.Load()
		if err != nil {
			log.Printf("WARN: failed to read guest cart snapshot: %v", err)
		} else if len(guestLines) > 0 {
			failed, err := remote.Sync(guestLines)
			if err != nil {
				log.Printf("WARN: cart sync failed, keeping local snapshot: %v", err)
			} else {
				if failed > 0 {
					log.Printf("WARN: cart sync completed with %d failed lines", failed)
				}
				if err := local.Clear(); err != nil {
					log.Printf("WARN: failed to clear guest cart snapshot: %v", err)
				}
			}
		}
	}
	s := New(remote)
	s.Refresh()
	return s
}

// Refresh re-reads authoritative state into the snapshot. A backend failure
// degrades to an empty cart view rather than surfacing: the storefront stays
// usable and shows an empty cart.
func (s *Store) Refresh() {
	lines, err := s.backend.Load()
	if err != nil {
		log.Printf("WARN: cart refresh failed, showing empty cart: %v", err)
		s.lines = nil
		return
	}
	s.lines = lines
}

// AddItem adds quantity of the item to the cart. Additive: an existing line's
// quantity grows by the delta.
func (s *Store) AddItem(item model.CartLine, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	item.Quantity = quantity
	if err := s.backend.Add(item); err != nil {
		return fmt.Errorf("failed to add item %s: %w", item.Ref, err)
	}
	s.Refresh()
	return nil
}

// UpdateQuantity overwrites a line's quantity. A non-positive value removes
// the line.
func (s *Store) UpdateQuantity(ref model.ItemRef, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ref)
	}
	if err := s.backend.SetQuantity(ref, quantity); err != nil {
		return fmt.Errorf("failed to update quantity for %s: %w", ref, err)
	}
	s.Refresh()
	return nil
}

// RemoveItem deletes the line; removing an absent line is a no-op.
func (s *Store) RemoveItem(ref model.ItemRef) error {
	if err := s.backend.Remove(ref); err != nil {
		return fmt.Errorf("failed to remove item %s: %w", ref, err)
	}
	s.Refresh()
	return nil
}

func (s *Store) Clear() error {
	if err := s.backend.Clear(); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	s.Refresh()
	return nil
}

// Lines returns a copy of the current snapshot; callers never see or mutate
// the live slice.
func (s *Store) Lines() []model.CartLine {
	out := make([]model.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Store) ItemCount() int {
	count := 0
	for _, line := range s.lines {
		count += line.Quantity
	}
	return count
}

// Total sums quantity times the unit price currently cached in the snapshot.
func (s *Store) Total() float64 {
	total := 0.0
	for _, line := range s.lines {
		total += float64(line.Quantity) * line.UnitPrice
	}
	return total
}

// TotalDisplay renders the total in the configured currency.
func (s *Store) TotalDisplay() string {
	return money.Format(s.Total())
}
