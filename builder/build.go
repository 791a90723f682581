// Package builder holds the PC configurator: one optional component per
// category, cross-category compatibility cascades, and the hand-off of a
// finished build to the cart as a single virtual line.
package builder

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"drerwrk/model"
)

const (
	CategoryCPUs          = "CPUs"
	CategoryMotherboards  = "Motherboards"
	CategoryRAM           = "RAM"
	CategoryStorage       = "Storage"
	CategoryPSUs          = "PSUs"
	CategoryCasings       = "Casings"
	CategoryGraphicsCards = "Graphics Cards"
	CategoryMonitors      = "Monitors"
)

// Categories is the closed slot set, in display order.
var Categories = []string{
	CategoryCPUs,
	CategoryMotherboards,
	CategoryRAM,
	CategoryStorage,
	CategoryPSUs,
	CategoryCasings,
	CategoryGraphicsCards,
	CategoryMonitors,
}

// prerequisite maps each category to the one that must be filled before its
// picker opens. Eligibility consults this table; adding a category is a data
// change here, not new code.
var prerequisite = map[string]string{
	CategoryMotherboards:  CategoryCPUs,
	CategoryRAM:           CategoryMotherboards,
	CategoryStorage:       CategoryMotherboards,
	CategoryPSUs:          CategoryMotherboards,
	CategoryCasings:       CategoryMotherboards,
	CategoryGraphicsCards: CategoryMotherboards,
	CategoryMonitors:      CategoryMotherboards,
}

// compatCascade maps a compatibility-defining category to the slot it
// invalidates. Cascades follow this chain transitively: clearing CPUs clears
// Motherboards, which clears RAM.
var compatCascade = map[string]string{
	CategoryCPUs:         CategoryMotherboards,
	CategoryMotherboards: CategoryRAM,
}

var (
	ErrUnknownCategory = errors.New("unknown component category")
	ErrIncompleteBuild = errors.New("build is missing required components")
)

// Build is the in-progress configuration. The slot mapping is the only
// authoritative state; socket, RAM type, price and completeness are derived
// from it on demand.
type Build struct {
	slots          map[string]*model.Product
	required       []string
	placeholderURL string
	snapshot       *Snapshot
}

// New creates a build over the given persisted snapshot, resuming whatever
// state it holds.
func New(snapshot *Snapshot, required []string, placeholderURL string) (*Build, error) {
	b := &Build{
		slots:          make(map[string]*model.Product, len(Categories)),
		required:       required,
		placeholderURL: placeholderURL,
		snapshot:       snapshot,
	}
	for _, category := range Categories {
		b.slots[category] = nil
	}
	if snapshot != nil {
		saved, err := snapshot.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to resume build: %w", err)
		}
		for category, component := range saved {
			if _, ok := b.slots[category]; ok {
				b.slots[category] = component
			}
		}
	}
	return b, nil
}

// CPUSocketID is the socket constraining motherboard choice: the selected
// CPU's socket, or the motherboard's own when no CPU is chosen. Empty means
// unconstrained.
func (b *Build) CPUSocketID() string {
	if cpu := b.slots[CategoryCPUs]; cpu != nil && cpu.CPUSocketID != nil {
		return *cpu.CPUSocketID
	}
	if mb := b.slots[CategoryMotherboards]; mb != nil && mb.CPUSocketID != nil {
		return *mb.CPUSocketID
	}
	return ""
}

// RAMTypeID is the RAM type constraining memory choice, taken from the
// selected motherboard. Empty means unconstrained.
func (b *Build) RAMTypeID() string {
	if mb := b.slots[CategoryMotherboards]; mb != nil && mb.RAMTypeID != nil {
		return *mb.RAMTypeID
	}
	return ""
}

// Select fills a slot. Selecting a CPU whose socket no longer fits the chosen
// motherboard clears the motherboard (and with it the RAM); selecting a
// motherboard whose RAM type no longer fits the chosen RAM clears the RAM.
func (b *Build) Select(category string, component model.Product) error {
	if _, ok := b.slots[category]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
	b.slots[category] = &component

	switch category {
	case CategoryCPUs:
		if mb := b.slots[CategoryMotherboards]; mb != nil && !socketCompatible(b.CPUSocketID(), mb.CPUSocketID) {
			b.deselect(CategoryMotherboards)
		}
	case CategoryMotherboards:
		if ram := b.slots[CategoryRAM]; ram != nil && !typeCompatible(b.RAMTypeID(), ram.RAMTypeID) {
			b.deselect(CategoryRAM)
		}
	}

	b.persist()
	return nil
}

// Deselect empties a slot and cascade-clears every selection whose
// compatibility derived from it.
func (b *Build) Deselect(category string) error {
	if _, ok := b.slots[category]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
	b.deselect(category)
	b.persist()
	return nil
}

func (b *Build) deselect(category string) {
	b.slots[category] = nil
	if next, ok := compatCascade[category]; ok {
		b.deselect(next)
	}
}

// A constraint only bites when both sides are known; a missing id means
// "fits anything", matching the unfiltered component listing.
func socketCompatible(wanted string, got *string) bool {
	return wanted == "" || got == nil || *got == "" || *got == wanted
}

func typeCompatible(wanted string, got *string) bool {
	return wanted == "" || got == nil || *got == "" || *got == wanted
}

func (b *Build) Selection(category string) *model.Product {
	return b.slots[category]
}

// CanChoose reports whether a category's picker may open.
func (b *Build) CanChoose(category string) bool {
	prereq, ok := prerequisite[category]
	if !ok || prereq == "" {
		return true
	}
	return b.slots[prereq] != nil
}

// TotalPrice sums the effective price of every filled slot.
func (b *Build) TotalPrice() float64 {
	total := 0.0
	for _, component := range b.slots {
		if component != nil {
			total += component.EffectivePrice
		}
	}
	return total
}

// IsComplete reports whether every required category is filled.
func (b *Build) IsComplete() bool {
	for _, category := range b.required {
		if b.slots[category] == nil {
			return false
		}
	}
	return true
}

// Finalize turns a complete build into one virtual cart line priced at the
// build total, then resets the build and discards its snapshot.
func (b *Build) Finalize() (model.CartLine, error) {
	if !b.IsComplete() {
		return model.CartLine{}, ErrIncompleteBuild
	}

	image := b.placeholderURL
	if casing := b.slots[CategoryCasings]; casing != nil && casing.ImageURL != "" {
		image = casing.ImageURL
	}

	line := model.CartLine{
		Ref:       model.VirtualRef("build-" + uuid.NewString()),
		Name:      "Custom PC Build",
		UnitPrice: b.TotalPrice(),
		ImageURL:  image,
		Quantity:  1,
	}

	for _, category := range Categories {
		b.slots[category] = nil
	}
	if b.snapshot != nil {
		if err := b.snapshot.Clear(); err != nil {
			return model.CartLine{}, fmt.Errorf("failed to discard build snapshot: %w", err)
		}
	}
	return line, nil
}

func (b *Build) persist() {
	if b.snapshot == nil {
		return
	}
	if err := b.snapshot.Save(b.slots); err != nil {
		// The live slot map stays authoritative; only resume-across-reload
		// is lost.
		log.Printf("WARN: failed to persist build snapshot: %v", err)
	}
}
