package builder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drerwrk/model"
)

var testRequired = []string{
	CategoryCPUs, CategoryMotherboards, CategoryRAM,
	CategoryStorage, CategoryPSUs, CategoryCasings,
}

func strPtr(s string) *string { return &s }

func component(id int64, category string, price float64, socket, ramType *string) model.Product {
	return model.Product{
		ID:             id,
		Category:       category,
		Price:          price,
		EffectivePrice: price,
		CPUSocketID:    socket,
		RAMTypeID:      ramType,
	}
}

func newTestBuild(t *testing.T) *Build {
	t.Helper()
	snapshot := NewSnapshot(t.TempDir(), "session1")
	b, err := New(snapshot, testRequired, "/assets/img/pc_build_placeholder.png")
	require.NoError(t, err)
	return b
}

func TestSelectCascadeOnSocketChange(t *testing.T) {
	b := newTestBuild(t)

	cpuA := component(1, CategoryCPUs, 100, strPtr("S1"), nil)
	mb := component(2, CategoryMotherboards, 200, strPtr("S1"), strPtr("R1"))
	ram := component(3, CategoryRAM, 100, nil, strPtr("R1"))
	cpuB := component(4, CategoryCPUs, 300, strPtr("S2"), nil)

	require.NoError(t, b.Select(CategoryCPUs, cpuA))
	require.NoError(t, b.Select(CategoryMotherboards, mb))
	require.NoError(t, b.Select(CategoryRAM, ram))
	assert.Equal(t, 400.0, b.TotalPrice())

	// Swapping to an incompatible CPU clears the motherboard, and the RAM
	// with it.
	require.NoError(t, b.Select(CategoryCPUs, cpuB))

	assert.Nil(t, b.Selection(CategoryMotherboards))
	assert.Nil(t, b.Selection(CategoryRAM))
	assert.NotNil(t, b.Selection(CategoryCPUs))
	assert.False(t, b.IsComplete())
	assert.Equal(t, 300.0, b.TotalPrice())
	assert.Equal(t, "S2", b.CPUSocketID())
	assert.Equal(t, "", b.RAMTypeID())
}

func TestSelectCompatibleCPUKeepsDownstream(t *testing.T) {
	b := newTestBuild(t)

	require.NoError(t, b.Select(CategoryCPUs, component(1, CategoryCPUs, 100, strPtr("S1"), nil)))
	require.NoError(t, b.Select(CategoryMotherboards, component(2, CategoryMotherboards, 200, strPtr("S1"), strPtr("R1"))))
	require.NoError(t, b.Select(CategoryRAM, component(3, CategoryRAM, 100, nil, strPtr("R1"))))

	// Same socket, different CPU: nothing is invalidated.
	require.NoError(t, b.Select(CategoryCPUs, component(9, CategoryCPUs, 300, strPtr("S1"), nil)))

	assert.NotNil(t, b.Selection(CategoryMotherboards))
	assert.NotNil(t, b.Selection(CategoryRAM))
	assert.Equal(t, 600.0, b.TotalPrice())
}

func TestMotherboardChangeClearsMismatchedRAM(t *testing.T) {
	b := newTestBuild(t)

	require.NoError(t, b.Select(CategoryCPUs, component(1, CategoryCPUs, 100, strPtr("S1"), nil)))
	require.NoError(t, b.Select(CategoryMotherboards, component(2, CategoryMotherboards, 200, strPtr("S1"), strPtr("R1"))))
	require.NoError(t, b.Select(CategoryRAM, component(3, CategoryRAM, 100, nil, strPtr("R1"))))

	require.NoError(t, b.Select(CategoryMotherboards, component(5, CategoryMotherboards, 200, strPtr("S1"), strPtr("R2"))))

	assert.Nil(t, b.Selection(CategoryRAM))
	assert.NotNil(t, b.Selection(CategoryCPUs))
}

func TestDeselectCascadeIsTransitive(t *testing.T) {
	b := newTestBuild(t)

	require.NoError(t, b.Select(CategoryCPUs, component(1, CategoryCPUs, 100, strPtr("S1"), nil)))
	require.NoError(t, b.Select(CategoryMotherboards, component(2, CategoryMotherboards, 200, strPtr("S1"), strPtr("R1"))))
	require.NoError(t, b.Select(CategoryRAM, component(3, CategoryRAM, 100, nil, strPtr("R1"))))
	require.NoError(t, b.Select(CategoryStorage, component(4, CategoryStorage, 100, nil, nil)))

	require.NoError(t, b.Deselect(CategoryCPUs))

	assert.Nil(t, b.Selection(CategoryCPUs))
	assert.Nil(t, b.Selection(CategoryMotherboards))
	assert.Nil(t, b.Selection(CategoryRAM))
	// Storage does not derive compatibility from the CPU chain.
	assert.NotNil(t, b.Selection(CategoryStorage))
}

func TestCanChoose(t *testing.T) {
	b := newTestBuild(t)

	assert.True(t, b.CanChoose(CategoryCPUs))
	assert.False(t, b.CanChoose(CategoryMotherboards))
	assert.False(t, b.CanChoose(CategoryRAM))
	assert.False(t, b.CanChoose(CategoryMonitors))

	require.NoError(t, b.Select(CategoryCPUs, component(1, CategoryCPUs, 100, strPtr("S1"), nil)))
	assert.True(t, b.CanChoose(CategoryMotherboards))
	assert.False(t, b.CanChoose(CategoryRAM))

	require.NoError(t, b.Select(CategoryMotherboards, component(2, CategoryMotherboards, 200, strPtr("S1"), strPtr("R1"))))
	assert.True(t, b.CanChoose(CategoryRAM))
	assert.True(t, b.CanChoose(CategoryMonitors))
}

func TestFinalize(t *testing.T) {
	b := newTestBuild(t)

	_, err := b.Finalize()
	assert.ErrorIs(t, err, ErrIncompleteBuild)

	casing := component(6, CategoryCasings, 100, nil, nil)
	casing.ImageURL = "/img/case.png"

	require.NoError(t, b.Select(CategoryCPUs, component(1, CategoryCPUs, 100, strPtr("S1"), nil)))
	require.NoError(t, b.Select(CategoryMotherboards, component(2, CategoryMotherboards, 200, strPtr("S1"), strPtr("R1"))))
	require.NoError(t, b.Select(CategoryRAM, component(3, CategoryRAM, 100, nil, strPtr("R1"))))
	require.NoError(t, b.Select(CategoryStorage, component(4, CategoryStorage, 100, nil, nil)))
	require.NoError(t, b.Select(CategoryPSUs, component(5, CategoryPSUs, 100, nil, nil)))
	require.NoError(t, b.Select(CategoryCasings, casing))
	require.True(t, b.IsComplete())

	line, err := b.Finalize()
	require.NoError(t, err)

	assert.Equal(t, model.ItemKindVirtual, line.Ref.Kind)
	assert.True(t, strings.HasPrefix(line.Ref.VirtualID, "build-"))
	assert.True(t, line.Ref.IsBuild())
	assert.Equal(t, "Custom PC Build", line.Name)
	assert.Equal(t, 700.0, line.UnitPrice)
	assert.Equal(t, "/img/case.png", line.ImageURL)
	assert.Equal(t, 1, line.Quantity)

	// Finalize resets the build entirely.
	assert.False(t, b.IsComplete())
	assert.Equal(t, 0.0, b.TotalPrice())
	for _, category := range Categories {
		assert.Nil(t, b.Selection(category))
	}
}

func TestFinalizeUsesPlaceholderWithoutCasingImage(t *testing.T) {
	b := newTestBuild(t)

	require.NoError(t, b.Select(CategoryCPUs, component(1, CategoryCPUs, 100, strPtr("S1"), nil)))
	require.NoError(t, b.Select(CategoryMotherboards, component(2, CategoryMotherboards, 200, strPtr("S1"), strPtr("R1"))))
	require.NoError(t, b.Select(CategoryRAM, component(3, CategoryRAM, 100, nil, strPtr("R1"))))
	require.NoError(t, b.Select(CategoryStorage, component(4, CategoryStorage, 100, nil, nil)))
	require.NoError(t, b.Select(CategoryPSUs, component(5, CategoryPSUs, 100, nil, nil)))
	require.NoError(t, b.Select(CategoryCasings, component(6, CategoryCasings, 100, nil, nil)))

	line, err := b.Finalize()
	require.NoError(t, err)
	assert.Equal(t, "/assets/img/pc_build_placeholder.png", line.ImageURL)
}

func TestCompletenessGating(t *testing.T) {
	b := newTestBuild(t)

	require.NoError(t, b.Select(CategoryCPUs, component(1, CategoryCPUs, 100, strPtr("S1"), nil)))
	require.NoError(t, b.Select(CategoryMotherboards, component(2, CategoryMotherboards, 200, strPtr("S1"), strPtr("R1"))))
	require.NoError(t, b.Select(CategoryRAM, component(3, CategoryRAM, 100, nil, strPtr("R1"))))
	require.NoError(t, b.Select(CategoryStorage, component(4, CategoryStorage, 100, nil, nil)))
	require.NoError(t, b.Select(CategoryPSUs, component(5, CategoryPSUs, 100, nil, nil)))
	require.NoError(t, b.Select(CategoryCasings, component(6, CategoryCasings, 100, nil, nil)))
	assert.True(t, b.IsComplete())

	require.NoError(t, b.Deselect(CategoryStorage))
	assert.False(t, b.IsComplete())
}

func TestSnapshotResume(t *testing.T) {
	dir := t.TempDir()
	snapshot := NewSnapshot(dir, "s1")

	b, err := New(snapshot, testRequired, "")
	require.NoError(t, err)
	require.NoError(t, b.Select(CategoryCPUs, component(1, CategoryCPUs, 100, strPtr("S1"), nil)))
	require.NoError(t, b.Select(CategoryMotherboards, component(2, CategoryMotherboards, 200, strPtr("S1"), strPtr("R1"))))

	resumed, err := New(NewSnapshot(dir, "s1"), testRequired, "")
	require.NoError(t, err)
	require.NotNil(t, resumed.Selection(CategoryCPUs))
	assert.Equal(t, int64(1), resumed.Selection(CategoryCPUs).ID)
	assert.Equal(t, "S1", resumed.CPUSocketID())
	assert.Equal(t, "R1", resumed.RAMTypeID())

	// Sessions are isolated from each other.
	other, err := New(NewSnapshot(dir, "s2"), testRequired, "")
	require.NoError(t, err)
	assert.Nil(t, other.Selection(CategoryCPUs))
}

func TestUnknownCategory(t *testing.T) {
	b := newTestBuild(t)
	err := b.Select("Keyboards", component(1, "Keyboards", 100, nil, nil))
	assert.ErrorIs(t, err, ErrUnknownCategory)
	assert.ErrorIs(t, b.Deselect("Keyboards"), ErrUnknownCategory)
}
