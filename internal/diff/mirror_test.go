package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/catalogsync/internal/ir"
)

func TestMirror_Queries(t *testing.T) {
	m := NewMirror(snap(t, sec("A", "1", "2"), sec("B")))

	assert.Equal(t, 2, m.NumberOfSections())
	assert.Equal(t, 2, m.NumberOfItems(0))
	assert.Equal(t, 0, m.NumberOfItems(1))
	assert.Equal(t, 0, m.NumberOfItems(5))

	item, ok := m.Item(0, 1)
	require.True(t, ok)
	assert.Equal(t, "2", item.Identity())

	_, ok = m.Item(1, 0)
	assert.False(t, ok)

	meta, ok := m.Metadata(1)
	require.True(t, ok)
	assert.Equal(t, "B", meta.Title)
}

func TestMirror_OutOfRange(t *testing.T) {
	tests := []struct {
		name string
		op   ir.EditOp
		code ir.ErrorCode
	}{
		{"remove missing section", ir.RemoveSection(1), ir.ErrCodeSectionOutOfRange},
		{"insert section past end", ir.InsertSection(2, sec("Z")), ir.ErrCodeSectionOutOfRange},
		{"move section to end+1", ir.MoveSection(0, 1), ir.ErrCodeSectionOutOfRange},
		{"update missing section", ir.UpdateSection(3, ir.SectionMetadata{}), ir.ErrCodeSectionOutOfRange},
		{"item op in missing section", ir.RemoveItem(1, 0), ir.ErrCodeSectionOutOfRange},
		{"remove missing item", ir.RemoveItem(0, 2), ir.ErrCodeItemOutOfRange},
		{"insert item past end", ir.InsertItem(0, 3, cell{id: "9"}), ir.ErrCodeItemOutOfRange},
		{"move item from missing", ir.MoveItem(0, -1, 0), ir.ErrCodeItemOutOfRange},
		{"update missing item", ir.UpdateItem(0, 2, cell{id: "1"}), ir.ErrCodeItemOutOfRange},
		{"unknown kind", ir.EditOp{Kind: ir.EditKind(42)}, ir.ErrCodeUnknownOp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			initial := snap(t, sec("A", "1", "2"))
			m := NewMirror(initial)

			err := m.Apply(tt.op)
			require.Error(t, err)
			assert.True(t, ir.IsProjectionDesync(err))

			var pde *ir.ProjectionDesyncError
			require.ErrorAs(t, err, &pde)
			assert.Equal(t, tt.code, pde.Code)

			got, err := m.Snapshot()
			require.NoError(t, err)
			assert.True(t, got.Equal(initial), "mirror must be unchanged after a rejected op")
		})
	}
}

func TestMirror_ApplyAllStopsAtFirstError(t *testing.T) {
	m := NewMirror(snap(t, sec("A", "1", "2")))

	err := m.ApplyAll([]ir.EditOp{
		ir.RemoveItem(0, 0),
		ir.RemoveItem(0, 1),
		ir.RemoveItem(0, 0),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "op 1")
	assert.True(t, ir.IsProjectionDesync(err))
	assert.Equal(t, 1, m.NumberOfItems(0))
}

func TestMirror_DoesNotAliasSnapshot(t *testing.T) {
	old := snap(t, sec("A", "1", "2"))
	m := NewMirror(old)

	require.NoError(t, m.Apply(ir.RemoveItem(0, 0)))
	require.NoError(t, m.Apply(ir.InsertItem(0, 1, cell{id: "3"})))

	assert.Equal(t, []string{"1", "2"}, old.Outline()[0].Items)
}

func TestMirror_Reset(t *testing.T) {
	m := NewMirror(snap(t, sec("A", "1")))
	m.Reset(snap(t, sec("B"), sec("C", "2")))

	assert.Equal(t, 2, m.NumberOfSections())
	assert.Equal(t, 1, m.NumberOfItems(1))
}

func TestApply_SequentialSemantics(t *testing.T) {
	old := snap(t, sec("A", "1", "2", "3"))

	got, err := Apply(old, []ir.EditOp{
		ir.MoveItem(0, 0, 2),
		ir.InsertItem(0, 0, cell{id: "0"}),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "2", "3", "1"}, got.Outline()[0].Items)
}

func TestApply_DuplicateResultIsInvalid(t *testing.T) {
	old := snap(t, sec("A", "1"))

	_, err := Apply(old, []ir.EditOp{ir.InsertItem(0, 1, cell{id: "1"})})
	require.Error(t, err)
	assert.True(t, ir.IsInvalidSnapshot(err))
}
