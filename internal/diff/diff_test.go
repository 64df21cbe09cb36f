package diff

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/catalogsync/internal/ir"
)

type cell struct {
	id    string
	title string
}

func (c cell) Identity() string { return c.id }

func (c cell) Content() ir.IRObject {
	return ir.Object(ir.O("title", ir.IRString(c.title)))
}

func sec(title string, ids ...string) ir.Section {
	items := make([]ir.Item, len(ids))
	for i, id := range ids {
		items[i] = cell{id: id, title: "item " + id}
	}
	return ir.NewSection(ir.SectionMetadata{Type: ir.SectionPrimary, Title: title}, items...)
}

func snap(t *testing.T, sections ...ir.Section) ir.Snapshot {
	t.Helper()
	s, err := ir.NewSnapshot(sections...)
	require.NoError(t, err)
	return s
}

func assertRoundTrip(t *testing.T, old, next ir.Snapshot) []ir.EditOp {
	t.Helper()
	ops := Diff(old, next)
	got, err := Apply(old, ops)
	require.NoError(t, err, "ops: %v", ir.OpStrings(ops))
	assert.True(t, got.Equal(next), "ops %v produced %v, want %v", ir.OpStrings(ops), got.Outline(), next.Outline())
	return ops
}

func TestDiff_ItemRemoveAndAppend(t *testing.T) {
	old := snap(t, sec("A", "1", "2", "3"))
	next := snap(t, sec("A", "2", "3", "4"))

	ops := assertRoundTrip(t, old, next)
	assert.Equal(t, []string{"RemoveItem(0,0)", "InsertItem(0,2,4)"}, ir.OpStrings(ops))
}

func TestDiff_Idempotent(t *testing.T) {
	tests := []struct {
		name string
		s    ir.Snapshot
	}{
		{"empty", ir.Snapshot{}},
		{"one section", snap(t, sec("A", "1", "2"))},
		{"several sections", snap(t, sec("A", "1"), sec("B"), sec("C", "3", "4", "5"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, Diff(tt.s, tt.s))
		})
	}
}

func TestDiff_RebuiltViewModelsAreUnchanged(t *testing.T) {
	// Same identities and content in freshly built values.
	old := snap(t, sec("A", "1", "2"))
	next := snap(t, sec("A", "1", "2"))

	assert.Empty(t, Diff(old, next))
}

func TestDiff_FromEmptyOnlyInserts(t *testing.T) {
	next := snap(t, sec("A", "1", "2"), sec("B", "3"))

	ops := assertRoundTrip(t, ir.Snapshot{}, next)
	assert.Equal(t, []string{
		"InsertSection(0,primary/A)",
		"InsertSection(1,primary/B)",
	}, ir.OpStrings(ops))
	assert.Len(t, ops[0].Content.Items, 2)
}

func TestDiff_ToEmptyOnlyRemoves(t *testing.T) {
	old := snap(t, sec("A", "1"), sec("B", "2"), sec("C"))

	ops := assertRoundTrip(t, old, ir.Snapshot{})
	assert.Equal(t, []string{"RemoveSection(2)", "RemoveSection(1)", "RemoveSection(0)"}, ir.OpStrings(ops))
}

func TestDiff_RemovesHighestIndexFirst(t *testing.T) {
	old := snap(t, sec("A", "1", "2", "3", "4", "5"))
	next := snap(t, sec("A", "2", "4"))

	ops := assertRoundTrip(t, old, next)
	assert.Equal(t, []string{"RemoveItem(0,4)", "RemoveItem(0,2)", "RemoveItem(0,0)"}, ir.OpStrings(ops))
}

func TestDiff_ItemRemoveUsesSurvivorRank(t *testing.T) {
	old := snap(t, sec("A", "1"), sec("B", "2", "3"))
	next := snap(t, sec("B", "3"))

	ops := assertRoundTrip(t, old, next)
	assert.Equal(t, []string{"RemoveSection(0)", "RemoveItem(0,0)"}, ir.OpStrings(ops))
}

func TestDiff_SectionMove(t *testing.T) {
	old := snap(t, sec("A"), sec("B"), sec("C"))
	next := snap(t, sec("C"), sec("A"), sec("B"))

	ops := assertRoundTrip(t, old, next)
	assert.Equal(t, []string{"MoveSection(2,0)"}, ir.OpStrings(ops))
}

func TestDiff_ItemSwap(t *testing.T) {
	old := snap(t, sec("A", "1", "2"))
	next := snap(t, sec("A", "2", "1"))

	ops := assertRoundTrip(t, old, next)
	require.Len(t, ops, 1)
	assert.Equal(t, ir.EditMoveItem, ops[0].Kind)
}

func TestDiff_ItemReverse(t *testing.T) {
	old := snap(t, sec("A", "1", "2", "3", "4"))
	next := snap(t, sec("A", "4", "3", "2", "1"))

	ops := assertRoundTrip(t, old, next)
	assert.Len(t, ops, 3, "one element stays, the others move: %v", ir.OpStrings(ops))
}

func TestDiff_MovesAfterSectionMoveUseNewRank(t *testing.T) {
	old := snap(t, sec("A", "1", "2"), sec("B", "3", "4"))
	next := snap(t, sec("B", "4", "3"), sec("A", "1", "2"))

	ops := assertRoundTrip(t, old, next)
	assert.Equal(t, []string{"MoveSection(1,0)", "MoveItem(0,1,0)"}, ir.OpStrings(ops))
}

func TestDiff_UpdateItem(t *testing.T) {
	old := snap(t, ir.NewSection(ir.SectionMetadata{Title: "A"}, cell{"1", "Tea"}, cell{"2", "Coffee"}))
	next := snap(t, ir.NewSection(ir.SectionMetadata{Title: "A"}, cell{"2", "Espresso"}, cell{"1", "Tea"}))

	ops := assertRoundTrip(t, old, next)
	require.Len(t, ops, 2)
	assert.Equal(t, ir.EditMoveItem, ops[0].Kind)
	assert.Equal(t, "UpdateItem(0,0,2)", ops[1].String())
	assert.Equal(t, "Espresso", ops[1].Item.(cell).title)
}

func TestDiff_UpdateSectionForKeyedSections(t *testing.T) {
	old := snap(t, ir.NewSection(ir.SectionMetadata{Title: "Drinks", Key: "s1"}, cell{"1", "Tea"}))
	next := snap(t, ir.NewSection(ir.SectionMetadata{Title: "Beverages", Key: "s1"}, cell{"1", "Tea"}))

	ops := Diff(old, next)
	assert.Equal(t, []string{"UpdateSection(0,s1)"}, ir.OpStrings(ops))

	got, err := Apply(old, ops)
	require.NoError(t, err)
	assert.Equal(t, "Beverages", got.Metadata(0).Title)
}

func TestDiff_RetitledUnkeyedSectionIsReplaced(t *testing.T) {
	old := snap(t, sec("Drinks", "1"))
	next := snap(t, sec("Beverages", "1"))

	ops := assertRoundTrip(t, old, next)
	assert.Equal(t, []string{"RemoveSection(0)", "InsertSection(0,primary/Beverages)"}, ir.OpStrings(ops))
}

func TestDiff_ItemMovesBetweenSections(t *testing.T) {
	old := snap(t, sec("A", "1", "2"), sec("B", "3"))
	next := snap(t, sec("A", "1"), sec("B", "2", "3"))

	ops := assertRoundTrip(t, old, next)
	assert.Equal(t, []string{"RemoveItem(0,1)", "InsertItem(1,0,2)"}, ir.OpStrings(ops))
}

func TestDiff_OrderIsRemovesMovesInsertsUpdates(t *testing.T) {
	old := snap(t,
		ir.NewSection(ir.SectionMetadata{Title: "A"}, cell{"1", "a"}, cell{"2", "b"}, cell{"3", "c"}),
		sec("X", "9"),
		sec("B", "4"),
	)
	next := snap(t,
		sec("B", "4", "5"),
		ir.NewSection(ir.SectionMetadata{Title: "A"}, cell{"3", "c"}, cell{"1", "changed"}),
		sec("N", "6"),
	)

	ops := assertRoundTrip(t, old, next)

	phase := func(k ir.EditKind) int {
		switch k {
		case ir.EditRemoveSection, ir.EditRemoveItem:
			return 0
		case ir.EditMoveSection, ir.EditMoveItem:
			return 1
		case ir.EditInsertSection, ir.EditInsertItem:
			return 2
		default:
			return 3
		}
	}
	for i := 1; i < len(ops); i++ {
		assert.LessOrEqual(t, phase(ops[i-1].Kind), phase(ops[i].Kind), "ops out of order: %v", ir.OpStrings(ops))
	}
}

func TestDiff_RandomRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for i := range 500 {
		old := randomSnapshot(rng)
		next := randomSnapshot(rng)
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			assertRoundTrip(t, old, next)
			assert.Empty(t, Diff(next, next))
		})
	}
}

// randomSnapshot draws sections and items from small pools so consecutive
// snapshots overlap heavily.
func randomSnapshot(rng *rand.Rand) ir.Snapshot {
	titles := []string{"A", "B", "C", "D", "E", "F"}
	rng.Shuffle(len(titles), func(i, j int) { titles[i], titles[j] = titles[j], titles[i] })

	var sections []ir.Section
	for _, title := range titles[:rng.IntN(len(titles)+1)] {
		pool := rng.Perm(10)
		n := rng.IntN(len(pool) + 1)
		items := make([]ir.Item, n)
		for j := range n {
			id := fmt.Sprintf("%s%d", title, pool[j])
			items[j] = cell{id: id, title: fmt.Sprintf("v%d", rng.IntN(2))}
		}
		sections = append(sections, ir.NewSection(ir.SectionMetadata{Title: title}, items...))
	}
	return ir.MustSnapshot(sections...)
}
