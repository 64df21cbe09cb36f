package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEditOpString(t *testing.T) {
	tests := []struct {
		op   EditOp
		want string
	}{
		{RemoveSection(2), "RemoveSection(2)"},
		{InsertSection(0, NewSection(primary("Drinks"))), "InsertSection(0,primary/Drinks)"},
		{MoveSection(3, 1), "MoveSection(3,1)"},
		{UpdateSection(1, SectionMetadata{Title: "Hot", Key: "k"}), "UpdateSection(1,k)"},
		{RemoveItem(0, 0), "RemoveItem(0,0)"},
		{InsertItem(0, 2, testItem{"4", "Juice"}), "InsertItem(0,2,4)"},
		{MoveItem(1, 0, 3), "MoveItem(1,0,3)"},
		{UpdateItem(1, 2, testItem{"9", "Soup"}), "UpdateItem(1,2,9)"},
		{InsertItem(0, 0, nil), "InsertItem(0,0,<nil>)"},
		{EditOp{Kind: EditKind(99)}, "EditKind(99)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.op.String())
		})
	}
}

func TestInsertSectionCopiesContent(t *testing.T) {
	items := []Item{testItem{"1", "Tea"}}
	op := InsertSection(0, Section{Metadata: primary("Drinks"), Items: items})
	items[0] = testItem{"2", "Coffee"}

	assert.Equal(t, "1", op.Content.Items[0].Identity())
}

func TestEditKindSectionLevel(t *testing.T) {
	assert.True(t, EditRemoveSection.IsSectionLevel())
	assert.True(t, EditUpdateSection.IsSectionLevel())
	assert.False(t, EditMoveItem.IsSectionLevel())
	assert.False(t, EditUpdateItem.IsSectionLevel())
}

func TestOpStrings(t *testing.T) {
	ops := []EditOp{RemoveItem(0, 0), InsertItem(0, 2, testItem{"4", "Juice"})}
	assert.Equal(t, []string{"RemoveItem(0,0)", "InsertItem(0,2,4)"}, OpStrings(ops))
}
