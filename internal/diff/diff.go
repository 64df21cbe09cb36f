package diff

import (
	"github.com/roach88/catalogsync/internal/ir"
)

// Diff computes the ordered edit operations turning old into next.
//
// Sections are matched by SectionMetadata.Identity, items by Item.Identity
// within a matched section. An item that appears in a different section in
// next is removed from one and inserted into the other; there are no
// cross-section moves.
//
// Both snapshots come from ir.NewSnapshot, so identities are unique and Diff
// cannot fail. Diff(s, s) is always empty.
func Diff(old, next ir.Snapshot) []ir.EditOp {
	oldSecs := old.Sections()
	newSecs := next.Sections()

	oldIndex := indexSections(oldSecs)
	newIndex := indexSections(newSecs)

	var ops []ir.EditOp

	// Section removes, highest index first.
	for i := len(oldSecs) - 1; i >= 0; i-- {
		if _, ok := newIndex[oldSecs[i].Metadata.Identity()]; !ok {
			ops = append(ops, ir.RemoveSection(i))
		}
	}

	// Surviving sections in old order. After the removes above, a survivor's
	// position in the mirror is its rank in this list.
	var survivorsOld []string
	for _, sec := range oldSecs {
		if _, ok := newIndex[sec.Metadata.Identity()]; ok {
			survivorsOld = append(survivorsOld, sec.Metadata.Identity())
		}
	}

	// Item removes per surviving section, highest index first. Items kept
	// are recorded for the move phase.
	kept := make(map[string][]string, len(survivorsOld))
	for rank, id := range survivorsOld {
		oldItems := oldSecs[oldIndex[id]].Items
		newItems := itemSet(newSecs[newIndex[id]].Items)

		for j := len(oldItems) - 1; j >= 0; j-- {
			if _, ok := newItems[oldItems[j].Identity()]; !ok {
				ops = append(ops, ir.RemoveItem(rank, j))
			}
		}

		var ids []string
		for _, item := range oldItems {
			if _, ok := newItems[item.Identity()]; ok {
				ids = append(ids, item.Identity())
			}
		}
		kept[id] = ids
	}

	// Section moves. Surviving sections in new order is the target.
	var survivorsNew []string
	for _, sec := range newSecs {
		if _, ok := oldIndex[sec.Metadata.Identity()]; ok {
			survivorsNew = append(survivorsNew, sec.Metadata.Identity())
		}
	}
	for _, m := range planMoves(survivorsOld, survivorsNew) {
		ops = append(ops, ir.MoveSection(m.from, m.to))
	}

	// Item moves. Sections are now in new relative order, so a survivor's
	// position is its rank in survivorsNew.
	for rank, id := range survivorsNew {
		oldItems := itemSet(oldSecs[oldIndex[id]].Items)
		var target []string
		for _, item := range newSecs[newIndex[id]].Items {
			if _, ok := oldItems[item.Identity()]; ok {
				target = append(target, item.Identity())
			}
		}
		for _, m := range planMoves(kept[id], target) {
			ops = append(ops, ir.MoveItem(rank, m.from, m.to))
		}
	}

	// Section inserts, lowest index first. Every section before i is already
	// in place, so i is a valid insertion point.
	for i, sec := range newSecs {
		if _, ok := oldIndex[sec.Metadata.Identity()]; !ok {
			ops = append(ops, ir.InsertSection(i, sec))
		}
	}

	// Item inserts into surviving sections, lowest index first.
	for i, sec := range newSecs {
		id := sec.Metadata.Identity()
		oi, ok := oldIndex[id]
		if !ok {
			continue
		}
		oldItems := itemSet(oldSecs[oi].Items)
		for j, item := range sec.Items {
			if _, ok := oldItems[item.Identity()]; !ok {
				ops = append(ops, ir.InsertItem(i, j, item))
			}
		}
	}

	// Updates address final positions.
	for i, sec := range newSecs {
		oi, ok := oldIndex[sec.Metadata.Identity()]
		if !ok {
			continue
		}
		if oldSecs[oi].Metadata != sec.Metadata {
			ops = append(ops, ir.UpdateSection(i, sec.Metadata))
		}
	}
	for i, sec := range newSecs {
		oi, ok := oldIndex[sec.Metadata.Identity()]
		if !ok {
			continue
		}
		oldItems := oldSecs[oi].Items
		oldPos := itemSet(oldItems)
		for j, item := range sec.Items {
			p, ok := oldPos[item.Identity()]
			if !ok {
				continue
			}
			if !ir.ContentEqual(oldItems[p], item) {
				ops = append(ops, ir.UpdateItem(i, j, item))
			}
		}
	}

	return ops
}

func indexSections(secs []ir.Section) map[string]int {
	idx := make(map[string]int, len(secs))
	for i, sec := range secs {
		idx[sec.Metadata.Identity()] = i
	}
	return idx
}

func itemSet(items []ir.Item) map[string]int {
	idx := make(map[string]int, len(items))
	for i, item := range items {
		idx[item.Identity()] = i
	}
	return idx
}
