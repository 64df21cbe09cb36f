package diff

import (
	"fmt"
	"slices"

	"github.com/roach88/catalogsync/internal/ir"
)

type mirrorSection struct {
	meta  ir.SectionMetadata
	items []ir.Item
}

// Mirror is a mutable two-level list that edit operations are applied to one
// at a time. Every op is bounds-checked against the mirror as it stands when
// the op is applied.
//
// Mirror is not safe for concurrent use; its owner (a projection) touches it
// only from its delivery scheduler.
type Mirror struct {
	sections []mirrorSection
}

// NewMirror creates a mirror initialized from s.
func NewMirror(s ir.Snapshot) *Mirror {
	m := &Mirror{}
	m.Reset(s)
	return m
}

// Reset discards the mirror's content and reloads it from s.
func (m *Mirror) Reset(s ir.Snapshot) {
	secs := s.Sections()
	m.sections = make([]mirrorSection, len(secs))
	for i, sec := range secs {
		m.sections[i] = mirrorSection{meta: sec.Metadata, items: sec.Items}
	}
}

// NumberOfSections returns the current section count.
func (m *Mirror) NumberOfSections() int {
	return len(m.sections)
}

// NumberOfItems returns the item count of section, or 0 if section is out of
// range.
func (m *Mirror) NumberOfItems(section int) int {
	if section < 0 || section >= len(m.sections) {
		return 0
	}
	return len(m.sections[section].items)
}

// Metadata returns the metadata of section.
func (m *Mirror) Metadata(section int) (ir.SectionMetadata, bool) {
	if section < 0 || section >= len(m.sections) {
		return ir.SectionMetadata{}, false
	}
	return m.sections[section].meta, true
}

// Item returns the item at (section, row).
func (m *Mirror) Item(section, row int) (ir.Item, bool) {
	if section < 0 || section >= len(m.sections) {
		return nil, false
	}
	items := m.sections[section].items
	if row < 0 || row >= len(items) {
		return nil, false
	}
	return items[row], true
}

// Apply applies one op. On a bounds violation the mirror is left unchanged
// and a *ir.ProjectionDesyncError is returned.
func (m *Mirror) Apply(op ir.EditOp) error {
	n := len(m.sections)

	switch op.Kind {
	case ir.EditRemoveSection:
		if !inRange(op.Section, n) {
			return ir.NewSectionOutOfRangeError(op, op.Section, n)
		}
		m.sections = slices.Delete(m.sections, op.Section, op.Section+1)

	case ir.EditInsertSection:
		if !inRange(op.Section, n+1) {
			return ir.NewSectionOutOfRangeError(op, op.Section, n)
		}
		sec := mirrorSection{meta: op.Content.Metadata, items: slices.Clone(op.Content.Items)}
		m.sections = slices.Insert(m.sections, op.Section, sec)

	case ir.EditMoveSection:
		if !inRange(op.From, n) {
			return ir.NewSectionOutOfRangeError(op, op.From, n)
		}
		if !inRange(op.To, n) {
			return ir.NewSectionOutOfRangeError(op, op.To, n)
		}
		sec := m.sections[op.From]
		m.sections = slices.Delete(m.sections, op.From, op.From+1)
		m.sections = slices.Insert(m.sections, op.To, sec)

	case ir.EditUpdateSection:
		if !inRange(op.Section, n) {
			return ir.NewSectionOutOfRangeError(op, op.Section, n)
		}
		m.sections[op.Section].meta = op.Content.Metadata

	case ir.EditRemoveItem, ir.EditInsertItem, ir.EditMoveItem, ir.EditUpdateItem:
		if !inRange(op.Section, n) {
			return ir.NewSectionOutOfRangeError(op, op.Section, n)
		}
		return m.applyItem(op)

	default:
		return ir.NewUnknownOpError(op, n)
	}
	return nil
}

func (m *Mirror) applyItem(op ir.EditOp) error {
	sec := &m.sections[op.Section]
	n := len(sec.items)
	outOfRange := func(index int) error {
		return ir.NewItemOutOfRangeError(op, index, len(m.sections), n)
	}

	switch op.Kind {
	case ir.EditRemoveItem:
		if !inRange(op.At, n) {
			return outOfRange(op.At)
		}
		sec.items = slices.Delete(slices.Clone(sec.items), op.At, op.At+1)

	case ir.EditInsertItem:
		if !inRange(op.At, n+1) {
			return outOfRange(op.At)
		}
		sec.items = slices.Insert(slices.Clone(sec.items), op.At, op.Item)

	case ir.EditMoveItem:
		if !inRange(op.From, n) {
			return outOfRange(op.From)
		}
		if !inRange(op.To, n) {
			return outOfRange(op.To)
		}
		items := slices.Clone(sec.items)
		item := items[op.From]
		items = slices.Delete(items, op.From, op.From+1)
		sec.items = slices.Insert(items, op.To, item)

	case ir.EditUpdateItem:
		if !inRange(op.At, n) {
			return outOfRange(op.At)
		}
		items := slices.Clone(sec.items)
		items[op.At] = op.Item
		sec.items = items
	}
	return nil
}

// ApplyAll applies ops in order and stops at the first failure. The mirror
// keeps every op applied before the failing one.
func (m *Mirror) ApplyAll(ops []ir.EditOp) error {
	for i, op := range ops {
		if err := m.Apply(op); err != nil {
			return fmt.Errorf("op %d: %w", i, err)
		}
	}
	return nil
}

// Snapshot returns the mirror's content as a validated snapshot.
func (m *Mirror) Snapshot() (ir.Snapshot, error) {
	secs := make([]ir.Section, len(m.sections))
	for i, sec := range m.sections {
		secs[i] = ir.NewSection(sec.meta, sec.items...)
	}
	return ir.NewSnapshot(secs...)
}

// Apply is the functional form of Mirror.ApplyAll: it applies ops to a
// mirror of old and returns the result.
func Apply(old ir.Snapshot, ops []ir.EditOp) (ir.Snapshot, error) {
	m := NewMirror(old)
	if err := m.ApplyAll(ops); err != nil {
		return ir.Snapshot{}, err
	}
	return m.Snapshot()
}

func inRange(i, n int) bool {
	return i >= 0 && i < n
}
