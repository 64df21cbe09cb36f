package projection

import (
	"github.com/roach88/catalogsync/internal/ir"
	"github.com/roach88/catalogsync/internal/reactive"
	"github.com/roach88/catalogsync/internal/store"
)

// Surface is an indexed list/grid widget. Positions are (section, row).
//
// Mutations other than ReloadData, ReloadSection, ReloadRow and DeselectRow
// are only made from inside PerformBatchUpdates.
type Surface interface {
	// PerformBatchUpdates runs updates as one visually atomic transaction.
	PerformBatchUpdates(updates func())

	// ReloadData discards all rows and re-reads the data source.
	ReloadData()

	InsertSection(at int)
	DeleteSection(at int)
	MoveSection(from, to int)
	ReloadSection(at int)

	InsertRow(section, row int)
	DeleteRow(section, row int)
	MoveRow(section, from, to int)
	ReloadRow(section, row int)

	// DeselectRow clears the active affordance of a row.
	DeselectRow(section, row int)
}

// ChangeSource is where a projection reads change events from.
// *store.Store satisfies it.
type ChangeSource interface {
	Watch(sched reactive.Scheduler, fn func(store.ChangeEvent)) (ir.Snapshot, *reactive.Subscription)
}

var _ ChangeSource = (*store.Store)(nil)

// mutate performs the surface call matching op.
func mutate(s Surface, op ir.EditOp) {
	switch op.Kind {
	case ir.EditRemoveSection:
		s.DeleteSection(op.Section)
	case ir.EditInsertSection:
		s.InsertSection(op.Section)
	case ir.EditMoveSection:
		s.MoveSection(op.From, op.To)
	case ir.EditUpdateSection:
		s.ReloadSection(op.Section)
	case ir.EditRemoveItem:
		s.DeleteRow(op.Section, op.At)
	case ir.EditInsertItem:
		s.InsertRow(op.Section, op.At)
	case ir.EditMoveItem:
		s.MoveRow(op.Section, op.From, op.To)
	case ir.EditUpdateItem:
		s.ReloadRow(op.Section, op.At)
	}
}
