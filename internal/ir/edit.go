package ir

import "fmt"

// EditKind categorizes a structural edit operation.
type EditKind int

const (
	// EditRemoveSection removes the section at Section.
	EditRemoveSection EditKind = iota + 1
	// EditRemoveItem removes the item at (Section, At).
	EditRemoveItem
	// EditMoveSection moves a section so it ends at To.
	EditMoveSection
	// EditMoveItem moves an item within Section so it ends at To.
	EditMoveItem
	// EditInsertSection inserts Content at Section.
	EditInsertSection
	// EditInsertItem inserts Item at (Section, At).
	EditInsertItem
	// EditUpdateSection replaces the metadata of the section at Section.
	EditUpdateSection
	// EditUpdateItem replaces the item at (Section, At) keeping its position.
	EditUpdateItem
)

var editKindNames = map[EditKind]string{
	EditRemoveSection: "RemoveSection",
	EditRemoveItem:    "RemoveItem",
	EditMoveSection:   "MoveSection",
	EditMoveItem:      "MoveItem",
	EditInsertSection: "InsertSection",
	EditInsertItem:    "InsertItem",
	EditUpdateSection: "UpdateSection",
	EditUpdateItem:    "UpdateItem",
}

// String returns the operation name.
func (k EditKind) String() string {
	if name, ok := editKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EditKind(%d)", int(k))
}

// IsSectionLevel reports whether the kind addresses whole sections.
func (k EditKind) IsSectionLevel() bool {
	switch k {
	case EditRemoveSection, EditMoveSection, EditInsertSection, EditUpdateSection:
		return true
	}
	return false
}

// EditOp is one structural edit. Indices are valid against a mirror of the
// old snapshot to which every preceding operation of the same sequence has
// already been applied.
//
// Field use by kind:
//
//	RemoveSection  Section
//	InsertSection  Section, Content
//	MoveSection    From, To
//	UpdateSection  Section, Content (metadata only)
//	RemoveItem     Section, At
//	InsertItem     Section, At, Item
//	MoveItem       Section, From, To
//	UpdateItem     Section, At, Item
type EditOp struct {
	Kind    EditKind
	Section int
	At      int
	From    int
	To      int
	Item    Item
	Content Section
}

// RemoveSection builds an EditRemoveSection op.
func RemoveSection(at int) EditOp {
	return EditOp{Kind: EditRemoveSection, Section: at}
}

// InsertSection builds an EditInsertSection op. The content is copied.
func InsertSection(at int, content Section) EditOp {
	return EditOp{Kind: EditInsertSection, Section: at, Content: content.clone()}
}

// MoveSection builds an EditMoveSection op.
func MoveSection(from, to int) EditOp {
	return EditOp{Kind: EditMoveSection, From: from, To: to}
}

// UpdateSection builds an EditUpdateSection op.
func UpdateSection(at int, meta SectionMetadata) EditOp {
	return EditOp{Kind: EditUpdateSection, Section: at, Content: Section{Metadata: meta}}
}

// RemoveItem builds an EditRemoveItem op.
func RemoveItem(section, at int) EditOp {
	return EditOp{Kind: EditRemoveItem, Section: section, At: at}
}

// InsertItem builds an EditInsertItem op.
func InsertItem(section, at int, item Item) EditOp {
	return EditOp{Kind: EditInsertItem, Section: section, At: at, Item: item}
}

// MoveItem builds an EditMoveItem op.
func MoveItem(section, from, to int) EditOp {
	return EditOp{Kind: EditMoveItem, Section: section, From: from, To: to}
}

// UpdateItem builds an EditUpdateItem op.
func UpdateItem(section, at int, item Item) EditOp {
	return EditOp{Kind: EditUpdateItem, Section: section, At: at, Item: item}
}

// String renders the op in call notation, e.g. "InsertItem(0,2,4)".
// Items and sections are rendered by identity.
func (op EditOp) String() string {
	switch op.Kind {
	case EditRemoveSection:
		return fmt.Sprintf("RemoveSection(%d)", op.Section)
	case EditInsertSection:
		return fmt.Sprintf("InsertSection(%d,%s)", op.Section, op.Content.Metadata.Identity())
	case EditMoveSection:
		return fmt.Sprintf("MoveSection(%d,%d)", op.From, op.To)
	case EditUpdateSection:
		return fmt.Sprintf("UpdateSection(%d,%s)", op.Section, op.Content.Metadata.Identity())
	case EditRemoveItem:
		return fmt.Sprintf("RemoveItem(%d,%d)", op.Section, op.At)
	case EditInsertItem:
		return fmt.Sprintf("InsertItem(%d,%d,%s)", op.Section, op.At, identityOf(op.Item))
	case EditMoveItem:
		return fmt.Sprintf("MoveItem(%d,%d,%d)", op.Section, op.From, op.To)
	case EditUpdateItem:
		return fmt.Sprintf("UpdateItem(%d,%d,%s)", op.Section, op.At, identityOf(op.Item))
	default:
		return op.Kind.String()
	}
}

func identityOf(item Item) string {
	if item == nil {
		return "<nil>"
	}
	return item.Identity()
}

// OpStrings renders a sequence of ops with String.
func OpStrings(ops []EditOp) []string {
	out := make([]string, len(ops))
	for i, op := range ops {
		out[i] = op.String()
	}
	return out
}
