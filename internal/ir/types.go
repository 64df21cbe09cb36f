package ir

import (
	"fmt"
	"reflect"
)

// SectionType identifies a section's kind. Rendering decisions keyed on the
// type belong to the caller.
type SectionType int

const (
	// SectionPrimary is a regular category section.
	SectionPrimary SectionType = iota
	// SectionFeatured is a promoted section (special offers).
	SectionFeatured
)

// String returns the lowercase name used in identities and catalog files.
func (t SectionType) String() string {
	switch t {
	case SectionPrimary:
		return "primary"
	case SectionFeatured:
		return "featured"
	default:
		return fmt.Sprintf("section_type(%d)", int(t))
	}
}

// ParseSectionType maps a catalog name back to a SectionType.
func ParseSectionType(s string) (SectionType, error) {
	switch s {
	case "primary", "":
		return SectionPrimary, nil
	case "featured":
		return SectionFeatured, nil
	default:
		return SectionPrimary, fmt.Errorf("unknown section type %q", s)
	}
}

// SectionMetadata identifies a section and carries its display title.
//
// Key is an optional caller-supplied identity. When empty, the identity is
// derived from Type and Title, which means two sections of the same type
// with the same title cannot coexist in one snapshot.
type SectionMetadata struct {
	Type  SectionType `json:"type"`
	Title string      `json:"title"`
	Key   string      `json:"key,omitempty"`
}

// Identity returns the diffing identity of the section.
func (m SectionMetadata) Identity() string {
	if m.Key != "" {
		return m.Key
	}
	return m.Type.String() + "/" + m.Title
}

// Item is an opaque view-model reference. The engine inspects nothing but
// its identity and, for update detection, its content.
type Item interface {
	// Identity is a stable key for the underlying entity. View-models may be
	// recreated on every rebuild; the identity must not change with them.
	Identity() string
}

// ContentItem is an Item that exposes its displayable content. Content is
// fingerprinted with canonical JSON to decide whether a matched item changed.
type ContentItem interface {
	Item
	Content() IRObject
}

// ContentEqual reports whether two items with the same identity carry the
// same content. Items exposing Content are compared by fingerprint; all
// others fall back to reflect.DeepEqual.
func ContentEqual(a, b Item) bool {
	ca, okA := a.(ContentItem)
	cb, okB := b.(ContentItem)
	if okA && okB {
		fa, errA := ItemFingerprint(ca)
		fb, errB := ItemFingerprint(cb)
		if errA == nil && errB == nil {
			return fa == fb
		}
	}
	return reflect.DeepEqual(a, b)
}

// Section is one group of items. Item order is display order.
type Section struct {
	Metadata SectionMetadata `json:"metadata"`
	Items    []Item          `json:"-"`
}

// NewSection is a convenience constructor.
func NewSection(meta SectionMetadata, items ...Item) Section {
	return Section{Metadata: meta, Items: items}
}

// clone copies the item slice so callers cannot alias snapshot storage.
func (s Section) clone() Section {
	items := make([]Item, len(s.Items))
	copy(items, s.Items)
	return Section{Metadata: s.Metadata, Items: items}
}

// Snapshot is an immutable, ordered sequence of sections representing one
// point-in-time view of catalog data. The zero value is the empty snapshot.
type Snapshot struct {
	sections []Section
}

// NewSnapshot validates and copies sections into a new Snapshot.
//
// Returns *InvalidSnapshotError when two sections share an identity or when
// a section contains two items with the same identity.
func NewSnapshot(sections ...Section) (Snapshot, error) {
	seenSections := make(map[string]int, len(sections))
	copied := make([]Section, len(sections))
	for i, sec := range sections {
		id := sec.Metadata.Identity()
		if prev, dup := seenSections[id]; dup {
			return Snapshot{}, NewDuplicateSectionError(id, prev, i)
		}
		seenSections[id] = i

		seenItems := make(map[string]int, len(sec.Items))
		for j, item := range sec.Items {
			if item == nil {
				return Snapshot{}, NewNilItemError(id, j)
			}
			itemID := item.Identity()
			if prev, dup := seenItems[itemID]; dup {
				return Snapshot{}, NewDuplicateItemError(id, itemID, prev, j)
			}
			seenItems[itemID] = j
		}
		copied[i] = sec.clone()
	}
	return Snapshot{sections: copied}, nil
}

// MustSnapshot is like NewSnapshot but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustSnapshot(sections ...Section) Snapshot {
	s, err := NewSnapshot(sections...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of sections.
func (s Snapshot) Len() int {
	return len(s.sections)
}

// IsEmpty reports whether the snapshot has no sections.
func (s Snapshot) IsEmpty() bool {
	return len(s.sections) == 0
}

// Section returns a copy of the section at index i.
func (s Snapshot) Section(i int) Section {
	return s.sections[i].clone()
}

// Metadata returns the metadata of the section at index i.
func (s Snapshot) Metadata(i int) SectionMetadata {
	return s.sections[i].Metadata
}

// Sections returns a copy of all sections.
func (s Snapshot) Sections() []Section {
	out := make([]Section, len(s.sections))
	for i, sec := range s.sections {
		out[i] = sec.clone()
	}
	return out
}

// ItemCount returns the number of items in section i.
func (s Snapshot) ItemCount(section int) int {
	return len(s.sections[section].Items)
}

// Item returns the item at (section, index).
func (s Snapshot) Item(section, index int) Item {
	return s.sections[section].Items[index]
}

// TotalItems returns the number of items across all sections.
func (s Snapshot) TotalItems() int {
	n := 0
	for _, sec := range s.sections {
		n += len(sec.Items)
	}
	return n
}

// Equal reports observable equality: same section metadata and the same
// item identities in the same order. Item content is not compared.
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s.sections) != len(other.sections) {
		return false
	}
	for i := range s.sections {
		a, b := s.sections[i], other.sections[i]
		if a.Metadata != b.Metadata || len(a.Items) != len(b.Items) {
			return false
		}
		for j := range a.Items {
			if a.Items[j].Identity() != b.Items[j].Identity() {
				return false
			}
		}
	}
	return true
}

// Outline returns section identities mapped to their ordered item
// identities. Used by tests, traces and CLI output.
func (s Snapshot) Outline() []SectionOutline {
	out := make([]SectionOutline, len(s.sections))
	for i, sec := range s.sections {
		ids := make([]string, len(sec.Items))
		for j, item := range sec.Items {
			ids[j] = item.Identity()
		}
		out[i] = SectionOutline{Section: sec.Metadata.Identity(), Title: sec.Metadata.Title, Items: ids}
	}
	return out
}

// SectionOutline is the identity-only view of one section.
type SectionOutline struct {
	Section string   `json:"section"`
	Title   string   `json:"title"`
	Items   []string `json:"items"`
}
