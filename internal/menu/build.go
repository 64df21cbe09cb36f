package menu

import (
	"fmt"
	"strconv"

	"github.com/roach88/catalogsync/internal/ir"
)

// Category is one menu category.
type Category struct {
	ID       int64  `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Subtitle string `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	ImageURL string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
}

// CategorySection groups categories under a title. Key, when set, is the
// section identity; otherwise type and title are.
type CategorySection struct {
	Type       ir.SectionType
	Title      string
	Key        string
	Categories []Category
}

// ItemCell is the view-model of one category row.
type ItemCell struct {
	Category Category
}

// Identity implements ir.Item. Cells for the same category share an
// identity however often they are rebuilt.
func (c ItemCell) Identity() string {
	return "category/" + strconv.FormatInt(c.Category.ID, 10)
}

// Content implements ir.ContentItem.
func (c ItemCell) Content() ir.IRObject {
	return ir.Object(
		ir.O("title", ir.IRString(c.Category.Title)),
		ir.O("subtitle", ir.IRString(c.Category.Subtitle)),
		ir.O("image_url", ir.IRString(c.Category.ImageURL)),
	)
}

// BuildSnapshot maps category sections to a snapshot, preserving order.
// Returns an *ir.InvalidSnapshotError if two sections share an identity or
// a section lists the same category twice.
func BuildSnapshot(sections []CategorySection) (ir.Snapshot, error) {
	out := make([]ir.Section, len(sections))
	for i, sec := range sections {
		items := make([]ir.Item, len(sec.Categories))
		for j, c := range sec.Categories {
			items[j] = ItemCell{Category: c}
		}
		out[i] = ir.NewSection(ir.SectionMetadata{Type: sec.Type, Title: sec.Title, Key: sec.Key}, items...)
	}
	snap, err := ir.NewSnapshot(out...)
	if err != nil {
		return ir.Snapshot{}, fmt.Errorf("build menu snapshot: %w", err)
	}
	return snap, nil
}
