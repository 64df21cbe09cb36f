package filter

import (
	"context"
	"fmt"

	"github.com/roach88/catalogsync/internal/ir"
)

// CellModel is the displayable view-model of one component. It carries the
// (city, category) context it needs to act on the persisted filter itself.
//
// CellModel satisfies ir.ContentItem, so a filter list can be fed through a
// Store and Projection like any other section.
type CellModel struct {
	Component  Component
	CityID     int64
	CategoryID int64

	storage Storage
}

// Title returns the component title.
func (c *CellModel) Title() string {
	return c.Component.Title
}

// Key returns the filter key the cell acts on.
func (c *CellModel) Key() Key {
	return Key{CityID: c.CityID, CategoryID: c.CategoryID}
}

// Toggle flips the component's inclusion in the persisted filter.
func (c *CellModel) Toggle(ctx context.Context) (bool, error) {
	selected, err := c.storage.Toggle(ctx, c.Key(), c.Component.ID)
	if err != nil {
		return false, fmt.Errorf("toggle component %d: %w", c.Component.ID, err)
	}
	return selected, nil
}

// Selected reports whether the component is in the persisted filter.
func (c *CellModel) Selected(ctx context.Context) (bool, error) {
	selected, err := c.storage.Selected(ctx, c.Key(), c.Component.ID)
	if err != nil {
		return false, fmt.Errorf("read component %d: %w", c.Component.ID, err)
	}
	return selected, nil
}

// Identity implements ir.Item.
func (c *CellModel) Identity() string {
	return fmt.Sprintf("component/%d", c.Component.ID)
}

// Content implements ir.ContentItem.
func (c *CellModel) Content() ir.IRObject {
	return ir.Object(ir.O("title", ir.IRString(c.Component.Title)))
}
