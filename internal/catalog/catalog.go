package catalog

import (
	"fmt"

	"github.com/roach88/catalogsync/internal/filter"
	"github.com/roach88/catalogsync/internal/ir"
)

// Catalog is the decoded content of a catalog file.
type Catalog struct {
	Name       string             `json:"name,omitempty"`
	CityID     int64              `json:"city_id,omitempty"`
	CategoryID int64              `json:"category_id,omitempty"`
	Sections   []SectionSpec      `json:"sections"`
	Components []filter.Component `json:"components,omitempty"`
	Products   []filter.Product   `json:"products,omitempty"`
}

// SectionSpec is one section of a catalog file.
type SectionSpec struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Key   string `json:"key,omitempty"`
	Items []Item `json:"items"`
}

// Item is a catalog row. It is its own view-model.
type Item struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	Price    int64  `json:"price,omitempty"`
}

// Identity implements ir.Item.
func (i Item) Identity() string { return i.ID }

// Content implements ir.ContentItem.
func (i Item) Content() ir.IRObject {
	obj := ir.Object(ir.O("title", ir.IRString(i.Title)))
	if i.Subtitle != "" {
		obj["subtitle"] = ir.IRString(i.Subtitle)
	}
	if i.ImageURL != "" {
		obj["image_url"] = ir.IRString(i.ImageURL)
	}
	if i.Price != 0 {
		obj["price"] = ir.IRInt(i.Price)
	}
	return obj
}

// Snapshot builds the snapshot the catalog describes.
// Returns an *ir.InvalidSnapshotError for duplicate identities.
func (c *Catalog) Snapshot() (ir.Snapshot, error) {
	sections := make([]ir.Section, len(c.Sections))
	for i, spec := range c.Sections {
		typ, err := ir.ParseSectionType(spec.Type)
		if err != nil {
			return ir.Snapshot{}, fmt.Errorf("section %d: %w", i, err)
		}
		items := make([]ir.Item, len(spec.Items))
		for j, item := range spec.Items {
			items[j] = item
		}
		sections[i] = ir.NewSection(ir.SectionMetadata{Type: typ, Title: spec.Title, Key: spec.Key}, items...)
	}
	return ir.NewSnapshot(sections...)
}

// FilterComponents returns the origin set for a filter pipeline: the
// explicit components if any, otherwise the union of product components.
func (c *Catalog) FilterComponents() []filter.Component {
	if len(c.Components) > 0 {
		return c.Components
	}
	return filter.Union(c.Products)
}

// ProductSource exposes the catalog's products to filter.NewFromProducts.
// A catalog describes a single (city, category) pair; zero IDs in the file
// match any pair.
func (c *Catalog) ProductSource() filter.ProductSource {
	return productSource{c}
}

type productSource struct {
	c *Catalog
}

func (s productSource) Products(cityID, categoryID int64) []filter.Product {
	if s.c.CityID != 0 && s.c.CityID != cityID {
		return nil
	}
	if s.c.CategoryID != 0 && s.c.CategoryID != categoryID {
		return nil
	}
	return s.c.Products
}
