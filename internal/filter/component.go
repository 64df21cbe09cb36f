package filter

import "slices"

// Component is one filterable product attribute (an ingredient, say).
// Components are equal when their IDs are.
type Component struct {
	ID    int64  `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
}

// Product is a catalog product and the components it is made of.
type Product struct {
	ID         int64       `json:"id" yaml:"id"`
	Title      string      `json:"title" yaml:"title"`
	Components []Component `json:"components" yaml:"components"`
}

// ProductSource supplies the products of one (city, category) pair.
// A nil or empty result yields an empty origin set.
type ProductSource interface {
	Products(cityID, categoryID int64) []Product
}

// Union collects the components of all products, deduplicated by ID.
// The first occurrence of an ID wins.
func Union(products []Product) []Component {
	var all []Component
	for _, p := range products {
		all = append(all, p.Components...)
	}
	return dedupe(all)
}

func dedupe(components []Component) []Component {
	seen := make(map[int64]bool, len(components))
	out := make([]Component, 0, len(components))
	for _, c := range components {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	return slices.Clip(out)
}
