// Package filter implements the reactive filter pipeline behind the
// product-attribute filter page.
//
// A Pipeline holds a fixed origin set of components, established once at
// construction, and a live search query. Every query change re-derives the
// displayed list: normalize the query, filter by case-insensitive substring,
// sort by title, and map each component to a CellModel that can toggle its
// own inclusion in the persisted filter. The whole list is published at
// once; consumers never see a partially computed result.
//
// Persistence of selections is delegated to a Storage; navigation is
// delegated to a Router.
package filter
