// Package catalog loads catalog files: ordered sections of items plus the
// filterable components of a (city, category) pair.
//
// Files are YAML (.yaml, .yml) or CUE (.cue). Either way the content is
// unified with the embedded #Catalog schema, so both formats are validated
// by the same rules, and then decoded.
package catalog
