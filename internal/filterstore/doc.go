// Package filterstore persists product filter selections in SQLite.
//
// It is the reference implementation of filter.Storage. Each (city,
// category) pair owns one filter row; selected components hang off it and
// are removed with it.
package filterstore
