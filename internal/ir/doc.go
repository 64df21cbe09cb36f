// Package ir provides the data model shared by every catalogsync package.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal. This keeps the snapshot model the
// foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Snapshots are immutable once constructed; NewSnapshot copies its input
//     and accessors return copies.
//   - Identity uniqueness (sections within a snapshot, items within a
//     section) is enforced at construction, never inside the diff.
//   - Item content equality is decided by canonical JSON fingerprints when
//     the item exposes its content, so recreated view-models with unchanged
//     content never produce updates.
//   - NO float types in IR values; use int64 (prices are minor units).
package ir
