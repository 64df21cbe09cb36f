package ir

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes invariant violations.
type ErrorCode string

const (
	// ErrCodeDuplicateSection indicates two sections share an identity.
	ErrCodeDuplicateSection ErrorCode = "DUPLICATE_SECTION"

	// ErrCodeDuplicateItem indicates two items in one section share an identity.
	ErrCodeDuplicateItem ErrorCode = "DUPLICATE_ITEM"

	// ErrCodeNilItem indicates a section contains a nil item.
	ErrCodeNilItem ErrorCode = "NIL_ITEM"

	// ErrCodeSectionOutOfRange indicates an op addressed a missing section.
	ErrCodeSectionOutOfRange ErrorCode = "SECTION_OUT_OF_RANGE"

	// ErrCodeItemOutOfRange indicates an op addressed a missing item.
	ErrCodeItemOutOfRange ErrorCode = "ITEM_OUT_OF_RANGE"

	// ErrCodeUnknownOp indicates an op with an unknown kind.
	ErrCodeUnknownOp ErrorCode = "UNKNOWN_OP"

	// ErrCodeSnapshotMismatch indicates ops applied cleanly but did not
	// reproduce the event's snapshot.
	ErrCodeSnapshotMismatch ErrorCode = "SNAPSHOT_MISMATCH"
)

// InvalidSnapshotError reports a snapshot that violates identity uniqueness.
// It is raised by NewSnapshot, before the snapshot can reach the diff.
// Not recoverable locally: the producer must fix snapshot construction.
type InvalidSnapshotError struct {
	Code    ErrorCode
	Message string

	// Section is the identity of the offending section.
	Section string

	// Identity is the duplicated item identity (item-level errors only).
	Identity string

	// First and Second are the positions of the two conflicting entries.
	First  int
	Second int
}

// Error implements the error interface.
func (e *InvalidSnapshotError) Error() string {
	if e.Identity != "" {
		return fmt.Sprintf("%s: %s (section=%s, item=%s)", e.Code, e.Message, e.Section, e.Identity)
	}
	return fmt.Sprintf("%s: %s (section=%s)", e.Code, e.Message, e.Section)
}

// NewDuplicateSectionError creates an InvalidSnapshotError for a repeated
// section identity at positions first and second.
func NewDuplicateSectionError(section string, first, second int) *InvalidSnapshotError {
	return &InvalidSnapshotError{
		Code:    ErrCodeDuplicateSection,
		Message: fmt.Sprintf("section identity repeated at positions %d and %d", first, second),
		Section: section,
		First:   first,
		Second:  second,
	}
}

// NewDuplicateItemError creates an InvalidSnapshotError for a repeated item
// identity within one section.
func NewDuplicateItemError(section, item string, first, second int) *InvalidSnapshotError {
	return &InvalidSnapshotError{
		Code:     ErrCodeDuplicateItem,
		Message:  fmt.Sprintf("item identity repeated at positions %d and %d", first, second),
		Section:  section,
		Identity: item,
		First:    first,
		Second:   second,
	}
}

// NewNilItemError creates an InvalidSnapshotError for a nil item.
func NewNilItemError(section string, at int) *InvalidSnapshotError {
	return &InvalidSnapshotError{
		Code:    ErrCodeNilItem,
		Message: fmt.Sprintf("nil item at position %d", at),
		Section: section,
		First:   at,
		Second:  at,
	}
}

// ProjectionDesyncError reports an edit operation that references a
// position outside the mirror's current bounds. It means the ordering
// contract between store and projection was broken and every later index
// is meaningless; it must be logged, never silently ignored.
type ProjectionDesyncError struct {
	Code    ErrorCode
	Message string

	// Op is the offending operation.
	Op EditOp

	// Sections is the number of sections in the mirror when Op was applied.
	Sections int

	// Items is the item count of the addressed section, or -1 if the
	// section itself was out of range.
	Items int
}

// Error implements the error interface.
func (e *ProjectionDesyncError) Error() string {
	return fmt.Sprintf("%s: %s (op=%s, sections=%d, items=%d)", e.Code, e.Message, e.Op, e.Sections, e.Items)
}

// NewSectionOutOfRangeError creates a ProjectionDesyncError for a section index.
func NewSectionOutOfRangeError(op EditOp, index, sections int) *ProjectionDesyncError {
	return &ProjectionDesyncError{
		Code:     ErrCodeSectionOutOfRange,
		Message:  fmt.Sprintf("section index %d out of range", index),
		Op:       op,
		Sections: sections,
		Items:    -1,
	}
}

// NewItemOutOfRangeError creates a ProjectionDesyncError for an item index.
func NewItemOutOfRangeError(op EditOp, index, sections, items int) *ProjectionDesyncError {
	return &ProjectionDesyncError{
		Code:     ErrCodeItemOutOfRange,
		Message:  fmt.Sprintf("item index %d out of range", index),
		Op:       op,
		Sections: sections,
		Items:    items,
	}
}

// NewUnknownOpError creates a ProjectionDesyncError for an unrecognized kind.
func NewUnknownOpError(op EditOp, sections int) *ProjectionDesyncError {
	return &ProjectionDesyncError{
		Code:     ErrCodeUnknownOp,
		Message:  "unknown edit kind",
		Op:       op,
		Sections: sections,
		Items:    -1,
	}
}

// NewSnapshotMismatchError creates a ProjectionDesyncError for an op
// sequence whose result differs from the authoritative snapshot. Op is the
// last op of the sequence, or the zero op if the sequence was empty.
func NewSnapshotMismatchError(last EditOp, sections int) *ProjectionDesyncError {
	return &ProjectionDesyncError{
		Code:     ErrCodeSnapshotMismatch,
		Message:  "applied ops do not reproduce the published snapshot",
		Op:       last,
		Sections: sections,
		Items:    -1,
	}
}

// IsInvalidSnapshot returns true if err is or wraps an InvalidSnapshotError.
func IsInvalidSnapshot(err error) bool {
	var ise *InvalidSnapshotError
	return errors.As(err, &ise)
}

// IsProjectionDesync returns true if err is or wraps a ProjectionDesyncError.
func IsProjectionDesync(err error) bool {
	var pde *ProjectionDesyncError
	return errors.As(err, &pde)
}
