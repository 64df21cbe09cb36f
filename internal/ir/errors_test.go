package ir

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsProjectionDesync(t *testing.T) {
	err := NewItemOutOfRangeError(RemoveItem(0, 5), 5, 1, 3)
	wrapped := fmt.Errorf("apply batch: %w", err)

	assert.True(t, IsProjectionDesync(wrapped))
	assert.False(t, IsInvalidSnapshot(wrapped))
	assert.Equal(t, "ITEM_OUT_OF_RANGE: item index 5 out of range (op=RemoveItem(0,5), sections=1, items=3)", err.Error())
}

func TestIsInvalidSnapshot(t *testing.T) {
	err := NewDuplicateSectionError("primary/Drinks", 0, 1)
	assert.True(t, IsInvalidSnapshot(fmt.Errorf("build: %w", err)))
	assert.False(t, IsProjectionDesync(err))
	assert.False(t, IsInvalidSnapshot(nil))
}

func TestSectionOutOfRangeError(t *testing.T) {
	err := NewSectionOutOfRangeError(RemoveSection(4), 4, 2)
	assert.Equal(t, ErrCodeSectionOutOfRange, err.Code)
	assert.Equal(t, -1, err.Items)
	assert.Contains(t, err.Error(), "section index 4")
}

func TestSnapshotMismatchError(t *testing.T) {
	err := NewSnapshotMismatchError(EditOp{}, 3)
	assert.True(t, IsProjectionDesync(err))
	assert.Equal(t, ErrCodeSnapshotMismatch, err.Code)
	assert.Contains(t, err.Error(), "sections=3")
}
