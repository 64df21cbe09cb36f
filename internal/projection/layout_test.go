package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/catalogsync/internal/ir"
)

func TestRowHeight(t *testing.T) {
	featured := ir.SectionMetadata{Type: ir.SectionFeatured, Title: "Offers"}
	primary := ir.SectionMetadata{Type: ir.SectionPrimary, Title: "Pizza"}

	assert.Equal(t, 64.0, RowHeight(featured, false))
	assert.Equal(t, 64.0, RowHeight(featured, true))
	assert.Equal(t, 105.0, RowHeight(primary, false))
	assert.Equal(t, 90.0, RowHeight(primary, true))
}

func TestHeaderHeight(t *testing.T) {
	assert.Equal(t, 0.0, HeaderHeight(0))
	assert.Equal(t, 0.0, HeaderHeight(1))
	assert.Equal(t, 42.0, HeaderHeight(2))
}

func TestHeaderAndInsets(t *testing.T) {
	assert.Equal(t, "Pizza", HeaderTitle(ir.SectionMetadata{Title: "Pizza"}))
	assert.Greater(t, FooterHeight(), 0.0)

	assert.Equal(t, 18.0, HeaderLabelY(true))
	assert.Equal(t, 13.0, HeaderLabelY(false))

	assert.Equal(t, Insets{Top: 12, Bottom: 37}, ContentInsets(false, 49))
	assert.Equal(t, Insets{Top: 7, Bottom: -7}, ContentInsets(true, 0))
	assert.Equal(t, Insets{Bottom: 85}, ScrollIndicatorInsets())
}
