package projection

import (
	"math"

	"github.com/roach88/catalogsync/internal/ir"
)

// Layout constants of the menu list, in points.
const (
	RowMargin            = 10.0
	FeaturedRowHeight    = 54.0
	PrimaryRowHeight     = 95.0
	CompactRowHeight     = 80.0
	SectionHeaderHeight  = 42.0
	HeaderLabelHeight    = 15.0
	ScrollIndicatorInset = 85.0
)

// Insets are edge insets of the list content.
type Insets struct {
	Top, Left, Bottom, Right float64
}

// RowHeight returns the height of a row in a section of the given kind.
// Compact layouts are used on small screens.
func RowHeight(meta ir.SectionMetadata, compact bool) float64 {
	if meta.Type == ir.SectionFeatured {
		return FeaturedRowHeight + RowMargin
	}
	if compact {
		return CompactRowHeight + RowMargin
	}
	return PrimaryRowHeight + RowMargin
}

// HeaderHeight returns the header height of a section with itemCount rows.
// Sections with a single row (or none) have no header.
func HeaderHeight(itemCount int) float64 {
	if itemCount > 1 {
		return SectionHeaderHeight
	}
	return 0
}

// HeaderTitle returns the text of a section header.
func HeaderTitle(meta ir.SectionMetadata) string {
	return meta.Title
}

// FooterHeight is the smallest positive height; zero would make the list
// fall back to its default footer.
func FooterHeight() float64 {
	return math.SmallestNonzeroFloat64
}

// Margin is the horizontal content margin.
func Margin(compact bool) float64 {
	if compact {
		return 7
	}
	return 12
}

// HeaderLabelY is the vertical offset of the title label inside a header.
func HeaderLabelY(compact bool) float64 {
	return SectionHeaderHeight - HeaderLabelHeight - 2 - Margin(compact)
}

// ContentInsets returns the list content insets above a tab bar of the
// given height.
func ContentInsets(compact bool, tabBarHeight float64) Insets {
	m := Margin(compact)
	return Insets{Top: m, Bottom: tabBarHeight - m}
}

// ScrollIndicatorInsets returns the insets of the scroll indicator.
func ScrollIndicatorInsets() Insets {
	return Insets{Bottom: ScrollIndicatorInset}
}
