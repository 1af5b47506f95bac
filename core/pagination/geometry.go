// ABOUTME: Column geometry for the flipbook layout
// ABOUTME: Bottom padding absorbs the remainder so no line is cut mid-page

package pagination

import "math"

// Geometry is one measurement pass's layout decision, applied to the content
// container by the rendering surface.
type Geometry struct {
	ViewportWidth  float64
	ViewportHeight float64

	TopPad    float64
	BottomPad float64

	// LinesPerPage is the whole number of text lines that fit in the
	// content band.
	LinesPerPage int

	// ContentHeight is LinesPerPage * line-height: an exact integer
	// multiple so no line is ever cut mid-page.
	ContentHeight float64

	ColumnWidth float64
	ColumnGap   float64
}

// computeGeometry derives the column geometry from viewport metrics. The top
// padding is fixed; the bottom padding is whatever value makes the content
// band an exact integer multiple of the line height.
func computeGeometry(viewportW, viewportH, lineHeight, topPad, minBottomPad, leftPad, rightPad, gap float64) Geometry {
	linesPerPage := int(math.Floor((viewportH - topPad - minBottomPad) / lineHeight))
	if linesPerPage < 1 {
		linesPerPage = 1
	}
	contentHeight := float64(linesPerPage) * lineHeight

	return Geometry{
		ViewportWidth:  viewportW,
		ViewportHeight: viewportH,
		TopPad:         topPad,
		BottomPad:      viewportH - topPad - contentHeight,
		LinesPerPage:   linesPerPage,
		ContentHeight:  contentHeight,
		ColumnWidth:    viewportW - leftPad - rightPad,
		ColumnGap:      gap,
	}
}

// pageCount converts the container's total scroll width into a page count:
// scroll width divided by the column stride, rounded to the nearest integer,
// minimum 1.
func pageCount(scrollWidth, columnWidth, gap float64) int {
	stride := columnWidth + gap
	if stride <= 0 {
		return 1
	}
	pages := int(math.Round(scrollWidth / stride))
	if pages < 1 {
		return 1
	}
	return pages
}
