// ABOUTME: Placement math for the floating color-choice popup
// ABOUTME: Anchored near the selection box, clamped to stay inside the viewport

package annotation

// Rect is an axis-aligned box in viewport coordinates.
type Rect struct {
	X, Y, W, H float64
}

// popupMargin keeps the popup off the exact selection edge.
const popupMargin = 8

// PopupPosition anchors the color-choice popup below the selection's
// bounding box, centered horizontally, and clamps it so it never leaves the
// viewport. When there is no room below, the popup flips above the selection.
func PopupPosition(selection Rect, popupW, popupH, viewportW, viewportH float64) (x, y float64) {
	x = selection.X + selection.W/2 - popupW/2
	y = selection.Y + selection.H + popupMargin

	if y+popupH > viewportH {
		y = selection.Y - popupH - popupMargin
	}
	if y < 0 {
		y = 0
	}
	if x < 0 {
		x = 0
	}
	if x+popupW > viewportW {
		x = viewportW - popupW
	}
	return x, y
}
