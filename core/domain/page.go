// ABOUTME: PageState domain model holds derived pagination state
// ABOUTME: Recomputed on every layout change, current page clamped into range

package domain

// PageState is the derived, ephemeral pagination state. It is mutated by the
// pagination engine only; other subsystems read it.
type PageState struct {
	// CurrentPage is the 0-based index of the visible page
	CurrentPage int

	// TotalPages is the page count, always >= 1
	TotalPages int

	// ColumnWidthPx is the laid-out column width in CSS pixels
	ColumnWidthPx float64

	// ColumnGapPx is the inter-column gap in CSS pixels
	ColumnGapPx float64
}

// Clamp forces CurrentPage into [0, TotalPages-1]. TotalPages below 1 is
// raised to 1 so an empty document still has one page.
func (p *PageState) Clamp() {
	if p.TotalPages < 1 {
		p.TotalPages = 1
	}
	if p.CurrentPage < 0 {
		p.CurrentPage = 0
	}
	if p.CurrentPage >= p.TotalPages {
		p.CurrentPage = p.TotalPages - 1
	}
}

// OnFirstPage reports whether the backward affordance is at its boundary.
func (p *PageState) OnFirstPage() bool { return p.CurrentPage == 0 }

// OnLastPage reports whether the forward affordance is at its boundary.
func (p *PageState) OnLastPage() bool { return p.CurrentPage >= p.TotalPages-1 }

// PageOffsetPx returns the horizontal translation that shows the given page.
// The container is translated by the negative of this value.
func (p *PageState) PageOffsetPx(page int) float64 {
	return float64(page) * (p.ColumnWidthPx + p.ColumnGapPx)
}
