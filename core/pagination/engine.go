// ABOUTME: Pagination engine: multi-column layout over the content container
// ABOUTME: Owns PageState; every layout-affecting change funnels through Recompute

package pagination

import (
	"errors"
	"math"
	"sync"
	"time"

	"golang.org/x/net/html"

	"reader-app-core/core/domain"
	"reader-app-core/core/interfaces"
)

// ErrNotMeasurable is returned when the viewport has zero width or height
// (not yet attached). The engine aborts without mutating state; callers retry
// after layout attachment.
var ErrNotMeasurable = errors.New("pagination: viewport is not measurable")

// State is the engine's lifecycle state.
type State int

const (
	StateIdle State = iota
	StateMeasuring
	StateReady
)

func (s State) String() string {
	switch s {
	case StateMeasuring:
		return "measuring"
	case StateReady:
		return "ready"
	default:
		return "idle"
	}
}

// Surface is the rendering surface the engine lays out against: the far side
// is a browser viewport and the content container element; tests inject a
// fake. Reads of viewport metrics and scroll width are the only geometry the
// engine trusts.
type Surface interface {
	// ViewportSize returns the viewport box in CSS pixels. Zero values mean
	// the surface is not attached yet.
	ViewportSize() (width, height float64)

	// LineHeight returns the effective line height in pixels computed from
	// the current font settings.
	LineHeight() float64

	// SidePadding returns the computed left/right container padding.
	// ok=false means unset; the engine falls back to its default.
	SidePadding() (left, right float64, ok bool)

	// ColumnGap returns the computed inter-column gap.
	ColumnGap() float64

	// ApplyGeometry writes the computed geometry to the container.
	ApplyGeometry(g Geometry)

	// ContentScrollWidth forces a layout flush and reads the container's
	// total scroll width.
	ContentScrollWidth() float64

	// ElementOffsetLeft returns an element's horizontal offset within the
	// container, for internal-link page resolution.
	ElementOffsetLeft(n *html.Node) (float64, bool)

	// Translate moves the container to show a page offset, optionally with
	// the eased flip transition.
	Translate(offsetPx float64, animated bool)

	// FlipCue triggers the directional shadow/curl visual for a flip.
	FlipCue(forward bool)
}

// Config holds the engine's layout constants.
type Config struct {
	// TopPadding is the fixed top padding in pixels.
	TopPadding float64

	// MinBottomPadding is the smallest allowed bottom padding; the actual
	// bottom padding grows to absorb the line-height remainder.
	MinBottomPadding float64

	// DefaultSidePadding is used when the surface reports no computed
	// side padding.
	DefaultSidePadding float64

	// FlipDuration is how long a flip transition is considered in flight.
	FlipDuration time.Duration
}

func (c *Config) applyDefaults() {
	if c.TopPadding == 0 {
		c.TopPadding = 48
	}
	if c.MinBottomPadding == 0 {
		c.MinBottomPadding = 24
	}
	if c.DefaultSidePadding == 0 {
		c.DefaultSidePadding = 56
	}
	if c.FlipDuration == 0 {
		c.FlipDuration = 500 * time.Millisecond
	}
}

// Engine lays out the content container as CSS multi-column flow and exposes
// page-granular navigation over it. It is the hub: DOM mutation by the
// annotation layer or narration must survive or trigger a Recompute. Safe
// for concurrent use; debounced resize and save timers call in from their
// own goroutines.
type Engine struct {
	surface Surface
	logger  interfaces.Logger
	cfg     Config

	mu           sync.Mutex
	state        State
	page         domain.PageState
	flipDeadline time.Time

	// now is swapped by tests to control the flip in-flight window.
	now func() time.Time

	// onRecompute subscribers run after every successful measurement pass
	// (the annotation layer re-renders its marks here).
	onRecompute []func()
}

// NewEngine creates a pagination engine over the given surface. Zero config
// fields take the standard layout constants.
func NewEngine(surface Surface, logger interfaces.Logger, cfg Config) *Engine {
	cfg.applyDefaults()
	return &Engine{
		surface: surface,
		logger:  logger,
		cfg:     cfg,
		page:    domain.PageState{TotalPages: 1},
		now:     time.Now,
	}
}

// OnRecompute registers a callback invoked after every successful
// measurement pass. Callbacks must be idempotent: recomputes can fire in
// overlapping succession from resize and font-change events.
func (e *Engine) OnRecompute(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onRecompute = append(e.onRecompute, fn)
}

// State returns the engine lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Page returns a copy of the current page state.
func (e *Engine) Page() domain.PageState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.page
}

// Reset clears pagination for a fresh content load: only a content change
// resets the current page to 0.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = StateIdle
	e.page = domain.PageState{TotalPages: 1}
	e.flipDeadline = time.Time{}
}

// Recompute runs one measurement pass. It is synchronous and atomic from the
// caller's perspective: on success the engine is ready with fresh geometry
// and the current page clamped into range; on ErrNotMeasurable no state is
// mutated. Safe to call repeatedly.
func (e *Engine) Recompute() error {
	w, h := e.surface.ViewportSize()
	if w <= 0 || h <= 0 {
		return ErrNotMeasurable
	}
	lineHeight := e.surface.LineHeight()
	if lineHeight <= 0 {
		return ErrNotMeasurable
	}

	e.mu.Lock()
	e.state = StateMeasuring

	left, right, ok := e.surface.SidePadding()
	if !ok {
		left, right = e.cfg.DefaultSidePadding, e.cfg.DefaultSidePadding
	}

	g := computeGeometry(w, h, lineHeight, e.cfg.TopPadding, e.cfg.MinBottomPadding, left, right, e.surface.ColumnGap())
	e.surface.ApplyGeometry(g)

	scrollWidth := e.surface.ContentScrollWidth()

	e.page.ColumnWidthPx = g.ColumnWidth
	e.page.ColumnGapPx = g.ColumnGap
	e.page.TotalPages = pageCount(scrollWidth, g.ColumnWidth, g.ColumnGap)
	e.page.Clamp()

	// Snap to the (possibly re-clamped) current page without animation.
	e.surface.Translate(-e.page.PageOffsetPx(e.page.CurrentPage), false)
	e.state = StateReady

	total, current := e.page.TotalPages, e.page.CurrentPage
	subscribers := append([]func(){}, e.onRecompute...)
	e.mu.Unlock()

	e.logger.Debug("Pagination recomputed", map[string]interface{}{
		"totalPages":   total,
		"currentPage":  current,
		"columnWidth":  g.ColumnWidth,
		"linesPerPage": g.LinesPerPage,
	})

	// Subscribers run outside the lock: mark reapply and narration sync can
	// navigate back into the engine.
	for _, fn := range subscribers {
		fn()
	}
	return nil
}

// FlipTo navigates to a page. It is a no-op returning false while a flip is
// in flight, when the target is out of range, or when the target equals the
// current page. Rejected flips are not queued: users spamming navigation
// should track the last settled page.
func (e *Engine) FlipTo(page int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.flipTo(page)
}

// flipTo is the locked flip path; callers hold e.mu.
func (e *Engine) flipTo(page int) bool {
	if e.state != StateReady {
		return false
	}
	if e.now().Before(e.flipDeadline) {
		return false
	}
	if page < 0 || page >= e.page.TotalPages || page == e.page.CurrentPage {
		return false
	}

	e.surface.FlipCue(page > e.page.CurrentPage)
	e.page.CurrentPage = page
	e.surface.Translate(-e.page.PageOffsetPx(page), true)
	e.flipDeadline = e.now().Add(e.cfg.FlipDuration)
	return true
}

// FlipNext advances one page; a no-op on the last page.
func (e *Engine) FlipNext() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.flipTo(e.page.CurrentPage + 1)
}

// FlipPrev goes back one page; a no-op on the first page.
func (e *Engine) FlipPrev() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.flipTo(e.page.CurrentPage - 1)
}

// FlipFirst jumps to the first page.
func (e *Engine) FlipFirst() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.flipTo(0)
}

// FlipLast jumps to the last page.
func (e *Engine) FlipLast() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.flipTo(e.page.TotalPages - 1)
}

// PageForNode computes which page an element falls on from its horizontal
// offset within the container.
func (e *Engine) PageForNode(n *html.Node) (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pageForNode(n)
}

func (e *Engine) pageForNode(n *html.Node) (int, bool) {
	offset, ok := e.surface.ElementOffsetLeft(n)
	if !ok {
		return 0, false
	}
	stride := e.page.ColumnWidthPx + e.page.ColumnGapPx
	if stride <= 0 {
		return 0, false
	}
	page := int(math.Floor(offset / stride))
	if page < 0 {
		page = 0
	}
	if page >= e.page.TotalPages {
		page = e.page.TotalPages - 1
	}
	return page, true
}

// FlipToNode flips to the page containing the given element, used by
// internal-link navigation. Goes through the normal FlipTo path.
func (e *Engine) FlipToNode(n *html.Node) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	page, ok := e.pageForNode(n)
	if !ok {
		return false
	}
	return e.flipTo(page)
}
