// ABOUTME: ReaderSession wires ingestion, pagination, annotation and narration
// ABOUTME: Owns debounced resize and position autosave, keyboard and swipe input

package reader

import (
	"context"
	"encoding/json"
	"math"
	"sync"
	"time"

	"reader-app-core/core/anchor"
	"reader-app-core/core/annotation"
	"reader-app-core/core/dom"
	"reader-app-core/core/domain"
	"reader-app-core/core/ingest"
	"reader-app-core/core/interfaces"
	"reader-app-core/core/narration"
	"reader-app-core/core/pagination"
)

const historyKeyPrefix = "history:"

// mirrorTTL matches the annotation mirror's retention.
const mirrorTTL = 30 * 24 * time.Hour

// Config holds the session timing knobs. Zero fields take defaults.
type Config struct {
	// ResizeDebounce delays recompute while resize events stream in.
	ResizeDebounce time.Duration

	// SaveDebounce delays position persistence while the user is still
	// flipping.
	SaveDebounce time.Duration
}

func (c *Config) applyDefaults() {
	if c.ResizeDebounce == 0 {
		c.ResizeDebounce = 150 * time.Millisecond
	}
	if c.SaveDebounce == 0 {
		c.SaveDebounce = 1500 * time.Millisecond
	}
}

// Session is the top-level orchestrator for one open document. It owns the
// load/teardown lifecycle and routes user input to the engines; every engine
// stays usable on its own for tests.
type Session struct {
	mu sync.Mutex

	deps      interfaces.Dependencies
	cfg       Config
	ingestor  *ingest.Service
	pages     *pagination.Engine
	marks     *annotation.Service
	narration *narration.Engine

	doc     *dom.Document
	content *domain.ContentDocument
	stats   Stats

	// pendingRestore is set when the initial layout deferred on an
	// unmeasurable surface; the saved position restores after the first
	// successful recompute, before any position save may run.
	pendingRestore bool

	resizeTimer *time.Timer
	saveTimer   *time.Timer

	// onSidebar is invoked for the annotation sidebar toggle shortcut.
	onSidebar func()
}

// NewSession assembles a session over the given engines. Recompute passes
// re-render annotation marks; narration flips pages to keep the spoken
// sentence visible.
func NewSession(
	deps interfaces.Dependencies,
	cfg Config,
	ingestor *ingest.Service,
	pages *pagination.Engine,
	marks *annotation.Service,
	voice *narration.Engine,
) *Session {
	cfg.applyDefaults()
	s := &Session{
		deps:      deps,
		cfg:       cfg,
		ingestor:  ingestor,
		pages:     pages,
		marks:     marks,
		narration: voice,
	}

	pages.OnRecompute(func() {
		marks.Reapply()
	})
	voice.SetVisibilityTest(s.rangeVisible)
	voice.OnSentence(func(_ int, r dom.Range, mapped bool) {
		if mapped {
			s.pages.FlipToNode(r.StartNode)
		}
	})
	return s
}

// OnSidebarToggle registers the sidebar shortcut handler.
func (s *Session) OnSidebarToggle(fn func()) {
	s.mu.Lock()
	s.onSidebar = fn
	s.mu.Unlock()
}

// Open ingests a file, mounts it as the live document, lays it out, and
// restores the saved reading position. Any previously open document is torn
// down before ingestion begins.
func (s *Session) Open(ctx context.Context, filename string, data []byte) error {
	s.Close(ctx)
	content, err := s.ingestor.IngestFile(ctx, filename, data)
	if err != nil {
		return err
	}
	return s.mount(ctx, content)
}

// OpenFetched mounts already-extracted article content, e.g. a library
// article or a reader-view fetch. The previous document tears down first.
func (s *Session) OpenFetched(ctx context.Context, title, contentHTML, sourceURL string) error {
	s.Close(ctx)
	content, err := s.ingestor.IngestFetched(ctx, title, contentHTML, sourceURL)
	if err != nil {
		return err
	}
	return s.mount(ctx, content)
}

func (s *Session) mount(ctx context.Context, content *domain.ContentDocument) error {
	doc, err := dom.Parse(content.ContentHTML)
	if err != nil {
		return err
	}
	anchor.HardenExternalLinks(doc)

	s.mu.Lock()
	s.doc = doc
	s.content = content
	s.stats = ComputeStats(doc.Text())
	s.mu.Unlock()

	s.marks.SetDocument(ctx, doc, content.IdentityKey(), content.HasRemoteIdentity())
	s.narration.SetDocument(doc)

	s.pages.Reset()
	if err := s.pages.Recompute(); err != nil {
		// Surface not measurable yet; the first successful recompute
		// restores the saved position instead of scheduling a save.
		s.mu.Lock()
		s.pendingRestore = true
		s.mu.Unlock()
		s.deps.Logger.Debug("initial layout deferred", map[string]interface{}{
			"document": content.IdentityKey(),
		})
		return nil
	}
	s.restorePosition(ctx)
	return nil
}

// Close tears the current document down: narration cancels synchronously,
// marks clear, pending timers stop, and the position flushes immediately.
func (s *Session) Close(ctx context.Context) {
	s.mu.Lock()
	hadDoc := s.doc != nil
	if s.resizeTimer != nil {
		s.resizeTimer.Stop()
		s.resizeTimer = nil
	}
	if s.saveTimer != nil {
		s.saveTimer.Stop()
		s.saveTimer = nil
	}
	s.mu.Unlock()

	if !hadDoc {
		return
	}
	s.narration.Stop()
	s.flushPosition(ctx)
	s.marks.Clear()

	s.mu.Lock()
	s.doc = nil
	s.content = nil
	s.stats = Stats{}
	s.pendingRestore = false
	s.mu.Unlock()
}

// Document returns the live DOM document, or nil when nothing is open.
func (s *Session) Document() *dom.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// Stats returns the word count and reading time of the open document.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// OnResize notes a viewport size change. Recompute runs once the stream of
// resize events settles.
func (s *Session) OnResize(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resizeTimer != nil {
		s.resizeTimer.Stop()
	}
	s.resizeTimer = time.AfterFunc(s.cfg.ResizeDebounce, func() {
		s.recompute(ctx)
	})
}

// OnFontChanged recomputes immediately; font size changes reflow every page
// boundary and waiting would show a broken layout.
func (s *Session) OnFontChanged(ctx context.Context) {
	s.recompute(ctx)
}

// OnThemeChanged recomputes immediately. Themes can change padding and line
// height, not just colors.
func (s *Session) OnThemeChanged(ctx context.Context) {
	s.recompute(ctx)
}

func (s *Session) recompute(ctx context.Context) {
	if s.Document() == nil {
		return
	}
	if err := s.pages.Recompute(); err != nil {
		s.deps.Logger.Warn("layout recompute failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	s.mu.Lock()
	pending := s.pendingRestore
	s.pendingRestore = false
	s.mu.Unlock()
	if pending {
		// First successful layout after a deferred mount: restore the
		// saved position rather than persisting the default one.
		s.restorePosition(ctx)
		return
	}
	s.schedulePositionSave(ctx)
}

// NextPage, PrevPage, FirstPage and LastPage flip and schedule a position
// save when the page actually changed.
func (s *Session) NextPage(ctx context.Context) bool { return s.flip(ctx, s.pages.FlipNext) }
func (s *Session) PrevPage(ctx context.Context) bool { return s.flip(ctx, s.pages.FlipPrev) }
func (s *Session) FirstPage(ctx context.Context) bool { return s.flip(ctx, s.pages.FlipFirst) }
func (s *Session) LastPage(ctx context.Context) bool { return s.flip(ctx, s.pages.FlipLast) }

func (s *Session) flip(ctx context.Context, do func() bool) bool {
	if !do() {
		return false
	}
	s.schedulePositionSave(ctx)
	return true
}

// ToggleBookmark bookmarks the current page, or removes the bookmark when
// one exists. Reports whether a bookmark was added.
func (s *Session) ToggleBookmark(ctx context.Context) bool {
	page := s.pages.Page().CurrentPage + 1
	return s.marks.ToggleBookmark(ctx, page, "")
}

// KeyEvent is a keyboard event as delivered by the surface.
type KeyEvent struct {
	// Key is the logical key name: "ArrowRight", " ", "Home", "b", ...
	Key string

	// CtrlOrMeta is set when Control or Command is held.
	CtrlOrMeta bool

	// FromTextInput is set when a text field has focus; navigation
	// shortcuts must not steal keystrokes from it.
	FromTextInput bool
}

// HandleKey routes a keyboard event. Returns true when the event was
// consumed.
func (s *Session) HandleKey(ctx context.Context, ev KeyEvent) bool {
	if ev.FromTextInput || s.Document() == nil {
		return false
	}
	switch ev.Key {
	case "ArrowRight", "ArrowDown", "PageDown", " ":
		s.NextPage(ctx)
		return true
	case "ArrowLeft", "ArrowUp", "PageUp":
		s.PrevPage(ctx)
		return true
	case "Home":
		s.FirstPage(ctx)
		return true
	case "End":
		s.LastPage(ctx)
		return true
	case "b", "B":
		if ev.CtrlOrMeta {
			s.mu.Lock()
			fn := s.onSidebar
			s.mu.Unlock()
			if fn != nil {
				fn()
			}
			return true
		}
		s.ToggleBookmark(ctx)
		return true
	}
	return false
}

// swipeThresholdPx is the minimum horizontal travel for a swipe flip.
const swipeThresholdPx = 40.0

// HandleSwipe routes a completed touch gesture given its total deltas. A
// flip requires dominant horizontal travel past the threshold; anything else
// is left to scrolling.
func (s *Session) HandleSwipe(ctx context.Context, dx, dy float64) bool {
	if s.Document() == nil {
		return false
	}
	if math.Abs(dx) <= swipeThresholdPx || math.Abs(dx) <= math.Abs(dy) {
		return false
	}
	if dx < 0 {
		return s.NextPage(ctx)
	}
	return s.PrevPage(ctx)
}

// FollowLink resolves an internal href and flips to its target. Unresolvable
// targets are a silent no-op, matching link behavior elsewhere.
func (s *Session) FollowLink(ctx context.Context, href string) {
	doc := s.Document()
	if doc == nil {
		return
	}
	target := anchor.ResolveInternal(doc, href)
	if target == nil {
		return
	}
	if s.pages.FlipToNode(target) {
		s.schedulePositionSave(ctx)
	}
}

// rangeVisible reports whether a range starts on the current page.
func (s *Session) rangeVisible(r dom.Range) bool {
	page, ok := s.pages.PageForNode(r.StartNode)
	return ok && page == s.pages.Page().CurrentPage
}

func (s *Session) schedulePositionSave(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.content == nil {
		return
	}
	if s.saveTimer != nil {
		s.saveTimer.Stop()
	}
	s.saveTimer = time.AfterFunc(s.cfg.SaveDebounce, func() {
		s.flushPosition(ctx)
	})
}

// flushPosition writes the current position to the local mirror and, for
// documents with a remote identity, to the library backend. Mirror failures
// never block; they are logged and the mirror stays best-effort.
func (s *Session) flushPosition(ctx context.Context) {
	s.mu.Lock()
	content := s.content
	pending := s.pendingRestore
	if s.saveTimer != nil {
		s.saveTimer.Stop()
		s.saveTimer = nil
	}
	s.mu.Unlock()
	// Until the saved position has been restored there is nothing newer to
	// persist; writing now would clobber it.
	if content == nil || pending {
		return
	}

	page := s.pages.Page()
	pos := domain.ReadingPosition{
		Page:       page.CurrentPage + 1,
		TotalPages: page.TotalPages,
	}

	if s.deps.Cache != nil {
		if data, err := json.Marshal(pos); err == nil {
			if err := s.deps.Cache.Set(ctx, historyKeyPrefix+content.IdentityKey(), data, mirrorTTL); err != nil {
				s.deps.Logger.Warn("position mirror write failed", map[string]interface{}{
					"key":   historyKeyPrefix + content.IdentityKey(),
					"error": err.Error(),
				})
			}
		}
	}

	if content.HasRemoteIdentity() && s.deps.Persistence != nil && s.deps.Auth != nil {
		if _, ok := s.deps.Auth.Current(); ok {
			if err := s.deps.Persistence.SavePosition(ctx, content.RemoteID, pos); err != nil {
				s.deps.Logger.Warn("position save failed", map[string]interface{}{
					"document": content.RemoteID,
					"error":    err.Error(),
				})
			}
		}
	}
}

// restorePosition reads the saved position and flips to it. When the page
// count changed since the save, the position maps proportionally so a
// half-read book reopens near the middle.
func (s *Session) restorePosition(ctx context.Context) {
	s.mu.Lock()
	content := s.content
	s.mu.Unlock()
	if content == nil || s.deps.Cache == nil {
		return
	}

	data, err := s.deps.Cache.Get(ctx, historyKeyPrefix+content.IdentityKey())
	if err != nil || data == nil {
		return
	}
	var pos domain.ReadingPosition
	if err := json.Unmarshal(data, &pos); err != nil {
		return
	}
	if pos.Page < 1 || pos.TotalPages < 1 {
		return
	}

	total := s.pages.Page().TotalPages
	target := pos.Page - 1
	if pos.TotalPages != total {
		ratio := float64(pos.Page-1) / float64(pos.TotalPages)
		target = int(math.Round(ratio * float64(total)))
	}
	s.pages.FlipTo(target)
}
