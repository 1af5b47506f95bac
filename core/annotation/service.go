// ABOUTME: Service layer for highlight and bookmark lifecycle
// ABOUTME: Remote-first persistence with an always-current local mirror fallback

package annotation

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"reader-app-core/core/anchor"
	"reader-app-core/core/dom"
	"reader-app-core/core/domain"
	"reader-app-core/core/interfaces"
)

// Service owns the full lifecycle of highlights and bookmarks for the
// current document: creation, persistence, re-rendering after every
// pagination recompute, deletion, and note/label edits.
type Service struct {
	deps interfaces.Dependencies

	doc         *dom.Document
	docIdentity string
	remoteDoc   bool

	highlights []domain.Highlight
	bookmarks  []domain.Bookmark

	// position is the document-order index per highlight id, refreshed on
	// every re-render pass; unresolvable anchors sort last.
	position map[string]int

	newID func() string
	clock func() time.Time
}

// NewService creates an annotation service.
func NewService(deps interfaces.Dependencies) *Service {
	return &Service{
		deps:     deps,
		position: map[string]int{},
		newID:    uuid.NewString,
		clock:    time.Now,
	}
}

// SetDocument points the service at a freshly loaded document, loads its
// persisted annotations (remote when possible, local mirror otherwise), and
// renders the marks. Annotation data from the previous document is discarded.
func (s *Service) SetDocument(ctx context.Context, doc *dom.Document, identity string, remoteCapable bool) {
	s.doc = doc
	s.docIdentity = identity
	s.remoteDoc = remoteCapable
	s.highlights = nil
	s.bookmarks = nil
	s.position = map[string]int{}

	s.loadPersisted(ctx)
	s.Reapply()
}

// Clear drops all annotation state and marks, for session teardown.
func (s *Service) Clear() {
	if s.doc != nil {
		stripAllMarks(s.doc.Root())
	}
	s.doc = nil
	s.docIdentity = ""
	s.highlights = nil
	s.bookmarks = nil
	s.position = map[string]int{}
}

// CreateHighlight captures the given range as a highlight: serialize the
// anchor, persist, then visually wrap. The visual mark and the local mirror
// are applied before any remote confirmation; a failed remote write leaves
// the mirror as the durable source of truth.
func (s *Service) CreateHighlight(ctx context.Context, r dom.Range, color domain.HighlightColor, note string) (*domain.Highlight, error) {
	if !domain.ValidColor(color) {
		color = domain.ColorYellow
	}
	desc, err := anchor.Serialize(s.doc.Root(), r.Clone())
	if err != nil {
		return nil, err
	}

	h := domain.Highlight{
		ID:        s.newID(),
		Anchor:    desc,
		Color:     color,
		Note:      note,
		CreatedAt: s.clock(),
	}

	wrapRange(r, h.ID, h.Color)
	s.highlights = append(s.highlights, h)
	s.refreshPositions()
	s.mirrorHighlights(ctx)

	if s.canUseRemote() {
		serverID, err := s.deps.Persistence.CreateHighlight(ctx, s.docIdentity, h)
		if err != nil {
			s.deps.Logger.Warn("Remote highlight save failed, using local mirror", map[string]interface{}{
				"error": err.Error(),
			})
		} else if serverID != "" && serverID != h.ID {
			retagMarks(s.doc.Root(), h.ID, serverID)
			for i := range s.highlights {
				if s.highlights[i].ID == h.ID {
					s.highlights[i].ID = serverID
					break
				}
			}
			h.ID = serverID
			s.refreshPositions()
			s.mirrorHighlights(ctx)
		}
	}

	if s.deps.Notifier != nil {
		s.deps.Notifier.Notify("Highlight saved", interfaces.SeveritySuccess)
	}
	return &h, nil
}

// DeleteHighlight removes a highlight's marks, data, and persisted copies.
func (s *Service) DeleteHighlight(ctx context.Context, id string) {
	unwrapHighlight(s.doc.Root(), id)
	for i := range s.highlights {
		if s.highlights[i].ID == id {
			s.highlights = append(s.highlights[:i], s.highlights[i+1:]...)
			break
		}
	}
	delete(s.position, id)
	s.mirrorHighlights(ctx)

	if s.canUseRemote() {
		if err := s.deps.Persistence.DeleteHighlight(ctx, id); err != nil {
			s.deps.Logger.Warn("Remote highlight delete failed", map[string]interface{}{
				"highlightId": id,
				"error":       err.Error(),
			})
		}
	}
}

// UpdateNote edits the note attached to a highlight. The anchor is never
// touched by an edit.
func (s *Service) UpdateNote(ctx context.Context, id, note string) {
	for i := range s.highlights {
		if s.highlights[i].ID == id {
			s.highlights[i].Note = note
			break
		}
	}
	s.mirrorHighlights(ctx)

	if s.canUseRemote() {
		if err := s.deps.Persistence.UpdateHighlightNote(ctx, id, note); err != nil {
			s.deps.Logger.Warn("Remote note update failed", map[string]interface{}{
				"highlightId": id,
				"error":       err.Error(),
			})
		}
	}
}

// ToggleBookmark toggles the bookmark on a 1-based page number. Toggling an
// already-bookmarked page removes it. Returns true when a bookmark was added.
func (s *Service) ToggleBookmark(ctx context.Context, page int, label string) bool {
	for i := range s.bookmarks {
		if s.bookmarks[i].Page == page {
			removed := s.bookmarks[i]
			s.bookmarks = append(s.bookmarks[:i], s.bookmarks[i+1:]...)
			s.mirrorBookmarks(ctx)
			if s.canUseRemote() {
				if err := s.deps.Persistence.DeleteBookmark(ctx, removed.ID); err != nil {
					s.deps.Logger.Warn("Remote bookmark delete failed", map[string]interface{}{
						"bookmarkId": removed.ID,
						"error":      err.Error(),
					})
				}
			}
			return false
		}
	}

	b := domain.Bookmark{
		ID:        s.newID(),
		Page:      page,
		Label:     label,
		CreatedAt: s.clock(),
	}
	s.bookmarks = append(s.bookmarks, b)
	s.mirrorBookmarks(ctx)

	if s.canUseRemote() {
		serverID, err := s.deps.Persistence.CreateBookmark(ctx, s.docIdentity, b)
		if err != nil {
			s.deps.Logger.Warn("Remote bookmark save failed, using local mirror", map[string]interface{}{
				"error": err.Error(),
			})
		} else if serverID != "" {
			for i := range s.bookmarks {
				if s.bookmarks[i].ID == b.ID {
					s.bookmarks[i].ID = serverID
					break
				}
			}
			s.mirrorBookmarks(ctx)
		}
	}
	return true
}

// Bookmarked reports whether a page currently carries a bookmark.
func (s *Service) Bookmarked(page int) bool {
	for _, b := range s.bookmarks {
		if b.Page == page {
			return true
		}
	}
	return false
}

// Reapply strips every rendered mark and re-resolves each stored highlight
// against the now-current DOM. Unresolvable anchors are skipped, never
// deleted: they may resolve again after a future reflow. Idempotent: running
// it twice produces the same mark set as once.
func (s *Service) Reapply() {
	if s.doc == nil {
		return
	}
	root := s.doc.Root()
	stripAllMarks(root)
	for _, h := range s.highlights {
		r, ok := anchor.Resolve(root, h.Anchor)
		if !ok {
			s.deps.Logger.Debug("Highlight anchor did not resolve", map[string]interface{}{
				"highlightId": h.ID,
				"startPath":   h.Anchor.StartPath,
			})
			continue
		}
		wrapRange(r, h.ID, h.Color)
	}
	s.refreshPositions()
}

// ListHighlights returns highlights in document position order, optionally
// filtered by a case-insensitive substring match against the selected text
// and note.
func (s *Service) ListHighlights(filter string) []domain.Highlight {
	out := make([]domain.Highlight, 0, len(s.highlights))
	needle := strings.ToLower(filter)
	for _, h := range s.highlights {
		if needle != "" &&
			!strings.Contains(strings.ToLower(h.Anchor.LiteralText), needle) &&
			!strings.Contains(strings.ToLower(h.Note), needle) {
			continue
		}
		out = append(out, h)
	}
	sort.SliceStable(out, func(i, j int) bool {
		pi, iok := s.position[out[i].ID]
		pj, jok := s.position[out[j].ID]
		if iok != jok {
			return iok // resolvable anchors first
		}
		if !iok {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return pi < pj
	})
	return out
}

// ListBookmarks returns bookmarks in page order, optionally filtered by a
// case-insensitive substring match against the label and page text.
func (s *Service) ListBookmarks(filter string) []domain.Bookmark {
	out := make([]domain.Bookmark, 0, len(s.bookmarks))
	needle := strings.ToLower(filter)
	for _, b := range s.bookmarks {
		pageText := "page " + strconv.Itoa(b.Page)
		if needle != "" &&
			!strings.Contains(strings.ToLower(b.Label), needle) &&
			!strings.Contains(pageText, needle) {
			continue
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Page < out[j].Page })
	return out
}

// Highlight returns a stored highlight by id.
func (s *Service) Highlight(id string) (domain.Highlight, bool) {
	for _, h := range s.highlights {
		if h.ID == id {
			return h, true
		}
	}
	return domain.Highlight{}, false
}

func (s *Service) canUseRemote() bool {
	if !s.remoteDoc || s.deps.Persistence == nil || s.deps.Auth == nil {
		return false
	}
	_, ok := s.deps.Auth.Current()
	return ok
}

// loadPersisted fills the annotation sets from the remote backend when
// signed in, falling back to (and refreshing) the local mirror.
func (s *Service) loadPersisted(ctx context.Context) {
	if s.canUseRemote() {
		highlights, herr := s.deps.Persistence.ListHighlights(ctx, s.docIdentity)
		bookmarks, berr := s.deps.Persistence.ListBookmarks(ctx, s.docIdentity)
		if herr == nil && berr == nil {
			s.highlights = highlights
			s.bookmarks = bookmarks
			s.mirrorHighlights(ctx)
			s.mirrorBookmarks(ctx)
			return
		}
		s.deps.Logger.Warn("Remote annotation load failed, using local mirror", map[string]interface{}{
			"documentId": s.docIdentity,
		})
	}
	s.loadMirror(ctx)
}

func (s *Service) loadMirror(ctx context.Context) {
	if s.deps.Cache == nil {
		return
	}
	if data, err := s.deps.Cache.Get(ctx, "highlights:"+s.docIdentity); err == nil {
		var hs []domain.Highlight
		if json.Unmarshal(data, &hs) == nil {
			s.highlights = hs
		}
	}
	if data, err := s.deps.Cache.Get(ctx, "bookmarks:"+s.docIdentity); err == nil {
		var bs []domain.Bookmark
		if json.Unmarshal(data, &bs) == nil {
			s.bookmarks = bs
		}
	}
}

// mirrorHighlights writes the highlight set to the local mirror. Mirror
// write failures never block the user action; they are logged and the
// in-memory state stays authoritative for the session.
func (s *Service) mirrorHighlights(ctx context.Context) {
	if s.deps.Cache == nil {
		return
	}
	if data, err := json.Marshal(s.highlights); err == nil {
		if err := s.deps.Cache.Set(ctx, "highlights:"+s.docIdentity, data, 0); err != nil {
			s.deps.Logger.Warn("Highlight mirror write failed", map[string]interface{}{
				"key":   "highlights:" + s.docIdentity,
				"error": err.Error(),
			})
		}
	}
}

func (s *Service) mirrorBookmarks(ctx context.Context) {
	if s.deps.Cache == nil {
		return
	}
	if data, err := json.Marshal(s.bookmarks); err == nil {
		if err := s.deps.Cache.Set(ctx, "bookmarks:"+s.docIdentity, data, 0); err != nil {
			s.deps.Logger.Warn("Bookmark mirror write failed", map[string]interface{}{
				"key":   "bookmarks:" + s.docIdentity,
				"error": err.Error(),
			})
		}
	}
}

// refreshPositions recomputes the document-order index of each rendered
// highlight from its first mark.
func (s *Service) refreshPositions() {
	if s.doc == nil {
		return
	}
	s.position = map[string]int{}
	order := 0
	for _, mark := range findMarks(s.doc.Root(), "") {
		id, _ := dom.Attr(mark, highlightIDAttr)
		if _, seen := s.position[id]; !seen {
			s.position[id] = order
			order++
		}
	}
}
