// ABOUTME: Hand-written mocks for annotation service tests
// ABOUTME: Map-backed cache plus function-field persistence and auth fakes

package annotation

import (
	"context"
	"errors"
	"time"

	"reader-app-core/core/domain"
	"reader-app-core/core/interfaces"
)

type mockLogger struct {
	warns []string
}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) {}
func (m *mockLogger) Info(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Warn(msg string, fields map[string]interface{}) {
	m.warns = append(m.warns, msg)
}
func (m *mockLogger) Error(msg string, fields map[string]interface{}) {}

type mockCache struct {
	data   map[string][]byte
	setErr error
}

func newMockCache() *mockCache {
	return &mockCache{data: map[string][]byte{}}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, errors.New("key not found")
	}
	return v, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

type mockPersistence struct {
	createHighlightFunc func(ctx context.Context, documentID string, h domain.Highlight) (string, error)
	updateNoteFunc      func(ctx context.Context, id, note string) error
	deleteHighlightFunc func(ctx context.Context, id string) error
	listHighlightsFunc  func(ctx context.Context, documentID string) ([]domain.Highlight, error)
	createBookmarkFunc  func(ctx context.Context, documentID string, b domain.Bookmark) (string, error)
	deleteBookmarkFunc  func(ctx context.Context, id string) error
	listBookmarksFunc   func(ctx context.Context, documentID string) ([]domain.Bookmark, error)
	savePositionFunc    func(ctx context.Context, documentID string, pos domain.ReadingPosition) error
}

func (m *mockPersistence) CreateHighlight(ctx context.Context, documentID string, h domain.Highlight) (string, error) {
	if m.createHighlightFunc != nil {
		return m.createHighlightFunc(ctx, documentID, h)
	}
	return "", nil
}

func (m *mockPersistence) UpdateHighlightNote(ctx context.Context, id, note string) error {
	if m.updateNoteFunc != nil {
		return m.updateNoteFunc(ctx, id, note)
	}
	return nil
}

func (m *mockPersistence) DeleteHighlight(ctx context.Context, id string) error {
	if m.deleteHighlightFunc != nil {
		return m.deleteHighlightFunc(ctx, id)
	}
	return nil
}

func (m *mockPersistence) ListHighlights(ctx context.Context, documentID string) ([]domain.Highlight, error) {
	if m.listHighlightsFunc != nil {
		return m.listHighlightsFunc(ctx, documentID)
	}
	return nil, nil
}

func (m *mockPersistence) CreateBookmark(ctx context.Context, documentID string, b domain.Bookmark) (string, error) {
	if m.createBookmarkFunc != nil {
		return m.createBookmarkFunc(ctx, documentID, b)
	}
	return "", nil
}

func (m *mockPersistence) DeleteBookmark(ctx context.Context, id string) error {
	if m.deleteBookmarkFunc != nil {
		return m.deleteBookmarkFunc(ctx, id)
	}
	return nil
}

func (m *mockPersistence) ListBookmarks(ctx context.Context, documentID string) ([]domain.Bookmark, error) {
	if m.listBookmarksFunc != nil {
		return m.listBookmarksFunc(ctx, documentID)
	}
	return nil, nil
}

func (m *mockPersistence) SavePosition(ctx context.Context, documentID string, pos domain.ReadingPosition) error {
	if m.savePositionFunc != nil {
		return m.savePositionFunc(ctx, documentID, pos)
	}
	return nil
}

type mockAuth struct {
	session interfaces.Session
	ok      bool
}

func (m *mockAuth) Current() (interfaces.Session, bool) {
	return m.session, m.ok
}

type mockNotifier struct {
	messages []string
}

func (m *mockNotifier) Notify(message string, severity interfaces.Severity) {
	m.messages = append(m.messages, message)
}
