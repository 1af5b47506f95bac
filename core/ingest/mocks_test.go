// ABOUTME: Hand-written mocks for ingest service tests
// ABOUTME: Function-field mocks keep each test's behavior local to the test

package ingest

import (
	"context"

	"reader-app-core/core/interfaces"
)

type mockLogger struct{}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) {}
func (m *mockLogger) Info(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Warn(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Error(msg string, fields map[string]interface{}) {}

type mockRasterizer struct {
	renderFunc func(ctx context.Context, page []byte, scale float64) ([]byte, string, error)
}

func (m *mockRasterizer) RenderPage(ctx context.Context, page []byte, scale float64) ([]byte, string, error) {
	if m.renderFunc != nil {
		return m.renderFunc(ctx, page, scale)
	}
	return []byte("img"), "image/png", nil
}

type mockPrompter struct {
	promptFunc func(ctx context.Context, hint string) (string, bool)
}

func (m *mockPrompter) Prompt(ctx context.Context, hint string) (string, bool) {
	if m.promptFunc != nil {
		return m.promptFunc(ctx, hint)
	}
	return "", false
}

func testDeps() interfaces.Dependencies {
	return interfaces.Dependencies{Logger: &mockLogger{}}
}
