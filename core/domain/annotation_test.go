package domain

import (
	"testing"
	"time"
)

func TestValidColor_AcceptsSupportedColors(t *testing.T) {
	colors := []HighlightColor{ColorYellow, ColorGreen, ColorBlue, ColorPink}
	for _, c := range colors {
		if !ValidColor(c) {
			t.Errorf("ValidColor(%q) = false, want true", c)
		}
	}
}

func TestValidColor_RejectsUnknownColor(t *testing.T) {
	if ValidColor(HighlightColor("crimson")) {
		t.Error("ValidColor should reject unknown colors")
	}
}

func TestHighlightValidate_RejectsEmptyID(t *testing.T) {
	h := Highlight{
		Color: ColorYellow,
		Anchor: AnchorDescriptor{
			StartPath: "p[1]/text()[1]",
			EndPath:   "p[1]/text()[1]",
		},
	}

	if err := h.Validate(); err == nil {
		t.Error("Validate should reject a highlight without an id")
	}
}

func TestHighlightValidate_RejectsInvalidColor(t *testing.T) {
	h := Highlight{
		ID:    "h1",
		Color: HighlightColor("mauve"),
		Anchor: AnchorDescriptor{
			StartPath: "p[1]/text()[1]",
			EndPath:   "p[1]/text()[1]",
		},
	}

	if err := h.Validate(); err == nil {
		t.Error("Validate should reject an unsupported color")
	}
}

func TestHighlightValidate_AcceptsCompleteHighlight(t *testing.T) {
	h := Highlight{
		ID:    "h1",
		Color: ColorGreen,
		Anchor: AnchorDescriptor{
			StartPath:   "p[1]/text()[1]",
			StartOffset: 0,
			EndPath:     "p[1]/text()[1]",
			EndOffset:   4,
			LiteralText: "text",
		},
		CreatedAt: time.Now(),
	}

	if err := h.Validate(); err != nil {
		t.Errorf("Validate returned error for valid highlight: %v", err)
	}
}

func TestAnchorValidate_RejectsEmptyPaths(t *testing.T) {
	a := AnchorDescriptor{StartPath: "", EndPath: "p[1]"}
	if err := a.Validate(); err == nil {
		t.Error("Validate should reject empty start path")
	}
}

func TestAnchorValidate_RejectsNegativeOffsets(t *testing.T) {
	a := AnchorDescriptor{
		StartPath:   "p[1]/text()[1]",
		EndPath:     "p[1]/text()[1]",
		StartOffset: -1,
	}
	if err := a.Validate(); err == nil {
		t.Error("Validate should reject negative offsets")
	}
}

func TestBookmarkValidate_RejectsZeroPage(t *testing.T) {
	b := Bookmark{ID: "b1", Page: 0}
	if err := b.Validate(); err == nil {
		t.Error("Validate should reject page 0; pages are 1-based")
	}
}

func TestBookmarkValidate_AcceptsValidBookmark(t *testing.T) {
	b := Bookmark{ID: "b1", Page: 3, Label: "chapter two"}
	if err := b.Validate(); err != nil {
		t.Errorf("Validate returned error for valid bookmark: %v", err)
	}
}
