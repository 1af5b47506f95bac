package domain

import "testing"

func TestClamp_RaisesTotalPagesToOne(t *testing.T) {
	p := PageState{CurrentPage: 0, TotalPages: 0}
	p.Clamp()

	if p.TotalPages != 1 {
		t.Errorf("TotalPages = %d, want 1", p.TotalPages)
	}
}

func TestClamp_ForcesCurrentPageIntoRange(t *testing.T) {
	p := PageState{CurrentPage: 9, TotalPages: 4}
	p.Clamp()

	if p.CurrentPage != 3 {
		t.Errorf("CurrentPage = %d, want 3", p.CurrentPage)
	}
}

func TestClamp_RaisesNegativeCurrentPage(t *testing.T) {
	p := PageState{CurrentPage: -2, TotalPages: 4}
	p.Clamp()

	if p.CurrentPage != 0 {
		t.Errorf("CurrentPage = %d, want 0", p.CurrentPage)
	}
}

func TestOnFirstPage_And_OnLastPage(t *testing.T) {
	p := PageState{CurrentPage: 0, TotalPages: 3}
	if !p.OnFirstPage() {
		t.Error("OnFirstPage should be true on page 0")
	}
	if p.OnLastPage() {
		t.Error("OnLastPage should be false on page 0 of 3")
	}

	p.CurrentPage = 2
	if p.OnFirstPage() {
		t.Error("OnFirstPage should be false on page 2")
	}
	if !p.OnLastPage() {
		t.Error("OnLastPage should be true on page 2 of 3")
	}
}

func TestPageOffsetPx_UsesColumnStride(t *testing.T) {
	p := PageState{ColumnWidthPx: 600, ColumnGapPx: 40}

	if got := p.PageOffsetPx(0); got != 0 {
		t.Errorf("PageOffsetPx(0) = %v, want 0", got)
	}
	if got := p.PageOffsetPx(2); got != 1280 {
		t.Errorf("PageOffsetPx(2) = %v, want 1280", got)
	}
}

func TestIdentityKey_PrefersRemoteID(t *testing.T) {
	d := ContentDocument{RemoteID: "article-7", ContentKey: "abc123"}
	if got := d.IdentityKey(); got != "article-7" {
		t.Errorf("IdentityKey() = %q, want %q", got, "article-7")
	}
}

func TestIdentityKey_FallsBackToContentKey(t *testing.T) {
	d := ContentDocument{ContentKey: "abc123"}
	if got := d.IdentityKey(); got != "abc123" {
		t.Errorf("IdentityKey() = %q, want %q", got, "abc123")
	}
}

func TestDocumentValidate_RequiresIdentity(t *testing.T) {
	d := ContentDocument{ContentHTML: "<p>hi</p>"}
	if err := d.Validate(); err == nil {
		t.Error("Validate should reject a document without any identity")
	}
}
