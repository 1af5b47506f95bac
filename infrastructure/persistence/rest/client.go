// ABOUTME: REST adapter for the library annotation and history backend
// ABOUTME: Flat wire schema with bearer auth from the active session

package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"reader-app-core/core/domain"
	coreerrors "reader-app-core/core/errors"
	"reader-app-core/core/interfaces"
)

// Client implements the Persistence interface against the library REST API.
type Client struct {
	baseURL string
	http    interfaces.HTTPClient
	auth    interfaces.AuthSession
	logger  interfaces.Logger
}

// NewClient creates a library persistence client. baseURL has no trailing
// slash.
func NewClient(baseURL string, httpClient interfaces.HTTPClient, auth interfaces.AuthSession, logger interfaces.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		auth:    auth,
		logger:  logger,
	}
}

// highlightDTO is the wire form of a highlight. The anchor is flattened;
// the backend stores it column per field.
type highlightDTO struct {
	ID           string    `json:"id,omitempty"`
	StartXPath   string    `json:"start_xpath"`
	StartOffset  int       `json:"start_offset"`
	EndXPath     string    `json:"end_xpath"`
	EndOffset    int       `json:"end_offset"`
	SelectedText string    `json:"selected_text"`
	Color        string    `json:"color"`
	Note         string    `json:"note,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

type bookmarkDTO struct {
	ID         string    `json:"id,omitempty"`
	PageNumber int       `json:"page_number"`
	Label      string    `json:"label,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

type positionDTO struct {
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
}

type idResponse struct {
	ID string `json:"id"`
}

// CreateHighlight stores a highlight and returns the server-assigned id.
func (c *Client) CreateHighlight(ctx context.Context, documentID string, h domain.Highlight) (string, error) {
	dto := highlightDTO{
		StartXPath:   h.Anchor.StartPath,
		StartOffset:  h.Anchor.StartOffset,
		EndXPath:     h.Anchor.EndPath,
		EndOffset:    h.Anchor.EndOffset,
		SelectedText: h.Anchor.LiteralText,
		Color:        string(h.Color),
		Note:         h.Note,
	}
	var out idResponse
	url := fmt.Sprintf("%s/documents/%s/highlights", c.baseURL, documentID)
	if err := c.call(ctx, http.MethodPost, url, dto, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", errors.New("backend returned no highlight id")
	}
	return out.ID, nil
}

// UpdateHighlightNote patches only the note; anchors are immutable.
func (c *Client) UpdateHighlightNote(ctx context.Context, id string, note string) error {
	url := fmt.Sprintf("%s/highlights/%s", c.baseURL, id)
	return c.call(ctx, http.MethodPatch, url, map[string]string{"note": note}, nil)
}

// DeleteHighlight removes a highlight.
func (c *Client) DeleteHighlight(ctx context.Context, id string) error {
	url := fmt.Sprintf("%s/highlights/%s", c.baseURL, id)
	return c.call(ctx, http.MethodDelete, url, nil, nil)
}

// ListHighlights returns all highlights stored for a document.
func (c *Client) ListHighlights(ctx context.Context, documentID string) ([]domain.Highlight, error) {
	var out struct {
		Highlights []highlightDTO `json:"highlights"`
	}
	url := fmt.Sprintf("%s/documents/%s/highlights", c.baseURL, documentID)
	if err := c.call(ctx, http.MethodGet, url, nil, &out); err != nil {
		return nil, err
	}

	highlights := make([]domain.Highlight, 0, len(out.Highlights))
	for _, dto := range out.Highlights {
		highlights = append(highlights, domain.Highlight{
			ID: dto.ID,
			Anchor: domain.AnchorDescriptor{
				StartPath:   dto.StartXPath,
				StartOffset: dto.StartOffset,
				EndPath:     dto.EndXPath,
				EndOffset:   dto.EndOffset,
				LiteralText: dto.SelectedText,
			},
			Color:     domain.HighlightColor(dto.Color),
			Note:      dto.Note,
			CreatedAt: dto.CreatedAt,
		})
	}
	return highlights, nil
}

// CreateBookmark stores a bookmark and returns the server-assigned id.
func (c *Client) CreateBookmark(ctx context.Context, documentID string, b domain.Bookmark) (string, error) {
	dto := bookmarkDTO{
		PageNumber: b.Page,
		Label:      b.Label,
	}
	var out idResponse
	url := fmt.Sprintf("%s/documents/%s/bookmarks", c.baseURL, documentID)
	if err := c.call(ctx, http.MethodPost, url, dto, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", errors.New("backend returned no bookmark id")
	}
	return out.ID, nil
}

// DeleteBookmark removes a bookmark.
func (c *Client) DeleteBookmark(ctx context.Context, id string) error {
	url := fmt.Sprintf("%s/bookmarks/%s", c.baseURL, id)
	return c.call(ctx, http.MethodDelete, url, nil, nil)
}

// ListBookmarks returns all bookmarks stored for a document.
func (c *Client) ListBookmarks(ctx context.Context, documentID string) ([]domain.Bookmark, error) {
	var out struct {
		Bookmarks []bookmarkDTO `json:"bookmarks"`
	}
	url := fmt.Sprintf("%s/documents/%s/bookmarks", c.baseURL, documentID)
	if err := c.call(ctx, http.MethodGet, url, nil, &out); err != nil {
		return nil, err
	}

	bookmarks := make([]domain.Bookmark, 0, len(out.Bookmarks))
	for _, dto := range out.Bookmarks {
		bookmarks = append(bookmarks, domain.Bookmark{
			ID:        dto.ID,
			Page:      dto.PageNumber,
			Label:     dto.Label,
			CreatedAt: dto.CreatedAt,
		})
	}
	return bookmarks, nil
}

// SavePosition stores the reading position for a document.
func (c *Client) SavePosition(ctx context.Context, documentID string, pos domain.ReadingPosition) error {
	dto := positionDTO{
		CurrentPage: pos.Page,
		TotalPages:  pos.TotalPages,
	}
	url := fmt.Sprintf("%s/documents/%s/position", c.baseURL, documentID)
	return c.call(ctx, http.MethodPut, url, dto, nil)
}

// call performs one authenticated JSON round-trip. A missing session is an
// error; callers gate remote access on AuthSession before reaching here.
func (c *Client) call(ctx context.Context, method, url string, payload interface{}, out interface{}) error {
	session, ok := c.auth.Current()
	if !ok {
		return errors.New("no active session")
	}

	var body io.Reader
	headers := map[string]string{
		"Authorization": "Bearer " + session.AccessToken,
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
		headers["Content-Type"] = "application/json"
	}

	resp, err := c.http.Do(ctx, method, url, body, headers)
	if err != nil {
		return err
	}
	defer resp.Body().Close()

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return &coreerrors.BackendError{
			StatusCode: resp.StatusCode(),
			Message:    http.StatusText(resp.StatusCode()),
			Endpoint:   fmt.Sprintf("%s %s", method, url),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body()).Decode(out); err != nil {
			return fmt.Errorf("failed to decode backend response: %w", err)
		}
	}
	return nil
}
