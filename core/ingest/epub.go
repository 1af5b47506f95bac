// ABOUTME: EPUB ingestion: ZIP entries, OPF spine, transparent entry decryption
// ABOUTME: Chapters concatenate into divs keyed by data-epub-src for link routing

package ingest

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// epubArchive is an open EPUB with its decryption state.
type epubArchive struct {
	entries      map[string]*zip.File
	encryptedSet map[string]bool
	contentKey   []byte
}

// xmlContainer models META-INF/container.xml.
type xmlContainer struct {
	RootFiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

// xmlOPF models the subset of the OPF package document the pipeline needs.
type xmlOPF struct {
	Metadata struct {
		Titles []string `xml:"http://purl.org/dc/elements/1.1/ title"`
	} `xml:"metadata"`
	Manifest struct {
		Items []struct {
			ID        string `xml:"id,attr"`
			Href      string `xml:"href,attr"`
			MediaType string `xml:"media-type,attr"`
		} `xml:"item"`
	} `xml:"manifest"`
	Spine struct {
		ItemRefs []struct {
			IDRef string `xml:"idref,attr"`
		} `xml:"itemref"`
	} `xml:"spine"`
}

// ingestEPUB runs the full EPUB pipeline: DRM checks, LCP unlock, OPF spine
// walk, per-chapter body extraction, image inlining.
func (s *Service) ingestEPUB(ctx context.Context, filename string, data []byte) (title, contentHTML string, err error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", "", fmt.Errorf("ingest: open epub archive: %w", err)
	}

	arc := &epubArchive{
		entries:      make(map[string]*zip.File, len(zr.File)),
		encryptedSet: map[string]bool{},
	}
	for _, f := range zr.File {
		arc.entries[f.Name] = f
	}

	// DRM detection: Adobe rights without an LCP license is terminal.
	_, hasRights := arc.entries[rightsPath]
	_, hasLicense := arc.entries[licensePath]
	if hasRights && !hasLicense {
		return "", "", ErrDRMAdobe
	}

	if hasLicense {
		if err := s.unlockLCP(ctx, arc); err != nil {
			return "", "", err
		}
	}

	if encData, err := arc.read(encryptionPath); err == nil {
		arc.encryptedSet = parseEncryptedSet(encData)
	}

	opfPath, err := arc.opfPath()
	if err != nil {
		return "", "", err
	}
	opfData, err := arc.read(opfPath)
	if err != nil {
		return "", "", fmt.Errorf("ingest: read OPF: %w", err)
	}
	var opf xmlOPF
	if err := xml.Unmarshal(opfData, &opf); err != nil {
		return "", "", fmt.Errorf("ingest: parse OPF: %w", err)
	}

	manifest := make(map[string]struct{ href, mediaType string }, len(opf.Manifest.Items))
	for _, item := range opf.Manifest.Items {
		manifest[item.ID] = struct{ href, mediaType string }{item.Href, item.MediaType}
	}

	opfDir := dirOf(opfPath)
	var chapters strings.Builder
	chapterCount := 0
	for _, ref := range opf.Spine.ItemRefs {
		item, ok := manifest[ref.IDRef]
		if !ok || !isMarkupMediaType(item.mediaType) {
			continue
		}
		href := resolvePath(opfDir, item.href)
		body, err := arc.chapterBody(href)
		if err != nil {
			s.deps.Logger.Warn("Skipping unreadable epub chapter", map[string]interface{}{
				"href":  href,
				"error": err.Error(),
			})
			continue
		}
		if strings.TrimSpace(body) == "" {
			continue
		}
		// data-epub-src is load-bearing: it is the join key for internal
		// TOC and cross-reference navigation.
		chapters.WriteString(`<div class="epub-chapter" data-epub-src="`)
		chapters.WriteString(html.EscapeString(href))
		chapters.WriteString(`">`)
		chapters.WriteString(body)
		chapters.WriteString("</div>\n")
		chapterCount++
	}

	if chapterCount == 0 {
		return "", "", ErrExtractionEmpty
	}

	title = titleFromFilename(filename)
	if len(opf.Metadata.Titles) > 0 && strings.TrimSpace(opf.Metadata.Titles[0]) != "" {
		title = strings.TrimSpace(opf.Metadata.Titles[0])
	}
	return title, chapters.String(), nil
}

// unlockLCP parses the license, prompts for the passphrase, and derives the
// content key used for transparent entry decryption.
func (s *Service) unlockLCP(ctx context.Context, arc *epubArchive) error {
	licenseData, err := arc.read(licensePath)
	if err != nil {
		return fmt.Errorf("ingest: read LCP license: %w", err)
	}
	license, err := parseLicense(licenseData)
	if err != nil {
		return err
	}
	if s.prompter == nil {
		return ErrLCPCancelled
	}
	passphrase, ok := s.prompter.Prompt(ctx, license.Encryption.UserKey.TextHint)
	if !ok {
		return ErrLCPCancelled
	}
	key, err := deriveContentKey(license, passphrase)
	if err != nil {
		return err
	}
	arc.contentKey = key
	return nil
}

// read returns an entry's bytes, transparently decrypting entries listed in
// encryption.xml when a content key was derived.
func (a *epubArchive) read(path string) ([]byte, error) {
	f, ok := a.entries[path]
	if !ok {
		return nil, fmt.Errorf("ingest: %q not found in archive", path)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	if a.encryptedSet[path] && a.contentKey != nil {
		return decryptCBC(a.contentKey, data)
	}
	return data, nil
}

// opfPath locates the package document via container.xml.
func (a *epubArchive) opfPath() (string, error) {
	data, err := a.read("META-INF/container.xml")
	if err != nil {
		return "", fmt.Errorf("ingest: read container.xml: %w", err)
	}
	var c xmlContainer
	if err := xml.Unmarshal(data, &c); err != nil {
		return "", fmt.Errorf("ingest: parse container.xml: %w", err)
	}
	for _, rf := range c.RootFiles {
		if p := strings.TrimSpace(rf.FullPath); p != "" {
			return p, nil
		}
	}
	return "", fmt.Errorf("ingest: container.xml has no rootfile")
}

// chapterBody extracts the <body> inner HTML of a chapter, inlining images
// relative to the chapter's own directory.
func (a *epubArchive) chapterBody(href string) (string, error) {
	data, err := a.read(href)
	if err != nil {
		return "", err
	}
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("ingest: parse chapter %q: %w", href, err)
	}
	body := findBody(doc)
	if body == nil {
		return "", nil
	}
	a.inlineImages(body, dirOf(href))

	var buf bytes.Buffer
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return strings.TrimSpace(buf.String()), nil
}

// inlineImages rewrites every non-data <img src> under n into a data: URI,
// reading (and if needed decrypting) the image bytes from the archive.
// Unresolvable images are left untouched.
func (a *epubArchive) inlineImages(n *html.Node, baseDir string) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Img {
		for i, attr := range n.Attr {
			if attr.Key != "src" || strings.HasPrefix(attr.Val, "data:") {
				continue
			}
			path := resolvePath(baseDir, attr.Val)
			img, err := a.read(path)
			if err != nil {
				continue
			}
			n.Attr[i].Val = "data:" + mimeTypeForPath(path) + ";base64," +
				base64.StdEncoding.EncodeToString(img)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		a.inlineImages(c, baseDir)
	}
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

func isMarkupMediaType(mediaType string) bool {
	mt := strings.ToLower(mediaType)
	return strings.Contains(mt, "html") || strings.Contains(mt, "xml")
}

// dirOf returns the archive directory of a path, "" for root entries.
func dirOf(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[:i]
	}
	return ""
}

// resolvePath joins a relative href against a base directory, collapsing
// "." and ".." segments. EPUB hrefs always use forward slashes.
func resolvePath(baseDir, rel string) string {
	rel = strings.TrimPrefix(rel, "./")
	if strings.HasPrefix(rel, "/") {
		return strings.TrimPrefix(rel, "/")
	}
	var parts []string
	if baseDir != "" {
		parts = strings.Split(baseDir, "/")
	}
	for _, seg := range strings.Split(rel, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(parts) > 0 {
				parts = parts[:len(parts)-1]
			}
		default:
			parts = append(parts, seg)
		}
	}
	return strings.Join(parts, "/")
}

// mimeTypeForPath infers an image MIME type from the file extension,
// defaulting to image/png.
func mimeTypeForPath(path string) string {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".jpg"), strings.HasSuffix(lower, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(lower, ".gif"):
		return "image/gif"
	case strings.HasSuffix(lower, ".svg"):
		return "image/svg+xml"
	case strings.HasSuffix(lower, ".webp"):
		return "image/webp"
	default:
		return "image/png"
	}
}
