package extractor

import (
	"bytes"
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"github.com/simp-lee/epub"
	"golang.org/x/net/html"

	"github.com/dgallion1/booksum/internal/markdown"
	"github.com/dgallion1/booksum/internal/section"
)

// archive is the slice of an EPUB the resolver needs: resource reads by
// zip-internal path and the reading-order list of content resources.
type archive interface {
	ReadFile(name string) ([]byte, error)
	Spine() []string
}

// bookArchive adapts *epub.Book to the archive interface.
type bookArchive struct {
	book *epub.Book
}

func (a bookArchive) ReadFile(name string) ([]byte, error) {
	return a.book.ReadFile(name)
}

func (a bookArchive) Spine() []string {
	chapters := a.book.Chapters()
	hrefs := make([]string, 0, len(chapters))
	for _, ch := range chapters {
		hrefs = append(hrefs, ch.Href)
	}
	return hrefs
}

// epubChapter is one classified TOC entry with its resolved slice bounds.
// Next is the fragment of the next entry in the same resource; empty means
// the section runs to the end of the resource.
type epubChapter struct {
	Title string
	Base  string
	Frag  string
	Next  string
}

// EPUB extracts substantive chapters from an EPUB book by classifying its
// table of contents and slicing chapter fragments out of the underlying
// XHTML resources.
type EPUB struct {
	arc      archive
	book     *epub.Book
	chapters []epubChapter
	cfg      Config
	conv     *markdown.Converter
	log      *slog.Logger
}

// OpenEPUB opens the book at path and classifies its TOC. Failure to open or
// parse the container is fatal for the document.
func OpenEPUB(path string, cfg Config, log *slog.Logger) (*EPUB, error) {
	book, err := epub.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open epub: %w", err)
	}
	e := newEPUB(bookArchive{book: book}, fromTOCItems(book.TOC()), cfg, log)
	e.book = book
	return e, nil
}

// newEPUB builds the chapter list from an already-parsed TOC forest.
func newEPUB(arc archive, toc []section.TOCNode, cfg Config, log *slog.Logger) *EPUB {
	type entry struct {
		title, base, frag string
	}
	var kept []entry
	for _, t := range flattenTOC(toc) {
		if t.Href == "" {
			continue
		}
		if !IsContentTitle(t.Title) || IsNoiseRef(t.Href) {
			continue
		}
		base, frag := splitHref(t.Href)
		title := strings.TrimSpace(t.Title)
		if title == "" {
			title = "Capítulo"
		}
		kept = append(kept, entry{title: title, base: base, frag: frag})
	}

	chapters := make([]epubChapter, 0, len(kept))
	for i, en := range kept {
		next := ""
		for _, later := range kept[i+1:] {
			if later.base == en.base {
				next = later.frag
				break
			}
		}
		chapters = append(chapters, epubChapter{Title: en.title, Base: en.base, Frag: en.frag, Next: next})
	}

	return &EPUB{
		arc:      arc,
		chapters: chapters,
		cfg:      cfg.withDefaults(),
		conv:     markdown.NewConverter(),
		log:      log,
	}
}

// Sections yields the book's substantive chapters in TOC order, falling back
// to the whole book when none qualify.
func (e *EPUB) Sections() iter.Seq[section.Extracted] {
	return emitSections(e.rawSections(), e.fallbackText, e.conv, e.cfg, e.log)
}

func (e *EPUB) Close() error {
	if e.book != nil {
		return e.book.Close()
	}
	return nil
}

func (e *EPUB) rawSections() iter.Seq[section.Raw] {
	return func(yield func(section.Raw) bool) {
		for _, ch := range e.chapters {
			body := e.resolve(ch)
			if !yield(section.Raw{Title: ch.Title, Body: body, Level: section.LevelChapter}) {
				return
			}
		}
	}
}

// resolve loads the chapter's resource and slices out its fragment range.
// A chapter whose resource cannot be found resolves to empty content, which
// the shared policy then drops; one broken TOC entry never fails the book.
func (e *EPUB) resolve(ch epubChapter) string {
	content, ok := e.readResource(ch.Base)
	if !ok {
		e.log.Warn("resource not found", "href", ch.Base)
		return ""
	}
	body, err := sliceFragment(content, ch.Frag, ch.Next)
	if err != nil {
		e.log.Warn("fragment slice failed", "href", ch.Base, "fragment", ch.Frag, "error", err)
		return ""
	}
	return body
}

// readResource reads by exact path first, then retries with leading "./"
// noise stripped against the spine listing.
func (e *EPUB) readResource(base string) ([]byte, bool) {
	if data, err := e.arc.ReadFile(base); err == nil {
		return data, true
	}
	target := strings.TrimLeft(base, "./")
	for _, href := range e.arc.Spine() {
		if strings.TrimLeft(href, "./") == target {
			if data, err := e.arc.ReadFile(href); err == nil {
				return data, true
			}
		}
	}
	return nil, false
}

// fallbackText concatenates every reading-order content resource, for the
// books whose TOC yields no substantive chapters at all.
func (e *EPUB) fallbackText() string {
	var parts []string
	for _, href := range e.arc.Spine() {
		data, err := e.arc.ReadFile(href)
		if err != nil {
			continue
		}
		if htmlishPath(href) || bytes.Contains(data[:min(len(data), 200)], []byte("<")) {
			parts = append(parts, string(data))
		}
	}
	return strings.Join(parts, "\n")
}

func htmlishPath(href string) bool {
	h := strings.ToLower(href)
	return strings.HasSuffix(h, ".xhtml") || strings.HasSuffix(h, ".html") || strings.HasSuffix(h, ".htm")
}

// Tags stripped from resources before slicing; mirrors the markdown
// converter's skip list.
var skipTags = map[string]bool{
	"script": true,
	"style":  true,
	"nav":    true,
	"header": true,
	"footer": true,
}

// sliceFragment extracts the HTML between the anchor named frag and the
// anchor named next (exclusive). With no fragment, or when the anchor is
// missing, the whole cleaned resource is returned.
func sliceFragment(content []byte, frag, next string) (string, error) {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("parse resource: %w", err)
	}
	stripSkipTags(doc)

	var start *html.Node
	if frag != "" {
		start = findAnchor(doc, frag)
	}
	if start == nil {
		return renderNode(doc)
	}

	var sb strings.Builder

	// emit renders n unless the next-section boundary sits at or inside it;
	// when inside, only the part before the boundary is rendered. Returns
	// false once the boundary is reached.
	var emit func(n *html.Node) bool
	emit = func(n *html.Node) bool {
		if next != "" && anchorName(n) == next {
			return false
		}
		if next == "" || !containsAnchor(n, next) {
			html.Render(&sb, n)
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !emit(c) {
				return false
			}
		}
		return true
	}

	if !emit(start) {
		return sb.String(), nil
	}
	// Walk forward in document order: following siblings, then the
	// ancestors' following siblings.
	for cur := start; cur != nil; cur = cur.Parent {
		for sib := cur.NextSibling; sib != nil; sib = sib.NextSibling {
			if !emit(sib) {
				return sb.String(), nil
			}
		}
	}
	return sb.String(), nil
}

// stripSkipTags removes non-content elements from the parsed tree.
func stripSkipTags(n *html.Node) {
	var doomed []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && skipTags[c.Data] {
			doomed = append(doomed, c)
			continue
		}
		stripSkipTags(c)
	}
	for _, d := range doomed {
		n.RemoveChild(d)
	}
}

// anchorName returns the node's id, or name when id is absent.
func anchorName(n *html.Node) string {
	if n.Type != html.ElementNode {
		return ""
	}
	name := ""
	for _, a := range n.Attr {
		switch a.Key {
		case "id":
			return a.Val
		case "name":
			name = a.Val
		}
	}
	return name
}

func findAnchor(n *html.Node, frag string) *html.Node {
	if anchorName(n) == frag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findAnchor(c, frag); found != nil {
			return found
		}
	}
	return nil
}

func containsAnchor(n *html.Node, frag string) bool {
	return findAnchor(n, frag) != nil
}

func renderNode(n *html.Node) (string, error) {
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return "", fmt.Errorf("render resource: %w", err)
	}
	return sb.String(), nil
}
