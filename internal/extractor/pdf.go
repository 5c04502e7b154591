package extractor

import (
	"fmt"
	"iter"
	"log/slog"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/dgallion1/booksum/internal/markdown"
	"github.com/dgallion1/booksum/internal/section"
)

// PDF extracts chapters and substantial subchapters from a PDF, driven by
// the bookmark outline when it is reliable and by typographic heading
// detection otherwise.
type PDF struct {
	path  string
	file  *os.File
	r     *pdf.Reader
	spans []section.Span
	cfg   Config
	conv  *markdown.Converter
	log   *slog.Logger
}

// OpenPDF opens the document and computes its section spans. Only a document
// that cannot be opened or parsed at all returns an error.
func OpenPDF(path string, cfg Config, log *slog.Logger) (*PDF, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	p := &PDF{
		path: path,
		file: f,
		r:    r,
		cfg:  cfg.withDefaults(),
		conv: markdown.NewConverter(),
		log:  log,
	}

	chapters, subs := p.readOutline()
	total := r.NumPage()

	if len(chapters) > 0 && outlineReliable(chapters, total, p.cfg.MinOutlineScore, log) {
		p.spans = p.outlineSpans(chapters, subs, total)
	} else {
		if len(chapters) > 0 {
			log.Info("outline unreliable, falling back to typographic detection")
		}
		p.spans = typographicSpans(p.pageGlyphs(), total)
	}
	return p, nil
}

func (p *PDF) Close() error {
	return p.file.Close()
}

// Sections yields one Markdown section per span in page order, falling back
// to the full document text when nothing qualifies.
func (p *PDF) Sections() iter.Seq[section.Extracted] {
	return emitSections(p.rawSections(), p.fallbackText, p.conv, p.cfg, p.log)
}

func (p *PDF) rawSections() iter.Seq[section.Raw] {
	return func(yield func(section.Raw) bool) {
		for _, sp := range p.spans {
			text := p.spanText(sp)
			if strings.TrimSpace(text) == "" {
				continue
			}
			if !yield(section.Raw{Title: sp.Title, Body: text, Level: sp.Level}) {
				return
			}
		}
	}
}

func (p *PDF) fallbackText() string {
	return p.spanText(section.Span{StartPage: 0, EndPage: p.r.NumPage()})
}

// readOutline flattens the bookmark tree into top-level chapter marks plus
// depth-1 subchapter marks keyed by their chapter's start page. Deeper
// nesting is ignored. A document without bookmarks yields nothing; outline
// read failures are treated the same way rather than failing the document.
func (p *PDF) readOutline() ([]chapterMark, map[int][]chapterMark) {
	f, err := os.Open(p.path)
	if err != nil {
		return nil, nil
	}
	defer f.Close()

	bms, err := api.Bookmarks(f, model.NewDefaultConfiguration())
	if err != nil || len(bms) == 0 {
		return nil, nil
	}

	var chapters []chapterMark
	subs := make(map[int][]chapterMark)
	for _, bm := range bms {
		if bm.PageFrom < 1 {
			continue
		}
		start := bm.PageFrom - 1 // bookmarks are 1-based
		chapters = append(chapters, chapterMark{Title: bm.Title, Page: start})
		for _, kid := range bm.Kids {
			if kid.PageFrom < 1 {
				continue
			}
			subs[start] = append(subs[start], chapterMark{Title: kid.Title, Page: kid.PageFrom - 1})
		}
	}
	return chapters, subs
}

// outlineSpans builds the section list from a reliable outline: one level-2
// span per chapter, plus level-3 spans for the subchapters that pass the
// substantiality test. Trivial subsections stay folded into their chapter.
func (p *PDF) outlineSpans(chapters []chapterMark, subs map[int][]chapterMark, total int) []section.Span {
	var spans []section.Span
	for i, ch := range chapters {
		chapEnd := total
		if i+1 < len(chapters) {
			chapEnd = chapters[i+1].Page
		}
		chap := section.Span{
			Title:     cleanHeading(orDefault(ch.Title, fmt.Sprintf("Capítulo %d", i+1))),
			StartPage: ch.Page,
			EndPage:   chapEnd,
			Level:     section.LevelChapter,
		}
		spans = append(spans, chap)

		kids := subs[ch.Page]
		for j, sub := range kids {
			subEnd := chapEnd
			if j+1 < len(kids) {
				subEnd = kids[j+1].Page
			}
			sp := section.Span{
				Title:     cleanHeading(sub.Title),
				StartPage: sub.Page,
				EndPage:   subEnd,
				Level:     section.LevelSubchapter,
			}
			if p.substantial(sp, chap) {
				spans = append(spans, sp)
			}
		}
	}
	return spans
}

// substantial is the gate that keeps a subchapter worth summarizing on its
// own: enough pages, enough words, or a large enough share of its chapter.
func (p *PDF) substantial(sub, chap section.Span) bool {
	if sub.Pages() >= p.cfg.MinSubchapterPages {
		return true
	}
	if wordCount(p.spanText(sub)) >= p.cfg.MinSubchapterWords {
		return true
	}
	return chap.Pages() > 0 && float64(sub.Pages())/float64(chap.Pages()) >= p.cfg.MinSubchapterRatio
}

// spanText joins the plain text of the span's pages. Pages that fail to
// extract contribute nothing.
func (p *PDF) spanText(sp section.Span) string {
	var parts []string
	for i := sp.StartPage; i < sp.EndPage && i < p.r.NumPage(); i++ {
		if t := p.pageText(i); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}

// pageText extracts one page's text. The underlying reader panics on some
// malformed font programs; that is absorbed here so a single bad page only
// loses its own text.
func (p *PDF) pageText(idx int) (text string) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Warn("page text extraction panicked", "page", idx, "panic", r)
			text = ""
		}
	}()
	page := p.r.Page(idx + 1)
	if page.V.IsNull() {
		return ""
	}
	t, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return t
}

// pageGlyphs collects positioned glyph fragments for every page, feeding the
// typographic heading detector.
func (p *PDF) pageGlyphs() []pageGlyphs {
	pages := make([]pageGlyphs, p.r.NumPage())
	for i := range pages {
		pages[i] = p.glyphsFor(i)
	}
	return pages
}

func (p *PDF) glyphsFor(idx int) (pg pageGlyphs) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Warn("glyph extraction panicked", "page", idx, "panic", r)
			pg = pageGlyphs{}
		}
	}()
	page := p.r.Page(idx + 1)
	if page.V.IsNull() {
		return pageGlyphs{}
	}
	pg.Width = pageWidth(page)
	for _, t := range page.Content().Text {
		if t.S == "" || t.FontSize <= 0 {
			continue
		}
		pg.Glyphs = append(pg.Glyphs, glyph{
			Text: t.S,
			Size: t.FontSize,
			X0:   t.X,
			X1:   t.X + t.W,
			Top:  t.Y,
		})
	}
	return pg
}

// pageWidth reads the MediaBox width, walking up the page tree for
// inherited values.
func pageWidth(page pdf.Page) float64 {
	for v := page.V; !v.IsNull(); v = v.Key("Parent") {
		if mb := v.Key("MediaBox"); !mb.IsNull() && mb.Len() == 4 {
			return mb.Index(2).Float64() - mb.Index(0).Float64()
		}
	}
	return 612 // US Letter
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
