// Package extractor turns EPUB and PDF books into an ordered sequence of
// titled Markdown sections, deciding along the way which parts of the
// document are substantive content and which are front/back-matter noise.
package extractor

import (
	"fmt"
	"io"
	"iter"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dgallion1/booksum/internal/markdown"
	"github.com/dgallion1/booksum/internal/section"
)

// FallbackTitle is the synthetic section title used when a document cannot be
// split into qualifying sections and is summarized whole.
const FallbackTitle = "Libro completo"

// Config carries the sectioning thresholds. Zero values are replaced by the
// documented defaults.
type Config struct {
	// MinSectionWords drops any resolved section shorter than this many
	// words; short sections are assumed to be dedications and stubs.
	MinSectionWords int

	// Subchapter substantiality gates: a PDF subchapter is emitted only if it
	// spans MinSubchapterPages pages, or contains MinSubchapterWords words,
	// or covers MinSubchapterRatio of its parent chapter.
	MinSubchapterPages int
	MinSubchapterWords int
	MinSubchapterRatio float64

	// MinOutlineScore is how many of the five reliability signals a PDF
	// outline must satisfy to drive sectioning.
	MinOutlineScore int
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		MinSectionWords:    60,
		MinSubchapterPages: 3,
		MinSubchapterWords: 800,
		MinSubchapterRatio: 0.25,
		MinOutlineScore:    4,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MinSectionWords <= 0 {
		c.MinSectionWords = d.MinSectionWords
	}
	if c.MinSubchapterPages <= 0 {
		c.MinSubchapterPages = d.MinSubchapterPages
	}
	if c.MinSubchapterWords <= 0 {
		c.MinSubchapterWords = d.MinSubchapterWords
	}
	if c.MinSubchapterRatio <= 0 {
		c.MinSubchapterRatio = d.MinSubchapterRatio
	}
	if c.MinOutlineScore <= 0 {
		c.MinOutlineScore = d.MinOutlineScore
	}
	return c
}

// Extractor yields the substantive sections of one document in reading
// order. The sequence is finite and one-shot; re-open the document to
// iterate again.
type Extractor interface {
	Sections() iter.Seq[section.Extracted]
	io.Closer
}

// New opens the right extractor for the file's extension.
func New(path string, cfg Config, log *slog.Logger) (Extractor, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".epub":
		return OpenEPUB(path, cfg, log)
	case ".pdf":
		return OpenPDF(path, cfg, log)
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// emitSections applies the policy shared by both extractors: normalize each
// raw section to Markdown, drop the ones below the word minimum, and when
// nothing at all qualifies fall back to the whole document as one section.
// Per-section conversion failures are absorbed so one bad section never
// aborts the document.
func emitSections(raws iter.Seq[section.Raw], fallback func() string, conv *markdown.Converter, cfg Config, log *slog.Logger) iter.Seq[section.Extracted] {
	return func(yield func(section.Extracted) bool) {
		yielded := false

		for raw := range raws {
			md, ok := normalize(raw, conv, log)
			if !ok || wordCount(md) < cfg.MinSectionWords {
				continue
			}
			yielded = true
			if !yield(section.Extracted{Title: raw.Title, Markdown: md, Level: raw.Level}) {
				return
			}
		}

		if yielded {
			return
		}
		full := section.Raw{Title: FallbackTitle, Body: strings.TrimSpace(fallback()), Level: section.LevelChapter}
		if full.Body == "" {
			return
		}
		log.Info("no qualifying sections, summarizing whole document")
		if md, ok := normalize(full, conv, log); ok && md != "" {
			yield(section.Extracted{Title: full.Title, Markdown: md, Level: full.Level})
		}
	}
}

// normalize renders a raw section as Markdown, passing plain text through
// trimmed.
func normalize(raw section.Raw, conv *markdown.Converter, log *slog.Logger) (string, bool) {
	if !raw.LooksHTML() {
		return strings.TrimSpace(raw.Body), true
	}
	md, err := conv.Convert(raw.Body)
	if err != nil {
		log.Warn("markdown conversion failed, skipping section", "title", raw.Title, "error", err)
		return "", false
	}
	return md, true
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
