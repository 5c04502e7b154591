package section

import "strings"

// Heading levels used in the summary output. Chapters render as "##",
// subchapters as "###".
const (
	LevelChapter    = 2
	LevelSubchapter = 3
)

// TOCNode is a node in a table-of-contents tree. Source trees are built once
// from the document's navigation metadata and never mutated afterwards.
type TOCNode struct {
	Title    string    // Display text of the entry (may be empty)
	Href     string    // Content reference, e.g. "OEBPS/ch01.xhtml#sec2"
	Children []TOCNode // Nested entries
}

// Span is a page range within a PDF. EndPage is exclusive; content covers
// pages [StartPage, EndPage). Pages are 0-based.
type Span struct {
	Title     string
	StartPage int
	EndPage   int
	Level     int
}

// Pages returns the number of pages covered by the span.
func (s Span) Pages() int {
	n := s.EndPage - s.StartPage
	if n < 0 {
		return 0
	}
	return n
}

// Raw is a resolved but not yet normalized section: the body may be HTML or
// plain text depending on the source document.
type Raw struct {
	Title string
	Body  string
	Level int
}

// LooksHTML reports whether the body appears to be HTML rather than plain
// text: an opening tag marker within the first 200 bytes plus a closing tag
// marker anywhere.
func (r Raw) LooksHTML() bool {
	prefix := r.Body
	if len(prefix) > 200 {
		prefix = prefix[:200]
	}
	return strings.Contains(prefix, "<") && strings.Contains(r.Body, "</")
}

// Extracted is the final output unit of the extraction pipeline: a titled
// Markdown section ready for summarization.
type Extracted struct {
	Title    string
	Markdown string
	Level    int
}
