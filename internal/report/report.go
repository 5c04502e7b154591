// Package report maintains the output Markdown file: a general summary
// section followed by one block per chapter.
package report

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	generalHeading  = "Resumen general"
	chaptersHeading = "Resumen por capítulos"
)

// Ensure creates the report skeleton if the file does not exist yet.
func Ensure(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	skeleton := fmt.Sprintf("# %s\n\n# %s\n", generalHeading, chaptersHeading)
	return os.WriteFile(path, []byte(skeleton), 0o644)
}

// AppendChapterSummary adds one summary block at the end of the report.
// level selects the heading depth (2 = ##, 3 = ###); anything shallower is
// clamped to ## so chapter blocks never collide with the report's own
// top-level headings.
func AppendChapterSummary(path, title, summary string, level int) error {
	md, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if level < 2 {
		level = 2
	}
	header := strings.Repeat("#", level)
	block := fmt.Sprintf("\n\n%s %s\n\n%s\n", header, title, strings.TrimSpace(summary))
	return os.WriteFile(path, append(md, block...), 0o644)
}

// ChapterSummaries returns everything under the per-chapter heading, or ""
// when the heading is missing.
func ChapterSummaries(path string) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	for _, h := range topHeadings(src) {
		if h.title == chaptersHeading {
			return string(bytes.TrimSpace(src[h.contentStart:])), nil
		}
	}
	return "", nil
}

// WriteGeneralSummary replaces the general-summary section's content, or
// prepends the whole section when the report lacks it.
func WriteGeneralSummary(path, general string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	block := fmt.Sprintf("# %s\n\n%s\n\n", generalHeading, strings.TrimSpace(general))

	headings := topHeadings(src)
	for i, h := range headings {
		if h.title != generalHeading {
			continue
		}
		end := len(src)
		if i+1 < len(headings) {
			end = headings[i+1].markerStart
		}
		var out bytes.Buffer
		out.Write(src[:h.markerStart])
		out.WriteString(block)
		out.Write(src[end:])
		return os.WriteFile(path, out.Bytes(), 0o644)
	}
	return os.WriteFile(path, append([]byte(block), src...), 0o644)
}

// topHeading is a level-1 heading plus the offsets needed to slice its
// section out of the source.
type topHeading struct {
	title        string
	markerStart  int // offset of the '#' marker
	contentStart int // offset just past the heading line's text
}

// topHeadings parses the Markdown and returns its level-1 headings in
// document order.
func topHeadings(src []byte) []topHeading {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var out []topHeading
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok || h.Level != 1 || h.Lines().Len() == 0 {
			continue
		}
		seg := h.Lines().At(0)
		out = append(out, topHeading{
			title:        string(bytes.TrimSpace(src[seg.Start:seg.Stop])),
			markerStart:  lineStart(src, seg.Start),
			contentStart: seg.Stop,
		})
	}
	return out
}

// lineStart walks back from pos to the beginning of its line.
func lineStart(src []byte, pos int) int {
	for pos > 0 && src[pos-1] != '\n' {
		pos--
	}
	return pos
}
