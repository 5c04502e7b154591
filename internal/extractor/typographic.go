package extractor

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/dgallion1/booksum/internal/section"
)

// glyph is one positioned text fragment on a page.
type glyph struct {
	Text string
	Size float64
	X0   float64
	X1   float64
	Top  float64
}

// pageGlyphs is the typographic content of a single page.
type pageGlyphs struct {
	Width  float64
	Glyphs []glyph
}

// headingCandidate is a detected chapter heading and the page it sits on.
type headingCandidate struct {
	Page  int
	Title string
}

// Pages before this index are assumed to be title/copyright pages and never
// produce heading candidates.
const minHeadingPage = 3

// Vertical bucket granularity for grouping glyphs into lines.
const lineBand = 3

var chapterWordRe = regexp.MustCompile(`(?i)^(cap[ií]tulo|chapter)\b`)

var leaderRe = regexp.MustCompile(`[·•.]{2,}`)

// detectHeadings scans pages for oversized, roughly centered lines that look
// like chapter headings. Per page the threshold is mean + 2·stddev of glyph
// sizes; the largest line at or above it is the candidate, kept only when its
// horizontal span stays inside the central 80% of the page.
func detectHeadings(pages []pageGlyphs) []headingCandidate {
	var candidates []headingCandidate

	for i, page := range pages {
		line := headingLine(page)
		if line == nil {
			continue
		}

		sort.Slice(line, func(a, b int) bool { return line[a].X0 < line[b].X0 })
		parts := make([]string, 0, len(line))
		for _, g := range line {
			parts = append(parts, g.Text)
		}
		text := cleanHeading(strings.TrimSpace(strings.Join(parts, " ")))

		if i < minHeadingPage || isTOCText(text) {
			continue
		}
		if chapterWordRe.MatchString(text) || isTitleCased(text) {
			candidates = append(candidates, headingCandidate{Page: i, Title: text})
		}
	}
	return candidates
}

// headingLine picks the page's heading candidate line, or nil.
func headingLine(page pageGlyphs) []glyph {
	if len(page.Glyphs) < 3 {
		return nil
	}

	var sum float64
	for _, g := range page.Glyphs {
		sum += g.Size
	}
	mean := sum / float64(len(page.Glyphs))
	var sq float64
	for _, g := range page.Glyphs {
		d := g.Size - mean
		sq += d * d
	}
	stddev := math.Sqrt(sq / float64(len(page.Glyphs)-1))
	thresh := mean + 2*stddev

	lines := make(map[int][]glyph)
	for _, g := range page.Glyphs {
		band := int(g.Top / lineBand)
		lines[band] = append(lines[band], g)
	}

	var best []glyph
	bestSize := 0.0
	for _, ws := range lines {
		lineSize := 0.0
		for _, g := range ws {
			if g.Size > lineSize {
				lineSize = g.Size
			}
		}
		if lineSize >= thresh && lineSize > bestSize {
			best = ws
			bestSize = lineSize
		}
	}
	if best == nil {
		return nil
	}

	x0 := best[0].X0
	x1 := best[0].X1
	for _, g := range best[1:] {
		x0 = math.Min(x0, g.X0)
		x1 = math.Max(x1, g.X1)
	}
	if x0 < 0.1*page.Width || x1 > 0.9*page.Width {
		return nil
	}
	return best
}

// typographicSpans turns heading candidates into level-2 page spans. A single
// candidate cannot bound a range, so fewer than two yields nothing. The last
// span extends to the end of the document.
func typographicSpans(pages []pageGlyphs, numPages int) []section.Span {
	candidates := detectHeadings(pages)
	if len(candidates) < 2 {
		return nil
	}

	spans := make([]section.Span, 0, len(candidates))
	for i, c := range candidates {
		end := numPages
		if i+1 < len(candidates) {
			end = candidates[i+1].Page
		}
		spans = append(spans, section.Span{
			Title:     c.Title,
			StartPage: c.Page,
			EndPage:   end,
			Level:     section.LevelChapter,
		})
	}
	return spans
}

// cleanHeading normalizes a detected heading: dot/bullet leaders collapse to
// a space, whitespace collapses, and glued single-letter extraction artifacts
// (each letter emitted as its own token) are rejoined with spaces reinserted
// at lowercase→uppercase transitions. The result is title-cased.
func cleanHeading(t string) string {
	t = leaderRe.ReplaceAllString(t, " ")
	t = strings.TrimSpace(spaceRe.ReplaceAllString(t, " "))

	tokens := strings.Split(t, " ")
	single := 0
	for _, tok := range tokens {
		if len([]rune(tok)) == 1 {
			single++
		}
	}
	if len(tokens) > 0 && t != "" && float64(single)/float64(len(tokens)) >= 0.6 {
		joined := strings.Join(tokens, "")
		t = splitCamelRuns(joined)
	}

	return strings.TrimSpace(titleCase(t))
}

// splitCamelRuns inserts a space at every lowercase→uppercase transition.
func splitCamelRuns(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if i > 0 && unicode.IsLower(runes[i-1]) && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// titleCase uppercases the first letter of every alphabetic run and
// lowercases the rest, mirroring how detected headings are normalized
// elsewhere in the pipeline.
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}

// isTitleCased reports whether every alphabetic word starts uppercase with no
// stray uppercase letters inside, and at least one cased letter exists.
func isTitleCased(s string) bool {
	cased := false
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if unicode.IsUpper(r) {
				if prevLetter {
					return false
				}
				cased = true
			} else if !prevLetter {
				// word starting with a lowercase letter
				return false
			}
			prevLetter = true
		} else {
			prevLetter = false
		}
	}
	return cased
}

// isTOCText reports whether a heading is really a table-of-contents label.
func isTOCText(s string) bool {
	for _, w := range strings.Fields(strings.ToLower(s)) {
		w = strings.Trim(w, ".,:;!?")
		if w == "índice" || w == "contents" || w == "content" {
			return true
		}
	}
	return false
}
