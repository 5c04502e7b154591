package extractor

import (
	"path"
	"regexp"
	"strings"
)

// nonContentTitles lists section names (English and Spanish) that mark front
// matter, back matter, and other boilerplate. Matching is case-insensitive
// substring: a title containing any of these anywhere is rejected.
var nonContentTitles = []string{
	"cover",
	"title",
	"title page",
	"copyright",
	"acknowledgments",
	"contents",
	"table of contents",
	"index",
	"dedication",
	"preface",
	"front matter",
	"foreword",
	"about the author",
	"bibliography",
	"glossary",
	"colophon",
	"legal",
	// ES
	"cubierta",
	"portada",
	"créditos",
	"agradecimientos",
	"índice",
	"tabla de contenido",
	"dedicatoria",
	"prefacio",
	"prólogo",
	"epílogo",
	"sobre el autor",
	"acerca del autor",
	"biografía",
	"bibliografía",
	"glosario",
	"colofón",
	"licencia",
	"nota del autor",
	"nota de la autora",
	"nota del editor",
	"nota de la editorial",
}

var spaceRe = regexp.MustCompile(`\s+`)

// noiseRefRe rejects hrefs whose path starts a segment with a known
// non-content name. "index" is handled separately so that files like
// index_split_001.xhtml are not caught.
var noiseRefRe = regexp.MustCompile(
	`(?i)(?:^|/)(?:toc\.(?:ncx|x?html?)|nav\.(?:x?html?)|` +
		`title|cover|copyright|acknowledg|front|colophon|` +
		`about|dedic|preface|foreword|prolog|epilog|gloss|biblio|legal)`)

var indexFileRe = regexp.MustCompile(`(?i)^index\.x?html?$`)

// IsContentTitle reports whether a TOC title names substantive content.
// The title is whitespace-normalized and lowercased first; empty titles and
// titles containing any denylisted section name are rejected.
func IsContentTitle(title string) bool {
	t := strings.ToLower(strings.TrimSpace(spaceRe.ReplaceAllString(title, " ")))
	if t == "" {
		return false
	}
	for _, k := range nonContentTitles {
		if strings.Contains(t, k) {
			return false
		}
	}
	return true
}

// IsNoiseRef reports whether an href points at a known non-content resource
// (navigation files, covers, front/back matter). A bare index.(x)html file is
// noise; a longer filename that merely contains "index" is not.
func IsNoiseRef(href string) bool {
	h := strings.ToLower(href)
	if h == "" {
		return false
	}
	if noiseRefRe.MatchString(h) {
		return true
	}
	base := path.Base(strings.SplitN(h, "#", 2)[0])
	return indexFileRe.MatchString(base)
}
