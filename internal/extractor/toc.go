package extractor

import (
	"strings"

	"github.com/simp-lee/epub"

	"github.com/dgallion1/booksum/internal/section"
)

// tocEntry is one flattened table-of-contents row.
type tocEntry struct {
	Title string
	Href  string
}

// fromTOCItems converts the epub library's TOC tree into the neutral
// section.TOCNode form used by the flattener.
func fromTOCItems(items []epub.TOCItem) []section.TOCNode {
	if len(items) == 0 {
		return nil
	}
	nodes := make([]section.TOCNode, 0, len(items))
	for _, it := range items {
		nodes = append(nodes, section.TOCNode{
			Title:    it.Title,
			Href:     it.Href,
			Children: fromTOCItems(it.Children),
		})
	}
	return nodes
}

// flattenTOC walks a TOC forest depth-first into an ordered flat list of
// (title, href) entries, de-duplicated by identity with first occurrence
// winning. A nil or empty forest yields an empty list.
func flattenTOC(forest []section.TOCNode) []tocEntry {
	var out []tocEntry
	seen := make(map[tocEntry]bool)

	var walk func(nodes []section.TOCNode)
	walk = func(nodes []section.TOCNode) {
		for _, n := range nodes {
			if n.Title != "" || n.Href != "" {
				e := tocEntry{Title: n.Title, Href: n.Href}
				if !seen[e] {
					out = append(out, e)
					seen[e] = true
				}
			}
			if len(n.Children) > 0 {
				walk(n.Children)
			}
		}
	}
	walk(forest)
	return out
}

// splitHref splits "file.xhtml#frag" into its base path and fragment id.
func splitHref(href string) (base, frag string) {
	if i := strings.Index(href, "#"); i >= 0 {
		return href[:i], href[i+1:]
	}
	return href, ""
}
