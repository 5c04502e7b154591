package extractor

import (
	"reflect"
	"testing"

	"github.com/dgallion1/booksum/internal/section"
)

func TestFlattenTOC(t *testing.T) {
	forest := []section.TOCNode{
		{Title: "Parte I", Href: "part1.xhtml", Children: []section.TOCNode{
			{Title: "Capítulo 1", Href: "ch1.xhtml"},
			{Title: "Capítulo 2", Href: "ch2.xhtml", Children: []section.TOCNode{
				{Title: "Sección 2.1", Href: "ch2.xhtml#s1"},
			}},
		}},
		{Title: "Parte II", Href: "part2.xhtml", Children: []section.TOCNode{
			{Title: "Capítulo 1", Href: "ch1.xhtml"}, // duplicate
			{Title: "Capítulo 3", Href: "ch3.xhtml"},
		}},
	}

	got := flattenTOC(forest)
	want := []tocEntry{
		{"Parte I", "part1.xhtml"},
		{"Capítulo 1", "ch1.xhtml"},
		{"Capítulo 2", "ch2.xhtml"},
		{"Sección 2.1", "ch2.xhtml#s1"},
		{"Parte II", "part2.xhtml"},
		{"Capítulo 3", "ch3.xhtml"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("flattenTOC() = %v, want %v", got, want)
	}
}

func TestFlattenTOCEmpty(t *testing.T) {
	if got := flattenTOC(nil); len(got) != 0 {
		t.Errorf("flattenTOC(nil) = %v, want empty", got)
	}
	if got := flattenTOC([]section.TOCNode{}); len(got) != 0 {
		t.Errorf("flattenTOC(empty) = %v, want empty", got)
	}
}

func TestFlattenTOCSkipsBlankNodes(t *testing.T) {
	forest := []section.TOCNode{
		{Title: "", Href: "", Children: []section.TOCNode{
			{Title: "Capítulo 1", Href: "ch1.xhtml"},
		}},
	}
	got := flattenTOC(forest)
	want := []tocEntry{{"Capítulo 1", "ch1.xhtml"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("flattenTOC() = %v, want %v", got, want)
	}
}

func TestSplitHref(t *testing.T) {
	tests := []struct {
		href     string
		wantBase string
		wantFrag string
	}{
		{"ch1.xhtml", "ch1.xhtml", ""},
		{"ch1.xhtml#sec2", "ch1.xhtml", "sec2"},
		{"OEBPS/ch1.xhtml#a#b", "OEBPS/ch1.xhtml", "a#b"},
		{"", "", ""},
		{"#frag", "", "frag"},
	}
	for _, tt := range tests {
		base, frag := splitHref(tt.href)
		if base != tt.wantBase || frag != tt.wantFrag {
			t.Errorf("splitHref(%q) = (%q, %q), want (%q, %q)",
				tt.href, base, frag, tt.wantBase, tt.wantFrag)
		}
	}
}
