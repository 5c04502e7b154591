package extractor

import (
	"log/slog"
	"regexp"
	"strings"
)

// chapterMark is a top-level outline entry: a chapter title and the 0-based
// page it starts on.
type chapterMark struct {
	Title string
	Page  int
}

var chapterNumberRe = regexp.MustCompile(`(?i)(cap[ií]tulo|chapter|\d+|[ivxlcdm]+\.)`)

var outlineBadKeywords = []string{"cover", "copyright", "index"}

// outlineReliable decides whether a PDF's bookmark outline is trustworthy
// enough to drive sectioning. Bookmarks are frequently absent, partial, or
// mis-tagged (e.g. only listing front matter), so the outline is accepted
// only when at least minScore of five signals hold:
//
//  1. coverage: distinct chapter start pages cover >= 60% of the document
//  2. diversity: >= 40% of normalized chapter titles are unique
//  3. keywords: none of the first three titles name cover/copyright/index
//  4. numbering: >= 30% of titles look chapter-numbered
//  5. spacing: consecutive chapters are at least 3 pages apart
//
// Documents with no pages or fewer than three chapters are rejected outright.
func outlineReliable(chapters []chapterMark, totalPages, minScore int, log *slog.Logger) bool {
	numCh := len(chapters)
	if totalPages == 0 || numCh < 3 {
		return false
	}

	distinct := make(map[int]bool, numCh)
	for _, c := range chapters {
		distinct[c.Page] = true
	}
	coverage := float64(len(distinct)) / float64(totalPages)

	titles := make([]string, numCh)
	uniq := make(map[string]bool, numCh)
	for i, c := range chapters {
		titles[i] = strings.ToLower(strings.TrimSpace(c.Title))
		uniq[titles[i]] = true
	}
	diversity := float64(len(uniq)) / float64(numCh)

	keywordsOK := true
	for _, t := range titles[:min(3, numCh)] {
		for _, bad := range outlineBadKeywords {
			if strings.Contains(t, bad) {
				keywordsOK = false
			}
		}
	}

	numbered := 0
	for _, t := range titles {
		if chapterNumberRe.MatchString(t) {
			numbered++
		}
	}
	numericRatio := float64(numbered) / float64(numCh)

	minDistance := 0
	for i := 1; i < numCh; i++ {
		gap := chapters[i].Page - chapters[i-1].Page
		if i == 1 || gap < minDistance {
			minDistance = gap
		}
	}

	score := 0
	for _, ok := range []bool{
		coverage >= 0.6,
		diversity >= 0.4,
		keywordsOK,
		numericRatio >= 0.3,
		minDistance >= 3,
	} {
		if ok {
			score++
		}
	}

	reliable := score >= minScore
	log.Info("outline reliability check",
		"chapters", numCh,
		"coverage", coverage,
		"diversity", diversity,
		"keywords_ok", keywordsOK,
		"numeric_ratio", numericRatio,
		"min_distance", minDistance,
		"score", score,
		"reliable", reliable)
	return reliable
}
