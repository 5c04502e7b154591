package summarize

import (
	"regexp"
	"strings"
)

var (
	thinkRe    = regexp.MustCompile(`(?is)<think>.*?</think>`)
	sentenceRe = regexp.MustCompile(`(?:[.!?…])\s+`)
)

// StripThink removes <think>...</think> blocks some reasoning models emit.
func StripThink(text string) string {
	return strings.TrimSpace(thinkRe.ReplaceAllString(text, ""))
}

// NormalizeParagraphs regroups a wall of text into paragraphs of roughly 3-5
// sentences. Text that already has paragraph breaks is left untouched.
func NormalizeParagraphs(text string) string {
	const minPer, maxPer = 3, 5

	t := strings.TrimSpace(text)
	if t == "" || strings.Contains(t, "\n\n") {
		return t
	}

	sentences := splitSentences(t)
	if len(sentences) == 0 {
		return t
	}

	var paragraphs []string
	var cur []string
	for _, s := range sentences {
		cur = append(cur, s)
		if len(cur) >= maxPer {
			paragraphs = append(paragraphs, strings.Join(cur, " "))
			cur = nil
		}
	}
	if len(cur) > 0 {
		if len(cur) < minPer && len(paragraphs) > 0 {
			paragraphs[len(paragraphs)-1] += " " + strings.Join(cur, " ")
		} else {
			paragraphs = append(paragraphs, strings.Join(cur, " "))
		}
	}
	return strings.Join(paragraphs, "\n\n")
}

// splitSentences cuts after sentence-final punctuation followed by space,
// keeping the punctuation with its sentence.
func splitSentences(t string) []string {
	var out []string
	idxs := sentenceRe.FindAllStringIndex(t, -1)
	start := 0
	for _, loc := range idxs {
		// loc[0] is the punctuation mark; keep it, drop the whitespace.
		s := strings.TrimSpace(t[start : loc[0]+1])
		if s != "" {
			out = append(out, s)
		}
		start = loc[1]
	}
	if rest := strings.TrimSpace(t[start:]); rest != "" {
		out = append(out, rest)
	}
	return out
}
