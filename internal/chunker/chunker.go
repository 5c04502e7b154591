// Package chunker splits section Markdown into model-sized windows.
package chunker

import "strings"

// Config controls chunking behavior.
type Config struct {
	MaxTokens     int // Token budget per chunk.
	OverlapTokens int // Context carried over from the previous chunk.
}

// DefaultConfig returns sensible defaults for a mid-size context window.
func DefaultConfig() Config {
	return Config{
		MaxTokens:     16384,
		OverlapTokens: 200,
	}
}

// Split breaks Markdown into chunks that stay within the token budget,
// splitting on paragraph boundaries and repeating the tail of each chunk at
// the head of the next so the model keeps local context.
func Split(md string, cfg Config) []string {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultConfig().MaxTokens
	}
	if cfg.OverlapTokens < 0 {
		cfg.OverlapTokens = 0
	}

	paragraphs := splitParagraphs(md)
	if len(paragraphs) == 0 {
		return nil
	}

	var chunks []string
	var current []string
	currentTokens := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunks = append(chunks, strings.Join(current, "\n\n"))

		// Seed the next chunk with trailing paragraphs up to the overlap
		// budget.
		var overlap []string
		tokens := 0
		for i := len(current) - 1; i >= 0; i-- {
			tokens += EstimateTokens(current[i])
			overlap = append([]string{current[i]}, overlap...)
			if tokens >= cfg.OverlapTokens {
				break
			}
		}
		current = overlap
		currentTokens = 0
		for _, p := range current {
			currentTokens += EstimateTokens(p)
		}
	}

	for _, para := range paragraphs {
		t := EstimateTokens(para)
		if currentTokens+t > cfg.MaxTokens && len(current) > 0 {
			flush()
		}
		current = append(current, para)
		currentTokens += t
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, "\n\n"))
	}
	return chunks
}

// splitParagraphs splits on blank lines and drops empty parts.
func splitParagraphs(md string) []string {
	var out []string
	for _, p := range strings.Split(md, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
