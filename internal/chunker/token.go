package chunker

// EstimateTokens gives a rough token count using the ~4 chars/token
// heuristic. Exact tokenization is not required for chunking; the budget
// already leaves headroom for it being off by a few percent.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	tokens := len(text) / 4
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}
