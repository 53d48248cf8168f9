package parser

import "strings"

// DefaultMaxChunkChars is a safe chunk size for structured JSON generation.
const DefaultMaxChunkChars = 2000

// Chunk splits text into contiguous, non-overlapping segments of at most
// maxChars characters each, in original order, trimmed at their boundaries.
// The budget counts characters, not bytes, so multi-byte text (rupee-priced
// and non-Latin menus) never splits mid-rune. Before trimming, concatenating
// the segments reconstructs the input exactly.
// Empty input yields a single empty chunk: the degenerate document is still
// one document, and the confidence denominator counts raw items rather than
// chunks, so the policy is harmless downstream.
func Chunk(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChunkChars
	}

	runes := []rune(text)
	if len(runes) <= maxChars {
		return []string{strings.TrimSpace(text)}
	}

	chunks := make([]string, 0, (len(runes)+maxChars-1)/maxChars)
	for start := 0; start < len(runes); {
		end := start + maxChars
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, strings.TrimSpace(string(runes[start:end])))
		start = end
	}
	return chunks
}
