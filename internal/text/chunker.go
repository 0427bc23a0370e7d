// Package text splits extracted document text into bounded, overlapping chunks.
package text

import (
	"strings"
	"unicode/utf8"
)

// Cut-point preference, strongest boundary first.
var separators = []string{"\n\n", "\n", ". ", " "}

// Split cuts text into chunks of at most size bytes. Consecutive chunks share
// overlap bytes so facts spanning a cut point survive on at least one side.
// Cut points prefer paragraph breaks, then line breaks, then sentence ends,
// then spaces, falling back to a hard cut on unbroken text.
func Split(text string, size, overlap int) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if size <= 0 {
		return nil
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + size
		if end >= len(text) {
			if chunk := text[start:]; strings.TrimSpace(chunk) != "" {
				chunks = append(chunks, chunk)
			}
			break
		}

		cut := findCut(text, start, end)
		if chunk := text[start:cut]; strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}

		next := cut - overlap
		if next <= start {
			// Chunk no longer than the overlap, move on without one.
			next = cut
		}
		start = next
	}
	return chunks
}

// findCut picks the cut position in (start, end]. It searches the second half
// of the window backwards for the strongest separator and cuts just after it,
// so the boundary stays attached to the earlier chunk.
func findCut(text string, start, end int) int {
	floor := start + (end-start)/2
	for _, sep := range separators {
		if idx := strings.LastIndex(text[floor:end], sep); idx >= 0 {
			return floor + idx + len(sep)
		}
	}

	// No separator in the window: hard cut at a rune boundary.
	cut := end
	for cut > floor && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return cut
}
