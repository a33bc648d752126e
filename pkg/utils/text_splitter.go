package utils

import (
	"errors"
	"strings"
)

// Boundary preference for cutting chunks: paragraph, then line, then word.
// A cut at a lower-priority boundary happens only when no higher-priority
// boundary fits inside the current window.
var separators = []string{"\n\n", "\n", " "}

// TextSplitter splits a long string into chunks of at most chunkSize runes.
// Consecutive chunks share chunkOverlap runes to preserve context at
// boundaries. Chunks are literal substrings of the input, so stitching them
// back together with the overlaps removed reproduces the input exactly.
type TextSplitter struct {
	chunkSize    int
	chunkOverlap int
}

// NewTextSplitter validates the configuration. chunkOverlap must be smaller
// than chunkSize, otherwise the splitter could never make progress.
func NewTextSplitter(chunkSize, chunkOverlap int) (*TextSplitter, error) {
	if chunkSize <= 0 {
		return nil, errors.New("chunk size must be positive")
	}
	if chunkOverlap < 0 {
		return nil, errors.New("chunk overlap must not be negative")
	}
	if chunkOverlap >= chunkSize {
		return nil, errors.New("chunk overlap must be smaller than chunk size")
	}
	return &TextSplitter{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}, nil
}

// Split produces the ordered chunk sequence for text. Empty or
// whitespace-only input yields no chunks. A single unbroken token longer
// than chunkSize is emitted intact rather than cut mid-token.
func (s *TextSplitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	total := len(runes)

	var chunks []string
	i := 0
	for i < total {
		end := i + s.chunkSize
		if end >= total {
			chunks = append(chunks, string(runes[i:total]))
			break
		}

		cut := s.findCut(runes, i, end)
		chunks = append(chunks, string(runes[i:cut]))

		if cut >= total {
			break
		}

		next := cut - s.chunkOverlap
		if next <= i {
			// Overlap would revisit the whole previous chunk; skip it to
			// guarantee forward progress.
			next = cut
		}
		i = next
	}

	return chunks
}

// findCut picks the end position for the chunk starting at i, whose hard
// limit is end. It prefers the last semantic boundary inside the window; when
// the window falls inside one oversized token, the cut is pushed forward to
// the token's end so the token stays intact.
func (s *TextSplitter) findCut(runes []rune, i, end int) int {
	for _, sep := range separators {
		if j := lastBoundary(runes, i, end, sep); j > 0 {
			cut := j + len([]rune(sep))
			// The boundary must leave room for progress past the overlap.
			if cut-s.chunkOverlap > i {
				return cut
			}
		}
	}

	// No usable boundary inside the window: extend to the nearest boundary
	// after it (or the end of the text) to keep the oversized token whole.
	for k := end; k < len(runes); k++ {
		if runes[k] == ' ' || runes[k] == '\n' {
			return k + 1
		}
	}
	return len(runes)
}

// lastBoundary returns the index of the last occurrence of sep within
// runes[i:end], or -1. The index is absolute within runes.
func lastBoundary(runes []rune, i, end int, sep string) int {
	sepRunes := []rune(sep)
	n := len(sepRunes)
	for k := end - n; k > i; k-- {
		match := true
		for m := 0; m < n; m++ {
			if runes[k+m] != sepRunes[m] {
				match = false
				break
			}
		}
		if match {
			return k
		}
	}
	return -1
}
