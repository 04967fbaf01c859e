package utils

import (
	"strings"
	"unicode"
)

// SplitText splits text into chunks of at most chunkSize runes, with overlap
// runes repeated at each boundary. Chunks end at the last paragraph break or
// whitespace in their second half when one exists, so articles and words are
// not cut mid-way.
func SplitText(text string, chunkSize int, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	runes := []rune(text)
	total := len(runes)
	if chunkSize <= 0 || total <= chunkSize {
		return []string{text}
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}

	var chunks []string
	start := 0
	for start < total {
		end := start + chunkSize
		if end >= total {
			end = total
		} else {
			end = boundary(runes, start, end)
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == total {
			break
		}

		start = overlapStart(runes, start, end, overlap)
	}

	return chunks
}

// boundary moves end back to a natural break inside runes[start:end].
func boundary(runes []rune, start, end int) int {
	half := start + (end-start)/2

	for i := end - 1; i > half; i-- {
		if runes[i] == '\n' && runes[i-1] == '\n' {
			return i + 1
		}
	}
	for i := end - 1; i > half; i-- {
		if unicode.IsSpace(runes[i]) {
			return i + 1
		}
	}
	return end
}

// overlapStart picks where the next chunk begins: the first word start inside
// the last overlap runes of the current chunk, or end when there is none.
func overlapStart(runes []rune, start, end, overlap int) int {
	for i := end - overlap; overlap > 0 && i < end; i++ {
		if i > start && unicode.IsSpace(runes[i-1]) && !unicode.IsSpace(runes[i]) {
			return i
		}
	}
	return end
}
