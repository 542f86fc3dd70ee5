package services

import (
	"strings"
	"unicode/utf8"
)

// TextChunker splits résumé text into overlapping windows for embedding.
type TextChunker interface {
	ChunkText(text string, maxChunkSize int, overlap int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// ChunkText packs paragraphs into chunks of at most maxChunkSize runes. Paragraphs
// that are too long on their own are packed sentence by sentence instead.
func (tc *textChunker) ChunkText(text string, maxChunkSize int, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}

	var (
		chunks  []string
		current strings.Builder
	)

	add := func(piece, sep string) {
		size := utf8.RuneCountInString(current.String())
		if current.Len() > 0 && size+utf8.RuneCountInString(piece)+len(sep) > maxChunkSize {
			prev := current.String()
			chunks = append(chunks, prev)
			current.Reset()
			if tail := lastNRunes(prev, overlap); tail != "" {
				current.WriteString(tail)
			}
		}
		if current.Len() > 0 {
			current.WriteString(sep)
		}
		current.WriteString(piece)
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if utf8.RuneCountInString(para) <= maxChunkSize {
			add(para, "\n\n")
			continue
		}
		for _, sentence := range splitIntoSentences(para) {
			add(sentence, " ")
		}
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}

func splitIntoSentences(text string) []string {
	sentences := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	})

	var result []string
	for _, s := range sentences {
		if s = strings.TrimSpace(s); s != "" {
			result = append(result, s)
		}
	}
	return result
}

func lastNRunes(text string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[len(runes)-n:])
}
