// ABOUTME: Sentence segmenter splits paragraphs into ordered sentence spans
// ABOUTME: Heuristic terminator scan; abbreviations and decimals split incorrectly

package text

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"paperread-app/core/domain"

	"github.com/cespare/xxhash/v2"
)

// A sentence is a run of non-terminators followed by terminators and trailing whitespace.
var sentencePattern = regexp.MustCompile(`[^.!?;]+[.!?;]+\s*`)

type piece struct {
	offset int
	text   string
}

func splitPieces(paragraph string) []piece {
	matches := sentencePattern.FindAllStringIndex(paragraph, -1)
	if len(matches) == 0 {
		return []piece{{offset: 0, text: paragraph}}
	}

	pieces := make([]piece, 0, len(matches)+1)
	prev := 0
	add := func(start, end int) {
		raw := paragraph[start:end]
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return
		}
		pieces = append(pieces, piece{
			offset: start + strings.Index(raw, trimmed),
			text:   trimmed,
		})
	}

	for _, m := range matches {
		// terminators the pattern cannot start on belong to the following sentence
		add(prev, m[1])
		prev = m[1]
	}
	if prev < len(paragraph) {
		add(prev, len(paragraph))
	}
	return pieces
}

// SplitSentences splits a paragraph into sentences in order. Surrounding
// whitespace is trimmed from each sentence. A paragraph without any
// terminator is returned unchanged as the only sentence.
func SplitSentences(paragraph string) []string {
	pieces := splitPieces(paragraph)
	sentences := make([]string, len(pieces))
	for i, p := range pieces {
		sentences[i] = p.text
	}
	return sentences
}

// SentenceID formats the identifier of the n-th sentence of a render pass
func SentenceID(n int) string {
	return "sentence_" + strconv.Itoa(n)
}

// Segment produces the sentence spans of a page. Identifiers restart at
// sentence_0 on every call; blank sentences are skipped.
func Segment(paragraphs []string) []domain.SentenceSpan {
	var spans []domain.SentenceSpan
	for pi, paragraph := range paragraphs {
		for _, p := range splitPieces(paragraph) {
			sentence := strings.TrimSpace(p.text)
			if sentence == "" {
				continue
			}
			n := len(spans)
			offset := p.offset + strings.Index(p.text, sentence)
			spans = append(spans, domain.SentenceSpan{
				ID:          SentenceID(n),
				Index:       n,
				Paragraph:   pi,
				Offset:      offset,
				Text:        sentence,
				Fingerprint: Fingerprint(pi, offset, sentence),
			})
		}
	}
	return spans
}

// Fingerprint hashes a sentence's position and content
func Fingerprint(paragraph, offset int, sentence string) string {
	sum := xxhash.Sum64String(fmt.Sprintf("%d:%d:%s", paragraph, offset, sentence))
	return strconv.FormatUint(sum, 16)
}
