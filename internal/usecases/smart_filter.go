package usecases

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxSentences is how many sentences SmartFilter keeps by default.
const DefaultMaxSentences = 3

// SmartFilter picks the sentences of content most relevant to query.
//
// A sentence scores one point per query word (lowercased, repeats counted)
// found as a substring of the lowercased sentence. Scoring sentences are
// ordered by descending score, ties keeping their original order, and the
// top maxSentences are joined with a single space. When nothing scores, the
// first maxSentences sentences are returned in order.
func SmartFilter(content, query string, maxSentences int) string {
	if maxSentences <= 0 {
		maxSentences = DefaultMaxSentences
	}
	sentences := SplitSentences(content)
	if len(sentences) == 0 {
		return ""
	}

	words := strings.Fields(strings.ToLower(query))

	type scored struct {
		score    int
		sentence string
	}
	var ranked []scored
	for _, s := range sentences {
		lower := strings.ToLower(s)
		score := 0
		for _, w := range words {
			if strings.Contains(lower, w) {
				score++
			}
		}
		if score > 0 {
			ranked = append(ranked, scored{score: score, sentence: s})
		}
	}

	if len(ranked) == 0 {
		return strings.Join(sentences[:min(maxSentences, len(sentences))], " ")
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	out := make([]string, 0, min(maxSentences, len(ranked)))
	for _, r := range ranked[:min(maxSentences, len(ranked))] {
		out = append(out, r.sentence)
	}
	return strings.Join(out, " ")
}

// SplitSentences splits trimmed text after '.', '?' or '!' wherever the
// punctuation is followed by whitespace. The whitespace run is dropped.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size
		if r != '.' && r != '?' && r != '!' {
			continue
		}
		end := i
		for i < len(text) {
			next, n := utf8.DecodeRuneInString(text[i:])
			if !unicode.IsSpace(next) {
				break
			}
			i += n
		}
		if i > end {
			sentences = append(sentences, text[start:end])
			start = i
		}
	}
	return append(sentences, text[start:])
}
