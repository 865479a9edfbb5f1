package summarizer

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"reportqa/internal/domain"
)

// FrequencySummarizer ranks report sentences by word frequency (stopwords filtered).
type FrequencySummarizer struct {
	tokenPattern    *regexp.Regexp
	sentencePattern *regexp.Regexp
	stopwords       map[string]struct{}
}

// NewFrequencySummarizer creates a frequency-based sentence ranker summarizer.
func NewFrequencySummarizer() *FrequencySummarizer {
	return &FrequencySummarizer{
		tokenPattern:    regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		sentencePattern: regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`),
		stopwords:       defaultStopwords(),
	}
}

type sentence struct {
	text   string
	source string
	tokens []string
}

// Summarize picks the highest scoring sentences of the text documents and
// returns them in report order, each followed by its source tag.
// Overlapping chunks repeat sentences; each sentence is considered once.
func (s *FrequencySummarizer) Summarize(docs []domain.Document, maxSentences int) (string, error) {
	if maxSentences <= 0 {
		maxSentences = 3
	}
	var sentences []sentence
	seen := make(map[string]struct{})
	for _, d := range docs {
		if d.Type != domain.DocumentText {
			continue
		}
		for _, raw := range s.sentencePattern.FindAllString(d.Content, -1) {
			text := strings.Join(strings.Fields(raw), " ")
			if _, ok := seen[text]; ok {
				continue
			}
			seen[text] = struct{}{}
			if toks := s.tokens(text); len(toks) > 0 {
				sentences = append(sentences, sentence{text: text, source: d.Source, tokens: toks})
			}
		}
	}
	if len(sentences) == 0 {
		return "", nil
	}

	// Compute word frequencies
	freq := map[string]float64{}
	for _, sent := range sentences {
		for _, tok := range sent.tokens {
			freq[tok]++
		}
	}
	maxF := 0.0
	for _, v := range freq {
		if v > maxF {
			maxF = v
		}
	}
	for k, v := range freq {
		freq[k] = v / maxF
	}

	type pair struct {
		idx   int
		score float64
	}
	scores := make([]pair, len(sentences))
	for i, sent := range sentences {
		sscore := 0.0
		for _, tok := range sent.tokens {
			sscore += freq[tok]
		}
		// Normalize by sentence length to avoid bias
		scores[i] = pair{i, sscore / math.Sqrt(float64(len(sent.tokens)))}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if maxSentences > len(scores) {
		maxSentences = len(scores)
	}
	// Keep original order among selected
	selected := make([]int, maxSentences)
	for i := range selected {
		selected[i] = scores[i].idx
	}
	sort.Ints(selected)
	out := make([]string, len(selected))
	for i, idx := range selected {
		out[i] = sentences[idx].text + " [" + sentences[idx].source + "]"
	}
	return strings.Join(out, " "), nil
}

func (s *FrequencySummarizer) tokens(text string) []string {
	raw := s.tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, ok := s.stopwords[t]; ok {
			continue
		}
		out = append(out, t)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
