package keyword

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Default result sizes used when a caller passes a non-positive limit.
const (
	DefaultMaxKeywords = 10
	DefaultMaxPhrases  = 5
)

// Weighted is a term with its share of all filtered tokens.
type Weighted struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

// Extractor pulls keywords out of free text using a fixed Vocabulary.
type Extractor struct {
	vocab       Vocabulary
	maxKeywords int
	maxPhrases  int
}

// Option customizes an Extractor.
type Option func(*Extractor)

// WithDefaultLimits overrides the limits applied when callers pass zero.
// Non-positive values keep the package defaults.
func WithDefaultLimits(keywords, phrases int) Option {
	return func(e *Extractor) {
		if keywords > 0 {
			e.maxKeywords = keywords
		}
		if phrases > 0 {
			e.maxPhrases = phrases
		}
	}
}

// New creates an Extractor over vocab.
func New(vocab Vocabulary, opts ...Option) *Extractor {
	e := &Extractor{
		vocab:       vocab,
		maxKeywords: DefaultMaxKeywords,
		maxPhrases:  DefaultMaxPhrases,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewDefault creates an Extractor over DefaultVocabulary.
func NewDefault() *Extractor {
	return New(DefaultVocabulary())
}

// Extract returns up to limit distinct keywords. Matched tech-term concepts come
// first, followed by filtered tokens in text order.
func (e *Extractor) Extract(text string, limit int) []string {
	if text == "" {
		return []string{}
	}
	if limit <= 0 {
		limit = e.maxKeywords
	}

	candidates := append(e.vocab.matchTechTerms(text), e.vocab.terms(text)...)

	out := make([]string, 0, min(limit, len(candidates)))
	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		if len(out) == limit {
			break
		}
		if _, ok := seen[c]; ok || utf8.RuneCountInString(c) <= 1 {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// ExtractWeighted returns the limit most frequent filtered tokens with their
// frequency divided by the total token count. Tech terms are not included.
func (e *Extractor) ExtractWeighted(text string, limit int) []Weighted {
	if text == "" {
		return []Weighted{}
	}
	if limit <= 0 {
		limit = e.maxKeywords
	}

	tokens := e.vocab.terms(text)
	if len(tokens) == 0 {
		return []Weighted{}
	}

	ranked := mostCommon(tokens, limit)
	total := float64(len(tokens))
	out := make([]Weighted, len(ranked))
	for i, c := range ranked {
		out[i] = Weighted{Term: c.term, Weight: float64(c.count) / total}
	}
	return out
}

// ExtractPhrases returns the limit most frequent space-joined windows of two
// and three adjacent filtered tokens.
func (e *Extractor) ExtractPhrases(text string, limit int) []string {
	if text == "" {
		return []string{}
	}
	if limit <= 0 {
		limit = e.maxPhrases
	}

	tokens := e.vocab.terms(text)
	var phrases []string
	for size := 2; size <= 3; size++ {
		for i := 0; i+size <= len(tokens); i++ {
			phrases = append(phrases, strings.Join(tokens[i:i+size], " "))
		}
	}

	ranked := mostCommon(phrases, limit)
	out := make([]string, len(ranked))
	for i, c := range ranked {
		out[i] = c.term
	}
	return out
}

type termCount struct {
	term  string
	count int
}

// mostCommon counts items and returns the n most frequent. Equal counts keep
// first-seen order.
func mostCommon(items []string, n int) []termCount {
	index := make(map[string]int, len(items))
	var counts []termCount
	for _, it := range items {
		if i, ok := index[it]; ok {
			counts[i].count++
			continue
		}
		index[it] = len(counts)
		counts = append(counts, termCount{term: it, count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].count > counts[j].count
	})

	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}
