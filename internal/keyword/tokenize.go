package keyword

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	cjkFirst = '一'
	cjkLast  = '龥'

	// CJK runs longer than this are split into two-rune chunks.
	maxCJKRun = 4
)

var (
	disallowedChars = regexp.MustCompile(`[^\x{4e00}-\x{9fa5}a-zA-Z0-9\s]`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
	tokenPattern    = regexp.MustCompile(`[a-zA-Z]+|[\x{4e00}-\x{9fa5}]+|[0-9]+`)
)

func isCJK(r rune) bool {
	return r >= cjkFirst && r <= cjkLast
}

func containsCJK(s string) bool {
	for _, r := range s {
		if isCJK(r) {
			return true
		}
	}
	return false
}

// normalize replaces everything except CJK ideographs, ASCII letters, digits
// and whitespace with a space, collapses whitespace, trims and lowercases.
func normalize(text string) string {
	cleaned := disallowedChars.ReplaceAllString(text, " ")
	cleaned = whitespaceRuns.ReplaceAllString(cleaned, " ")
	return strings.ToLower(strings.TrimSpace(cleaned))
}

// tokenize splits normalized text into letter, CJK and digit runs.
// A CJK run longer than four runes becomes consecutive two-rune chunks with
// a trailing one-rune chunk when the length is odd.
func tokenize(text string) []string {
	var tokens []string
	for _, run := range tokenPattern.FindAllString(text, -1) {
		if !containsCJK(run) || utf8.RuneCountInString(run) <= maxCJKRun {
			tokens = append(tokens, run)
			continue
		}

		runes := []rune(run)
		for i := 0; i < len(runes); i += 2 {
			end := min(i+2, len(runes))
			tokens = append(tokens, string(runes[i:end]))
		}
	}
	return tokens
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// filter drops empty tokens, single non-CJK runes, stop words and digit runs.
func (v Vocabulary) filter(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		if utf8.RuneCountInString(tok) == 1 {
			r, _ := utf8.DecodeRuneInString(tok)
			if !isCJK(r) {
				continue
			}
		}
		if v.IsStopword(tok) {
			continue
		}
		if isDigits(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// matchTechTerms returns the concept of every tech term with a synonym
// occurring in text, ignoring case, in dictionary order.
func (v Vocabulary) matchTechTerms(text string) []string {
	lower := strings.ToLower(text)
	var concepts []string
	for _, tt := range v.techTerms {
		for _, syn := range tt.Synonyms {
			if syn != "" && strings.Contains(lower, strings.ToLower(syn)) {
				concepts = append(concepts, tt.Concept)
				break
			}
		}
	}
	return concepts
}

// terms runs normalization, tokenization and filtering.
func (v Vocabulary) terms(text string) []string {
	return v.filter(tokenize(normalize(text)))
}
