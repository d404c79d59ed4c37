package menu

import (
	"strings"
	"unicode"
)

// MatchStatus represents the outcome of a match operation
type MatchStatus int

const (
	Matched MatchStatus = iota
	Ambiguous
	Unmatched
)

func (s MatchStatus) String() string {
	switch s {
	case Matched:
		return "Matched"
	case Ambiguous:
		return "Ambiguous"
	case Unmatched:
		return "Unmatched"
	default:
		return "Unknown"
	}
}

// MatchResult contains the result of a matching operation
type MatchResult struct {
	Status     MatchStatus
	Item       *Item  // when Matched
	Candidates []Item // when Ambiguous
}

// Matcher scores menu items by the name tokens they share with the input.
type Matcher struct {
	items  []Item
	tokens [][]string
}

// NewMatcher pre-tokenizes item names.
func NewMatcher(items []Item) *Matcher {
	m := &Matcher{
		items:  items,
		tokens: make([][]string, len(items)),
	}
	for i, it := range items {
		m.tokens[i] = tokenize(it.Name)
	}
	return m
}

// Match finds the item whose name best covers the input. A full name match
// (case-insensitive) always wins.
func (m *Matcher) Match(text string) MatchResult {
	needle := strings.Join(tokenize(text), " ")
	if needle == "" {
		return MatchResult{Status: Unmatched}
	}

	for i, toks := range m.tokens {
		if strings.Join(toks, " ") == needle {
			return MatchResult{Status: Matched, Item: &m.items[i]}
		}
	}

	input := make(map[string]bool)
	for _, tok := range tokenize(text) {
		input[tok] = true
	}

	maxScore := 0
	var top []Item
	for i, toks := range m.tokens {
		score := 0
		for _, tok := range toks {
			if input[tok] {
				score++
			}
		}
		switch {
		case score == 0 || score < maxScore:
		case score > maxScore:
			maxScore = score
			top = []Item{m.items[i]}
		default:
			top = append(top, m.items[i])
		}
	}

	switch len(top) {
	case 0:
		return MatchResult{Status: Unmatched}
	case 1:
		return MatchResult{Status: Matched, Item: &top[0]}
	}
	return MatchResult{Status: Ambiguous, Candidates: top}
}

// tokenize lower-cases text and splits it on anything that is not a letter
// or digit. Single-letter tokens such as "à" or "d" are dropped.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) > 1 {
			out = append(out, f)
		}
	}
	return out
}
