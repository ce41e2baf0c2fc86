package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// CollapseSpace trims value and folds every internal whitespace run into a
// single space.
func CollapseSpace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

// FoldKey returns the comparison key for a free-text value: NFKC-normalized,
// case-folded, with whitespace collapsed. Two values with the same key are
// considered duplicates.
func FoldKey(value string) string {
	collapsed := CollapseSpace(value)
	if collapsed == "" {
		return ""
	}
	// Casers carry state and must not be shared.
	return cases.Fold().String(norm.NFKC.String(collapsed))
}

// PhoneKey reduces a telephone number to its digits, keeping a leading plus
// sign. Values without any digit fall back to FoldKey so that vanity entries
// such as "ask reception" still compare sanely.
func PhoneKey(value string) string {
	trimmed := strings.TrimSpace(norm.NFKC.String(value))
	var b strings.Builder
	for i, r := range trimmed {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	key := b.String()
	if strings.TrimPrefix(key, "+") == "" {
		return FoldKey(value)
	}
	return key
}

// Tokenize splits text into folded word tokens, dropping tokens shorter than
// minLen runes. Duplicate tokens are preserved in order of appearance.
func Tokenize(text string, minLen int) []string {
	folded := FoldKey(text)
	if folded == "" {
		return nil
	}
	raw := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	terms := make([]string, 0, len(raw))
	for _, token := range raw {
		if len([]rune(token)) < minLen {
			continue
		}
		terms = append(terms, token)
	}
	return terms
}
