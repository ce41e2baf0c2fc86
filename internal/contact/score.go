package contact

import (
	"math"

	"contactbook/internal/textutil"
)

// Score estimates how likely two contacts denote the same entity. Higher is
// more likely; NoMatch is the bottom value.
type Score int

const (
	// NoMatch means the contacts share no evidence at all.
	NoMatch Score = 0
	// Identical is reported for object identity, above any computed score.
	Identical Score = math.MaxInt32
)

// minTokenLength drops initials and particles from word-overlap evidence.
const minTokenLength = 2

// Weight is the evidence value of one attribute. Exact is earned per shared
// value; Token per shared word among the values that did not match exactly.
// Token evidence for an attribute never reaches one exact match.
type Weight struct {
	Exact int
	Token int
}

// Weights maps attributes to their evidence value. Attributes missing from
// the map contribute nothing.
type Weights map[Attribute]Weight

// DefaultWeights returns the stock evidence table.
func DefaultWeights() Weights {
	return Weights{
		Telephone:    {Exact: 10},
		Email:        {Exact: 10},
		Name:         {Exact: 5, Token: 1},
		Address:      {Exact: 4, Token: 1},
		Nickname:     {Exact: 3},
		URL:          {Exact: 3},
		Organization: {Exact: 2, Token: 1},
		Birthday:     {Exact: 2},
		Title:        {Exact: 1},
		Note:         {Exact: 1},
	}
}

// MatchScore scores c against other. The computation is symmetric, a contact
// scores highest against itself, and an empty or nil contact scores NoMatch
// against everything.
func (c *Contact) MatchScore(other *Contact, weights Weights) Score {
	if c == nil || other == nil {
		return NoMatch
	}
	if c == other {
		return Identical
	}
	if weights == nil {
		weights = DefaultWeights()
	}

	var total int
	for _, attr := range attributeOrder {
		weight, ok := weights[attr]
		if !ok || weight.Exact <= 0 {
			continue
		}
		total += attributeScore(attr, weight, c.attrs[attr], other.attrs[attr])
	}
	return Score(total)
}

func attributeScore(attr Attribute, weight Weight, left, right []string) int {
	if len(left) == 0 || len(right) == 0 {
		return 0
	}
	leftKeys := matchKeys(attr, left)
	rightKeys := matchKeys(attr, right)

	shared := 0
	for key := range leftKeys {
		if _, ok := rightKeys[key]; ok {
			shared++
		}
	}
	score := shared * weight.Exact

	if weight.Token <= 0 || weight.Exact <= 1 {
		return score
	}
	leftTokens := unsharedTokens(attr, left, rightKeys)
	rightTokens := unsharedTokens(attr, right, leftKeys)
	common := 0
	for token := range leftTokens {
		if _, ok := rightTokens[token]; ok {
			common++
		}
	}
	return score + min(common*weight.Token, weight.Exact-1)
}

func matchKeys(attr Attribute, values []string) map[string]struct{} {
	keys := make(map[string]struct{}, len(values))
	for _, value := range values {
		if key := attr.matchKey(value); key != "" {
			keys[key] = struct{}{}
		}
	}
	return keys
}

// unsharedTokens collects the words of values whose key is absent from
// exclude, so exact matches are not counted twice.
func unsharedTokens(attr Attribute, values []string, exclude map[string]struct{}) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, value := range values {
		if _, ok := exclude[attr.matchKey(value)]; ok {
			continue
		}
		for _, token := range textutil.Tokenize(value, minTokenLength) {
			tokens[token] = struct{}{}
		}
	}
	return tokens
}
