package match

import (
	"sort"
)

// Source is a field offered for pairing, with its type verdict against the
// target already computed by the caller (reflect or go/types).
type Source struct {
	Name   string
	Compat TypeCompatibility
}

// Candidate represents a potential pairing of a source name with a target name.
type Candidate struct {
	Name       string
	NameScore  float64           // Normalized Levenshtein similarity (0-1)
	TypeCompat TypeCompatibility // Type verdict for the pair

	// CombinedScore ranks candidates (higher is better).
	CombinedScore float64
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// Confidence thresholds.
const (
	// DefaultSuggestScore is the minimum combined score for a suggestion.
	DefaultSuggestScore = 0.7
	// DefaultSuggestLimit caps the number of suggestions.
	DefaultSuggestLimit = 3
)

// RankCandidates scores every source against target and sorts them by
// combined score (descending), then by name for determinism.
func RankCandidates(target string, sources []Source) CandidateList {
	targetNorm := NormalizeIdent(target)

	candidates := make(CandidateList, 0, len(sources))
	for _, src := range sources {
		nameScore := LevenshteinNormalized(NormalizeIdent(src.Name), targetNorm)

		candidates = append(candidates, Candidate{
			Name:          src.Name,
			NameScore:     nameScore,
			TypeCompat:    src.Compat,
			CombinedScore: combinedScore(nameScore, src.Compat),
		})
	}

	sort.Sort(candidates)

	return candidates
}

// Suggest returns up to limit source names worth offering as "did you mean"
// alternatives for target.
func Suggest(target string, sources []Source, limit int) []string {
	var out []string

	for _, c := range RankCandidates(target, sources).AboveThreshold(DefaultSuggestScore).Top(limit) {
		out = append(out, c.Name)
	}

	return out
}

// combinedScore weights name similarity at 60% and type compatibility at 40%.
func combinedScore(nameScore float64, compat TypeCompatibility) float64 {
	const (
		nameWeight = 0.6
		typeWeight = 0.4
	)

	var typeScore float64

	switch compat {
	case TypeIdentical:
		typeScore = 1.0
	case TypeAssignable:
		typeScore = 0.9
	case TypeConvertible:
		typeScore = 0.7
	case TypeNeedsTransform:
		typeScore = 0.4
	case TypeIncompatible:
		typeScore = 0.0
	}

	return nameScore*nameWeight + typeScore*typeWeight
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
func (c CandidateList) Less(i, j int) bool {
	if c[i].CombinedScore != c[j].CombinedScore {
		return c[i].CombinedScore > c[j].CombinedScore
	}

	return c[i].Name < c[j].Name
}

// Top returns the top n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}

	return c[:n]
}

// Best returns the best candidate, or nil if there are none.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}

	return &c[0]
}

// AboveThreshold returns candidates with a combined score of at least threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList

	for _, cand := range c {
		if cand.CombinedScore >= threshold {
			result = append(result, cand)
		}
	}

	return result
}
