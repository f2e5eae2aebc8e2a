package match

import (
	"fmt"
	"strings"
	"unicode"

	"dto-services/internal/common"
)

// NormalizeIdent folds an identifier for fuzzy matching: CamelCase is
// tokenized, separators (_, -, space) are dropped and the result is lower
// case. "MyString", "my_string" and "myString" all yield "mystring".
func NormalizeIdent(s string) string {
	return strings.ToLower(strings.Join(tokenizeCamelCase(s), ""))
}

// TokenizeIdent splits an identifier into lowercase tokens.
func TokenizeIdent(s string) []string {
	tokens := tokenizeCamelCase(s)
	for i, t := range tokens {
		tokens[i] = strings.ToLower(t)
	}

	return tokens
}

// DisplayName turns a type name into words for user-facing messages:
// "DddStaticFactEntity" -> "Ddd Static Fact Entity".
func DisplayName(s string) string {
	return strings.Join(tokenizeCamelCase(s), " ")
}

// tokenizeCamelCase splits a CamelCase or camelCase string into tokens.
// Examples:
//   - "OrderID" -> ["Order", "ID"]
//   - "customerName" -> ["customer", "Name"]
//   - "XMLParser" -> ["XML", "Parser"]
//   - "my_string" -> ["my", "string"]
func tokenizeCamelCase(s string) []string {
	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()

			continue
		}

		if i > 0 && startsToken(runes, i) {
			flush()
		}

		current.WriteRune(r)
	}

	flush()

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}

// startsToken reports whether a new token begins at runes[i].
func startsToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) {
		return false
	}

	// "orderID" splits before 'I'.
	if !unicode.IsUpper(prev) && !isSeparator(prev) {
		return true
	}

	// "XMLParser" splits before 'P'.
	return unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
}

// NameMode selects how property and parameter names are compared.
type NameMode int

const (
	// NamesFold compares names case-insensitively.
	NamesFold NameMode = iota
	// NamesNormalized compares NormalizeIdent forms, so "my_string" equals "MyString".
	NamesNormalized
)

// String returns the configuration spelling of the mode.
func (m NameMode) String() string {
	switch m {
	case NamesFold:
		return "fold"
	case NamesNormalized:
		return "normalized"
	default:
		return common.UnknownStr
	}
}

// ParseNameMode parses "fold" or "normalized". An empty string means fold.
func ParseNameMode(s string) (NameMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fold":
		return NamesFold, nil
	case "normalized":
		return NamesNormalized, nil
	default:
		return NamesFold, fmt.Errorf("unknown name matching mode %q", s)
	}
}

// Same reports whether two names refer to the same property under m.
func (m NameMode) Same(a, b string) bool {
	if m == NamesNormalized {
		return NormalizeIdent(a) == NormalizeIdent(b)
	}

	return strings.EqualFold(a, b)
}
