package search

import (
	"strings"
	"unicode"
)

// Tokenize lowercases s and splits it on every rune that is not a letter or
// digit.
func Tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// allField is the pseudo-field every token is also posted under, so an
// unscoped term needs a single prefix scan.
const allField = "_all"

// Clause is one parsed query term.
type Clause struct {
	Field  string // allField when unscoped
	Token  string
	Prefix bool
}

// Query is a parsed query string. Clauses are OR-ed; a document's score is
// the number of clauses it matches.
type Query struct {
	MatchAll bool
	Clauses  []Clause
}

// ParseQuery parses whitespace separated terms. A term may be scoped as
// "field:term" and may end in "*" for a prefix match. "*" alone, or an empty
// query, matches every document.
func ParseQuery(raw string) Query {
	var q Query
	for _, term := range strings.Fields(raw) {
		if term == "*" {
			q.MatchAll = true
			continue
		}
		field := allField
		if f, rest, ok := strings.Cut(term, ":"); ok && f != "" && rest != "" {
			field, term = f, rest
		}
		prefix := strings.HasSuffix(term, "*")
		tokens := Tokenize(strings.TrimSuffix(term, "*"))
		for i, tok := range tokens {
			q.Clauses = append(q.Clauses, Clause{
				Field:  field,
				Token:  tok,
				Prefix: prefix && i == len(tokens)-1,
			})
		}
	}
	if len(q.Clauses) == 0 {
		q.MatchAll = true
	}
	return q
}
