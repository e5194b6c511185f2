package store

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/davetashner/phishdedup/internal/incident"
)

// term is one field:value condition of a query fragment.
type term struct {
	field  string
	value  string
	negate bool
}

// parseFragment accepts and-joined field:value terms. A leading '-' negates
// a term, values may be double-quoted, and parentheses are ignored.
func parseFragment(s string) ([]term, error) {
	tokens, err := splitTokens(s)
	if err != nil {
		return nil, err
	}

	var terms []term
	expectTerm := true
	for _, tok := range tokens {
		if strings.EqualFold(tok, "and") {
			if expectTerm {
				return nil, fmt.Errorf("unexpected %q in query %q", tok, s)
			}
			expectTerm = true
			continue
		}
		if !expectTerm {
			return nil, fmt.Errorf("terms must be joined with \"and\" in query %q", s)
		}
		t, err := parseTerm(tok)
		if err != nil {
			return nil, fmt.Errorf("query %q: %w", s, err)
		}
		terms = append(terms, t)
		expectTerm = false
	}
	if expectTerm && len(terms) > 0 {
		return nil, fmt.Errorf("query %q ends with \"and\"", s)
	}
	return terms, nil
}

// splitTokens splits on whitespace outside double quotes and strips
// grouping parentheses.
func splitTokens(s string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	inQuote := false
	flush := func() {
		tok := strings.Trim(cur.String(), "()")
		if tok != "" {
			tokens = append(tokens, tok)
		}
		cur.Reset()
	}

	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
			cur.WriteRune(r)
		case !inQuote && (r == ' ' || r == '\t' || r == '\n'):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated quote in query %q", s)
	}
	flush()
	return tokens, nil
}

func parseTerm(tok string) (term, error) {
	var t term
	if strings.HasPrefix(tok, "-") {
		t.negate = true
		tok = tok[1:]
	}
	field, value, ok := strings.Cut(tok, ":")
	if !ok || field == "" || value == "" {
		return term{}, fmt.Errorf("unsupported term %q (want field:value)", tok)
	}
	if strings.HasPrefix(value, `"`) {
		unquoted, err := strconv.Unquote(value)
		if err != nil {
			return term{}, fmt.Errorf("bad quoted value in %q: %w", tok, err)
		}
		value = unquoted
	}
	t.field, t.value = field, value
	return t, nil
}

func (t term) matches(r incident.Record) bool {
	v, ok := scalarString(r[t.field])
	hit := ok && strings.EqualFold(v, t.value)
	return hit != t.negate
}

// scalarString renders strings, numbers and booleans for comparison.
func scalarString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(x), true
	default:
		return "", false
	}
}
