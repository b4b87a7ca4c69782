package schema

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// labelPatterns holds the built-in English/French label fragments for
// each standard field. Earlier patterns win.
var labelPatterns = map[Field][]string{
	FieldDistrictNumber: {"Electoral District Number", "Numéro de circonscription"},
	FieldDistrictName:   {"Electoral District Name", "Nom de circonscription"},
	FieldDivisionNumber: {"Polling Division Number", "Numéro de section de vote"},
	FieldDivisionName:   {"Polling Division Name", "Nom de section de vote"},
	FieldRejected:       {"Rejected Ballots", "Bulletins rejetés"},
	FieldTotalVotes:     {"Total Votes", "Total des votes"},
	FieldElectors:       {"Electors", "Électeurs"},
}

// candidateStopList excludes non-candidate metadata columns from the
// candidate set. Fragments are matched as case-sensitive raw substrings;
// candidate columns carry proper names, which these fragments do not
// collide with.
var candidateStopList = []string{"rejected", "total", "elector", "number", "name", "division"}

// SubstringResolver matches headers against bilingual label fragments by
// folded substring search. Matching is accent-insensitive so exports that
// lost their diacritics in transit still resolve.
type SubstringResolver struct {
	patterns map[Field][]string
}

// NewSubstringResolver builds a resolver from the built-in pattern
// tables. Extra patterns, keyed by field name, are appended after the
// built-ins so they act as fallbacks.
func NewSubstringResolver(extra map[string][]string) *SubstringResolver {
	patterns := make(map[Field][]string, len(labelPatterns))
	for field, pats := range labelPatterns {
		patterns[field] = append([]string(nil), pats...)
	}
	for name, pats := range extra {
		field := Field(name)
		patterns[field] = append(patterns[field], pats...)
	}
	return &SubstringResolver{patterns: patterns}
}

// Resolve maps each standard field to the first header containing one of
// its label fragments (first pattern wins, first header wins). Headers
// left over, minus stop-listed metadata columns, become candidate
// columns in header order.
func (r *SubstringResolver) Resolve(headers []string) (Mapping, []Warning) {
	folded := make([]string, len(headers))
	for i, h := range headers {
		folded[i] = foldDiacritics(h)
	}

	columns := make(map[Field]string, len(StandardFields))
	var warnings []Warning

	for _, field := range StandardFields {
		col, ok := r.match(field, headers, folded)
		if !ok {
			warnings = append(warnings, Warning{Field: field})
			continue
		}
		columns[field] = col
	}

	mapped := make(map[string]bool, len(columns))
	for _, col := range columns {
		mapped[col] = true
	}

	var candidates []string
	for _, h := range headers {
		if mapped[h] || stopListed(h) {
			continue
		}
		candidates = append(candidates, h)
	}

	return NewMapping(columns, candidates), warnings
}

func (r *SubstringResolver) match(field Field, headers, folded []string) (string, bool) {
	for _, pattern := range r.patterns[field] {
		pat := foldDiacritics(pattern)
		for i, h := range folded {
			if strings.Contains(h, pat) {
				return headers[i], true
			}
		}
	}
	return "", false
}

func stopListed(header string) bool {
	for _, fragment := range candidateStopList {
		if strings.Contains(header, fragment) {
			return true
		}
	}
	return false
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldDiacritics strips combining marks so "Électeurs" and "Electeurs"
// compare equal. Case is preserved.
func foldDiacritics(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return s
	}
	return out
}
