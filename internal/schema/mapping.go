// Package schema resolves raw results-table headers onto the logical
// fields the aggregation stage needs. Header naming varies by source and
// language, so resolution is heuristic and kept behind the Resolver
// interface.
package schema

import (
	"fmt"

	"github.com/rotisserie/eris"
)

// Field names a logical column of the results table.
type Field string

const (
	FieldDistrictNumber Field = "district_number"
	FieldDistrictName   Field = "district_name"
	FieldDivisionNumber Field = "pd_number"
	FieldDivisionName   Field = "pd_name"
	FieldRejected       Field = "rejected"
	FieldTotalVotes     Field = "total_votes"
	FieldElectors       Field = "electors"
)

// StandardFields lists the non-candidate fields in resolution order.
var StandardFields = []Field{
	FieldDistrictNumber,
	FieldDistrictName,
	FieldDivisionNumber,
	FieldDivisionName,
	FieldRejected,
	FieldTotalVotes,
	FieldElectors,
}

// Mapping associates logical fields with raw column names. Candidate
// columns keep the order they appear in the header.
type Mapping struct {
	columns    map[Field]string
	Candidates []string
}

// NewMapping builds a Mapping from resolved columns.
func NewMapping(columns map[Field]string, candidates []string) Mapping {
	return Mapping{columns: columns, Candidates: candidates}
}

// Column returns the raw column name mapped to the field. Accessing a
// field the resolver could not map is an error; callers must not guess.
func (m Mapping) Column(f Field) (string, error) {
	col, ok := m.columns[f]
	if !ok {
		return "", eris.Errorf("schema: field %s is not mapped to any column", f)
	}
	return col, nil
}

// Has reports whether the field was resolved.
func (m Mapping) Has(f Field) bool {
	_, ok := m.columns[f]
	return ok
}

// Warning records a standard field that no header matched.
type Warning struct {
	Field Field
}

func (w Warning) String() string {
	return fmt.Sprintf("could not find column for %s", w.Field)
}

// Resolver maps a header row onto a Mapping. Implementations must be
// deterministic; unmatched standard fields are warnings, not errors.
type Resolver interface {
	Resolve(headers []string) (Mapping, []Warning)
}
