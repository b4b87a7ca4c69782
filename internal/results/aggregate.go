// Package results cleans raw results rows and aggregates them into
// per-polling-division totals with derived statistics.
package results

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/civicmaps/pollmap/internal/schema"
	"github.com/civicmaps/pollmap/internal/tabular"
)

// District identifies the electoral district the results file covers.
// One file covers exactly one district; the id and name are read from
// the first row.
type District struct {
	ID   int
	Name string
}

// DivisionResult holds the summed counts and derived statistics for one
// polling division. Votes and Percent are keyed by raw candidate column
// name; iteration order comes from Mapping.Candidates.
type DivisionResult struct {
	ID         int
	Name       string
	Votes      map[string]float64
	Rejected   float64
	TotalVotes float64
	Electors   float64
	Percent    map[string]float64
	Leading    string
	LeadingPct float64
}

// Aggregate groups cleaned rows by polling-division id and produces one
// DivisionResult per division, sorted by id. Sums skip NaN cells;
// percentages of a zero vote total stay NaN/Inf so the condition is
// detectable downstream.
func Aggregate(t *tabular.Table, m schema.Mapping) ([]DivisionResult, District, error) {
	if len(m.Candidates) == 0 {
		return nil, District{}, eris.New("results: no candidate columns detected")
	}
	if t.Len() == 0 {
		return nil, District{}, eris.New("results: no data rows to aggregate")
	}

	district, err := readDistrict(t, m)
	if err != nil {
		return nil, District{}, err
	}

	divisionCol, err := m.Column(schema.FieldDivisionNumber)
	if err != nil {
		return nil, District{}, err
	}
	nameCol, err := m.Column(schema.FieldDivisionName)
	if err != nil {
		return nil, District{}, err
	}
	rejectedCol, err := m.Column(schema.FieldRejected)
	if err != nil {
		return nil, District{}, err
	}
	totalCol, err := m.Column(schema.FieldTotalVotes)
	if err != nil {
		return nil, District{}, err
	}
	electorsCol, err := m.Column(schema.FieldElectors)
	if err != nil {
		return nil, District{}, err
	}

	groups := make(map[int]*DivisionResult)
	var order []int

	for i := 0; i < t.Len(); i++ {
		idCell, err := t.Cell(i, divisionCol)
		if err != nil {
			return nil, District{}, err
		}
		id := DivisionID(idCell)

		agg, ok := groups[id]
		if !ok {
			agg = &DivisionResult{ID: id, Votes: make(map[string]float64, len(m.Candidates))}
			groups[id] = agg
			order = append(order, id)
		}

		if agg.Name == "" {
			name, err := t.Cell(i, nameCol)
			if err != nil {
				return nil, District{}, err
			}
			agg.Name = name
		}

		for _, candidate := range m.Candidates {
			cell, err := t.Cell(i, candidate)
			if err != nil {
				return nil, District{}, err
			}
			agg.Votes[candidate] += zeroIfNaN(ParseCount(cell))
		}

		for _, nc := range []struct {
			col string
			sum *float64
		}{
			{rejectedCol, &agg.Rejected},
			{totalCol, &agg.TotalVotes},
			{electorsCol, &agg.Electors},
		} {
			cell, err := t.Cell(i, nc.col)
			if err != nil {
				return nil, District{}, err
			}
			*nc.sum += zeroIfNaN(ParseCount(cell))
		}
	}

	out := make([]DivisionResult, 0, len(order))
	for _, id := range order {
		agg := groups[id]
		derive(agg, m.Candidates)
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, district, nil
}

// derive fills in percentages and the leading candidate for one
// aggregated division.
func derive(agg *DivisionResult, candidates []string) {
	agg.Percent = make(map[string]float64, len(candidates))
	for _, candidate := range candidates {
		// IEEE division: 0/0 is NaN, n/0 is +Inf. Both survive to output.
		agg.Percent[candidate] = agg.Votes[candidate] / agg.TotalVotes * 100
	}

	leading := candidates[0]
	best := agg.Votes[leading]
	for _, candidate := range candidates[1:] {
		v := agg.Votes[candidate]
		if v > best || (math.IsNaN(best) && !math.IsNaN(v)) {
			leading = candidate
			best = v
		}
	}
	agg.Leading = leading
	agg.LeadingPct = agg.Percent[leading]
}

// readDistrict pulls the district id and name from the first row.
// Multi-district input is out of contract; rows beyond the first are not
// checked.
func readDistrict(t *tabular.Table, m schema.Mapping) (District, error) {
	idCol, err := m.Column(schema.FieldDistrictNumber)
	if err != nil {
		return District{}, err
	}
	nameCol, err := m.Column(schema.FieldDistrictName)
	if err != nil {
		return District{}, err
	}

	idCell, err := t.Cell(0, idCol)
	if err != nil {
		return District{}, err
	}
	name, err := t.Cell(0, nameCol)
	if err != nil {
		return District{}, err
	}

	return District{ID: DivisionID(idCell), Name: name}, nil
}

func zeroIfNaN(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
