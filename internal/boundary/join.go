package boundary

import (
	"math"

	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/civicmaps/pollmap/internal/results"
	"github.com/civicmaps/pollmap/internal/schema"
)

// FilterDistrict returns the features whose district-id property equals
// the given id. Property values arrive as JSON numbers or strings
// depending on the producer, so comparison is by coerced integer.
func FilterDistrict(features []*geojson.Feature, districtField string, id int) []*geojson.Feature {
	var out []*geojson.Feature
	for _, f := range features {
		if intProperty(f, districtField) == id {
			out = append(out, f)
		}
	}
	return out
}

// Join inner-joins boundary features with division results on the
// division-id property. Features without a matching division, and
// divisions without a matching feature, are dropped; callers log the
// count reduction. Feature order is preserved from the boundary file.
func Join(features []*geojson.Feature, divisions []results.DivisionResult, divisionField string, m schema.Mapping) ([]*geojson.Feature, int) {
	byID := make(map[int]*results.DivisionResult, len(divisions))
	for i := range divisions {
		byID[divisions[i].ID] = &divisions[i]
	}

	var joined []*geojson.Feature
	matched := make(map[int]bool, len(divisions))

	for _, f := range features {
		id := intProperty(f, divisionField)
		div, ok := byID[id]
		if !ok {
			continue
		}
		matched[id] = true

		props := make(map[string]interface{}, len(f.Properties)+4*len(m.Candidates)+8)
		for k, v := range f.Properties {
			props[k] = v
		}
		enrich(props, div, m)

		joined = append(joined, &geojson.Feature{
			ID:         f.ID,
			Geometry:   f.Geometry,
			Properties: props,
		})
	}

	return joined, len(matched)
}

// enrich merges one division's aggregated fields into a property map.
// Summed counts keep their source column names so the output mirrors the
// results file.
func enrich(props map[string]interface{}, div *results.DivisionResult, m schema.Mapping) {
	for _, candidate := range m.Candidates {
		props[candidate] = numeric(div.Votes[candidate])
		props[candidate+"_pct"] = numeric(div.Percent[candidate])
	}
	for _, fc := range []struct {
		field schema.Field
		value float64
	}{
		{schema.FieldRejected, div.Rejected},
		{schema.FieldTotalVotes, div.TotalVotes},
		{schema.FieldElectors, div.Electors},
	} {
		if col, err := m.Column(fc.field); err == nil {
			props[col] = numeric(fc.value)
		}
	}
	props["PD_NAME"] = div.Name
	props["leading_candidate"] = div.Leading
	props["leading_candidate_pct"] = numeric(div.LeadingPct)
}

// Simplify strips joined features down to the minimal property set for
// lightweight consumption: division id and name, summed counts, derived
// percentages, and the leading-candidate fields.
func Simplify(features []*geojson.Feature, divisionField string, m schema.Mapping) []*geojson.Feature {
	keep := simpleKeys(divisionField, m)

	out := make([]*geojson.Feature, 0, len(features))
	for _, f := range features {
		props := make(map[string]interface{}, len(keep))
		for _, k := range keep {
			if v, ok := f.Properties[k]; ok {
				props[k] = v
			}
		}
		out = append(out, &geojson.Feature{
			ID:         f.ID,
			Geometry:   f.Geometry,
			Properties: props,
		})
	}
	return out
}

func simpleKeys(divisionField string, m schema.Mapping) []string {
	keys := []string{divisionField, "PD_NAME"}
	keys = append(keys, m.Candidates...)
	for _, field := range []schema.Field{schema.FieldRejected, schema.FieldTotalVotes, schema.FieldElectors} {
		if col, err := m.Column(field); err == nil {
			keys = append(keys, col)
		}
	}
	keys = append(keys, "leading_candidate", "leading_candidate_pct")
	for _, candidate := range m.Candidates {
		keys = append(keys, candidate+"_pct")
	}
	return keys
}

// numeric converts a float for JSON output. NaN and Inf have no JSON
// representation, so undefined values (percentage of a zero vote total)
// become null.
func numeric(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

// intProperty coerces a feature property to an integer id, accepting
// JSON numbers and numeric strings. Missing or non-numeric values
// become 0, matching the results-side id coercion.
func intProperty(f *geojson.Feature, key string) int {
	switch v := f.Properties[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		return results.DivisionID(v)
	default:
		return 0
	}
}
