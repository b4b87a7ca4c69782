package results

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/civicmaps/pollmap/internal/tabular"
)

// combinedMarker flags rows that restate votes already counted in other
// rows ("Combined with ..."). They must be dropped before aggregation or
// those votes are counted twice.
const combinedMarker = "Combined"

// FilterCombined drops rows whose value in the given candidate column
// contains the combined-results marker. The source data places the
// marker in every candidate column of such rows, so checking one column
// is sufficient.
func FilterCombined(t *tabular.Table, candidateCol string) (*tabular.Table, error) {
	idx, err := t.ColumnIndex(candidateCol)
	if err != nil {
		return nil, eris.Wrap(err, "results: filter combined rows")
	}

	return t.Filter(func(row []string) bool {
		if idx >= len(row) {
			return true
		}
		return !strings.Contains(row[idx], combinedMarker)
	}), nil
}
