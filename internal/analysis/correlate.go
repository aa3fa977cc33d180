package analysis

import (
	"math"

	"github.com/couchcryptid/quake-analytics-service/internal/domain"
	"github.com/couchcryptid/quake-analytics-service/internal/stats"
)

// Method selects the correlation coefficient.
type Method string

const (
	MethodPearson  Method = "pearson"
	MethodSpearman Method = "spearman"
)

// CorrelationParams is the fixed, ordered parameter set of the correlation
// matrix. Latitude and longitude enter as absolute values: hemisphere sign
// carries no meaning for correlation with magnitude or depth.
var CorrelationParams = []string{"magnitude", "depth", "significance", "latitude", "longitude"}

// CorrelationMatrix is the square coefficient matrix over CorrelationParams.
// The diagonal is fixed at 1.0 regardless of method or input.
type CorrelationMatrix struct {
	Params []string    `json:"params"`
	Values [][]float64 `json:"values"`
}

// Correlate builds the coefficient matrix over the working set using the
// selected method. Only events with all five parameters finite participate;
// the same pairwise kernel function is applied to both orderings, so the
// matrix is symmetric by construction.
func Correlate(events []domain.Event, method Method) CorrelationMatrix {
	series := make([][]float64, len(CorrelationParams))
	for i := range series {
		series[i] = make([]float64, 0, len(events))
	}

	for _, e := range events {
		row, ok := correlationRow(e)
		if !ok {
			continue
		}
		for i, v := range row {
			series[i] = append(series[i], v)
		}
	}

	corr := stats.Pearson
	if method == MethodSpearman {
		corr = stats.Spearman
	}

	n := len(CorrelationParams)
	values := make([][]float64, n)
	for i := 0; i < n; i++ {
		values[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			if i == j {
				values[i][j] = 1.0
				continue
			}
			values[i][j] = corr(series[i], series[j])
		}
	}

	return CorrelationMatrix{Params: CorrelationParams, Values: values}
}

// correlationRow extracts the event's values in CorrelationParams order,
// reporting false when any parameter is absent or non-finite.
func correlationRow(e domain.Event) ([]float64, bool) {
	if !e.HasCoordinates() {
		return nil, false
	}
	row := []float64{e.Magnitude, e.Depth, e.Significance, math.Abs(*e.Latitude), math.Abs(*e.Longitude)}
	for _, v := range row {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, false
		}
	}
	return row, true
}
