package engine

import (
	"github.com/shopspring/decimal"

	"backend/internal/models"
)

// FormatMoney renders an amount with exactly two decimals.
func FormatMoney(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// ShapeAverages turns a mean result into chart labels and two-decimal values.
// Order and membership are kept as computed.
func ShapeAverages(res models.AggregationResult) models.AverageSeries {
	out := models.AverageSeries{
		Labels:   make([]string, 0, len(res)),
		Averages: make([]string, 0, len(res)),
	}
	for _, p := range res {
		out.Labels = append(out.Labels, p.Label)
		out.Averages = append(out.Averages, FormatMoney(p.Value))
	}
	return out
}

// ShapeCounts turns a frequency result into chart labels and integer counts.
func ShapeCounts(res models.AggregationResult) models.CountSeries {
	out := models.CountSeries{
		Labels: make([]string, 0, len(res)),
		Counts: make([]int, 0, len(res)),
	}
	for _, p := range res {
		out.Labels = append(out.Labels, p.Label)
		out.Counts = append(out.Counts, p.Count)
	}
	return out
}
