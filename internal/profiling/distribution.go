package profiling

import (
	"fmt"
	"math"

	"polysynth/domain/core"
	"polysynth/internal/errors"

	"github.com/montanaflynn/stats"
)

// Summary describes the distribution of the evaluated dependent column
type Summary struct {
	Count    int     `json:"count"`
	Distinct int     `json:"distinct"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	Q25      float64 `json:"q25"`
	Q75      float64 `json:"q75"`
	Skewness float64 `json:"skewness"`
}

// Spread is the distance between the largest and smallest value
func (s Summary) Spread() float64 {
	return s.Max - s.Min
}

// DuplicateCount is the number of rows whose value repeats an earlier row
func (s Summary) DuplicateCount() int {
	return s.Count - s.Distinct
}

// DistributionAnalyzer summarizes dependent columns before targets are derived
type DistributionAnalyzer struct{}

// NewDistributionAnalyzer creates a new distribution analyzer
func NewDistributionAnalyzer() *DistributionAnalyzer {
	return &DistributionAnalyzer{}
}

// Summarize computes summary statistics for data
func (da *DistributionAnalyzer) Summarize(data []float64) (Summary, error) {
	summary := Summary{Count: len(data)}

	mean, err := stats.Mean(data)
	if err != nil {
		return summary, err
	}

	stdDev, err := stats.StandardDeviation(data)
	if err != nil {
		return summary, err
	}

	min, err := stats.Min(data)
	if err != nil {
		return summary, err
	}

	max, err := stats.Max(data)
	if err != nil {
		return summary, err
	}

	median, err := stats.Median(data)
	if err != nil {
		return summary, err
	}

	// Percentile needs at least four values; smaller samples report the extremes.
	q25, q75 := min, max
	if len(data) >= 4 {
		if q25, err = stats.Percentile(data, 25); err != nil {
			return summary, err
		}
		if q75, err = stats.Percentile(data, 75); err != nil {
			return summary, err
		}
	}

	summary.Distinct = countDistinct(data)
	summary.Mean = mean
	summary.StdDev = stdDev
	summary.Min = min
	summary.Max = max
	summary.Median = median
	summary.Q25 = q25
	summary.Q75 = q75
	summary.Skewness = calculateSkewness(data, mean, stdDev)

	return summary, nil
}

// CheckSpread rejects dependent columns that cannot be split into target
// classes: non-finite values, or two or more rows that all share one value.
// Magnitude alone never disqualifies a column; a positive minSpread adds an
// absolute max-min floor on top.
func (da *DistributionAnalyzer) CheckSpread(summary Summary, minSpread float64) error {
	if math.IsNaN(summary.Mean) || math.IsInf(summary.Min, 0) || math.IsInf(summary.Max, 0) {
		return errors.DegeneratePolynomial("dependent column rejected",
			fmt.Errorf("%w: values are not finite", core.ErrDegeneratePolynomial))
	}
	if summary.Count > 1 && summary.DuplicateCount() == summary.Count-1 {
		return errors.DegeneratePolynomial("dependent column rejected",
			fmt.Errorf("%w: all %d values are equal", core.ErrDegeneratePolynomial, summary.Count))
	}
	if minSpread > 0 && summary.Spread() < minSpread {
		return errors.DegeneratePolynomial("dependent column rejected",
			fmt.Errorf("%w: spread %.6g below minimum %.6g", core.ErrDegeneratePolynomial, summary.Spread(), minSpread))
	}
	return nil
}

// calculateSkewness computes sample skewness using the adjusted Fisher-Pearson coefficient
func calculateSkewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}

	n := float64(len(data))
	sumCubedDeviations := 0.0

	for _, x := range data {
		deviation := (x - mean) / stdDev
		sumCubedDeviations += deviation * deviation * deviation
	}

	skewness := sumCubedDeviations / n

	// Bias correction for sample skewness
	correction := math.Sqrt(n*(n-1)) / (n - 2)
	return skewness * correction
}

func countDistinct(data []float64) int {
	seen := make(map[float64]struct{}, len(data))
	for _, x := range data {
		seen[x] = struct{}{}
	}
	return len(seen)
}
