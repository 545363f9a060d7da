package analytics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// BoxStats summarizes one category's distribution the way a Tukey box plot does:
// whiskers reach the most extreme values within 1.5 IQR of the quartiles and
// everything beyond is an outlier.
type BoxStats struct {
	Category     string    `json:"category"`
	Count        int       `json:"count"`
	LowerWhisker float64   `json:"lower_whisker"`
	Q1           float64   `json:"q1"`
	Median       float64   `json:"median"`
	Q3           float64   `json:"q3"`
	UpperWhisker float64   `json:"upper_whisker"`
	Mean         float64   `json:"mean"`
	Outliers     []float64 `json:"outliers,omitempty"`
}

// NewBoxStats computes box-plot statistics. values is not modified.
func NewBoxStats(category string, values []float64) BoxStats {
	bs := BoxStats{Category: category, Count: len(values)}
	if len(values) == 0 {
		return bs
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	bs.Q1 = quantile(sorted, 0.25)
	bs.Median = quantile(sorted, 0.5)
	bs.Q3 = quantile(sorted, 0.75)
	bs.Mean = stat.Mean(sorted, nil)

	iqr := bs.Q3 - bs.Q1
	lowFence := bs.Q1 - 1.5*iqr
	highFence := bs.Q3 + 1.5*iqr

	bs.LowerWhisker = bs.Q1
	bs.UpperWhisker = bs.Q3
	for _, v := range sorted {
		if v < lowFence || v > highFence {
			bs.Outliers = append(bs.Outliers, v)
			continue
		}
		if v < bs.LowerWhisker {
			bs.LowerWhisker = v
		}
		if v > bs.UpperWhisker {
			bs.UpperWhisker = v
		}
	}
	return bs
}

// quantile interpolates linearly between the order statistics around
// position (n-1)p, so the median of an even sample is the mean of the middle
// pair.
func quantile(sorted []float64, p float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}

// roundTo rounds v to the given number of decimals, halves away from zero.
func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
