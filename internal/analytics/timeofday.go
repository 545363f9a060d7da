package analytics

import (
	"bikepulse/internal/dataset"
	"bikepulse/pkg/contracts/domain"
)

// BucketTotal is the rental sum of one time-of-day bucket.
type BucketTotal struct {
	Bucket domain.TimeOfDay `json:"bucket"`
	Label  string           `json:"label"`
	Total  int64            `json:"total"`
}

// TimeOfDayBreakdown lists the buckets present, in Morning, Afternoon,
// Evening, Night order.
type TimeOfDayBreakdown struct {
	Buckets []BucketTotal `json:"buckets"`
	// Ignored counts rows whose category is not one of the four buckets.
	Ignored int `json:"ignored"`
}

// Peak returns the bucket with the most rentals. The earlier bucket wins ties.
func (b *TimeOfDayBreakdown) Peak() BucketTotal {
	var best BucketTotal
	for i, bt := range b.Buckets {
		if i == 0 || bt.Total > best.Total {
			best = bt
		}
	}
	return best
}

// AnalyzeTimeOfDay sums hourly rentals per time-of-day bucket.
func AnalyzeTimeOfDay(hourly dataset.HourlyTable) (*TimeOfDayBreakdown, error) {
	if len(hourly.Rows) == 0 {
		return nil, ErrNoData
	}
	if missing := hourly.Columns.Missing(domain.ColumnTimeOfDay, domain.ColumnTotalRentals); len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	sums := make(map[domain.TimeOfDay]int64)
	seen := make(map[domain.TimeOfDay]bool)
	out := &TimeOfDayBreakdown{}

	for _, r := range hourly.Rows {
		bucket := domain.TimeOfDay(r.TimeOfDay)
		if !bucket.Valid() {
			out.Ignored++
			continue
		}
		sums[bucket] += r.TotalRentals
		seen[bucket] = true
	}

	for _, bucket := range domain.TimeOfDayOrder {
		if seen[bucket] {
			out.Buckets = append(out.Buckets, BucketTotal{Bucket: bucket, Label: bucket.Label(), Total: sums[bucket]})
		}
	}
	if len(out.Buckets) == 0 {
		return nil, ErrNoValidBucket
	}
	return out, nil
}
