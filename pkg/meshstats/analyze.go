package meshstats

import "fmt"

// AnalyzeHistory reports on every non-empty bucket in ascending key order.
// An empty history yields an empty report. A bucket whose samples disagree
// on grid shape fails the whole analysis.
func AnalyzeHistory(history History, th Thresholds) ([]BucketReport, error) {
	reports := make([]BucketReport, 0, len(history))

	for _, key := range history.Keys() {
		bucket := history[key]
		if len(bucket.Samples) == 0 {
			continue
		}

		report := BucketReport{
			Key:         key,
			Label:       BucketLabel(key),
			Count:       bucket.Count,
			SampleCount: len(bucket.Samples),
		}

		if len(bucket.Samples) > 1 {
			v, err := analyzeBucket(bucket, th)
			if err != nil {
				return nil, fmt.Errorf("bucket %s: %w", key, err)
			}
			report.Variance = v
		}

		reports = append(reports, report)
	}

	return reports, nil
}

func analyzeBucket(bucket Bucket, th Thresholds) (*Variance, error) {
	s, err := newStack(bucket.Samples)
	if err != nil {
		return nil, err
	}

	th = th.withDefaults()
	mean, stdDev := s.moments()
	avg, peak := deviationSummary(stdDev)

	return &Variance{
		Mean:                mean,
		StdDev:              stdDev,
		AverageDeviation:    avg,
		MaxDeviation:        peak,
		Confidence:          th.Confidence(avg),
		StablePointFraction: stableFraction(stdDev, th.StableThreshold),
	}, nil
}

// stableFraction is the percentage of deviations strictly below threshold.
func stableFraction(stdDev Grid, threshold float64) float64 {
	flat := stdDev.Flatten()
	if len(flat) == 0 {
		return 0
	}
	stable := 0
	for _, d := range flat {
		if d < threshold {
			stable++
		}
	}
	return float64(stable) / float64(len(flat)) * 100
}
