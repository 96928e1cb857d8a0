package meshstats

// SynthesizeMesh builds the representative mesh of a bucket as a weighted
// mean of its samples, newer samples weighing up to twice as much as the
// oldest. No sample is discarded; the standard deviation only feeds the
// reported deviation and improvement.
//
// A single sample is passed through unchanged. An empty bucket returns
// ErrNoData.
func SynthesizeMesh(bucket Bucket, th Thresholds) (*SynthesizedMesh, error) {
	switch len(bucket.Samples) {
	case 0:
		return nil, ErrNoData
	case 1:
		return &SynthesizedMesh{
			Points:      bucket.Samples[0].Points.Clone(),
			SamplesUsed: 1,
		}, nil
	}

	s, err := newStack(bucket.Samples)
	if err != nil {
		return nil, err
	}

	_, stdDev := s.moments()
	avg, _ := deviationSummary(stdDev)

	return &SynthesizedMesh{
		Points:           s.weightedMean(recencyWeights(s.depth())),
		SamplesUsed:      s.depth(),
		Averaged:         true,
		AverageDeviation: avg,
		Improvement:      th.Improvement(avg),
	}, nil
}
