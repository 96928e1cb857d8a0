package meshstats

import "math"

// welford keeps a running mean and variance of one probe point across
// samples using Welford's algorithm.
type welford struct {
	count int
	mean  float64
	m2    float64
}

func (w *welford) add(x float64) {
	w.count++
	delta := x - w.mean
	w.mean += delta / float64(w.count)
	w.m2 += delta * (x - w.mean)
}

// populationVariance divides by count, not count-1. Returns 0 for an empty
// accumulator.
func (w *welford) populationVariance() float64 {
	if w.count == 0 {
		return 0
	}
	return w.m2 / float64(w.count)
}

func (w *welford) populationStdDev() float64 {
	return math.Sqrt(w.populationVariance())
}
