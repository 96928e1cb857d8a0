package meshstats

import (
	"fmt"

	"github.com/aclements/go-moremath/stats"
)

// stack is the (samples, rows, cols) view of a bucket. Building one
// validates that every sample shares the first sample's shape.
type stack struct {
	rows  int
	cols  int
	grids []Grid
}

func newStack(samples []Sample) (*stack, error) {
	if len(samples) == 0 {
		return nil, ErrNoData
	}

	first := samples[0].Points
	s := &stack{
		rows:  first.Rows(),
		cols:  first.Cols(),
		grids: make([]Grid, 0, len(samples)),
	}
	if s.rows == 0 || s.cols == 0 {
		return nil, fmt.Errorf("%w: sample 0 has an empty grid", ErrInconsistentDimensions)
	}

	for i, sample := range samples {
		g := sample.Points
		if g.Rows() != s.rows {
			return nil, fmt.Errorf("%w: sample %d has %d rows, expected %d",
				ErrInconsistentDimensions, i, g.Rows(), s.rows)
		}
		for r, row := range g {
			if len(row) != s.cols {
				return nil, fmt.Errorf("%w: sample %d row %d has %d points, expected %d",
					ErrInconsistentDimensions, i, r, len(row), s.cols)
			}
		}
		s.grids = append(s.grids, g)
	}

	return s, nil
}

func (s *stack) depth() int {
	return len(s.grids)
}

func (s *stack) newGrid() Grid {
	g := make(Grid, s.rows)
	for r := range g {
		g[r] = make([]float64, s.cols)
	}
	return g
}

// moments returns the element-wise mean and population standard deviation
// across the sample axis.
func (s *stack) moments() (mean, stdDev Grid) {
	mean, stdDev = s.newGrid(), s.newGrid()
	for r := 0; r < s.rows; r++ {
		for c := 0; c < s.cols; c++ {
			var w welford
			for _, g := range s.grids {
				w.add(g[r][c])
			}
			mean[r][c] = w.mean
			stdDev[r][c] = w.populationStdDev()
		}
	}
	return mean, stdDev
}

// weightedMean returns the element-wise weighted mean across the sample
// axis. Weights are normalized by their sum.
func (s *stack) weightedMean(weights []float64) Grid {
	out := s.newGrid()
	xs := make([]float64, s.depth())
	for r := 0; r < s.rows; r++ {
		for c := 0; c < s.cols; c++ {
			for i, g := range s.grids {
				xs[i] = g[r][c]
			}
			out[r][c] = stats.Sample{Xs: xs, Weights: weights}.Mean()
		}
	}
	return out
}

// recencyWeights returns n weights rising linearly from 0.5 (oldest) to
// 1.0 (newest). n must be at least 2.
func recencyWeights(n int) []float64 {
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 0.5 + 0.5*float64(i)/float64(n-1)
	}
	return weights
}

// deviationSummary returns the mean and the maximum of a deviation grid.
func deviationSummary(stdDev Grid) (avg, peak float64) {
	flat := stdDev.Flatten()
	_, peak = stats.Bounds(flat)
	return stats.Mean(flat), peak
}
