package meshstats

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// HistoryKey is the variables store key holding the mesh history.
	HistoryKey = "mesh_history"

	bucketKeyPrefix = "temp_"
)

// Grid is a rows x cols matrix of bed height offsets in mm.
type Grid [][]float64

// Rows returns the number of rows.
func (g Grid) Rows() int {
	return len(g)
}

// Cols returns the length of the first row, or 0 for an empty grid.
func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Clone returns a deep copy of g.
func (g Grid) Clone() Grid {
	if g == nil {
		return nil
	}
	out := make(Grid, len(g))
	for i, row := range g {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// Flatten returns all points in row-major order.
func (g Grid) Flatten() []float64 {
	out := make([]float64, 0, g.Rows()*g.Cols())
	for _, row := range g {
		out = append(out, row...)
	}
	return out
}

// Sample is one completed calibration.
type Sample struct {
	Points Grid `json:"points" yaml:"points"`
}

// Bucket groups the samples of one nominal temperature, oldest first.
type Bucket struct {
	// Count is the number of calibrations ever performed. It may exceed
	// len(Samples) when the writer caps the stored history.
	Count   int      `json:"count" yaml:"count"`
	Samples []Sample `json:"samples" yaml:"samples"`
}

// History maps temperature bucket keys (e.g. "temp_60") to buckets.
type History map[string]Bucket

// Keys returns the bucket keys in ascending lexicographic order.
func (h History) Keys() []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Synthesize looks up the bucket by key and synthesizes its mesh.
// ErrNoData is returned when the history is empty or the key is absent.
func (h History) Synthesize(key string, th Thresholds) (*SynthesizedMesh, error) {
	bucket, ok := h[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoData, key)
	}
	mesh, err := SynthesizeMesh(bucket, th)
	if err != nil {
		return nil, fmt.Errorf("bucket %s: %w", key, err)
	}
	return mesh, nil
}

// TemperatureKey returns the bucket key for a temperature.
func TemperatureKey(temp int) string {
	return fmt.Sprintf("%s%d", bucketKeyPrefix, temp)
}

// BucketLabel strips the bucket prefix, leaving the temperature text.
func BucketLabel(key string) string {
	return strings.TrimPrefix(key, bucketKeyPrefix)
}

// Variance holds the statistics that need at least two samples.
type Variance struct {
	Mean   Grid `json:"mean" yaml:"mean"`
	StdDev Grid `json:"stdDev" yaml:"stdDev"`
	// AverageDeviation is the mean of StdDev.
	AverageDeviation float64 `json:"averageDeviation" yaml:"averageDeviation"`
	// MaxDeviation is the largest element of StdDev.
	MaxDeviation float64 `json:"maxDeviation" yaml:"maxDeviation"`
	// Confidence is a percentage, unclamped.
	Confidence float64 `json:"confidence" yaml:"confidence"`
	// StablePointFraction is the percentage of points whose deviation is
	// strictly below the stable threshold.
	StablePointFraction float64 `json:"stablePointFraction" yaml:"stablePointFraction"`
}

// BucketReport is the analysis of one bucket. Variance is nil when the
// bucket holds a single sample.
type BucketReport struct {
	Key         string    `json:"key" yaml:"key"`
	Label       string    `json:"label" yaml:"label"`
	Count       int       `json:"count" yaml:"count"`
	SampleCount int       `json:"sampleCount" yaml:"sampleCount"`
	Variance    *Variance `json:"variance,omitempty" yaml:"variance,omitempty"`
}

// SynthesizedMesh is the representative mesh of one bucket.
type SynthesizedMesh struct {
	Points      Grid `json:"points" yaml:"points"`
	SamplesUsed int  `json:"samplesUsed" yaml:"samplesUsed"`
	// Averaged is false when the bucket had a single sample and Points is
	// that sample unchanged.
	Averaged         bool    `json:"averaged" yaml:"averaged"`
	AverageDeviation float64 `json:"averageDeviation" yaml:"averageDeviation"`
	Improvement      float64 `json:"improvement" yaml:"improvement"`
}
