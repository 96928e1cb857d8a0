package meshstats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThresholdsNonPositiveFallBack(t *testing.T) {
	for _, th := range []Thresholds{
		{},
		{ConfidenceReference: -1, ImprovementReference: -0.5, StableThreshold: -0.01},
		{ConfidenceReference: math.NaN(), ImprovementReference: math.NaN(), StableThreshold: math.NaN()},
	} {
		assert.InDelta(t, 90.0, th.Confidence(0.01), 1e-9)
		assert.InDelta(t, 80.0, th.Improvement(0.01), 1e-9)
		assert.Equal(t, DefaultThresholds(), th.withDefaults())
	}
}

func TestThresholdsPartialOverride(t *testing.T) {
	th := Thresholds{ConfidenceReference: 0.2}.withDefaults()
	assert.Equal(t, Thresholds{
		ConfidenceReference:  0.2,
		ImprovementReference: DefaultImprovementReference,
		StableThreshold:      DefaultStableThreshold,
	}, th)
}

func TestZeroThresholdsMatchDefaults(t *testing.T) {
	history := History{
		"temp_60": bucketOf(uniform(2, 2, 0), uniform(2, 2, 0.004)),
	}

	want, err := AnalyzeHistory(history, DefaultThresholds())
	require.NoError(t, err)
	got, err := AnalyzeHistory(history, Thresholds{})
	require.NoError(t, err)
	assert.Equal(t, want, got)
	require.NotNil(t, got[0].Variance)
	assert.Equal(t, 100.0, got[0].Variance.StablePointFraction)

	mesh, err := SynthesizeMesh(history["temp_60"], Thresholds{})
	require.NoError(t, err)
	assert.False(t, math.IsInf(mesh.Improvement, 0) || math.IsNaN(mesh.Improvement))
	assert.InDelta(t, 96.0, mesh.Improvement, 1e-9)
}
