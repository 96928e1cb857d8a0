package meshstats

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesizeMeshEmpty(t *testing.T) {
	mesh, err := SynthesizeMesh(Bucket{Count: 4}, DefaultThresholds())
	assert.ErrorIs(t, err, ErrNoData)
	assert.Nil(t, mesh)
}

func TestSynthesizeMeshPassthrough(t *testing.T) {
	g := Grid{{0.012, -0.034, 0.1}, {0.0, 0.25, -0.125}}

	mesh, err := SynthesizeMesh(bucketOf(g), DefaultThresholds())
	require.NoError(t, err)
	assert.Equal(t, g, mesh.Points)
	assert.Equal(t, 1, mesh.SamplesUsed)
	assert.False(t, mesh.Averaged)

	// The result must not alias the input.
	mesh.Points[0][0] = 42
	assert.Equal(t, 0.012, g[0][0])
}

func TestSynthesizeMeshTwoSamples(t *testing.T) {
	a := Grid{{0.0, 0.3}, {-0.6, 0.9}}
	b := Grid{{0.3, 0.0}, {0.6, 0.9}}

	mesh, err := SynthesizeMesh(bucketOf(a, b), DefaultThresholds())
	require.NoError(t, err)

	want := make(Grid, len(a))
	for r := range a {
		want[r] = make([]float64, len(a[r]))
		for c := range a[r] {
			want[r][c] = (a[r][c] + 2*b[r][c]) / 3
		}
	}
	if diff := cmp.Diff(want, mesh.Points, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("weighted mean mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, mesh.Averaged)
	assert.Equal(t, 2, mesh.SamplesUsed)
}

func TestSynthesizeMeshDeviationAndImprovement(t *testing.T) {
	mesh, err := SynthesizeMesh(bucketOf(uniform(3, 3, 0), uniform(3, 3, 0.02)), DefaultThresholds())
	require.NoError(t, err)

	assert.InDelta(t, 0.01, mesh.AverageDeviation, 1e-12)
	assert.InDelta(t, 80.0, mesh.Improvement, 1e-9)
	if diff := cmp.Diff(uniform(3, 3, 0.02/1.5), mesh.Points, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("weighted mean mismatch (-want +got):\n%s", diff)
	}
}

func TestSynthesizeMeshRecencyBias(t *testing.T) {
	// Five samples 0,1,2,3,4 with weights 0.5,0.625,0.75,0.875,1.0.
	grids := make([]Grid, 5)
	for i := range grids {
		grids[i] = uniform(2, 3, float64(i))
	}

	mesh, err := SynthesizeMesh(bucketOf(grids...), DefaultThresholds())
	require.NoError(t, err)

	want := (0*0.5 + 1*0.625 + 2*0.75 + 3*0.875 + 4*1.0) / (0.5 + 0.625 + 0.75 + 0.875 + 1.0)
	for _, row := range mesh.Points {
		for _, v := range row {
			assert.InDelta(t, want, v, 1e-12)
			assert.Greater(t, v, 2.0, "newer samples should pull the mean up")
		}
	}
	assert.Equal(t, 2, mesh.Points.Rows())
	assert.Equal(t, 3, mesh.Points.Cols())
}

func TestSynthesizeMeshImprovementUnclamped(t *testing.T) {
	mesh, err := SynthesizeMesh(bucketOf(uniform(2, 2, -0.1), uniform(2, 2, 0.1)), DefaultThresholds())
	require.NoError(t, err)
	assert.InDelta(t, -100.0, mesh.Improvement, 1e-9)
}

func TestSynthesizeMeshInconsistentDimensions(t *testing.T) {
	_, err := SynthesizeMesh(bucketOf(uniform(3, 3, 0), uniform(2, 3, 0)), DefaultThresholds())
	assert.ErrorIs(t, err, ErrInconsistentDimensions)

	ragged := Grid{{0, 0, 0}, {0, 0}, {0, 0, 0}}
	_, err = SynthesizeMesh(bucketOf(uniform(3, 3, 0), ragged), DefaultThresholds())
	assert.ErrorIs(t, err, ErrInconsistentDimensions)
}

func TestHistorySynthesize(t *testing.T) {
	history := History{
		"temp_40": {Count: 1},
		"temp_60": bucketOf(uniform(2, 2, 0.1), uniform(2, 2, 0.1)),
	}

	_, err := history.Synthesize(TemperatureKey(80), DefaultThresholds())
	assert.ErrorIs(t, err, ErrNoData)

	_, err = history.Synthesize(TemperatureKey(40), DefaultThresholds())
	assert.ErrorIs(t, err, ErrNoData)

	var empty History
	_, err = empty.Synthesize(TemperatureKey(60), DefaultThresholds())
	assert.ErrorIs(t, err, ErrNoData)

	mesh, err := history.Synthesize(TemperatureKey(60), DefaultThresholds())
	require.NoError(t, err)
	assert.InDelta(t, 0.1, mesh.Points[1][1], 1e-12)
}

func TestRecencyWeights(t *testing.T) {
	assert.Equal(t, []float64{0.5, 1.0}, recencyWeights(2))
	assert.Equal(t, []float64{0.5, 0.75, 1.0}, recencyWeights(3))
}

func TestTemperatureKey(t *testing.T) {
	assert.Equal(t, "temp_60", TemperatureKey(60))
	assert.Equal(t, "60", BucketLabel(TemperatureKey(60)))
	assert.Equal(t, "bed", BucketLabel("bed"))
}
