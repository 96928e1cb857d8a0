package meshstats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryFromVariables(t *testing.T) {
	vars := map[string]any{
		"other": "value",
		"mesh_history": map[string]any{
			"temp_60": map[string]any{
				"count": int64(5),
				"samples": []any{
					map[string]any{"points": []any{[]any{int64(0), 0.1}, []any{-0.2, 0.3}}},
					map[string]any{"points": []any{[]any{0.0, 0.2}, []any{-0.1, 0.4}}, "timestamp": int64(1700000000)},
				},
			},
			"temp_40": map[string]any{"count": int64(0), "samples": []any{}},
		},
	}

	history, err := HistoryFromVariables(vars)
	require.NoError(t, err)
	require.Len(t, history, 2)

	b := history["temp_60"]
	assert.Equal(t, 5, b.Count)
	require.Len(t, b.Samples, 2)
	assert.Equal(t, Grid{{0, 0.1}, {-0.2, 0.3}}, b.Samples[0].Points)
	assert.Equal(t, Grid{{0, 0.2}, {-0.1, 0.4}}, b.Samples[1].Points)

	assert.Empty(t, history["temp_40"].Samples)
}

func TestHistoryFromVariablesMissing(t *testing.T) {
	_, err := HistoryFromVariables(map[string]any{"foo": int64(1)})
	assert.ErrorIs(t, err, ErrNoHistory)

	_, err = HistoryFromVariables(nil)
	assert.ErrorIs(t, err, ErrNoHistory)
}

func TestDecodeHistoryCountDefaultsToSamples(t *testing.T) {
	history, err := DecodeHistory(map[string]any{
		"temp_60": map[string]any{
			"samples": []any{map[string]any{"points": []any{[]any{1.0}}}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, history["temp_60"].Count)
}

func TestDecodeHistoryMalformed(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		wantErr string
	}{
		{
			name:    "raw string fallback",
			in:      "{'temp_60': {'count': 1, 'samples': [",
			wantErr: "mesh_history: expected a mapping",
		},
		{
			name:    "bucket not a mapping",
			in:      map[string]any{"temp_60": []any{}},
			wantErr: "mesh_history.temp_60: expected a mapping",
		},
		{
			name:    "samples not a list",
			in:      map[string]any{"temp_60": map[string]any{"samples": "oops"}},
			wantErr: "mesh_history.temp_60.samples: expected a list",
		},
		{
			name:    "count not a number",
			in:      map[string]any{"temp_60": map[string]any{"count": "three"}},
			wantErr: "mesh_history.temp_60.count: expected a number",
		},
		{
			name: "missing points",
			in: map[string]any{"temp_60": map[string]any{
				"samples": []any{map[string]any{"mesh": []any{}}},
			}},
			wantErr: "mesh_history.temp_60.samples[0]: missing points",
		},
		{
			name: "point not a number",
			in: map[string]any{"temp_60": map[string]any{
				"samples": []any{map[string]any{"points": []any{[]any{0.1, true}}}},
			}},
			wantErr: "mesh_history.temp_60.samples[0].points[0][1]: expected a number",
		},
		{
			name: "row not a list",
			in: map[string]any{"temp_60": map[string]any{
				"samples": []any{map[string]any{"points": []any{0.1}}},
			}},
			wantErr: "mesh_history.temp_60.samples[0].points[0]: expected a list",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeHistory(tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedHistory)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
