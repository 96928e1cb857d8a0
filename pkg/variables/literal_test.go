package variables

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"42", int64(42)},
		{"-7", int64(-7)},
		{"+3", int64(3)},
		{"0.125", 0.125},
		{"-.5", -0.5},
		{"1.", 1.0},
		{"1e-3", 0.001},
		{"2.5E+2", 250.0},
		{"99999999999999999999", 1e20},
		{"'hello'", "hello"},
		{`"it's"`, "it's"},
		{`'a\'b\\c\n'`, "a'b\\c\n"},
		{"'°C'", "°C"},
		{"True", true},
		{"False", false},
		{"None", nil},
		{"[]", []any{}},
		{"[1, 2.5, 'x']", []any{int64(1), 2.5, "x"}},
		{"[1, 2,]", []any{int64(1), int64(2)}},
		{"()", []any{}},
		{"(1,)", []any{int64(1)}},
		{"(1, 2)", []any{int64(1), int64(2)}},
		{"(5)", int64(5)},
		{"[[0.1, -0.2], [0.3, 0.4]]", []any{[]any{0.1, -0.2}, []any{0.3, 0.4}}},
		{"{}", map[string]any{}},
		{"{'a': 1, \"b\": [None]}", map[string]any{"a": int64(1), "b": []any{nil}}},
		{"{60: 'x', 1.5: 'y', True: 'z'}", map[string]any{"60": "x", "1.5": "y", "True": "z"}},
		{"  { 'k' : ( 1 , 2 ) , }  ", map[string]any{"k": []any{int64(1), int64(2)}}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseValue(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseValueRejects(t *testing.T) {
	for _, in := range []string{
		"",
		"hello",
		"__import__('os').system('rm -rf /')",
		"open('/etc/passwd')",
		"[1, 2",
		"{'a' 1}",
		"{[1]: 2}",
		"'unterminated",
		"1.2.3",
		"1e",
		"-",
		"1 2",
		"[1 2]",
		"inf",
		"nan",
		"1_000",
		"lambda: 0",
		"[x for x in range(10)]",
		strings.Repeat("[", maxDepth+1) + strings.Repeat("]", maxDepth+1),
		strings.Repeat("({", 1<<16),
		strings.Repeat("[", 8<<20),
	} {
		name := in
		if len(name) > 32 {
			name = name[:32] + "..."
		}
		t.Run(name, func(t *testing.T) {
			_, err := ParseValue(in)
			assert.ErrorIs(t, err, ErrSyntax)
		})
	}
}

func TestParseValueNestingLimit(t *testing.T) {
	in := strings.Repeat("[", maxDepth) + "1" + strings.Repeat("]", maxDepth)
	v, err := ParseValue(in)
	require.NoError(t, err)
	for i := 0; i < maxDepth; i++ {
		l, ok := v.([]any)
		require.True(t, ok, "level %d", i)
		require.Len(t, l, 1)
		v = l[0]
	}
	assert.Equal(t, int64(1), v)
}
