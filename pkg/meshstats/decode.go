package meshstats

import "fmt"

// HistoryFromVariables decodes the mesh_history entry of a loaded variables
// store. ErrNoHistory is returned when the entry is absent.
func HistoryFromVariables(vars map[string]any) (History, error) {
	raw, ok := vars[HistoryKey]
	if !ok {
		return nil, ErrNoHistory
	}
	return DecodeHistory(raw)
}

// DecodeHistory converts the generic nested value produced by the variables
// loader into a History. Only the field names count, samples and points are
// interpreted; other fields are ignored.
func DecodeHistory(v any) (History, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, malformed(HistoryKey, "expected a mapping, got %s", describe(v))
	}

	history := make(History, len(m))
	for key, raw := range m {
		bucket, err := decodeBucket(HistoryKey+"."+key, raw)
		if err != nil {
			return nil, err
		}
		history[key] = bucket
	}

	return history, nil
}

func decodeBucket(path string, v any) (Bucket, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return Bucket{}, malformed(path, "expected a mapping, got %s", describe(v))
	}

	var samples []Sample
	if raw, ok := m["samples"]; ok && raw != nil {
		list, ok := raw.([]any)
		if !ok {
			return Bucket{}, malformed(path+".samples", "expected a list, got %s", describe(raw))
		}
		samples = make([]Sample, 0, len(list))
		for i, item := range list {
			s, err := decodeSample(fmt.Sprintf("%s.samples[%d]", path, i), item)
			if err != nil {
				return Bucket{}, err
			}
			samples = append(samples, s)
		}
	}

	// Older writers did not record count; fall back to the stored samples.
	count := len(samples)
	if raw, ok := m["count"]; ok {
		n, ok := toNumber(raw)
		if !ok {
			return Bucket{}, malformed(path+".count", "expected a number, got %s", describe(raw))
		}
		count = int(n)
	}

	return Bucket{Count: count, Samples: samples}, nil
}

func decodeSample(path string, v any) (Sample, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return Sample{}, malformed(path, "expected a mapping, got %s", describe(v))
	}
	raw, ok := m["points"]
	if !ok {
		return Sample{}, malformed(path, "missing points")
	}
	grid, err := decodeGrid(path+".points", raw)
	if err != nil {
		return Sample{}, err
	}
	return Sample{Points: grid}, nil
}

func decodeGrid(path string, v any) (Grid, error) {
	rows, ok := v.([]any)
	if !ok {
		return nil, malformed(path, "expected a list of rows, got %s", describe(v))
	}
	grid := make(Grid, len(rows))
	for r, rawRow := range rows {
		row, ok := rawRow.([]any)
		if !ok {
			return nil, malformed(fmt.Sprintf("%s[%d]", path, r), "expected a list, got %s", describe(rawRow))
		}
		grid[r] = make([]float64, len(row))
		for c, rawPoint := range row {
			f, ok := toNumber(rawPoint)
			if !ok {
				return nil, malformed(fmt.Sprintf("%s[%d][%d]", path, r, c), "expected a number, got %s", describe(rawPoint))
			}
			grid[r][c] = f
		}
	}
	return grid, nil
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func describe(v any) string {
	switch v := v.(type) {
	case nil:
		return "nothing"
	case string:
		return fmt.Sprintf("string %q", truncate(v, 32))
	default:
		return fmt.Sprintf("%T", v)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func malformed(path, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrMalformedHistory, path, fmt.Sprintf(format, args...))
}
