package meshstats

func uniform(rows, cols int, v float64) Grid {
	g := make(Grid, rows)
	for r := range g {
		g[r] = make([]float64, cols)
		for c := range g[r] {
			g[r][c] = v
		}
	}
	return g
}

func bucketOf(grids ...Grid) Bucket {
	samples := make([]Sample, len(grids))
	for i, g := range grids {
		samples[i] = Sample{Points: g}
	}
	return Bucket{Count: len(grids), Samples: samples}
}
