// Package meshstats implements the statistics behind bed mesh learning. It
// contains:
//
//   - History, Bucket, Sample: the mesh_history structure decoded from a
//     Klipper variables store, grouped by temperature bucket
//   - AnalyzeHistory: per-bucket variance statistics (mean and population
//     standard deviation per probe point, confidence, stable points)
//   - SynthesizeMesh: one recency-weighted mesh per bucket
//
// Every function here is a pure function of its input. Nothing is cached
// between calls, so callers may run them concurrently on independent
// snapshots.
package meshstats
