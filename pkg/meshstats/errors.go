package meshstats

import "errors"

var (
	// ErrNoHistory is returned when the variables store has no mesh_history entry.
	ErrNoHistory = errors.New("no mesh learning data found")

	// ErrNoData is returned when a bucket is absent or holds no samples.
	ErrNoData = errors.New("no data for bucket")

	// ErrMalformedHistory is returned when mesh_history does not have the
	// expected shape (mapping of buckets holding count/samples/points).
	ErrMalformedHistory = errors.New("malformed mesh history")

	// ErrInconsistentDimensions is returned when the samples of one bucket
	// do not share the same grid shape.
	ErrInconsistentDimensions = errors.New("inconsistent sample dimensions")
)
