package meshstats

const (
	// DefaultConfidenceReference is the average deviation (mm) at which
	// confidence reaches 0%.
	DefaultConfidenceReference = 0.1
	// DefaultImprovementReference is the average deviation (mm) at which
	// mesh improvement reaches 0%.
	DefaultImprovementReference = 0.05
	// DefaultStableThreshold is the deviation (mm) below which a probe point
	// counts as stable.
	DefaultStableThreshold = 0.01
)

// Thresholds holds the reference constants of the linear quality
// heuristics. They are not statistical confidence intervals. Non-positive
// fields fall back to their defaults, so the zero value behaves like
// DefaultThresholds().
type Thresholds struct {
	ConfidenceReference  float64 `json:"confidenceReference" yaml:"confidenceReference"`
	ImprovementReference float64 `json:"improvementReference" yaml:"improvementReference"`
	StableThreshold      float64 `json:"stableThreshold" yaml:"stableThreshold"`
}

// DefaultThresholds returns 0.1mm, 0.05mm and 0.01mm references.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ConfidenceReference:  DefaultConfidenceReference,
		ImprovementReference: DefaultImprovementReference,
		StableThreshold:      DefaultStableThreshold,
	}
}

// Confidence maps an average deviation to a percentage. The result is not
// clamped and may fall outside [0, 100].
func (t Thresholds) Confidence(avgDeviation float64) float64 {
	t = t.withDefaults()
	return (1 - avgDeviation/t.ConfidenceReference) * 100
}

// Improvement maps an average deviation to a percentage. The result is not
// clamped.
func (t Thresholds) Improvement(avgDeviation float64) float64 {
	t = t.withDefaults()
	return (1 - avgDeviation/t.ImprovementReference) * 100
}

func (t Thresholds) withDefaults() Thresholds {
	if !(t.ConfidenceReference > 0) {
		t.ConfidenceReference = DefaultConfidenceReference
	}
	if !(t.ImprovementReference > 0) {
		t.ImprovementReference = DefaultImprovementReference
	}
	if !(t.StableThreshold > 0) {
		t.StableThreshold = DefaultStableThreshold
	}
	return t
}
