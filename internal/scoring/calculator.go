package scoring

// Dimension identifies one of the four fixed quality axes. The identifiers
// double as workbook column suffixes and must stay stable across versions.
type Dimension string

const (
	DimInstructionConstraintAdherence Dimension = "instruction_constraint_adherence"
	DimContextAmbiguityHandling       Dimension = "context_ambiguity_handling"
	DimPlanCoherence                  Dimension = "plan_coherence"
	DimSafetyCompliance               Dimension = "safety_compliance"
)

// Dimensions returns the fixed dimension set in display order.
func Dimensions() []Dimension {
	return []Dimension{
		DimInstructionConstraintAdherence,
		DimContextAmbiguityHandling,
		DimPlanCoherence,
		DimSafetyCompliance,
	}
}

// Dimension scores are integers on a 0-2 scale.
const (
	MinDimensionScore = 0
	MaxDimensionScore = 2
)

// DefaultThreshold is the default pass/fail boundary.
const DefaultThreshold = 0.75

// Weights configures the relative contribution of each dimension and of
// target completion to the overall score.
type Weights struct {
	Dimension map[Dimension]float64
	Target    float64
}

// DefaultWeights returns unit weights for every dimension and for target
// completion.
func DefaultWeights() Weights {
	dims := make(map[Dimension]float64, len(Dimensions()))
	for _, d := range Dimensions() {
		dims[d] = 1.0
	}
	return Weights{Dimension: dims, Target: 1.0}
}

// weightFor returns the configured weight for a dimension, defaulting to 1.0
// when the weight map has no entry.
func (w Weights) weightFor(d Dimension) float64 {
	if w.Dimension == nil {
		return 1.0
	}
	if v, ok := w.Dimension[d]; ok {
		return v
	}
	return 1.0
}

// Score computes the normalized conversation success score C in [0, 1]:
//
//	C = (Σ w_i * (s_i / 2) + w_t * T) / (Σ w_i + w_t)
//
// where s_i is the 0-2 score for dimension i, w_i its weight, T the target
// completion ratio completed/introduced (0 when nothing was introduced), and
// w_t the target completion weight. Dimensions absent from scores contribute
// to neither sum, so a partial rating set still produces a defined score.
//
// Edge cases never divide by zero: an empty score map yields 0.0, and a zero
// combined weight yields 0.0. The formula is the contractual definition of
// success; exports, pass/fail labels, and resumed sessions all depend on it
// reproducing bit-for-bit given the same inputs.
func Score(scores map[Dimension]int, targetsCompleted, targetsIntroduced int, w Weights) float64 {
	if len(scores) == 0 {
		return 0.0
	}

	var dimensionSum, weightSum float64
	for dim, s := range scores {
		weight := w.weightFor(dim)
		dimensionSum += weight * (float64(s) / 2.0)
		weightSum += weight
	}

	var targetRatio float64
	if targetsIntroduced > 0 {
		targetRatio = float64(targetsCompleted) / float64(targetsIntroduced)
	}

	denominator := weightSum + w.Target
	if denominator == 0 {
		return 0.0
	}
	return (dimensionSum + w.Target*targetRatio) / denominator
}

// Outcome is the pass/fail label derived from a score and threshold.
type Outcome string

const (
	Pass Outcome = "PASS"
	Fail Outcome = "FAIL"
)

// PassFail labels a score against the threshold. The boundary passes.
func PassFail(score, threshold float64) Outcome {
	if score >= threshold {
		return Pass
	}
	return Fail
}

// Band is a three-bucket classification used only for presentation. It must
// not contradict the pass/fail boundary: a passing score is always high.
type Band string

const (
	BandLow    Band = "low"
	BandMedium Band = "medium"
	BandHigh   Band = "high"
)

// Classify buckets a score for display: low below threshold-0.15, medium up
// to the threshold, high at or above it.
func Classify(score, threshold float64) Band {
	switch {
	case score < threshold-0.15:
		return BandLow
	case score < threshold:
		return BandMedium
	default:
		return BandHigh
	}
}
