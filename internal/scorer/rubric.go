package scorer

// Weights are the per-dimension contributions to the composite score.
// They must sum to 1.0.
type Weights struct {
	Technical   float64
	Depth       float64
	Methodology float64
	Clarity     float64
}

// Rubric holds a topic's keyword lists and dimension weights.
type Rubric struct {
	TechnicalTerms   []string
	AdvancedTerms    []string
	MethodologyTerms []string
	Weights          Weights
}

// DefaultRubrics returns the built-in scoring rubrics. All topics currently
// share the same weights; the per-topic field is kept so they can diverge
// without an API change.
func DefaultRubrics() map[string]Rubric {
	weights := Weights{Technical: 0.4, Depth: 0.3, Methodology: 0.2, Clarity: 0.1}

	return map[string]Rubric{
		"sta": {
			TechnicalTerms:   []string{"setup", "hold", "slack", "skew", "jitter", "corner", "violation", "closure"},
			AdvancedTerms:    []string{"ocv", "cppr", "useful skew", "clock latency", "propagated", "ideal"},
			MethodologyTerms: []string{"debug", "optimize", "analyze", "systematic", "root cause"},
			Weights:          weights,
		},
		"cts": {
			TechnicalTerms:   []string{"clock tree", "skew", "insertion delay", "buffer", "topology", "synthesis"},
			AdvancedTerms:    []string{"h-tree", "mesh", "useful skew", "gating", "power optimization"},
			MethodologyTerms: []string{"balance", "optimize", "strategy", "approach", "technique"},
			Weights:          weights,
		},
		"signoff": {
			TechnicalTerms:   []string{"drc", "lvs", "antenna", "density", "ir drop", "em", "signoff"},
			AdvancedTerms:    []string{"formal verification", "multi-corner", "yield analysis", "si analysis"},
			MethodologyTerms: []string{"debug", "systematic", "flow", "process", "validation"},
			Weights:          weights,
		},
	}
}
