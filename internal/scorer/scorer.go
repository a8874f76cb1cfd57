package scorer

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// minAnswerLength is the hard floor in characters, not bytes: trimmed answers
// shorter than this get a zero score with no partial credit.
const minAnswerLength = 20

// idealSentenceLength is the average words-per-sentence that scores full
// clarity marks. Deliberately arbitrary; changing it changes every clarity
// score, so leave it alone.
const idealSentenceLength = 17.5

// fallbackTopic is the rubric used for unrecognized topics.
const fallbackTopic = "sta"

// Breakdown holds the four dimension sub-scores, each on a 0-10 scale.
type Breakdown struct {
	Technical   float64 `json:"technical"`
	Depth       float64 `json:"depth"`
	Methodology float64 `json:"methodology"`
	Clarity     float64 `json:"clarity"`
}

// Result is the full scoring output for one question/answer pair.
type Result struct {
	Score       float64   `json:"score"`
	Breakdown   Breakdown `json:"breakdown"`
	Feedback    string    `json:"feedback"`
	Suggestions []string  `json:"suggestions"`
	WordCount   int       `json:"word_count"`
}

var (
	exampleMarkers      = []string{"example", "for instance", "such as"}
	comparisonMarkers   = []string{"compare", "versus", "vs", "better", "worse"}
	stepMarkers         = []string{"step", "first", "second", "then", "next", "finally"}
	processMarkers      = []string{"process", "flow", "procedure", "approach"}
	organizationMarkers = []string{":", "-", "1.", "2.", "bullet"}
)

// Scorer grades free-text answers against per-topic keyword rubrics. It is
// a pure function over its inputs: identical calls yield identical results,
// and it never fails regardless of input.
type Scorer struct {
	rubrics map[string]Rubric
}

// New builds a Scorer over the given rubrics. The map is treated as
// immutable after construction.
func New(rubrics map[string]Rubric) *Scorer {
	return &Scorer{rubrics: rubrics}
}

// NewDefault builds a Scorer over the built-in rubrics.
func NewDefault() *Scorer {
	return New(DefaultRubrics())
}

// Score grades a single answer. The question text is carried for context
// but does not influence the heuristics. Unrecognized topics use the sta
// rubric.
func (s *Scorer) Score(question, answer, topic string) Result {
	if answer == "" || utf8.RuneCountInString(strings.TrimSpace(answer)) < minAnswerLength {
		return Result{
			Feedback: "Answer too short or empty",
			Suggestions: []string{
				"Provide more detailed technical explanation",
				"Include specific examples",
				"Explain methodology",
			},
		}
	}

	rubric, ok := s.rubrics[topic]
	if !ok {
		rubric = s.rubrics[fallbackTopic]
	}

	lower := strings.ToLower(answer)
	wordCount := len(strings.Fields(answer))

	technical := technicalScore(lower, rubric)
	depth := depthScore(answer, lower, wordCount)
	methodology := methodologyScore(lower, rubric)
	clarity := clarityScore(answer, lower)

	w := rubric.Weights
	composite := (technical*w.Technical + depth*w.Depth + methodology*w.Methodology + clarity*w.Clarity) * 10

	feedback, suggestions := buildFeedback(technical, depth, methodology, wordCount)

	return Result{
		Score: round1(composite),
		Breakdown: Breakdown{
			Technical:   round1(technical * 10),
			Depth:       round1(depth * 10),
			Methodology: round1(methodology * 10),
			Clarity:     round1(clarity * 10),
		},
		Feedback:    feedback,
		Suggestions: suggestions,
		WordCount:   wordCount,
	}
}

// technicalScore rewards rubric terminology: up to 3 technical terms give
// the full point, up to 2 advanced terms add a half-point bonus, capped at 1.
func technicalScore(lower string, rubric Rubric) float64 {
	techTerms := countTerms(lower, rubric.TechnicalTerms)
	advancedTerms := countTerms(lower, rubric.AdvancedTerms)

	score := math.Min(float64(techTerms)/3, 1.0) + math.Min(float64(advancedTerms)/2, 0.5)
	return math.Min(score, 1.0)
}

// depthScore combines length (100+ words saturates at 0.7) with structural
// bonuses for examples, numbers, and comparisons.
func depthScore(answer, lower string, wordCount int) float64 {
	score := math.Min(float64(wordCount)/100, 0.7)

	if containsAny(lower, exampleMarkers) {
		score += 0.1
	}
	if strings.ContainsAny(answer, "0123456789") {
		score += 0.1
	}
	if containsAny(lower, comparisonMarkers) {
		score += 0.1
	}
	return math.Min(score, 1.0)
}

// methodologyScore rewards methodology terms (up to 2 for 0.7) plus flat
// bonuses for step-by-step and process language.
func methodologyScore(lower string, rubric Rubric) float64 {
	score := math.Min(float64(countTerms(lower, rubric.MethodologyTerms))/2, 0.7)

	if containsAny(lower, stepMarkers) {
		score += 0.15
	}
	if containsAny(lower, processMarkers) {
		score += 0.15
	}
	return math.Min(score, 1.0)
}

// clarityScore peaks when the average sentence length hits
// idealSentenceLength, with a flat bonus for visible organization.
func clarityScore(answer, lower string) float64 {
	sentences := strings.Split(answer, ".")
	totalWords := 0
	for _, s := range sentences {
		totalWords += len(strings.Fields(s))
	}
	avgLength := float64(totalWords) / math.Max(float64(len(sentences)), 1)

	lengthScore := 1.0 - math.Abs(avgLength-idealSentenceLength)/idealSentenceLength
	lengthScore = math.Max(0, math.Min(lengthScore, 1.0))

	orgScore := 0.0
	if containsAny(lower, organizationMarkers) {
		orgScore = 0.3
	}
	return math.Min(lengthScore*0.7+orgScore, 1.0)
}

// buildFeedback assembles the threshold-gated feedback sentence and the
// improvement suggestions.
func buildFeedback(technical, depth, methodology float64, wordCount int) (string, []string) {
	var parts []string
	var suggestions []string

	switch {
	case technical >= 0.8:
		parts = append(parts, "Strong technical knowledge demonstrated")
	case technical >= 0.6:
		parts = append(parts, "Good technical understanding shown")
		suggestions = append(suggestions, "Include more specific technical terminology")
	default:
		parts = append(parts, "Limited technical content")
		suggestions = append(suggestions, "Use more industry-specific technical terms")
	}

	switch {
	case depth >= 0.8:
		parts = append(parts, "comprehensive analysis provided")
	case depth >= 0.6:
		parts = append(parts, "adequate detail level")
		suggestions = append(suggestions, "Provide more detailed explanations and examples")
	default:
		parts = append(parts, "needs more depth")
		suggestions = append(suggestions, "Expand with specific examples and quantitative details")
	}

	if methodology >= 0.7 {
		parts = append(parts, "clear methodology described")
	} else {
		parts = append(parts, "methodology could be clearer")
		suggestions = append(suggestions, "Describe step-by-step approach or process")
	}

	if wordCount < 50 {
		suggestions = append(suggestions, "Increase answer length for better coverage")
	} else if wordCount > 300 {
		suggestions = append(suggestions, "Consider more concise explanations")
	}

	feedback := capitalizeFirst(strings.Join(parts, ", ")) + fmt.Sprintf(" (%d words)", wordCount)
	return feedback, suggestions
}

func countTerms(lower string, terms []string) int {
	count := 0
	for _, term := range terms {
		if strings.Contains(lower, term) {
			count++
		}
	}
	return count
}

func containsAny(lower string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
