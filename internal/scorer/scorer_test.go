package scorer

import (
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestScoreShortAnswerFloor(t *testing.T) {
	s := NewDefault()

	for _, answer := range []string{"", "short", "   padded out   ", strings.Repeat("a", 19)} {
		got := s.Score("Q", answer, "sta")
		if got.Score != 0 {
			t.Errorf("Score(%q) = %f, want 0", answer, got.Score)
		}
		if got.Feedback != "Answer too short or empty" {
			t.Errorf("Score(%q) feedback = %q", answer, got.Feedback)
		}
		if len(got.Suggestions) != 3 {
			t.Errorf("Score(%q) returned %d suggestions, want 3", answer, len(got.Suggestions))
		}
		if got.Breakdown != (Breakdown{}) {
			t.Errorf("Score(%q) breakdown = %+v, want zeros", answer, got.Breakdown)
		}
	}
}

func TestScoreFloorBoundary(t *testing.T) {
	s := NewDefault()

	// 20 trimmed characters clears the floor even with no recognized content.
	got := s.Score("Q", strings.Repeat("a", 20), "sta")
	if got.Feedback == "Answer too short or empty" {
		t.Error("20-char answer should clear the short-answer floor")
	}
}

func TestScoreFloorCountsCharactersNotBytes(t *testing.T) {
	s := NewDefault()

	// 10 characters but 30 bytes: still under the floor.
	got := s.Score("Q", strings.Repeat("时", 10), "sta")
	if got.Score != 0 || got.Feedback != "Answer too short or empty" {
		t.Errorf("10-char multibyte answer = (%f, %q), want the short-answer result", got.Score, got.Feedback)
	}

	// 20 characters of multibyte text clears the floor.
	got = s.Score("Q", strings.Repeat("时", 20), "sta")
	if got.Feedback == "Answer too short or empty" {
		t.Error("20-char multibyte answer should clear the floor")
	}
}

func TestScoreFillerAnswerLowButTotal(t *testing.T) {
	s := NewDefault()

	got := s.Score("Q", strings.Repeat("a", 25), "sta")
	if got.Score < 0 || got.Score > 1 {
		t.Errorf("filler answer score = %f, want a low non-negative value", got.Score)
	}
	if got.Breakdown.Technical != 0 {
		t.Errorf("filler answer technical = %f, want 0", got.Breakdown.Technical)
	}
	if got.Breakdown.Methodology != 0 {
		t.Errorf("filler answer methodology = %f, want 0", got.Breakdown.Methodology)
	}
	if got.WordCount != 1 {
		t.Errorf("filler answer word count = %d, want 1", got.WordCount)
	}
}

func TestScoreTechnicalMonotonicity(t *testing.T) {
	s := NewDefault()

	base := "This answer talks about the general problem in vague prose without naming anything concrete at all whatsoever."
	loaded := "This answer covers setup and hold slack with skew and jitter across every corner without naming anything concrete."

	plain := s.Score("Q", base, "sta")
	technical := s.Score("Q", loaded, "sta")

	if technical.Score <= plain.Score {
		t.Errorf("answer with rubric terms scored %f, plain answer scored %f; want strictly higher", technical.Score, plain.Score)
	}
	if technical.Breakdown.Technical <= plain.Breakdown.Technical {
		t.Errorf("technical sub-score did not increase: %f vs %f", technical.Breakdown.Technical, plain.Breakdown.Technical)
	}
}

func TestScoreIdempotent(t *testing.T) {
	s := NewDefault()

	answer := "First, analyze the setup violations systematically. Then optimize the 10 worst paths. For example, useful skew helps."
	a := s.Score("Q", answer, "sta")
	b := s.Score("Q", answer, "sta")

	if !reflect.DeepEqual(a, b) {
		t.Errorf("identical inputs produced different results:\n%+v\n%+v", a, b)
	}
}

func TestScoreUnknownTopicUsesSTARubric(t *testing.T) {
	s := NewDefault()

	answer := "Setup and hold slack must be analyzed against skew and jitter in every corner to reach closure."
	known := s.Score("Q", answer, "sta")
	unknown := s.Score("Q", answer, "power-grid")

	if !reflect.DeepEqual(known, unknown) {
		t.Errorf("unknown topic should fall back to the sta rubric:\n%+v\n%+v", known, unknown)
	}
}

func TestDefaultRubricWeightsSumToOne(t *testing.T) {
	for topic, rubric := range DefaultRubrics() {
		w := rubric.Weights
		sum := w.Technical + w.Depth + w.Methodology + w.Clarity
		if math.Abs(sum-1.0) > 0.0001 {
			t.Errorf("rubric %q weights sum to %f, want 1.0", topic, sum)
		}
	}
}

func TestTechnicalScoreCaps(t *testing.T) {
	rubric := DefaultRubrics()["sta"]

	// Every technical and advanced term present — capped at 1.0.
	all := strings.ToLower(strings.Join(append(append([]string{}, rubric.TechnicalTerms...), rubric.AdvancedTerms...), " "))
	if got := technicalScore(all, rubric); got != 1.0 {
		t.Errorf("technicalScore with all terms = %f, want 1.0", got)
	}

	// Three technical terms alone earn the full base point.
	if got := technicalScore("setup hold slack", rubric); got != 1.0 {
		t.Errorf("technicalScore with three terms = %f, want 1.0", got)
	}

	// One term is a third of the base point.
	if got := technicalScore("slack", rubric); math.Abs(got-1.0/3) > 0.0001 {
		t.Errorf("technicalScore with one term = %f, want ~0.333", got)
	}
}

func TestDepthScoreStructureBonuses(t *testing.T) {
	bare := depthScore("plain prose only", "plain prose only", 10)
	if math.Abs(bare-0.1) > 0.0001 {
		t.Errorf("depthScore without structure = %f, want 0.1", bare)
	}

	answer := "for example 42 is better"
	full := depthScore(answer, answer, 10)
	// 0.1 word score + example + digit + comparison bonuses
	if math.Abs(full-0.4) > 0.0001 {
		t.Errorf("depthScore with all bonuses = %f, want 0.4", full)
	}

	// Word score saturates at 0.7 for 100+ words.
	long := depthScore("plain", "plain", 250)
	if math.Abs(long-0.7) > 0.0001 {
		t.Errorf("depthScore at 250 words = %f, want 0.7", long)
	}
}

func TestMethodologyScoreBonuses(t *testing.T) {
	rubric := DefaultRubrics()["sta"]

	got := methodologyScore("debug and optimize using a systematic process, step by step", rubric)
	// 2+ methodology terms (0.7) + step marker (0.15) + process marker (0.15), capped at 1.0
	if got != 1.0 {
		t.Errorf("methodologyScore = %f, want 1.0", got)
	}

	if got := methodologyScore("nothing relevant here", rubric); got != 0 {
		t.Errorf("methodologyScore with no markers = %f, want 0", got)
	}
}

func TestClarityScorePeaksAtIdealLength(t *testing.T) {
	// Two sentences of 17 and 18 words: average is exactly 17.5.
	answer := strings.TrimSpace(strings.Repeat("word ", 17)) + ". " + strings.TrimSpace(strings.Repeat("word ", 18))
	got := clarityScore(answer, strings.ToLower(answer))
	if math.Abs(got-0.7) > 0.0001 {
		t.Errorf("clarityScore at ideal length = %f, want 0.7", got)
	}

	// Organization markers add a flat 0.3.
	organized := answer + " - summary"
	got = clarityScore(organized, strings.ToLower(organized))
	if got <= 0.7 {
		t.Errorf("clarityScore with organization marker = %f, want > 0.7", got)
	}
}

func TestBuildFeedbackThresholds(t *testing.T) {
	feedback, suggestions := buildFeedback(0.9, 0.9, 0.9, 120)
	want := "Strong technical knowledge demonstrated, comprehensive analysis provided, clear methodology described (120 words)"
	if feedback != want {
		t.Errorf("feedback = %q, want %q", feedback, want)
	}
	if len(suggestions) != 0 {
		t.Errorf("strong answer got %d suggestions, want 0", len(suggestions))
	}

	feedback, suggestions = buildFeedback(0.1, 0.1, 0.1, 30)
	if !strings.HasPrefix(feedback, "Limited technical content, needs more depth, methodology could be clearer") {
		t.Errorf("weak feedback = %q", feedback)
	}
	// Three dimension suggestions plus the short-length suggestion.
	if len(suggestions) != 4 {
		t.Errorf("weak answer got %d suggestions, want 4", len(suggestions))
	}

	_, suggestions = buildFeedback(0.9, 0.9, 0.9, 350)
	if len(suggestions) != 1 || suggestions[0] != "Consider more concise explanations" {
		t.Errorf("long answer suggestions = %v", suggestions)
	}
}

func TestScoreCompositeUsesWeights(t *testing.T) {
	rubrics := map[string]Rubric{
		"sta": {
			TechnicalTerms:   []string{"zzzz"},
			MethodologyTerms: []string{"yyyy"},
			Weights:          Weights{Technical: 1.0},
		},
	}
	s := New(rubrics)

	// Only the technical dimension carries weight, and the single rubric
	// term earns a third of the base point: composite = 10 * 1/3.
	got := s.Score("Q", "zzzz plus enough padding to clear the floor", "sta")
	if math.Abs(got.Score-3.3) > 0.0001 {
		t.Errorf("composite = %f, want 3.3", got.Score)
	}
}
