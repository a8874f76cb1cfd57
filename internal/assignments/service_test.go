package assignments

import (
	"errors"
	"math"
	"testing"

	"github.com/pd-assess/backend/internal/scorer"
)

func TestScoresMean(t *testing.T) {
	if got := scoresMean(nil); got != 0 {
		t.Errorf("scoresMean(nil) = %f, want 0", got)
	}

	results := []scorer.Result{
		{Score: 4.0},
		{Score: 6.5},
		{Score: 7.5},
	}
	if got := scoresMean(results); math.Abs(got-6.0) > 0.0001 {
		t.Errorf("scoresMean = %f, want 6.0", got)
	}
}

func TestAutoTotalRounding(t *testing.T) {
	results := []scorer.Result{
		{Score: 4.0},
		{Score: 3.0},
		{Score: 3.0},
	}
	// mean 3.333... rounds to 3.3 at one decimal
	if got := round1(scoresMean(results)); got != 3.3 {
		t.Errorf("rounded auto total = %f, want 3.3", got)
	}

	if got := round1(scoresMean([]scorer.Result{})); got != 0 {
		t.Errorf("rounded auto total of empty submission = %f, want 0", got)
	}
}

func TestIsDuplicateKey(t *testing.T) {
	dup := errors.New(`pq: duplicate key value violates unique constraint "submissions_assignment_id_key"`)
	if !isDuplicateKey(dup) {
		t.Error("unique-violation error not classified as duplicate key")
	}

	for _, err := range []error{nil, errors.New("pq: connection refused")} {
		if isDuplicateKey(err) {
			t.Errorf("isDuplicateKey(%v) = true, want false", err)
		}
	}
}
