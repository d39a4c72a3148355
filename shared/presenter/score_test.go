package presenter

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"gradi-client/internal/apperrors"
	"gradi-client/internal/models"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func resultWithScores(scores ...float64) *models.AnalysisResult {
	var ratings models.Ratings
	for i, s := range scores {
		ratings.Set(fmt.Sprintf("category-%d", i), models.CategoryRating{Score: s})
	}
	return &models.AnalysisResult{Ratings: ratings}
}

func TestOverallScore_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("overall score is the mean of category scores", prop.ForAll(
		func(scores []float64) bool {
			got, err := OverallScore(resultWithScores(scores...))
			if len(scores) == 0 {
				return errors.Is(err, apperrors.ErrEmptyRatings)
			}
			if err != nil {
				return false
			}
			var sum float64
			for _, s := range scores {
				sum += s
			}
			return math.Abs(got-sum/float64(len(scores))) < 1e-9
		},
		gen.SliceOf(gen.Float64Range(0, 5)),
	))

	properties.Property("overall score does not depend on category order", prop.ForAll(
		func(scores []float64) bool {
			if len(scores) == 0 {
				return true
			}
			reversed := make([]float64, len(scores))
			for i, s := range scores {
				reversed[len(scores)-1-i] = s
			}
			a, errA := OverallScore(resultWithScores(scores...))
			b, errB := OverallScore(resultWithScores(reversed...))
			return errA == nil && errB == nil && math.Abs(a-b) < 1e-9
		},
		gen.SliceOf(gen.Float64Range(0, 5)),
	))

	properties.Property("overall score stays within the scale", prop.ForAll(
		func(scores []float64) bool {
			if len(scores) == 0 {
				return true
			}
			got, err := OverallScore(resultWithScores(scores...))
			return err == nil && got >= 0 && got <= MaxScore+1e-9
		},
		gen.SliceOf(gen.Float64Range(0, 5)),
	))

	properties.TestingRun(t)
}

func TestScoreLabel_PropertyBased(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("every score in range has exactly one tier", prop.ForAll(
		func(score float64) bool {
			tier := ScoreLabel(score)
			return tier >= TierNeedsWork && tier <= TierOutstanding
		},
		gen.Float64Range(0, 5),
	))

	properties.Property("tiers are monotonic", prop.ForAll(
		func(a, b float64) bool {
			if a > b {
				a, b = b, a
			}
			return ScoreLabel(a) <= ScoreLabel(b)
		},
		gen.Float64Range(0, 5),
		gen.Float64Range(0, 5),
	))

	properties.TestingRun(t)
}

func TestOverallScoreEmpty(t *testing.T) {
	tests := []struct {
		name   string
		result *models.AnalysisResult
	}{
		{"nil result", nil},
		{"no ratings", &models.AnalysisResult{Summary: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := OverallScore(tt.result)
			if !errors.Is(err, apperrors.ErrEmptyRatings) {
				t.Fatalf("expected ErrEmptyRatings, got %v", err)
			}
			if score != 0 || math.IsNaN(score) {
				t.Errorf("score = %v", score)
			}
		})
	}
}

func TestOverallScoreSampleResponse(t *testing.T) {
	result := resultWithScores(4.2, 4.5, 3.8, 3.2, 4.1, 4.0)

	score, err := OverallScore(result)
	if err != nil {
		t.Fatalf("OverallScore() error = %v", err)
	}
	if math.Abs(score-3.9666666666666663) > 1e-9 {
		t.Errorf("score = %v, want 3.9666...", score)
	}
	if got := FormatScore(score); got != "4.0" {
		t.Errorf("FormatScore() = %q, want 4.0", got)
	}
}

func TestScoreLabel(t *testing.T) {
	tests := []struct {
		score float64
		tier  Tier
	}{
		{5, TierOutstanding},
		{4.5, TierOutstanding},
		{4.49999, TierGreat},
		{4.0, TierGreat},
		{3.99999, TierGood},
		{3.0, TierGood},
		{2.99999, TierAverage},
		{2.0, TierAverage},
		{1.99999, TierNeedsWork},
		{0, TierNeedsWork},
	}
	for _, tt := range tests {
		t.Run(FormatScore(tt.score)+"/"+tt.tier.String(), func(t *testing.T) {
			if got := ScoreLabel(tt.score); got != tt.tier {
				t.Errorf("ScoreLabel(%v) = %v, want %v", tt.score, got, tt.tier)
			}
		})
	}
}

func TestTierLabels(t *testing.T) {
	tests := []struct {
		tier     Tier
		category string
		overall  string
	}{
		{TierOutstanding, "Outstanding! 🔥", "Outstanding Performance! 🔥"},
		{TierGreat, "Great Work! ⭐", "Great Work! ⭐"},
		{TierGood, "Good! 👍", "Good Performance! 👍"},
		{TierAverage, "Average 📈", "Average Performance 📈"},
		{TierNeedsWork, "Needs Work 💪", "Needs Improvement 💪"},
	}
	for _, tt := range tests {
		if got := tt.tier.CategoryLabel(); got != tt.category {
			t.Errorf("%v.CategoryLabel() = %q, want %q", tt.tier, got, tt.category)
		}
		if got := tt.tier.OverallLabel(); got != tt.overall {
			t.Errorf("%v.OverallLabel() = %q, want %q", tt.tier, got, tt.overall)
		}
	}
}

func TestScoreColorClass(t *testing.T) {
	tests := []struct {
		score float64
		want  ColorClass
	}{
		{5, ColorGood},
		{4, ColorGood},
		{3.99, ColorModerate},
		{3, ColorModerate},
		{2.99, ColorPoor},
		{0, ColorPoor},
	}
	for _, tt := range tests {
		if got := ScoreColorClass(tt.score); got != tt.want {
			t.Errorf("ScoreColorClass(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestStarRating(t *testing.T) {
	tests := []struct {
		score float64
		want  int
	}{
		{0, 0},
		{0.49, 0},
		{0.5, 1},
		{2.5, 3},
		{3.966, 4},
		{4.5, 5},
		{5, 5},
		{7, 5},
		{-1, 0},
		{math.NaN(), 0},
		{math.Inf(1), 5},
		{math.Inf(-1), 0},
	}
	for _, tt := range tests {
		if got := StarRating(tt.score); got != tt.want {
			t.Errorf("StarRating(%v) = %d, want %d", tt.score, got, tt.want)
		}
	}
}

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		score float64
		want  float64
	}{
		{0, 0},
		{2.5, 50},
		{5, 100},
		{6, 100},
		{-1, 0},
		{math.NaN(), 0},
		{math.Inf(1), 100},
	}
	for _, tt := range tests {
		if got := ProgressPercent(tt.score); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ProgressPercent(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestFormatScore(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0, "0.0"},
		{5, "5.0"},
		{3.25, "3.3"},
		{4.25, "4.3"},
		{0.25, "0.3"},
		{4.75, "4.8"},
		{0.15, "0.1"},
		{2.35, "2.4"},
		{3.9666666666666663, "4.0"},
		{4.04, "4.0"},
		{-0.25, "-0.3"},
		{math.NaN(), "NaN"},
	}
	for _, tt := range tests {
		if got := FormatScore(tt.score); got != tt.want {
			t.Errorf("FormatScore(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
