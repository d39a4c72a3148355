// Package presenter turns an analysis result into a display model. Nothing
// here performs I/O except Render.
package presenter

import (
	"fmt"
	"math"
	"math/big"

	"gradi-client/internal/apperrors"
	"gradi-client/internal/models"
)

// MaxScore is the top of the rating scale.
const MaxScore = 5.0

// OverallScore is the unweighted mean of all category scores. It is never
// rounded; use FormatScore for display.
func OverallScore(result *models.AnalysisResult) (float64, error) {
	if result == nil || result.Ratings.Len() == 0 {
		return 0, apperrors.ErrEmptyRatings
	}
	var sum float64
	entries := result.Ratings.Entries()
	for _, e := range entries {
		sum += e.Rating.Score
	}
	return sum / float64(len(entries)), nil
}

// Tier is one of the five qualitative score bands.
type Tier int

const (
	TierNeedsWork Tier = iota
	TierAverage
	TierGood
	TierGreat
	TierOutstanding
)

var tierNames = map[Tier]string{
	TierNeedsWork:   "Needs Work",
	TierAverage:     "Average",
	TierGood:        "Good",
	TierGreat:       "Great",
	TierOutstanding: "Outstanding",
}

func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Tier(%d)", int(t))
}

// CategoryLabel is the label shown next to a single category score.
func (t Tier) CategoryLabel() string {
	switch t {
	case TierOutstanding:
		return "Outstanding! 🔥"
	case TierGreat:
		return "Great Work! ⭐"
	case TierGood:
		return "Good! 👍"
	case TierAverage:
		return "Average 📈"
	}
	return "Needs Work 💪"
}

// OverallLabel is the label shown under the overall score.
func (t Tier) OverallLabel() string {
	switch t {
	case TierOutstanding:
		return "Outstanding Performance! 🔥"
	case TierGreat:
		return "Great Work! ⭐"
	case TierGood:
		return "Good Performance! 👍"
	case TierAverage:
		return "Average Performance 📈"
	}
	return "Needs Improvement 💪"
}

// ScoreLabel bands a score. Boundary values belong to the higher band.
func ScoreLabel(score float64) Tier {
	switch {
	case score >= 4.5:
		return TierOutstanding
	case score >= 4.0:
		return TierGreat
	case score >= 3.0:
		return TierGood
	case score >= 2.0:
		return TierAverage
	}
	return TierNeedsWork
}

// ColorClass is the three-band color policy. It is unrelated to Tier.
type ColorClass string

const (
	ColorGood     ColorClass = "good"
	ColorModerate ColorClass = "moderate"
	ColorPoor     ColorClass = "poor"
)

func ScoreColorClass(score float64) ColorClass {
	switch {
	case score >= 4:
		return ColorGood
	case score >= 3:
		return ColorModerate
	}
	return ColorPoor
}

// StarRating is the number of filled stars, rounding half up. NaN has no
// stars.
func StarRating(score float64) int {
	switch {
	case math.IsNaN(score), score <= 0:
		return 0
	case score >= MaxScore:
		return int(MaxScore)
	}
	return int(math.Floor(score + 0.5))
}

// ProgressPercent maps a score to the width of a progress bar.
func ProgressPercent(score float64) float64 {
	if math.IsNaN(score) {
		return 0
	}
	return math.Max(0, math.Min(100, score/MaxScore*100))
}

// FormatScore formats a score with one decimal. The exact binary value is
// rounded, and a tie goes to the larger digit, so 3.25 is "3.3" while 0.15
// (stored just below 0.15) is "0.1".
func FormatScore(score float64) string {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return fmt.Sprintf("%.1f", score)
	}
	sign := ""
	if score < 0 {
		sign, score = "-", -score
	}

	tenths := new(big.Float).SetPrec(128).SetFloat64(score)
	tenths.Mul(tenths, big.NewFloat(10))
	n, _ := tenths.Int(nil)
	frac := new(big.Float).SetPrec(128).Sub(tenths, new(big.Float).SetInt(n))
	if frac.Cmp(big.NewFloat(0.5)) >= 0 {
		n.Add(n, big.NewInt(1))
	}
	whole, digit := new(big.Int).QuoRem(n, big.NewInt(10), new(big.Int))
	return fmt.Sprintf("%s%s.%s", sign, whole, digit)
}
