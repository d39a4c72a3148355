package presenter

import "gradi-client/internal/models"

// ScoreView is a score together with every derived display value.
type ScoreView struct {
	Value     float64
	Formatted string
	Tier      Tier
	Label     string
	Color     ColorClass
	Stars     int
	Progress  float64
}

// CategoryView is one rating category ready for display.
type CategoryView struct {
	Descriptor
	Score       ScoreView
	Reason      string
	Positives   []string
	Negatives   []string
	Suggestions []string
}

// View is the full display model of an analysis result.
type View struct {
	Overall     ScoreView
	Summary     string
	Positives   []string
	Negatives   []string
	Suggestions []string
	Categories  []CategoryView
}

func newScoreView(score float64, overall bool) ScoreView {
	tier := ScoreLabel(score)
	label := tier.CategoryLabel()
	if overall {
		label = tier.OverallLabel()
	}
	return ScoreView{
		Value:     score,
		Formatted: FormatScore(score),
		Tier:      tier,
		Label:     label,
		Color:     ScoreColorClass(score),
		Stars:     StarRating(score),
		Progress:  ProgressPercent(score),
	}
}

// Build derives the display model. Categories keep the order in which the
// service listed them.
func Build(result *models.AnalysisResult) (*View, error) {
	overall, err := OverallScore(result)
	if err != nil {
		return nil, err
	}

	view := &View{
		Overall:     newScoreView(overall, true),
		Summary:     result.Summary,
		Positives:   result.Positives,
		Negatives:   result.Negatives,
		Suggestions: result.SuggestionsForImprovement,
	}
	for _, e := range result.Ratings.Entries() {
		view.Categories = append(view.Categories, CategoryView{
			Descriptor:  DescribeCategory(e.Name),
			Score:       newScoreView(e.Rating.Score, false),
			Reason:      e.Rating.Reason,
			Positives:   e.Rating.Positives,
			Negatives:   e.Rating.Negatives,
			Suggestions: e.Rating.Suggestions,
		})
	}
	return view, nil
}
