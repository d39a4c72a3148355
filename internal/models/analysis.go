package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// AnalysisRequest is the body of POST /api/analyze-video.
type AnalysisRequest struct {
	YouTubeURL string `json:"youtube_url"`
}

// CategoryRating is the score and commentary for one evaluation category.
// Score is expected to lie in [0,5].
type CategoryRating struct {
	Score       float64  `json:"score"`
	Reason      string   `json:"reason"`
	Positives   []string `json:"positives"`
	Negatives   []string `json:"negatives"`
	Suggestions []string `json:"suggestions"`
}

func (c *CategoryRating) normalize() {
	c.Positives = nonNil(c.Positives)
	c.Negatives = nonNil(c.Negatives)
	c.Suggestions = nonNil(c.Suggestions)
}

// AnalysisResult is the structured rating returned for one video.
type AnalysisResult struct {
	Summary                   string   `json:"summary"`
	Positives                 []string `json:"positives"`
	Negatives                 []string `json:"negatives"`
	SuggestionsForImprovement []string `json:"suggestions_for_improvement,omitempty"`
	Ratings                   Ratings  `json:"ratings"`
}

// UnmarshalJSON decodes a result and replaces null lists with empty ones.
func (a *AnalysisResult) UnmarshalJSON(data []byte) error {
	type plain AnalysisResult
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	p.Positives = nonNil(p.Positives)
	p.Negatives = nonNil(p.Negatives)
	*a = AnalysisResult(p)
	return nil
}

// Envelope wraps every analyze-video response. Detail is only present on
// validation-style error bodies and may be a string or a list.
type Envelope struct {
	Success bool            `json:"success"`
	Data    *AnalysisResult `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Detail  json.RawMessage `json:"detail,omitempty"`
}

// AnalysisRecord is one row of GET /api/analyses.
type AnalysisRecord struct {
	ID               string          `json:"id"`
	YouTubeURL       string          `json:"youtube_url"`
	Transcript       string          `json:"transcript"`
	AnalysisResult   *AnalysisResult `json:"analysis_result"`
	CreatedAt        Timestamp       `json:"created_at"`
	AnalysisDuration float64         `json:"analysis_duration"` // seconds
}

// Timestamp decodes the service's created_at values. The backend writes
// naive UTC datetimes ("2024-05-01T10:00:00.123456"), so a missing zone
// means UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = Timestamp{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("created_at: %w", err)
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("created_at: unrecognized time %q", raw)
}

// HealthStatus is the liveness payload of GET /api/health. Fields beyond
// these are ignored.
type HealthStatus struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services,omitempty"`
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
