package models

import "time"

// Video is the YouTube metadata shown next to an analysis.
type Video struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	ChannelTitle    string    `json:"channel_title"`
	PublishedAt     time.Time `json:"published_at"`
	Duration        string    `json:"duration"`
	DurationSeconds int       `json:"duration_seconds"`
	ViewCount       int64     `json:"view_count"`
	URL             string    `json:"url"`
}

// Digest is the report of one grader run.
type Digest struct {
	Date    time.Time      `json:"date"`
	Entries []*DigestEntry `json:"entries"`
	Total   int            `json:"total_analyzed"`
	Failed  int            `json:"failed"`
	Skipped int            `json:"skipped"`
}

// DigestEntry holds the outcome for one watchlist URL. Exactly one of
// Result and Error is set.
type DigestEntry struct {
	URL    string          `json:"url"`
	Video  *Video          `json:"video,omitempty"`
	Result *AnalysisResult `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}
