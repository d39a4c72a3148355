package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

const trackerFile = "analyzed_videos.json"

// AnalysisTracker remembers which watchlist videos were graded and when, so
// a scheduled run does not re-submit them before maxAge has passed.
type AnalysisTracker struct {
	filePath string
	entries  map[string]TrackedAnalysis
	mu       sync.RWMutex
	maxAge   time.Duration
	now      func() time.Time
}

// TrackedAnalysis is a graded video. Key is the video ID when one could be
// extracted, otherwise the URL itself.
type TrackedAnalysis struct {
	Key          string    `json:"key"`
	URL          string    `json:"url"`
	OverallScore float64   `json:"overall_score"`
	AnalyzedAt   time.Time `json:"analyzed_at"`
}

// NewAnalysisTracker opens or creates the tracker file in dataDir and drops
// entries older than maxAge.
func NewAnalysisTracker(dataDir string, maxAge time.Duration) (*AnalysisTracker, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	tracker := &AnalysisTracker{
		filePath: filepath.Join(dataDir, trackerFile),
		entries:  make(map[string]TrackedAnalysis),
		maxAge:   maxAge,
		now:      time.Now,
	}

	if err := tracker.load(); err != nil {
		return nil, fmt.Errorf("failed to load analysis tracker data: %w", err)
	}
	tracker.cleanup()

	return tracker, nil
}

// IsAnalyzed reports whether key was graded within maxAge.
func (t *AnalysisTracker) IsAnalyzed(key string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	entry, exists := t.entries[key]
	if !exists {
		return false
	}
	return t.now().Sub(entry.AnalyzedAt) < t.maxAge
}

// Last returns the latest tracked analysis for key.
func (t *AnalysisTracker) Last(key string) (TrackedAnalysis, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	entry, ok := t.entries[key]
	return entry, ok
}

// MarkAnalyzed records a successful grading and persists the tracker.
func (t *AnalysisTracker) MarkAnalyzed(key, url string, overallScore float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries[key] = TrackedAnalysis{
		Key:          key,
		URL:          url,
		OverallScore: overallScore,
		AnalyzedAt:   t.now(),
	}
	return t.save()
}

// Count returns the number of tracked videos.
func (t *AnalysisTracker) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

func (t *AnalysisTracker) cleanup() {
	cutoff := t.now().Add(-t.maxAge)
	for key, entry := range t.entries {
		if entry.AnalyzedAt.Before(cutoff) {
			delete(t.entries, key)
		}
	}
}

func (t *AnalysisTracker) load() error {
	file, err := os.Open(t.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open tracker file: %w", err)
	}
	defer file.Close()

	var tracked []TrackedAnalysis
	if err := json.NewDecoder(file).Decode(&tracked); err != nil {
		return fmt.Errorf("failed to decode tracker data: %w", err)
	}
	for _, entry := range tracked {
		t.entries[entry.Key] = entry
	}
	return nil
}

// save writes to a temporary file and renames it over the tracker file.
func (t *AnalysisTracker) save() error {
	tracked := make([]TrackedAnalysis, 0, len(t.entries))
	for _, entry := range t.entries {
		tracked = append(tracked, entry)
	}
	sort.Slice(tracked, func(i, j int) bool { return tracked[i].Key < tracked[j].Key })

	data, err := json.MarshalIndent(tracked, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode tracker data: %w", err)
	}

	tmp := t.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write tracker file: %w", err)
	}
	if err := os.Rename(tmp, t.filePath); err != nil {
		return fmt.Errorf("failed to replace tracker file: %w", err)
	}
	return nil
}
