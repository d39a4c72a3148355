package videograder

import (
	"context"
	"fmt"
	"time"

	"gradi-client/internal/models"
	"gradi-client/shared/api"
	"gradi-client/shared/config"
	"gradi-client/shared/email"
	"gradi-client/shared/monitoring"
	"gradi-client/shared/orchestrator"
	"gradi-client/shared/presenter"
	"gradi-client/shared/scheduler"
	"gradi-client/shared/storage"
	"gradi-client/shared/youtube"

	log "github.com/sirupsen/logrus"
)

// VideoLookup resolves video metadata.
type VideoLookup interface {
	GetVideo(ctx context.Context, videoID string) (*models.Video, error)
}

// DigestSender delivers the report of a run.
type DigestSender interface {
	SendDigest(digest *models.Digest) error
}

// GraderMetrics summarizes one run.
type GraderMetrics struct {
	URLsChecked int
	Analyzed    int
	Failed      int
	Skipped     int
}

func (m GraderMetrics) GetSummary() string {
	return fmt.Sprintf("checked %d urls, analyzed %d, failed %d, skipped %d",
		m.URLsChecked, m.Analyzed, m.Failed, m.Skipped)
}

// GraderAgent re-analyzes the configured watchlist. It implements
// scheduler.Agent.
type GraderAgent struct {
	config  *config.Config
	monitor *monitoring.Monitor

	transport    orchestrator.Transport
	orchestrator *orchestrator.Orchestrator
	tracker      *storage.AnalysisTracker
	videos       VideoLookup
	mailer       DigestSender

	// pause between two analyses of a run
	pause time.Duration
	now   func() time.Time
}

var _ scheduler.Agent = (*GraderAgent)(nil)

func NewGraderAgent(cfg *config.Config, monitor *monitoring.Monitor) *GraderAgent {
	if monitor == nil {
		monitor = monitoring.NewMonitor()
	}
	return &GraderAgent{
		config:  cfg,
		monitor: monitor,
		pause:   2 * time.Second,
		now:     time.Now,
	}
}

func (g *GraderAgent) Name() string {
	return "Video Grader"
}

func (g *GraderAgent) Initialize(ctx context.Context) error {
	log.Infof("Initializing %s...", g.Name())

	if g.transport == nil {
		g.transport = api.NewClient(g.config.Backend.URL, g.config.Backend.Timeout(), g.config.Backend.HistoryLimit)
		log.Infof("Analysis client initialized for %s", g.config.Backend.URL)
	}

	if g.orchestrator == nil {
		g.orchestrator = orchestrator.New(g.transport,
			orchestrator.WithTimeout(g.config.Backend.Timeout()),
			orchestrator.WithRecorder(g.monitor),
		)
	}

	if g.tracker == nil {
		tracker, err := storage.NewAnalysisTracker(g.config.Watch.DataDir, g.config.Watch.RepeatAfter())
		if err != nil {
			return fmt.Errorf("failed to create analysis tracker: %w", err)
		}
		g.tracker = tracker
		log.Infof("Analysis tracker initialized (%d videos tracked)", tracker.Count())
	}

	if g.videos == nil && g.config.YouTube.Enabled() {
		client, err := youtube.NewClient(ctx, g.config.YouTube)
		if err != nil {
			log.Warnf("YouTube metadata disabled: %v", err)
		} else {
			g.videos = client
			log.Info("YouTube client initialized")
		}
	}

	if g.mailer == nil && g.config.Email.Enabled() {
		g.mailer = email.NewSender(g.config.Email)
		log.Info("Email sender initialized")
	}

	return nil
}

func trackerKey(rawURL string) string {
	if id, ok := youtube.ExtractVideoID(rawURL); ok {
		return id
	}
	return rawURL
}

// RunOnce analyzes every watchlist URL that was not graded recently. More
// than half of the attempted analyses failing makes the run fail.
func (g *GraderAgent) RunOnce(ctx context.Context, events *scheduler.AgentEvents) error {
	startTime := time.Now()
	urls := g.config.Watch.URLs
	metrics := GraderMetrics{URLsChecked: len(urls)}
	digest := &models.Digest{Date: g.now()}

	for i, rawURL := range urls {
		if err := ctx.Err(); err != nil {
			return err
		}

		key := trackerKey(rawURL)
		if g.tracker.IsAnalyzed(key) {
			log.WithField("url", rawURL).Debug("Skipping recently analyzed video")
			metrics.Skipped++
			continue
		}

		if metrics.Analyzed+metrics.Failed > 0 && g.pause > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(g.pause):
			}
		}

		log.Infof("Analyzing video %d/%d: %s", i+1, len(urls), rawURL)
		entry := g.analyze(ctx, rawURL, key)
		digest.Entries = append(digest.Entries, entry)
		if entry.Error != "" {
			metrics.Failed++
		} else {
			metrics.Analyzed++
		}
	}

	digest.Total = metrics.Analyzed
	digest.Failed = metrics.Failed
	digest.Skipped = metrics.Skipped

	attempted := metrics.Analyzed + metrics.Failed
	if g.mailer != nil && attempted > 0 {
		log.Infof("Sending digest with %d entries", len(digest.Entries))
		if err := g.mailer.SendDigest(digest); err != nil {
			return fmt.Errorf("failed to send digest: %w", err)
		}
	}

	duration := time.Since(startTime)
	if metrics.Failed*2 > attempted {
		return fmt.Errorf("too many analysis failures (%d/%d)", metrics.Failed, attempted)
	}
	if metrics.Failed > 0 {
		events.OnPartialFailure(fmt.Errorf("%d of %d analyses failed", metrics.Failed, attempted), duration)
	}
	events.OnSuccess(metrics, duration)

	log.Infof("Session complete: %s", metrics.GetSummary())
	return nil
}

func (g *GraderAgent) analyze(ctx context.Context, rawURL, key string) *models.DigestEntry {
	entry := &models.DigestEntry{URL: rawURL}

	if g.videos != nil && key != rawURL {
		video, err := g.videos.GetVideo(ctx, key)
		if err != nil {
			log.WithField("video_id", key).Warnf("Failed to fetch metadata: %v", err)
		} else {
			entry.Video = video
		}
	}

	if !g.orchestrator.Submit(ctx, rawURL) {
		entry.Error = "analysis already in progress"
		return entry
	}

	snap := g.orchestrator.Snapshot()
	if snap.State != orchestrator.Succeeded {
		entry.Error = snap.Message
		return entry
	}

	entry.Result = snap.Result
	score, _ := presenter.OverallScore(snap.Result)
	if err := g.tracker.MarkAnalyzed(key, rawURL, score); err != nil {
		log.Warnf("Failed to mark %s as analyzed: %v", rawURL, err)
	}
	return entry
}
