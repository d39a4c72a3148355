package videograder

import (
	"context"
	"errors"
	"testing"
	"time"

	"gradi-client/internal/models"
	"gradi-client/shared/config"
	"gradi-client/shared/orchestrator/mocks"
	"gradi-client/shared/scheduler"

	"github.com/golang/mock/gomock"
)

func TestGraderAgentName(t *testing.T) {
	agent := NewGraderAgent(&config.Config{}, nil)
	if name := agent.Name(); name != "Video Grader" {
		t.Errorf("Name() = %s, want Video Grader", name)
	}
}

func TestGraderMetricsGetSummary(t *testing.T) {
	tests := []struct {
		name     string
		metrics  GraderMetrics
		expected string
	}{
		{"All zeros", GraderMetrics{}, "checked 0 urls, analyzed 0, failed 0, skipped 0"},
		{"Mixed", GraderMetrics{URLsChecked: 5, Analyzed: 2, Failed: 1, Skipped: 2}, "checked 5 urls, analyzed 2, failed 1, skipped 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.metrics.GetSummary(); got != tt.expected {
				t.Errorf("GetSummary() = %s, want %s", got, tt.expected)
			}
		})
	}
}

type fakeMailer struct {
	digests []*models.Digest
	err     error
}

func (m *fakeMailer) SendDigest(d *models.Digest) error {
	m.digests = append(m.digests, d)
	return m.err
}

type fakeVideos map[string]*models.Video

func (f fakeVideos) GetVideo(ctx context.Context, id string) (*models.Video, error) {
	if v, ok := f[id]; ok {
		return v, nil
	}
	return nil, errors.New("not found")
}

type eventLog struct {
	success  []scheduler.Metrics
	partial  []error
	critical []error
}

func (l *eventLog) events() *scheduler.AgentEvents {
	return &scheduler.AgentEvents{
		OnSuccess:         func(m scheduler.Metrics, d time.Duration) { l.success = append(l.success, m) },
		OnPartialFailure:  func(err error, d time.Duration) { l.partial = append(l.partial, err) },
		OnCriticalFailure: func(err error, d time.Duration) { l.critical = append(l.critical, err) },
	}
}

func okEnvelope(score float64) *models.Envelope {
	return &models.Envelope{Success: true, Data: &models.AnalysisResult{
		Summary: "ok",
		Ratings: models.NewRatings(models.RatingEntry{Name: "Content Depth", Rating: models.CategoryRating{Score: score}}),
	}}
}

func newTestAgent(t *testing.T, transport *mocks.MockTransport, urls ...string) (*GraderAgent, *fakeMailer) {
	t.Helper()
	cfg := &config.Config{}
	cfg.Backend.TimeoutSeconds = 5
	cfg.Watch.URLs = urls
	cfg.Watch.DataDir = t.TempDir()
	cfg.Watch.RepeatAfterHours = 24

	mailer := &fakeMailer{}
	agent := NewGraderAgent(cfg, nil)
	agent.transport = transport
	agent.mailer = mailer
	agent.pause = 0
	if err := agent.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	return agent, mailer
}

const (
	urlA = "https://www.youtube.com/watch?v=aaaaaaaaaaa"
	urlB = "https://youtu.be/bbbbbbbbbbb"
	urlC = "https://youtu.be/ccccccccccc"
)

func TestRunOnceAnalyzesAndSkipsRepeats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transport := mocks.NewMockTransport(ctrl)
	transport.EXPECT().AnalyzeVideo(gomock.Any(), gomock.Any()).Return(okEnvelope(4), nil).Times(3)

	agent, mailer := newTestAgent(t, transport, urlA, urlB, urlC)
	agent.videos = fakeVideos{"aaaaaaaaaaa": {ID: "aaaaaaaaaaa", Title: "Lecture A"}}

	events := &eventLog{}
	if err := agent.RunOnce(context.Background(), events.events()); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}

	if len(events.success) != 1 {
		t.Fatalf("expected one success event, got %d", len(events.success))
	}
	if got := events.success[0].GetSummary(); got != "checked 3 urls, analyzed 3, failed 0, skipped 0" {
		t.Errorf("summary = %s", got)
	}
	if len(events.partial) != 0 {
		t.Errorf("unexpected partial failures: %v", events.partial)
	}

	if len(mailer.digests) != 1 {
		t.Fatalf("expected one digest, got %d", len(mailer.digests))
	}
	digest := mailer.digests[0]
	if digest.Total != 3 || len(digest.Entries) != 3 {
		t.Errorf("digest total %d entries %d", digest.Total, len(digest.Entries))
	}
	if digest.Entries[0].Video == nil || digest.Entries[0].Video.Title != "Lecture A" {
		t.Error("metadata should be attached to the first entry")
	}
	if digest.Entries[1].Video != nil {
		t.Error("failed metadata lookup should leave Video empty")
	}

	if last, ok := agent.tracker.Last("bbbbbbbbbbb"); !ok || last.OverallScore != 4 {
		t.Errorf("tracker entry = %+v, %v", last, ok)
	}

	// Second run: everything was analyzed recently.
	events = &eventLog{}
	if err := agent.RunOnce(context.Background(), events.events()); err != nil {
		t.Fatalf("second RunOnce() error = %v", err)
	}
	if got := events.success[0].GetSummary(); got != "checked 3 urls, analyzed 0, failed 0, skipped 3" {
		t.Errorf("summary = %s", got)
	}
	if len(mailer.digests) != 1 {
		t.Error("no digest should be sent when nothing was analyzed")
	}
}

func TestRunOncePartialFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transport := mocks.NewMockTransport(ctrl)
	gomock.InOrder(
		transport.EXPECT().AnalyzeVideo(gomock.Any(), gomock.Any()).Return(okEnvelope(4), nil),
		transport.EXPECT().AnalyzeVideo(gomock.Any(), gomock.Any()).Return(&models.Envelope{Success: false, Error: "bad url"}, nil),
		transport.EXPECT().AnalyzeVideo(gomock.Any(), gomock.Any()).Return(okEnvelope(3), nil),
	)

	agent, mailer := newTestAgent(t, transport, urlA, urlB, urlC)

	events := &eventLog{}
	if err := agent.RunOnce(context.Background(), events.events()); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if len(events.partial) != 1 {
		t.Errorf("expected one partial failure, got %v", events.partial)
	}
	if len(events.success) != 1 {
		t.Error("a partial failure should still complete the run")
	}
	if got := mailer.digests[0].Entries[1].Error; got != "bad url" {
		t.Errorf("entry error = %q, want bad url", got)
	}
	if agent.tracker.IsAnalyzed("bbbbbbbbbbb") {
		t.Error("failed analyses must not be tracked")
	}
}

func TestRunOnceTooManyFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transport := mocks.NewMockTransport(ctrl)
	gomock.InOrder(
		transport.EXPECT().AnalyzeVideo(gomock.Any(), gomock.Any()).Return(nil, context.DeadlineExceeded),
		transport.EXPECT().AnalyzeVideo(gomock.Any(), gomock.Any()).Return(nil, context.DeadlineExceeded),
		transport.EXPECT().AnalyzeVideo(gomock.Any(), gomock.Any()).Return(okEnvelope(4), nil),
	)

	agent, mailer := newTestAgent(t, transport, urlA, urlB, urlC)

	events := &eventLog{}
	if err := agent.RunOnce(context.Background(), events.events()); err == nil {
		t.Fatal("expected an error when most analyses fail")
	}
	if len(events.success) != 0 {
		t.Error("a failed run must not report success")
	}
	if len(mailer.digests) != 1 {
		t.Error("the digest is still sent for a failed run")
	}
	if got := mailer.digests[0].Entries[0].Error; got != "Network error - please check your connection and try again" {
		t.Errorf("entry error = %q", got)
	}
}

func TestRunOnceDigestFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transport := mocks.NewMockTransport(ctrl)
	transport.EXPECT().AnalyzeVideo(gomock.Any(), gomock.Any()).Return(okEnvelope(4), nil)

	agent, mailer := newTestAgent(t, transport, urlA)
	mailer.err = errors.New("smtp down")

	if err := agent.RunOnce(context.Background(), (&eventLog{}).events()); err == nil {
		t.Error("expected the digest error to fail the run")
	}
}

func TestRunOnceCanceled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transport := mocks.NewMockTransport(ctrl)
	transport.EXPECT().AnalyzeVideo(gomock.Any(), gomock.Any()).Times(0)

	agent, _ := newTestAgent(t, transport, urlA, urlB)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := agent.RunOnce(ctx, (&eventLog{}).events()); !errors.Is(err, context.Canceled) {
		t.Errorf("RunOnce() error = %v, want context.Canceled", err)
	}
}

func TestTrackerKey(t *testing.T) {
	if got := trackerKey(urlB); got != "bbbbbbbbbbb" {
		t.Errorf("trackerKey(%s) = %s", urlB, got)
	}
	if got := trackerKey("lecture-42"); got != "lecture-42" {
		t.Errorf("trackerKey without an ID should fall back to the URL, got %s", got)
	}
}
