package monitoring

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
)

// Monitor tracks the health of scheduled runs and exports analysis
// metrics. It satisfies orchestrator.Recorder.
type Monitor struct {
	mu             sync.RWMutex
	lastRunSuccess bool
	lastRunTime    time.Time
	now            func() time.Time

	registry         *prometheus.Registry
	analyses         *prometheus.CounterVec
	analysisDuration prometheus.Histogram
	runs             *prometheus.CounterVec
	lastRun          prometheus.Gauge
}

func NewMonitor() *Monitor {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Monitor{
		now:      time.Now,
		registry: reg,
		analyses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gradi",
			Name:      "analyses_total",
			Help:      "Analysis requests by outcome.",
		}, []string{"outcome"}),
		analysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gradi",
			Name:      "analysis_duration_seconds",
			Help:      "Wall time of analysis requests.",
			Buckets:   []float64{1, 5, 10, 20, 30, 60, 90, 120},
		}),
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gradi",
			Name:      "agent_runs_total",
			Help:      "Grader runs by result.",
		}, []string{"result"}),
		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "gradi",
			Name:      "agent_last_run_timestamp_seconds",
			Help:      "Unix time of the last completed grader run.",
		}),
	}
}

// Registry holds every metric of this monitor.
func (m *Monitor) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveAnalysis records one analysis request.
func (m *Monitor) ObserveAnalysis(outcome string, duration time.Duration) {
	m.analyses.WithLabelValues(outcome).Inc()
	m.analysisDuration.Observe(duration.Seconds())
}

func (m *Monitor) RecordSuccess(summary string, duration time.Duration) {
	m.finishRun(true, "success")
	log.Infof("✅ Run completed successfully - %s (took %v)", summary, duration)
}

// RecordPartialFailure does not change the health status.
func (m *Monitor) RecordPartialFailure(err error, duration time.Duration) {
	m.runs.WithLabelValues("partial").Inc()
	log.Warnf("⚠️  PARTIAL FAILURE: %s (Duration: %v)", err.Error(), duration)
}

func (m *Monitor) RecordCriticalFailure(err error, duration time.Duration) {
	m.finishRun(false, "critical")
	log.Errorf("🚨 CRITICAL FAILURE: %s (Duration: %v)", err.Error(), duration)
}

func (m *Monitor) finishRun(success bool, result string) {
	m.mu.Lock()
	m.lastRunSuccess = success
	m.lastRunTime = m.now()
	at := m.lastRunTime
	m.mu.Unlock()

	m.runs.WithLabelValues(result).Inc()
	m.lastRun.Set(float64(at.Unix()))
}

// IsHealthy is true before the first run and after a successful one.
func (m *Monitor) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.lastRunTime.IsZero() {
		return true
	}
	return m.lastRunSuccess
}

func (m *Monitor) GetStatusSummary() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.lastRunTime.IsZero() {
		return "No runs yet"
	}
	if m.lastRunSuccess {
		return fmt.Sprintf("✅ Last run: %s", m.lastRunTime.Format("Jan 2 15:04"))
	}
	return fmt.Sprintf("❌ Last run failed: %s", m.lastRunTime.Format("Jan 2 15:04"))
}
