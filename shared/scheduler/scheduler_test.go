package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"gradi-client/shared/config"
	"gradi-client/shared/monitoring"
)

type summary string

func (s summary) GetSummary() string { return string(s) }

type fakeAgent struct {
	initErr error
	runErr  error
	partial bool
	runs    atomic.Int32
}

func (a *fakeAgent) Name() string { return "fake-agent" }

func (a *fakeAgent) Initialize(ctx context.Context) error { return a.initErr }

func (a *fakeAgent) RunOnce(ctx context.Context, events *AgentEvents) error {
	a.runs.Add(1)
	if a.runErr != nil {
		return a.runErr
	}
	if a.partial {
		events.OnPartialFailure(errors.New("one url failed"), time.Millisecond)
	}
	events.OnSuccess(summary("checked 1 urls"), time.Millisecond)
	return nil
}

func testConfig(schedule string) *config.Config {
	cfg := &config.Config{}
	cfg.Watch.Schedule = schedule
	cfg.Monitoring.HealthPort = -1
	return cfg
}

func TestRunOnce(t *testing.T) {
	tests := []struct {
		name    string
		agent   *fakeAgent
		wantErr bool
		healthy bool
	}{
		{"success", &fakeAgent{}, false, true},
		{"partial failure keeps health", &fakeAgent{partial: true}, false, true},
		{"agent error is critical", &fakeAgent{runErr: errors.New("backend down")}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			monitor := monitoring.NewMonitor()
			s := New(testConfig("@every 1h"), tt.agent, monitor)

			err := s.RunOnce(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("RunOnce() error = %v, wantErr %v", err, tt.wantErr)
			}
			if monitor.IsHealthy() != tt.healthy {
				t.Errorf("IsHealthy() = %v, want %v", monitor.IsHealthy(), tt.healthy)
			}
			if tt.agent.runs.Load() != 1 {
				t.Errorf("agent ran %d times", tt.agent.runs.Load())
			}
		})
	}
}

func TestStartErrors(t *testing.T) {
	t.Run("initialize failure", func(t *testing.T) {
		s := New(testConfig("@every 1h"), &fakeAgent{initErr: errors.New("no credentials")}, nil)
		if err := s.Start(context.Background()); err == nil {
			t.Error("expected Start() to fail")
		}
	})

	t.Run("invalid schedule", func(t *testing.T) {
		s := New(testConfig("not a schedule"), &fakeAgent{}, nil)
		if err := s.Start(context.Background()); err == nil {
			t.Error("expected Start() to reject the schedule")
		}
	})
}

func TestStartRunsUntilCanceled(t *testing.T) {
	agent := &fakeAgent{}
	s := New(testConfig("@every 1s"), agent, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2500*time.Millisecond)
	defer cancel()

	err := s.Start(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Start() error = %v, want deadline exceeded", err)
	}
	if agent.runs.Load() < 1 {
		t.Error("scheduled job never ran")
	}
}
