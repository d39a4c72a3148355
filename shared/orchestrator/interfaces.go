package orchestrator

import (
	"context"
	"time"

	"gradi-client/internal/models"
)

//go:generate mockgen -destination=mocks/mock_transport.go -package=mocks gradi-client/shared/orchestrator Transport

// Transport issues the analyze-video call. *api.Client satisfies it.
type Transport interface {
	AnalyzeVideo(ctx context.Context, req models.AnalysisRequest) (*models.Envelope, error)
}

// Listener is notified on every state or stage change.
type Listener func(Snapshot)

// Recorder observes the outcome of every accepted submission.
type Recorder interface {
	ObserveAnalysis(outcome string, duration time.Duration)
}
