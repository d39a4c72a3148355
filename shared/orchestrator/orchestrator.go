// Package orchestrator drives a single analysis request from submission to
// a terminal state. An Orchestrator owns the current result and error slot
// and allows at most one request in flight.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gradi-client/internal/apperrors"
	"gradi-client/internal/models"

	log "github.com/sirupsen/logrus"
)

// State of an orchestrator.
type State int

const (
	Idle State = iota
	Requesting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Requesting:
		return "requesting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Advisory stage labels. They are set before the call is issued and do not
// reflect real progress on the service side.
const (
	StageFetchingTranscript = "Fetching transcript from Dumpling AI..."
	StageAnalyzing          = "Gradi is analyzing with Gemini AI..."
	StagePreparing          = "Preparing detailed analysis..."
)

// Outcomes reported to a Recorder.
const (
	OutcomeSuccess          = "success"
	OutcomeApplicationError = "application_error"
	OutcomeTransportError   = "transport_error"
	OutcomeUnexpectedError  = "unexpected_error"
	OutcomeEmptyRatings     = "empty_ratings"
)

// DefaultTimeout bounds a request when no timeout option is given.
const DefaultTimeout = 120 * time.Second

// Snapshot is a copy of the orchestrator state.
type Snapshot struct {
	State   State
	Stage   string
	Result  *models.AnalysisResult
	Err     error
	Message string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTimeout bounds every request. Zero or less disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.timeout = d }
}

// WithListener registers fn for state changes.
func WithListener(fn Listener) Option {
	return func(o *Orchestrator) { o.listeners = append(o.listeners, fn) }
}

// WithRecorder reports outcomes and durations to r.
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

type Orchestrator struct {
	transport Transport
	timeout   time.Duration
	listeners []Listener
	recorder  Recorder

	mu     sync.Mutex
	state  State
	stage  string
	result *models.AnalysisResult
	err    error
}

func New(transport Transport, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		transport: transport,
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Submit analyzes url and blocks until the request reaches a terminal
// state. It returns false without doing anything when url is empty or a
// request is already in flight.
func (o *Orchestrator) Submit(ctx context.Context, videoURL string) bool {
	o.mu.Lock()
	if videoURL == "" || o.state == Requesting {
		o.mu.Unlock()
		return false
	}
	o.state = Requesting
	o.result = nil
	o.err = nil
	o.stage = StageFetchingTranscript
	snap := o.snapshotLocked()
	o.mu.Unlock()
	o.notify(snap)

	o.setStage(StageAnalyzing)
	o.setStage(StagePreparing)

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	start := time.Now()
	envelope, err := o.call(ctx, models.AnalysisRequest{YouTubeURL: videoURL})
	result, err := interpret(envelope, err)
	elapsed := time.Since(start)

	o.mu.Lock()
	o.stage = ""
	if err != nil {
		o.state = Failed
		o.err = err
	} else {
		o.state = Succeeded
		o.result = result
	}
	snap = o.snapshotLocked()
	o.mu.Unlock()

	outcome := outcomeOf(err)
	if err != nil {
		log.WithFields(log.Fields{"url": videoURL, "outcome": outcome}).
			Warnf("Analysis failed after %v: %s", elapsed.Round(time.Millisecond), snap.Message)
	} else {
		log.WithField("url", videoURL).Infof("Analysis completed in %v", elapsed.Round(time.Millisecond))
	}
	if o.recorder != nil {
		o.recorder.ObserveAnalysis(outcome, elapsed)
	}
	o.notify(snap)
	return true
}

func (o *Orchestrator) call(ctx context.Context, req models.AnalysisRequest) (envelope *models.Envelope, err error) {
	defer func() {
		if r := recover(); r != nil {
			envelope = nil
			err = &apperrors.UnexpectedError{Cause: fmt.Errorf("panic: %v", r)}
		}
	}()
	return o.transport.AnalyzeVideo(ctx, req)
}

// interpret turns a call outcome into a result or exactly one error of a
// known kind.
func interpret(envelope *models.Envelope, err error) (*models.AnalysisResult, error) {
	if err != nil {
		return nil, apperrors.Classify(err)
	}
	if envelope == nil {
		return nil, &apperrors.UnexpectedError{Cause: errors.New("empty response")}
	}
	if !envelope.Success {
		message := envelope.Error
		if message == "" {
			message = apperrors.AnalysisFailedMessage
		}
		return nil, &apperrors.ApplicationError{Message: message}
	}
	if envelope.Data == nil {
		return nil, &apperrors.ApplicationError{Message: apperrors.MissingDataMessage}
	}
	if envelope.Data.Ratings.Len() == 0 {
		return nil, apperrors.ErrEmptyRatings
	}
	return envelope.Data, nil
}

func outcomeOf(err error) string {
	var appErr *apperrors.ApplicationError
	var transportErr *apperrors.TransportError
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, apperrors.ErrEmptyRatings):
		return OutcomeEmptyRatings
	case errors.As(err, &appErr):
		return OutcomeApplicationError
	case errors.As(err, &transportErr):
		return OutcomeTransportError
	}
	return OutcomeUnexpectedError
}

func (o *Orchestrator) setStage(stage string) {
	o.mu.Lock()
	o.stage = stage
	snap := o.snapshotLocked()
	o.mu.Unlock()
	o.notify(snap)
}

func (o *Orchestrator) notify(snap Snapshot) {
	for _, fn := range o.listeners {
		fn(snap)
	}
}

func (o *Orchestrator) snapshotLocked() Snapshot {
	return Snapshot{
		State:   o.state,
		Stage:   o.stage,
		Result:  o.result,
		Err:     o.err,
		Message: apperrors.UserMessage(o.err),
	}
}

// Snapshot returns the current state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Result returns the current result, or nil unless the last request
// succeeded.
func (o *Orchestrator) Result() *models.AnalysisResult {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.result
}

// Err returns the error of the last request, or nil.
func (o *Orchestrator) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

// ErrorMessage returns the message to show for the last failure.
func (o *Orchestrator) ErrorMessage() string {
	return apperrors.UserMessage(o.Err())
}
