package videograder

import (
	"time"

	"github.com/briandowns/spinner"
)

const spinnerRefreshRate = 120 * time.Millisecond

// Spinner shows the advisory stage of a running analysis.
type Spinner interface {
	Start()
	Stop()
	UpdateSuffix(suffix string)
}

type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() {
	rs.s.Start()
}

func (rs *realSpinner) Stop() {
	rs.s.Stop()
}

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[14], spinnerRefreshRate, options...)
	return &realSpinner{s}
}
