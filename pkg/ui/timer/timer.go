// Package timer provides wall-clock stage timing for command output.
//
// A Timer tracks the total elapsed time since it was started and the
// elapsed time of the current stage. Commands reset the stage boundary
// with NewStage when they move from one activity to the next, and the
// notify package prints both durations after a success message when
// timing output is enabled.
package timer

import "time"

// Timer tracks total and per-stage elapsed time.
type Timer interface {
	// Start begins timing. Calling Start again resets the timer.
	Start()
	// NewStage marks the beginning of a new stage.
	NewStage()
	// GetTiming returns the total elapsed time and the elapsed time of
	// the current stage.
	GetTiming() (total, stage time.Duration)
}

type realTimer struct {
	start      time.Time
	stageStart time.Time
}

// New creates a Timer backed by the system clock. The timer is started
// on creation.
func New() Timer {
	now := time.Now()

	return &realTimer{start: now, stageStart: now}
}

func (t *realTimer) Start() {
	now := time.Now()
	t.start = now
	t.stageStart = now
}

func (t *realTimer) NewStage() {
	t.stageStart = time.Now()
}

func (t *realTimer) GetTiming() (time.Duration, time.Duration) {
	now := time.Now()

	return now.Sub(t.start), now.Sub(t.stageStart)
}
