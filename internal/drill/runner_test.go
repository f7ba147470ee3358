package drill

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"lacrosse-tracker/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFrames alternates between a dark and a bright frame on successive
// captures, so the first poll after the reference frame always crosses
// the motion threshold.
type fakeFrames struct {
	mu     sync.Mutex
	calls  int
	err    error
	closed bool
}

func (f *fakeFrames) Frame(ctx context.Context) (Frame, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return Frame{}, f.err
	}
	f.calls++
	if f.calls%2 == 0 {
		return flatFrame(4, 4, 255), nil
	}
	return flatFrame(4, 4, 0), nil
}

func (f *fakeFrames) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// stillFrames always returns the same frame: no motion ever.
type stillFrames struct{}

func (stillFrames) Frame(ctx context.Context) (Frame, error) { return flatFrame(4, 4, 0), nil }
func (stillFrames) Close() error                             { return nil }

type recordingCuePlayer struct {
	mu    sync.Mutex
	beeps []int
	sets  int
	gos   int
}

func (c *recordingCuePlayer) Beep(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.beeps = append(c.beeps, n)
}

func (c *recordingCuePlayer) Set() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
}

func (c *recordingCuePlayer) Go() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gos++
}

func fastConfig() Config {
	return Config{
		CountdownBeeps:   2,
		CountdownSpacing: 5 * time.Millisecond,
		GoDelayMin:       time.Millisecond,
		GoDelayMax:       time.Millisecond,
		FramePoll:        time.Millisecond,
		MotionThreshold:  10,
		RestPause:        time.Millisecond,
	}
}

func TestRunnerCompletesRepsSession(t *testing.T) {
	frames := &fakeFrames{}
	cues := &recordingCuePlayer{}
	session := NewSession(SessionConfig{Mode: domain.DrillModeReps, TargetReps: 2})
	runner := NewRunner(fastConfig(), frames, cues, session, zerolog.Nop())

	err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateIdle, runner.State())
	assert.Len(t, session.Samples(), 2)
	for _, sample := range session.Samples() {
		assert.Greater(t, sample, time.Duration(0))
	}

	cues.mu.Lock()
	defer cues.mu.Unlock()
	assert.Equal(t, []int{2, 1, 2, 1}, cues.beeps, "descending countdown per rep")
	assert.Equal(t, 2, cues.sets)
	assert.Equal(t, 2, cues.gos)

	frames.mu.Lock()
	defer frames.mu.Unlock()
	assert.True(t, frames.closed, "camera released when the run ends")
}

func TestRunnerCameraFailure(t *testing.T) {
	boom := errors.New("device busy")
	frames := &fakeFrames{err: boom}
	session := NewSession(SessionConfig{Mode: domain.DrillModeReps, TargetReps: 1})
	runner := NewRunner(fastConfig(), frames, nil, session, zerolog.Nop())

	err := runner.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateError, runner.State())
	assert.Empty(t, session.Samples())
}

func TestRunnerCancelledWhileMeasuring(t *testing.T) {
	session := NewSession(SessionConfig{Mode: domain.DrillModeReps, TargetReps: 1})
	runner := NewRunner(fastConfig(), stillFrames{}, nil, session, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx) }()

	// No frame ever differs from the reference, so the measurement loop
	// only ends when the context does.
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("runner did not stop after cancellation")
	}

	assert.Empty(t, session.Samples())
}
