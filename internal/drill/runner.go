package drill

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"lacrosse-tracker/internal/constants"

	"github.com/rs/zerolog"
)

// Config carries the timing knobs so tests can run the drill at full
// speed. DefaultConfig matches the real drill.
type Config struct {
	CountdownBeeps   int
	CountdownSpacing time.Duration
	GoDelayMin       time.Duration
	GoDelayMax       time.Duration
	FramePoll        time.Duration
	MotionThreshold  float64
	RestPause        time.Duration
}

func DefaultConfig() Config {
	return Config{
		CountdownBeeps:   constants.CountdownBeeps,
		CountdownSpacing: constants.CountdownSpacing,
		GoDelayMin:       constants.GoDelayMin,
		GoDelayMax:       constants.GoDelayMax,
		FramePoll:        constants.FramePollInterval,
		MotionThreshold:  constants.MotionThreshold,
		RestPause:        constants.RepRestPause,
	}
}

// Runner drives the reaction-time drill: countdown cues, the randomized
// go signal, and motion detection against a reference frame. The FSM
// holds the state; the runner owns every timer and the camera stream,
// and releases both synchronously when the run ends or is cancelled.
type Runner struct {
	cfg     Config
	fsm     *Machine
	frames  FrameSource
	cues    CuePlayer
	session *Session
	logger  zerolog.Logger

	timersMu sync.Mutex
	timers   []*time.Timer
}

func NewRunner(cfg Config, frames FrameSource, cues CuePlayer, session *Session, logger zerolog.Logger) *Runner {
	if cues == nil {
		cues = NopCuePlayer{}
	}
	return &Runner{
		cfg:     cfg,
		fsm:     NewMachine(),
		frames:  frames,
		cues:    cues,
		session: session,
		logger:  logger,
	}
}

func (r *Runner) State() State      { return r.fsm.State() }
func (r *Runner) Session() *Session { return r.session }

// Run executes repetitions until the session's end condition is met or
// the context is cancelled. Camera failure moves the FSM to the error
// state and returns; there is no automatic retry.
func (r *Runner) Run(ctx context.Context) error {
	defer r.clearTimers()
	defer r.frames.Close()

	if _, err := r.fsm.Transition(Event{Type: EventBegin}); err != nil {
		return err
	}

	// Probe the stream before counting down so a dead camera fails the
	// drill up front with a descriptive error.
	if _, err := r.frames.Frame(ctx); err != nil {
		r.fail(fmt.Errorf("camera unavailable: %w", err))
		return r.fsm.LastErr()
	}
	if _, err := r.fsm.Transition(Event{Type: EventCameraReady}); err != nil {
		return err
	}

	r.session.Begin()

	for {
		if err := r.runRep(ctx); err != nil {
			return err
		}

		if r.session.Done() {
			r.logger.Info().
				Int("samples", len(r.session.Samples())).
				Dur("best", r.session.Best()).
				Dur("average", r.session.Average()).
				Msg("drill session complete")
			_, err := r.fsm.Transition(Event{Type: EventReset})
			return err
		}

		if _, err := r.fsm.Transition(Event{Type: EventNextRep}); err != nil {
			return err
		}
		if err := r.wait(ctx, r.cfg.RestPause); err != nil {
			return err
		}
	}
}

func (r *Runner) runRep(ctx context.Context) error {
	if err := r.countdown(ctx); err != nil {
		return err
	}
	if _, err := r.fsm.Transition(Event{Type: EventCountdownDone}); err != nil {
		return err
	}

	r.cues.Set()

	// The randomized delay before the go signal prevents anticipatory
	// false starts.
	window := r.cfg.GoDelayMax - r.cfg.GoDelayMin
	delay := r.cfg.GoDelayMin
	if window > 0 {
		delay += time.Duration(rand.Int63n(int64(window)))
	}
	if err := r.wait(ctx, delay); err != nil {
		return err
	}

	r.cues.Go()
	goTime := time.Now()
	if _, err := r.fsm.Transition(Event{Type: EventGo}); err != nil {
		return err
	}

	elapsed, err := r.measure(ctx, goTime)
	if err != nil {
		return err
	}

	if _, err := r.fsm.Transition(Event{Type: EventMotion, Elapsed: elapsed}); err != nil {
		return err
	}
	r.session.Record(elapsed)

	r.logger.Debug().Dur("elapsed", elapsed).Msg("reaction recorded")
	return nil
}

// countdown pre-schedules the descending beeps as one batch of timers so
// cancellation can clear everything that has not fired yet in one sweep.
func (r *Runner) countdown(ctx context.Context) error {
	r.timersMu.Lock()
	for i := 0; i < r.cfg.CountdownBeeps; i++ {
		n := r.cfg.CountdownBeeps - i
		r.timers = append(r.timers, time.AfterFunc(time.Duration(i)*r.cfg.CountdownSpacing, func() {
			r.cues.Beep(n)
		}))
	}
	r.timersMu.Unlock()

	return r.wait(ctx, time.Duration(r.cfg.CountdownBeeps)*r.cfg.CountdownSpacing)
}

// measure captures a reference frame at the go signal and polls frames
// until the mean luma difference crosses the threshold. There is no
// timeout: with no motion the loop runs until the context is cancelled.
func (r *Runner) measure(ctx context.Context, goTime time.Time) (time.Duration, error) {
	ref, err := r.frames.Frame(ctx)
	if err != nil {
		r.fail(fmt.Errorf("failed to capture reference frame: %w", err))
		return 0, r.fsm.LastErr()
	}

	ticker := time.NewTicker(r.cfg.FramePoll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-ticker.C:
			cur, err := r.frames.Frame(ctx)
			if err != nil {
				r.fail(fmt.Errorf("failed to capture frame: %w", err))
				return 0, r.fsm.LastErr()
			}

			diff, err := MeanAbsDiff(ref, cur)
			if err != nil {
				r.fail(err)
				return 0, r.fsm.LastErr()
			}

			if diff > r.cfg.MotionThreshold {
				return time.Since(goTime), nil
			}
		}
	}
}

func (r *Runner) fail(err error) {
	r.logger.Error().Err(err).Msg("drill failed")
	r.fsm.Transition(Event{Type: EventFail, Err: err})
}

func (r *Runner) clearTimers() {
	r.timersMu.Lock()
	defer r.timersMu.Unlock()
	for _, t := range r.timers {
		t.Stop()
	}
	r.timers = nil
}

func (r *Runner) wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
