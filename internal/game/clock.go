package game

import (
	"lacrosse-tracker/internal/constants"
)

// Cues is the audible side of the clock: spoken countdown near the end of
// a period and a terminal buzzer. Implementations are external (speech
// synthesis, arena horn); NopCues is used where no audio path exists.
type Cues interface {
	Announce(secondsLeft int)
	Buzzer()
}

type NopCues struct{}

func (NopCues) Announce(int) {}
func (NopCues) Buzzer()      {}

// Clock counts down the seconds remaining in a period. Tick is driven by
// a fixed-interval timer, not a monotonic deadline, so wall-clock drift
// is possible; that is a known limitation of the tool, not a defect.
type Clock struct {
	running   bool
	remaining int
	cues      Cues
}

func NewClock(periodSeconds int, cues Cues) *Clock {
	if cues == nil {
		cues = NopCues{}
	}
	return &Clock{remaining: periodSeconds, cues: cues}
}

func (c *Clock) Running() bool  { return c.running }
func (c *Clock) Remaining() int { return c.remaining }

// Start begins the countdown. No-op if already running or expired.
func (c *Clock) Start() {
	if c.remaining == 0 {
		return
	}
	c.running = true
}

// Pause halts the countdown. No-op if already paused.
func (c *Clock) Pause() {
	c.running = false
}

// Tick advances the clock by one second. In the final stretch each new
// value in [1, CountdownWindow] is announced; hitting zero emits exactly
// one buzzer and stops the clock, so further ticks are no-ops.
func (c *Clock) Tick() {
	if !c.running || c.remaining == 0 {
		return
	}

	c.remaining--

	if c.remaining >= 1 && c.remaining <= constants.CountdownWindow {
		c.cues.Announce(c.remaining)
	}
	if c.remaining == 0 {
		c.cues.Buzzer()
		c.running = false
	}
}

// Adjust applies a manual correction, clamping at zero.
func (c *Clock) Adjust(deltaSeconds int) {
	c.remaining += deltaSeconds
	if c.remaining < 0 {
		c.remaining = 0
	}
}

// Reset sets the remaining time regardless of running state.
func (c *Clock) Reset(seconds int) {
	if seconds < 0 {
		seconds = 0
	}
	c.remaining = seconds
}
