package drill

import (
	"fmt"
	"time"
)

type State string

const (
	StateIdle      State = "idle"
	StateStarting  State = "starting"
	StateCountdown State = "countdown"
	StateSet       State = "set"
	StateMeasuring State = "measuring"
	StateResult    State = "result"
	StateError     State = "error"
)

type EventType string

const (
	EventBegin         EventType = "begin"          // idle -> starting
	EventCameraReady   EventType = "camera_ready"   // starting -> countdown
	EventCountdownDone EventType = "countdown_done" // countdown -> set
	EventGo            EventType = "go"             // set -> measuring
	EventMotion        EventType = "motion"         // measuring -> result
	EventNextRep       EventType = "next_rep"       // result -> countdown
	EventFail          EventType = "fail"           // any -> error
	EventReset         EventType = "reset"          // result/error -> idle
)

type Event struct {
	Type    EventType
	Elapsed time.Duration // set on EventMotion
	Err     error         // set on EventFail
}

// Machine is the reaction-drill state machine. All movement goes through
// the single Transition entry point; there are no callbacks referencing
// each other across states. Timers and frame capture live in the Runner,
// which feeds events in.
type Machine struct {
	state   State
	lastErr error
}

func NewMachine() *Machine {
	return &Machine{state: StateIdle}
}

func (m *Machine) State() State { return m.state }

// LastErr returns the failure that moved the machine into the error
// state, if any.
func (m *Machine) LastErr() error { return m.lastErr }

var transitions = map[State]map[EventType]State{
	StateIdle:      {EventBegin: StateStarting},
	StateStarting:  {EventCameraReady: StateCountdown},
	StateCountdown: {EventCountdownDone: StateSet},
	StateSet:       {EventGo: StateMeasuring},
	StateMeasuring: {EventMotion: StateResult},
	StateResult: {
		EventNextRep: StateCountdown,
		EventReset:   StateIdle,
	},
	StateError: {EventReset: StateIdle},
}

// Transition applies an event to the current state. EventFail is legal
// from any state; everything else must match the transition table.
func (m *Machine) Transition(ev Event) (State, error) {
	if ev.Type == EventFail {
		m.state = StateError
		m.lastErr = ev.Err
		return m.state, nil
	}

	next, ok := transitions[m.state][ev.Type]
	if !ok {
		return m.state, fmt.Errorf("invalid transition: %s in state %s", ev.Type, m.state)
	}

	if ev.Type == EventReset {
		m.lastErr = nil
	}
	m.state = next
	return m.state, nil
}
