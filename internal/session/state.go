package session

import "fmt"

// State is the state of the scan session controller.
type State int

const (
	// StateIdle waits for a decoded symbol.
	StateIdle State = iota
	// StateDetected holds a symbol whose lookup has not started yet.
	StateDetected
	// StateLoading has a product lookup in flight.
	StateLoading
	// StateReady holds a looked-up product awaiting confirmation.
	StateReady
	// StateError holds a failed lookup. The next decoded symbol retries.
	StateError
)

var stateNames = [...]string{ //nolint: gochecknoglobals
	StateIdle:     "idle",
	StateDetected: "detected",
	StateLoading:  "loading",
	StateReady:    "ready",
	StateError:    "error",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}

	return stateNames[s]
}

// MarshalText renders the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type event int

const (
	evDecoded event = iota
	evLookupStarted
	evLookupSucceeded
	evLookupFailed
	evConfirmed
	evDismissed
	evClosed
)

var eventNames = [...]string{ //nolint: gochecknoglobals
	evDecoded:         "decoded",
	evLookupStarted:   "lookup_started",
	evLookupSucceeded: "lookup_succeeded",
	evLookupFailed:    "lookup_failed",
	evConfirmed:       "confirmed",
	evDismissed:       "dismissed",
	evClosed:          "closed",
}

func (e event) String() string { return eventNames[e] }

// transitions is the complete transition table. A (state, event) pair missing
// from it is rejected.
var transitions = map[State]map[event]State{ //nolint: gochecknoglobals
	StateIdle: {
		evDecoded: StateDetected,
		evClosed:  StateIdle,
	},
	StateDetected: {
		evLookupStarted: StateLoading,
		evDismissed:     StateIdle,
		evClosed:        StateIdle,
	},
	StateLoading: {
		evLookupSucceeded: StateReady,
		evLookupFailed:    StateError,
		evDismissed:       StateIdle,
		evClosed:          StateIdle,
	},
	StateReady: {
		evConfirmed: StateIdle,
		evDismissed: StateIdle,
		evClosed:    StateIdle,
	},
	StateError: {
		evDecoded:   StateDetected,
		evDismissed: StateIdle,
		evClosed:    StateIdle,
	},
}

func next(s State, e event) (State, bool) {
	to, ok := transitions[s][e]

	return to, ok
}
