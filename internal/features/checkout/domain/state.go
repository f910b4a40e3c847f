package domain

import "fmt"

// State is the position of a checkout in the submission flow.
type State string

const (
	StateEditing             State = "editing"
	StateValidating          State = "validating"
	StateDispatching         State = "dispatching"
	StateRedirectingExternal State = "redirecting_external"
	StateConfirmed           State = "confirmed"
	StateFailed              State = "failed"
)

var transitions = map[State][]State{
	StateEditing:             {StateValidating},
	StateValidating:          {StateEditing, StateDispatching},
	StateDispatching:         {StateRedirectingExternal, StateConfirmed, StateFailed},
	StateRedirectingExternal: {StateEditing, StateDispatching},
	StateFailed:              {StateEditing},
}

func (s State) CanTransitionTo(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s State) IsTerminal() bool {
	return s == StateConfirmed
}

func (s State) String() string {
	return string(s)
}

// TransitionError reports an illegal state change.
type TransitionError struct {
	From, To State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("checkout cannot move from %s to %s", e.From, e.To)
}
