package domain

import "time"

// Operation names a coordinator mutation.
type Operation string

const (
	OpPresent     Operation = "present"
	OpNavigateTo  Operation = "navigate_to"
	OpUpdateIndex Operation = "update_index"
	OpBack        Operation = "back"
	OpPopToRoot   Operation = "pop_to_root"
	OpSetRoot     Operation = "set_root"
)

// Command is one mutation request. Only the fields used by Op are read:
// Destination by present, navigate_to and set_root, Index by update_index,
// KeepStack by back and pop_to_root, Animate by present.
type Command struct {
	Op          Operation
	Destination Destination
	Index       int
	KeepStack   bool
	Animate     bool
}

// Result is what a Command left behind. State is read in the same critical
// section as the mutation, so it never includes later changes.
type Result struct {
	// Handled is false for no-op outcomes and rejected commands.
	Handled bool
	State   State
}

// TransitionEvent describes one mutation after it has been applied and published.
type TransitionEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Surface   string    `json:"surface,omitempty"`
	Operation Operation `json:"operation"`
	From      State     `json:"from"`
	To        State     `json:"to"`

	// Handled is false for no-op outcomes (back at the root, unmatched navigateTo).
	Handled bool `json:"handled"`

	// Animate is the rendering hint passed to Present. Other operations report true.
	Animate bool `json:"animate"`
}

// LifecycleHooks defines callbacks for coordinator observability.
// Hooks run synchronously on the mutating goroutine and must not call back into the coordinator.
type LifecycleHooks struct {
	OnTransition func(*TransitionEvent)
	OnRejected   func(*TransitionEvent, error)
}

// ChainHooks returns hooks that call each of the given hooks in order.
func ChainHooks(hooks ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnTransition: func(e *TransitionEvent) {
			for _, h := range hooks {
				if h.OnTransition != nil {
					h.OnTransition(e)
				}
			}
		},
		OnRejected: func(e *TransitionEvent, err error) {
			for _, h := range hooks {
				if h.OnRejected != nil {
					h.OnRejected(e, err)
				}
			}
		},
	}
}
