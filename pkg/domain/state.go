package domain

import (
	"encoding/json"
	"fmt"
)

// State is one snapshot of navigation: the ordered stack of destinations and the
// index of the current one. Entries after CurrentIndex are forward history kept by
// soft back operations.
type State struct {
	// Stack holds every open destination in insertion order. Duplicates are allowed.
	Stack []Destination

	// CurrentIndex points at the destination being shown.
	CurrentIndex int
}

// NewState creates a state holding only the root destination.
func NewState(root Destination) State {
	return State{
		Stack:        []Destination{root},
		CurrentIndex: 0,
	}
}

// Len returns the number of destinations on the stack.
func (s State) Len() int {
	return len(s.Stack)
}

// Current returns the destination at CurrentIndex, or nil when the state is corrupt.
func (s State) Current() Destination {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Stack) {
		return nil
	}
	return s.Stack[s.CurrentIndex]
}

// IndexOf returns the index of the entry equal to d that lies closest to
// CurrentIndex, or -1. The current entry wins outright; on equal distance the
// forward entry is preferred, so a page left by a soft back is found again.
func (s State) IndexOf(d Destination) int {
	if Equal(s.Current(), d) {
		return s.CurrentIndex
	}
	for dist := 1; dist < len(s.Stack); dist++ {
		if i := s.CurrentIndex + dist; i < len(s.Stack) && Equal(s.Stack[i], d) {
			return i
		}
		if i := s.CurrentIndex - dist; i >= 0 && i < len(s.Stack) && Equal(s.Stack[i], d) {
			return i
		}
	}
	return -1
}

// Snapshot returns a deep copy that shares no memory with s.
func (s State) Snapshot() State {
	stack := make([]Destination, len(s.Stack))
	copy(stack, s.Stack)
	return State{Stack: stack, CurrentIndex: s.CurrentIndex}
}

// Equal reports whether both states hold equal stacks and the same index.
func (s State) Equal(other State) bool {
	return s.CurrentIndex == other.CurrentIndex && StacksEqual(s.Stack, other.Stack)
}

// Validate checks the state invariants: a non-empty stack and an index inside it.
func (s State) Validate() error {
	if len(s.Stack) == 0 {
		return fmt.Errorf("%w: empty stack", ErrCorruptState)
	}
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Stack) {
		return fmt.Errorf("%w: index %d outside stack of %d", ErrCorruptState, s.CurrentIndex, len(s.Stack))
	}
	for i, d := range s.Stack {
		if d == nil {
			return fmt.Errorf("%w: nil destination at %d", ErrCorruptState, i)
		}
	}
	return nil
}

// StacksEqual compares two destination sequences element by element.
func StacksEqual(a, b []Destination) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

type stateJSON struct {
	Pages        []Wire `json:"pages"`
	CurrentIndex int    `json:"current_index"`
}

// MarshalJSON encodes the state as {"pages": [...], "current_index": n}.
func (s State) MarshalJSON() ([]byte, error) {
	out := stateJSON{
		Pages:        make([]Wire, len(s.Stack)),
		CurrentIndex: s.CurrentIndex,
	}
	for i, d := range s.Stack {
		out.Pages[i] = ToWire(d)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the form produced by MarshalJSON and validates the result.
func (s *State) UnmarshalJSON(data []byte) error {
	var in stateJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	stack := make([]Destination, len(in.Pages))
	for i, w := range in.Pages {
		d, err := FromWire(w)
		if err != nil {
			return fmt.Errorf("page %d: %w", i, err)
		}
		stack[i] = d
	}
	decoded := State{Stack: stack, CurrentIndex: in.CurrentIndex}
	if err := decoded.Validate(); err != nil {
		return err
	}
	*s = decoded
	return nil
}
