package runtime

import "github.com/aretw0/liftnav/pkg/domain"

// Truncation decides what happens to entries after the current index once a
// back-style operation has moved the pointer.
type Truncation int

const (
	// RetainForward keeps entries after the pointer as forward history (soft back).
	// They stay reachable through NavigateTo and index updates until the next Present.
	RetainForward Truncation = iota

	// DiscardForward cuts the stack to CurrentIndex+1 (normal LIFO back).
	DiscardForward
)

// TruncationFor maps the keepStack flag of the public API to a strategy.
func TruncationFor(keepStack bool) Truncation {
	if keepStack {
		return RetainForward
	}
	return DiscardForward
}

func (t Truncation) String() string {
	switch t {
	case RetainForward:
		return "retain_forward"
	case DiscardForward:
		return "discard_forward"
	default:
		return "unknown"
	}
}

// Apply returns s with the strategy applied. s is never modified.
func (t Truncation) Apply(s domain.State) domain.State {
	if t != DiscardForward {
		return s.Snapshot()
	}
	stack := make([]domain.Destination, s.CurrentIndex+1)
	copy(stack, s.Stack[:s.CurrentIndex+1])
	return domain.State{Stack: stack, CurrentIndex: s.CurrentIndex}
}
