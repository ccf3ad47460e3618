package runtime

import "github.com/aretw0/liftnav/pkg/domain"

// Present performs a hard push: forward history is discarded, then d is appended
// and becomes the current page.
func Present(s domain.State, d domain.Destination) domain.State {
	next := DiscardForward.Apply(s)
	next.Stack = append(next.Stack, d)
	next.CurrentIndex = len(next.Stack) - 1
	return next
}

// NavigateTo moves the pointer to the entry equal to d that is closest to the
// current one (see domain.State.IndexOf). Navigating to the current page keeps the
// index. The stack is never altered. It reports false, leaving s unchanged, when no
// entry matches.
func NavigateTo(s domain.State, d domain.Destination) (domain.State, bool) {
	idx := s.IndexOf(d)
	if idx < 0 {
		return s.Snapshot(), false
	}
	next := s.Snapshot()
	next.CurrentIndex = idx
	return next, true
}

// UpdateIndex points the state at index without touching the stack.
func UpdateIndex(s domain.State, index int) (domain.State, error) {
	if index < 0 || index >= len(s.Stack) {
		return s.Snapshot(), &domain.IndexError{Index: index, Len: len(s.Stack)}
	}
	next := s.Snapshot()
	next.CurrentIndex = index
	return next, nil
}

// Back moves the pointer one entry towards the root and applies t.
// At the root it reports false and leaves s unchanged.
func Back(s domain.State, t Truncation) (domain.State, bool) {
	if s.CurrentIndex == 0 {
		return s.Snapshot(), false
	}
	moved := domain.State{Stack: s.Stack, CurrentIndex: s.CurrentIndex - 1}
	return t.Apply(moved), true
}

// PopToRoot moves the pointer to the root and applies t.
// At the root it reports false and leaves s unchanged.
func PopToRoot(s domain.State, t Truncation) (domain.State, bool) {
	if s.CurrentIndex == 0 {
		return s.Snapshot(), false
	}
	moved := domain.State{Stack: s.Stack, CurrentIndex: 0}
	return t.Apply(moved), true
}

// SetRoot discards all history and starts over from d.
func SetRoot(d domain.Destination) domain.State {
	return domain.NewState(d)
}
