package domain

// StateDiff represents the changes between two navigation snapshots.
// It is serialised to JSON for partial updates on renderers.
type StateDiff struct {
	// CurrentIndex is set when the pointer moved.
	CurrentIndex *int `json:"current_index,omitempty"`

	// CurrentPage is set when the destination being shown changed.
	CurrentPage *Wire `json:"current_page,omitempty"`

	// Truncated is the number of entries dropped from the end of the old stack
	// before Appended was added.
	Truncated int `json:"truncated,omitempty"`

	// Appended holds entries added after the common prefix of both stacks.
	Appended []Wire `json:"appended,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// A nil oldState yields a diff describing the whole of newState (initial load).
// It returns nil when nothing changed.
func Diff(oldState *State, newState State) *StateDiff {
	diff := &StateDiff{}

	if oldState == nil || oldState.CurrentIndex != newState.CurrentIndex {
		idx := newState.CurrentIndex
		diff.CurrentIndex = &idx
	}
	if oldState == nil || !Equal(oldState.Current(), newState.Current()) {
		w := ToWire(newState.Current())
		diff.CurrentPage = &w
	}

	var old []Destination
	if oldState != nil {
		old = oldState.Stack
	}
	prefix := 0
	for prefix < len(old) && prefix < len(newState.Stack) && Equal(old[prefix], newState.Stack[prefix]) {
		prefix++
	}
	diff.Truncated = len(old) - prefix
	for _, d := range newState.Stack[prefix:] {
		diff.Appended = append(diff.Appended, ToWire(d))
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return d.CurrentIndex == nil &&
		d.CurrentPage == nil &&
		d.Truncated == 0 &&
		len(d.Appended) == 0
}

// PageChanged reports whether the destination being shown changed.
func (d *StateDiff) PageChanged() bool {
	return d != nil && d.CurrentPage != nil
}
