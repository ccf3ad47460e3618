package ports

import (
	"context"

	"github.com/aretw0/liftnav/pkg/domain"
)

// Reader exposes the read side of a navigation coordinator.
type Reader interface {
	// Name is the surface label used for logs, metrics and mirror channels.
	Name() string

	// State returns a copy of the current stack and pointer.
	State() domain.State

	// Pages returns a copy of the current stack.
	Pages() []domain.Destination

	// CurrentPage returns the destination at the current index.
	CurrentPage() domain.Destination

	// CurrentPageIndex returns the current index.
	CurrentPageIndex() int

	// StateAsFlow streams conflated snapshots until ctx is done.
	StateAsFlow(ctx context.Context) <-chan domain.State

	// PagesAsFlow streams the stack until ctx is done.
	PagesAsFlow(ctx context.Context) <-chan []domain.Destination

	// CurrentPageAsFlow streams the current destination until ctx is done.
	CurrentPageAsFlow(ctx context.Context) <-chan domain.Destination
}

// Navigator is a Reader that can also be mutated.
type Navigator interface {
	Reader

	// Present hard-pushes d as the new current page.
	Present(d domain.Destination, animate bool)

	// NavigateTo jumps to an open page equal to d; false when none exists.
	NavigateTo(d domain.Destination) bool

	// UpdateCurrentIndex moves the pointer; fails with domain.ErrInvalidIndex out of range.
	UpdateCurrentIndex(index int) error

	// OnBackPressed moves one page back; false at the root.
	OnBackPressed(keepStack bool) bool

	// PopToRoot moves to the root; false when already there.
	PopToRoot(keepStack bool) bool

	// SetRoot replaces the whole history with d.
	SetRoot(d domain.Destination)

	// Apply runs one command and returns the state it produced. The state is
	// read atomically with the mutation, unlike a mutation followed by State.
	Apply(cmd domain.Command) (domain.Result, error)
}
