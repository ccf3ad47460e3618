package liftnav

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/liftnav/internal/logging"
	"github.com/aretw0/liftnav/internal/runtime"
	"github.com/aretw0/liftnav/pkg/domain"
	"github.com/aretw0/liftnav/pkg/flow"
)

// Coordinator owns the navigation state of one UI surface.
//
// Mutations are serialised by a single lock and each one publishes a complete,
// immutable snapshot, so observers never see a stack and index that disagree.
// Reads and subscriptions are safe from any goroutine.
type Coordinator struct {
	mu     sync.Mutex // serialises mutations
	state  *flow.StateFlow[domain.State]
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	name   string
	now    func() time.Time
}

// Option defines a functional option for configuring the Coordinator.
type Option func(*Coordinator)

// WithLogger sets a custom structured logger for the coordinator.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Coordinator) {
		c.hooks = hooks
	}
}

// WithName labels the surface (phone, tablet, ...) in logs and events.
func WithName(name string) Option {
	return func(c *Coordinator) {
		c.name = name
	}
}

// New creates a coordinator whose stack holds only root.
// A nil or invalid root (see domain.Check) seeds the Unknown sentinel.
func New(root domain.Destination, opts ...Option) *Coordinator {
	if domain.Check(root) != nil {
		root = domain.Unknown{}
	}
	c := &Coordinator{
		state: flow.New(domain.NewState(root), nil),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.NewNop()
	}
	if c.name != "" {
		c.logger = c.logger.With("surface", c.name)
	}
	return c
}

// NewPreview creates a coordinator seeded with the Unknown sentinel, for tests and previews.
func NewPreview(opts ...Option) *Coordinator {
	return New(domain.Unknown{}, opts...)
}

// Name returns the surface label given with WithName.
func (c *Coordinator) Name() string {
	return c.name
}

// State returns a copy of the current navigation state.
func (c *Coordinator) State() domain.State {
	return c.state.Value().Snapshot()
}

// Pages returns a copy of the current stack.
func (c *Coordinator) Pages() []domain.Destination {
	return c.State().Stack
}

// CurrentPage returns the destination being shown.
func (c *Coordinator) CurrentPage() domain.Destination {
	return c.state.Value().Current()
}

// CurrentPageIndex returns the position of the current page in the stack.
func (c *Coordinator) CurrentPageIndex() int {
	return c.state.Value().CurrentIndex
}

// StateAsFlow streams full snapshots: the current one immediately, then each change.
// Slow readers only ever see the latest snapshot. The channel closes when ctx is done.
func (c *Coordinator) StateAsFlow(ctx context.Context) <-chan domain.State {
	return flow.Map(ctx, c.state, domain.State.Snapshot, domain.State.Equal)
}

// PagesAsFlow streams the stack with the same contract as StateAsFlow.
// Pointer-only moves do not emit.
func (c *Coordinator) PagesAsFlow(ctx context.Context) <-chan []domain.Destination {
	return flow.Map(ctx, c.state, func(s domain.State) []domain.Destination {
		return s.Snapshot().Stack
	}, domain.StacksEqual)
}

// CurrentPageAsFlow streams the current destination with the same contract as StateAsFlow.
func (c *Coordinator) CurrentPageAsFlow(ctx context.Context) <-chan domain.Destination {
	return flow.Map(ctx, c.state, domain.State.Current, domain.Equal)
}

// Present pushes d as the new current page, discarding any forward history first.
// animate is a rendering hint carried to observers on the transition event.
func (c *Coordinator) Present(d domain.Destination, animate bool) {
	_, _ = c.Apply(domain.Command{Op: domain.OpPresent, Destination: d, Animate: animate})
}

// NavigateTo moves to an already open page equal to d and reports whether one was found.
// When none matches, nothing changes.
func (c *Coordinator) NavigateTo(d domain.Destination) bool {
	res, _ := c.Apply(domain.Command{Op: domain.OpNavigateTo, Destination: d})
	return res.Handled
}

// UpdateCurrentIndex points at index without changing the stack.
// An index outside the stack returns an error matching domain.ErrInvalidIndex.
func (c *Coordinator) UpdateCurrentIndex(index int) error {
	_, err := c.Apply(domain.Command{Op: domain.OpUpdateIndex, Index: index})
	return err
}

// OnBackPressed moves one page back. It returns false at the root so the host can
// apply its own fallback. With keepStack the popped pages stay reachable as forward
// history until the next Present; without it they are dropped.
func (c *Coordinator) OnBackPressed(keepStack bool) bool {
	res, _ := c.Apply(domain.Command{Op: domain.OpBack, KeepStack: keepStack})
	return res.Handled
}

// PopToRoot returns to the first page. It follows the same keepStack rule as OnBackPressed.
func (c *Coordinator) PopToRoot(keepStack bool) bool {
	res, _ := c.Apply(domain.Command{Op: domain.OpPopToRoot, KeepStack: keepStack})
	return res.Handled
}

// SetRoot replaces the whole history with d.
func (c *Coordinator) SetRoot(d domain.Destination) {
	_, _ = c.Apply(domain.Command{Op: domain.OpSetRoot, Destination: d})
}

// Apply runs cmd and returns the state it produced, read under the mutation lock.
// Adapters that answer with the resulting state use it instead of a mutation
// followed by State, which could observe a concurrent change.
//
// Destinations are checked with domain.Check; rejected commands report to
// OnRejected and return the unchanged state with the error.
func (c *Coordinator) Apply(cmd domain.Command) (domain.Result, error) {
	animate := true
	if cmd.Op == domain.OpPresent {
		animate = cmd.Animate
	}
	return c.mutate(cmd.Op, animate, transitionFor(cmd))
}

type transition func(domain.State) (next domain.State, handled bool, err error)

func transitionFor(cmd domain.Command) transition {
	checked := func(fn transition) transition {
		return func(s domain.State) (domain.State, bool, error) {
			if err := domain.Check(cmd.Destination); err != nil {
				return s, false, err
			}
			return fn(s)
		}
	}

	switch cmd.Op {
	case domain.OpPresent:
		return checked(func(s domain.State) (domain.State, bool, error) {
			return runtime.Present(s, cmd.Destination), true, nil
		})
	case domain.OpNavigateTo:
		return checked(func(s domain.State) (domain.State, bool, error) {
			next, found := runtime.NavigateTo(s, cmd.Destination)
			return next, found, nil
		})
	case domain.OpSetRoot:
		return checked(func(domain.State) (domain.State, bool, error) {
			return runtime.SetRoot(cmd.Destination), true, nil
		})
	case domain.OpUpdateIndex:
		return func(s domain.State) (domain.State, bool, error) {
			next, err := runtime.UpdateIndex(s, cmd.Index)
			return next, err == nil, err
		}
	case domain.OpBack:
		return func(s domain.State) (domain.State, bool, error) {
			next, handled := runtime.Back(s, runtime.TruncationFor(cmd.KeepStack))
			return next, handled, nil
		}
	case domain.OpPopToRoot:
		return func(s domain.State) (domain.State, bool, error) {
			next, handled := runtime.PopToRoot(s, runtime.TruncationFor(cmd.KeepStack))
			return next, handled, nil
		}
	default:
		return func(s domain.State) (domain.State, bool, error) {
			return s, false, fmt.Errorf("%w: %q", domain.ErrUnknownOperation, cmd.Op)
		}
	}
}

// mutate is the single write path. It applies fn to the current state, publishes the
// result and notifies hooks, all under the mutation lock.
func (c *Coordinator) mutate(op domain.Operation, animate bool, fn transition) (domain.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	from := c.state.Value()
	next, handled, err := fn(from)

	event := &domain.TransitionEvent{
		Timestamp: c.now(),
		Surface:   c.name,
		Operation: op,
		From:      from,
		To:        next,
		Handled:   handled,
		Animate:   animate,
	}

	if err != nil {
		event.To = from
		event.Handled = false
		c.logger.Warn("navigation rejected", "op", op, "err", err)
		if c.hooks.OnRejected != nil {
			c.hooks.OnRejected(event, err)
		}
		return domain.Result{State: from.Snapshot()}, err
	}

	if handled {
		c.state.Emit(next)
	} else {
		event.To = from
	}

	c.logger.Debug("navigation",
		"op", op,
		"handled", handled,
		"index", event.To.CurrentIndex,
		"depth", event.To.Len(),
		"page", event.To.Current(),
	)
	if c.hooks.OnTransition != nil {
		c.hooks.OnTransition(event)
	}
	return domain.Result{Handled: handled, State: event.To.Snapshot()}, nil
}
