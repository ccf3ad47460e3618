/*
Package liftnav is the navigation coordinator of a workout-logging application.

It keeps an ordered, observable stack of screen destinations that every front-end
surface (phone, tablet, gesture navigation, terminal, web) renders from. Back
navigation is "soft" by default: it moves the current pointer without deleting the
popped pages, which remain reachable until the next hard push.

# Concept

A Coordinator owns one domain.State: the stack of domain.Destination values and the
index of the current one. Six operations mutate it (Present, NavigateTo,
UpdateCurrentIndex, OnBackPressed, PopToRoot, SetRoot). Each mutation is applied
under a single lock and published as an immutable snapshot, so any number of
renderers can subscribe concurrently without ever observing a torn state.

# Usage

	nav := liftnav.New(domain.Dashboard{}, liftnav.WithName("phone"))

	// Render from the stream; the current page arrives immediately.
	go func() {
		for page := range nav.CurrentPageAsFlow(ctx) {
			render(page)
		}
	}()

	nav.Present(domain.LiftDetails{LiftID: "L1"}, true)

	// Hardware back: false means "not handled", fall back to the host default.
	if !nav.OnBackPressed(true) {
		exitApp()
	}

# Adapters

Hosts drive the coordinator through ports.Navigator. The pkg/adapters tree ships an
HTTP/SSE bridge, an MCP tool server and a Redis pub/sub mirror; internal/cli hosts an
interactive terminal shell.
*/
package liftnav
