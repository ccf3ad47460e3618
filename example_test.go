package liftnav_test

import (
	"context"
	"fmt"

	"github.com/aretw0/liftnav"
	"github.com/aretw0/liftnav/pkg/domain"
)

// Example shows the soft back policy: popped pages survive until the next present.
func Example() {
	nav := liftnav.New(domain.Dashboard{})

	nav.Present(domain.LiftDetails{LiftID: "L1"}, true)
	nav.OnBackPressed(true)
	fmt.Println(nav.CurrentPage(), len(nav.Pages()))

	// The lift page is still there and can be replayed.
	nav.NavigateTo(domain.LiftDetails{LiftID: "L1"})
	fmt.Println(nav.CurrentPage(), len(nav.Pages()))

	// A hard push drops everything after the pointer first.
	nav.OnBackPressed(true)
	nav.Present(domain.Settings{}, true)
	fmt.Println(nav.Pages())

	// Output:
	// Dashboard 2
	// LiftDetails(L1) 2
	// [Dashboard Settings]
}

// ExampleCoordinator_CurrentPageAsFlow renders from the observable stream, the way a
// platform renderer would.
func ExampleCoordinator_CurrentPageAsFlow() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	nav := liftnav.New(domain.Dashboard{})
	pages := nav.CurrentPageAsFlow(ctx)
	fmt.Println("render:", <-pages)

	nav.Present(domain.EditSet{LiftID: domain.Some("L1")}, true)
	fmt.Println("render:", <-pages)

	if !nav.OnBackPressed(false) {
		fmt.Println("host fallback")
	}
	fmt.Println("render:", <-pages)

	if !nav.OnBackPressed(false) {
		fmt.Println("host fallback")
	}

	// Output:
	// render: Dashboard
	// render: EditSet(set=<none>, lift=L1, variation=<none>)
	// render: Dashboard
	// host fallback
}
