package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/liftnav/pkg/domain"
)

// NavigatorFactory builds a fresh Navigator seeded with root.
type NavigatorFactory func(root domain.Destination) Navigator

// RunNavigatorContract runs a suite of tests to verify that a Navigator implementation
// follows the navigation semantics: hard push, soft and hard back, exact-match jumps
// and checked index updates.
func RunNavigatorContract(t *testing.T, factory NavigatorFactory) {
	dashboard := domain.Dashboard{}
	lift := domain.LiftDetails{LiftID: "L1"}
	settings := domain.Settings{}

	t.Run("Seeded", func(t *testing.T) {
		nav := factory(dashboard)
		assert.Equal(t, []domain.Destination{dashboard}, nav.Pages())
		assert.Equal(t, 0, nav.CurrentPageIndex())
		assert.Equal(t, dashboard, nav.CurrentPage())
	})

	t.Run("Present Then Soft Back Then Present", func(t *testing.T) {
		nav := factory(dashboard)
		nav.Present(lift, true)
		require.Equal(t, 1, nav.CurrentPageIndex())

		require.True(t, nav.OnBackPressed(true))
		assert.Equal(t, []domain.Destination{dashboard, lift}, nav.Pages())
		assert.Equal(t, 0, nav.CurrentPageIndex())

		nav.Present(settings, true)
		assert.Equal(t, []domain.Destination{dashboard, settings}, nav.Pages())
		assert.Equal(t, 1, nav.CurrentPageIndex())
	})

	t.Run("Hard Back", func(t *testing.T) {
		nav := factory(dashboard)
		nav.Present(lift, true)
		require.True(t, nav.OnBackPressed(false))
		assert.Equal(t, []domain.Destination{dashboard}, nav.Pages())
	})

	t.Run("Back At Root", func(t *testing.T) {
		nav := factory(dashboard)
		assert.False(t, nav.OnBackPressed(true))
		assert.False(t, nav.PopToRoot(false))
		assert.Equal(t, []domain.Destination{dashboard}, nav.Pages())
	})

	t.Run("NavigateTo", func(t *testing.T) {
		nav := factory(dashboard)
		nav.Present(lift, true)
		assert.True(t, nav.NavigateTo(dashboard))
		assert.Equal(t, 0, nav.CurrentPageIndex())
		assert.False(t, nav.NavigateTo(settings))
		assert.Len(t, nav.Pages(), 2)
	})

	t.Run("UpdateCurrentIndex", func(t *testing.T) {
		nav := factory(dashboard)
		nav.Present(lift, true)
		require.NoError(t, nav.UpdateCurrentIndex(0))
		assert.ErrorIs(t, nav.UpdateCurrentIndex(2), domain.ErrInvalidIndex)
		assert.Equal(t, 0, nav.CurrentPageIndex())
	})

	t.Run("SetRoot", func(t *testing.T) {
		nav := factory(dashboard)
		nav.Present(lift, true)
		nav.SetRoot(domain.VariationDetails{VariationID: "V9"})
		assert.Equal(t, []domain.Destination{domain.VariationDetails{VariationID: "V9"}}, nav.Pages())
		assert.Equal(t, 0, nav.CurrentPageIndex())
	})

	t.Run("Duplicates Keep Navigation Laws", func(t *testing.T) {
		nav := factory(dashboard)
		nav.Present(lift, true)
		nav.Present(dashboard, true)
		nav.Present(settings, true)
		require.NoError(t, nav.UpdateCurrentIndex(2))

		assert.True(t, nav.NavigateTo(nav.CurrentPage()))
		assert.Equal(t, 2, nav.CurrentPageIndex(), "navigateTo(current) must keep the index")

		require.True(t, nav.OnBackPressed(true))
		require.True(t, nav.NavigateTo(dashboard))
		assert.Equal(t, 2, nav.CurrentPageIndex(), "soft back replay must restore the index")
		assert.Len(t, nav.Pages(), 4)
	})

	t.Run("Apply Returns Produced State", func(t *testing.T) {
		nav := factory(dashboard)

		res, err := nav.Apply(domain.Command{Op: domain.OpPresent, Destination: lift, Animate: true})
		require.NoError(t, err)
		assert.True(t, res.Handled)
		assert.Equal(t, []domain.Destination{dashboard, lift}, res.State.Stack)
		assert.Equal(t, 1, res.State.CurrentIndex)

		res, err = nav.Apply(domain.Command{Op: domain.OpBack, KeepStack: true})
		require.NoError(t, err)
		assert.True(t, res.Handled)
		assert.Equal(t, 0, res.State.CurrentIndex)
		assert.Len(t, res.State.Stack, 2)

		res, err = nav.Apply(domain.Command{Op: domain.OpUpdateIndex, Index: 5})
		assert.ErrorIs(t, err, domain.ErrInvalidIndex)
		assert.False(t, res.Handled)
		assert.Equal(t, 0, res.State.CurrentIndex)

		_, err = nav.Apply(domain.Command{Op: "jump"})
		assert.ErrorIs(t, err, domain.ErrUnknownOperation)
	})

	t.Run("Pointer Destinations Are Rejected", func(t *testing.T) {
		nav := factory(dashboard)
		nav.Present(&domain.LiftDetails{LiftID: "L1"}, true)
		assert.Equal(t, []domain.Destination{dashboard}, nav.Pages())

		_, err := nav.Apply(domain.Command{Op: domain.OpSetRoot, Destination: &domain.Settings{}})
		assert.ErrorIs(t, err, domain.ErrInvalidDestination)
		assert.Equal(t, dashboard, nav.CurrentPage())
	})

	t.Run("Flow Emits On Subscribe", func(t *testing.T) {
		nav := factory(dashboard)
		nav.Present(lift, true)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		select {
		case page := <-nav.CurrentPageAsFlow(ctx):
			assert.Equal(t, lift, page)
		case <-ctx.Done():
			t.Fatal("current page flow did not emit on subscribe")
		}
		select {
		case s := <-nav.StateAsFlow(ctx):
			assert.NoError(t, s.Validate())
			assert.Equal(t, 1, s.CurrentIndex)
		case <-ctx.Done():
			t.Fatal("state flow did not emit on subscribe")
		}
	})
}
