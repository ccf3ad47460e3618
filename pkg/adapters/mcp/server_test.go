package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/liftnav"
	"github.com/aretw0/liftnav/internal/logging"
	"github.com/aretw0/liftnav/pkg/domain"
)

func newTestServer() (*Server, *liftnav.Coordinator) {
	nav := liftnav.New(domain.Dashboard{})
	return NewServer(nav, logging.NewNop()), nav
}

func TestPresentAndList(t *testing.T) {
	s, nav := newTestServer()
	ctx := context.Background()

	res, err := s.handlePresent(ctx, mcp.CallToolRequest{}, map[string]any{
		"kind":    "edit_set",
		"set_id":  "S1",
		"lift_id": "L1",
		"animate": false,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.CurrentIndex)
	assert.Equal(t, domain.KindEditSet, res.CurrentPage.Kind)
	assert.Equal(t, domain.EditSet{SetID: domain.Some("S1"), LiftID: domain.Some("L1")}, nav.CurrentPage())

	list, err := s.handleListPages(ctx, mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	assert.Len(t, list.Pages, 2)

	current, err := s.handleCurrentPage(ctx, mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.KindEditSet, current.Kind)
}

func TestNumericIdentifiersAreAccepted(t *testing.T) {
	s, nav := newTestServer()

	_, err := s.handlePresent(context.Background(), mcp.CallToolRequest{}, map[string]any{
		"kind":    "lift_details",
		"lift_id": float64(12),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.LiftDetails{LiftID: "12"}, nav.CurrentPage())
}

func TestBackAndPopToRoot(t *testing.T) {
	s, nav := newTestServer()
	ctx := context.Background()
	nav.Present(domain.LiftDetails{LiftID: "L1"}, true)
	nav.Present(domain.Settings{}, true)

	out, err := s.handleBack(ctx, mcp.CallToolRequest{}, map[string]any{})
	require.NoError(t, err)
	assert.True(t, out.Handled)
	assert.Len(t, out.State.Pages, 3)

	out, err = s.handlePopToRoot(ctx, mcp.CallToolRequest{}, map[string]any{"keep_stack": false})
	require.NoError(t, err)
	assert.True(t, out.Handled)
	assert.Len(t, out.State.Pages, 1)

	out, err = s.handleBack(ctx, mcp.CallToolRequest{}, map[string]any{})
	require.NoError(t, err)
	assert.False(t, out.Handled)

	_, err = s.handleBack(ctx, mcp.CallToolRequest{}, map[string]any{"keep_stack": "no"})
	assert.Error(t, err)
}

func TestNavigateToAndSetRoot(t *testing.T) {
	s, nav := newTestServer()
	ctx := context.Background()
	nav.Present(domain.Settings{}, true)

	out, err := s.handleNavigateTo(ctx, mcp.CallToolRequest{}, map[string]any{"kind": "dashboard"})
	require.NoError(t, err)
	assert.True(t, out.Handled)
	assert.Equal(t, 0, out.State.CurrentIndex)

	out, err = s.handleNavigateTo(ctx, mcp.CallToolRequest{}, map[string]any{"kind": "variation_details", "variation_id": "V1"})
	require.NoError(t, err)
	assert.False(t, out.Handled)

	res, err := s.handleSetRoot(ctx, mcp.CallToolRequest{}, map[string]any{"kind": "variation_details", "variation_id": "V1"})
	require.NoError(t, err)
	assert.Len(t, res.Pages, 1)
	assert.Equal(t, domain.VariationDetails{VariationID: "V1"}, nav.CurrentPage())
}

func TestUpdateIndex(t *testing.T) {
	s, nav := newTestServer()
	ctx := context.Background()
	nav.Present(domain.Settings{}, true)

	res, err := s.handleUpdateIndex(ctx, mcp.CallToolRequest{}, map[string]any{"index": float64(0)})
	require.NoError(t, err)
	assert.Equal(t, 0, res.CurrentIndex)

	_, err = s.handleUpdateIndex(ctx, mcp.CallToolRequest{}, map[string]any{"index": float64(4)})
	assert.ErrorIs(t, err, domain.ErrInvalidIndex)

	_, err = s.handleUpdateIndex(ctx, mcp.CallToolRequest{}, map[string]any{"index": 1.5})
	assert.Error(t, err)

	_, err = s.handleUpdateIndex(ctx, mcp.CallToolRequest{}, map[string]any{})
	assert.Error(t, err)
}

func TestInvalidDestinationIsToolError(t *testing.T) {
	s, nav := newTestServer()

	_, err := s.handlePresent(context.Background(), mcp.CallToolRequest{}, map[string]any{"kind": "lift_details"})
	assert.ErrorIs(t, err, domain.ErrMissingField)

	_, err = s.handleSetRoot(context.Background(), mcp.CallToolRequest{}, map[string]any{"kind": "moon"})
	assert.ErrorIs(t, err, domain.ErrUnknownKind)

	req := mcp.CallToolRequest{}
	req.Params.Name = "present"
	req.Params.Arguments = map[string]any{"kind": "moon"}
	result, err := mcp.NewStructuredToolHandler(s.handlePresent)(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.IsError)

	assert.Equal(t, []domain.Destination{domain.Dashboard{}}, nav.Pages())
}

func TestReadPages(t *testing.T) {
	s, nav := newTestServer()
	nav.Present(domain.LiftDetails{LiftID: "L1"}, true)

	contents, err := s.readPages(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, PagesURI, text.URI)

	var state domain.State
	require.NoError(t, json.Unmarshal([]byte(text.Text), &state))
	assert.Equal(t, nav.State(), state)
}

// interleavedNavigator runs a second mutation right after each command.
type interleavedNavigator struct {
	*liftnav.Coordinator
}

func (n interleavedNavigator) Apply(cmd domain.Command) (domain.Result, error) {
	res, err := n.Coordinator.Apply(cmd)
	n.Coordinator.SetRoot(domain.Settings{})
	return res, err
}

func TestResultsShowOwnState(t *testing.T) {
	nav := interleavedNavigator{liftnav.New(domain.Dashboard{})}
	s := NewServer(nav, logging.NewNop())
	ctx := context.Background()

	res, err := s.handlePresent(ctx, mcp.CallToolRequest{}, map[string]any{"kind": "lift_details", "lift_id": "L1"})
	require.NoError(t, err)
	assert.Equal(t, domain.KindLiftDetails, res.CurrentPage.Kind)
	assert.Len(t, res.Pages, 2)

	out, err := s.handleNavigateTo(ctx, mcp.CallToolRequest{}, map[string]any{"kind": "settings"})
	require.NoError(t, err)
	assert.True(t, out.Handled)
	assert.Equal(t, domain.KindSettings, out.State.CurrentPage.Kind)
	assert.Len(t, out.State.Pages, 1)

	assert.Equal(t, domain.Settings{}, nav.CurrentPage())
}
