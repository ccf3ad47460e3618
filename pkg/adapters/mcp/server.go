package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/liftnav"
	"github.com/aretw0/liftnav/pkg/domain"
	"github.com/aretw0/liftnav/pkg/ports"
)

// PagesURI is the resource exposing the open pages.
const PagesURI = "liftnav://pages"

// StateResult aligns with the HTTP state response and provides a unified structure across adapters.
type StateResult struct {
	Pages        []domain.Wire `json:"pages" jsonschema_description:"Open pages, root first"`
	CurrentIndex int           `json:"current_index" jsonschema_description:"Index of the page being shown"`
	CurrentPage  domain.Wire   `json:"current_page" jsonschema_description:"The page being shown"`
}

// OutcomeResult reports whether a conditional operation took effect.
type OutcomeResult struct {
	Handled bool        `json:"handled" jsonschema_description:"False when the operation was a no-op"`
	State   StateResult `json:"state"`
}

// Server exposes a Navigator as an MCP Server.
type Server struct {
	nav       ports.Navigator
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(nav ports.Navigator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		nav:       nav,
		logger:    logger,
		mcpServer: server.NewMCPServer("liftnav-mcp", strings.TrimSpace(liftnav.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func destinationParams(description string) []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithDescription(description),
		mcp.WithString("kind", mcp.Required(), mcp.Description("Destination kind"), mcp.Enum(kindNames()...)),
		mcp.WithString("lift_id", mcp.Description("Lift identifier (lift_details, edit_lift, edit_set)")),
		mcp.WithString("variation_id", mcp.Description("Variation identifier (variation_details, edit_variation, edit_set)")),
		mcp.WithString("set_id", mcp.Description("Set identifier (edit_set)")),
	}
}

func kindNames() []string {
	names := make([]string, len(domain.Kinds))
	for i, k := range domain.Kinds {
		names[i] = string(k)
	}
	return names
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("current_page",
		mcp.WithDescription("Get the page currently shown."),
		mcp.WithOutputSchema[domain.Wire](),
	), mcp.NewStructuredToolHandler(s.handleCurrentPage))

	s.mcpServer.AddTool(mcp.NewTool("list_pages",
		mcp.WithDescription("List the open pages and the current index."),
		mcp.WithOutputSchema[StateResult](),
	), mcp.NewStructuredToolHandler(s.handleListPages))

	present := append(destinationParams("Open a page on top of the current one, discarding pages after it."),
		mcp.WithBoolean("animate", mcp.Description("Animate the transition (default true)")),
		mcp.WithOutputSchema[StateResult](),
	)
	s.mcpServer.AddTool(mcp.NewTool("present", present...), mcp.NewStructuredToolHandler(s.handlePresent))

	navigate := append(destinationParams("Jump to an already open page equal to the destination."),
		mcp.WithOutputSchema[OutcomeResult](),
	)
	s.mcpServer.AddTool(mcp.NewTool("navigate_to", navigate...), mcp.NewStructuredToolHandler(s.handleNavigateTo))

	setRoot := append(destinationParams("Replace the whole history with a single page."),
		mcp.WithOutputSchema[StateResult](),
	)
	s.mcpServer.AddTool(mcp.NewTool("set_root", setRoot...), mcp.NewStructuredToolHandler(s.handleSetRoot))

	s.mcpServer.AddTool(mcp.NewTool("go_back",
		mcp.WithDescription("Go back one page. Not handled at the root."),
		mcp.WithBoolean("keep_stack", mcp.Description("Keep forward pages for replay (default true)")),
		mcp.WithOutputSchema[OutcomeResult](),
	), mcp.NewStructuredToolHandler(s.handleBack))

	s.mcpServer.AddTool(mcp.NewTool("pop_to_root",
		mcp.WithDescription("Return to the root page. Not handled at the root."),
		mcp.WithBoolean("keep_stack", mcp.Description("Keep forward pages for replay (default true)")),
		mcp.WithOutputSchema[OutcomeResult](),
	), mcp.NewStructuredToolHandler(s.handlePopToRoot))

	s.mcpServer.AddTool(mcp.NewTool("update_index",
		mcp.WithDescription("Show the page at the given index without changing the stack."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Zero-based page index")),
		mcp.WithOutputSchema[StateResult](),
	), mcp.NewStructuredToolHandler(s.handleUpdateIndex))
}

// Handler methods for structured tools

func (s *Server) handleCurrentPage(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (domain.Wire, error) {
	return domain.ToWire(s.nav.CurrentPage()), nil
}

func (s *Server) handleListPages(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (StateResult, error) {
	return newStateResult(s.nav.State()), nil
}

func (s *Server) handlePresent(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (StateResult, error) {
	animate, err := boolArg(args, "animate", true)
	if err != nil {
		return StateResult{}, err
	}
	d, err := s.destination(args)
	if err != nil {
		return StateResult{}, err
	}
	res, err := s.nav.Apply(domain.Command{Op: domain.OpPresent, Destination: d, Animate: animate})
	if err != nil {
		return StateResult{}, fmt.Errorf("present failed: %w", err)
	}
	return newStateResult(res.State), nil
}

func (s *Server) handleNavigateTo(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (OutcomeResult, error) {
	d, err := s.destination(args)
	if err != nil {
		return OutcomeResult{}, err
	}
	return s.outcome(domain.Command{Op: domain.OpNavigateTo, Destination: d})
}

func (s *Server) handleSetRoot(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (StateResult, error) {
	d, err := s.destination(args)
	if err != nil {
		return StateResult{}, err
	}
	res, err := s.nav.Apply(domain.Command{Op: domain.OpSetRoot, Destination: d})
	if err != nil {
		return StateResult{}, fmt.Errorf("set_root failed: %w", err)
	}
	return newStateResult(res.State), nil
}

func (s *Server) handleBack(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (OutcomeResult, error) {
	keep, err := boolArg(args, "keep_stack", true)
	if err != nil {
		return OutcomeResult{}, err
	}
	return s.outcome(domain.Command{Op: domain.OpBack, KeepStack: keep})
}

func (s *Server) handlePopToRoot(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (OutcomeResult, error) {
	keep, err := boolArg(args, "keep_stack", true)
	if err != nil {
		return OutcomeResult{}, err
	}
	return s.outcome(domain.Command{Op: domain.OpPopToRoot, KeepStack: keep})
}

func (s *Server) handleUpdateIndex(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (StateResult, error) {
	raw, ok := args["index"]
	if !ok {
		return StateResult{}, errors.New("index is required")
	}
	index, ok := raw.(float64)
	if !ok || index != float64(int(index)) {
		return StateResult{}, fmt.Errorf("index must be an integer, got %v", raw)
	}
	res, err := s.nav.Apply(domain.Command{Op: domain.OpUpdateIndex, Index: int(index)})
	if err != nil {
		return StateResult{}, fmt.Errorf("update_index failed: %w", err)
	}
	return newStateResult(res.State), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(PagesURI, "Open Pages",
		mcp.WithResourceDescription("The navigation stack and current index"),
		mcp.WithMIMEType("application/json"),
	), s.readPages)
}

func (s *Server) readPages(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(newStateResult(s.nav.State()))
	if err != nil {
		return nil, fmt.Errorf("failed to encode pages: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      PagesURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

// -- Helpers --

// outcome runs a conditional command. Results carry the state the command produced.
func (s *Server) outcome(cmd domain.Command) (OutcomeResult, error) {
	res, err := s.nav.Apply(cmd)
	if err != nil {
		return OutcomeResult{}, fmt.Errorf("%s failed: %w", cmd.Op, err)
	}
	return OutcomeResult{Handled: res.Handled, State: newStateResult(res.State)}, nil
}

// destination decodes the wire fields of args. Other keys are ignored.
func (s *Server) destination(args map[string]any) (domain.Destination, error) {
	wire := make(map[string]any, 4)
	for _, key := range []string{"kind", "lift_id", "variation_id", "set_id"} {
		if v, ok := args[key]; ok && v != nil {
			wire[key] = v
		}
	}
	d, err := domain.DecodeMap(wire)
	if err != nil {
		s.logger.Warn("MCP: Invalid destination", "error", err)
		return nil, err
	}
	return d, nil
}

func boolArg(args map[string]any, key string, fallback bool) (bool, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return fallback, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%s must be a boolean, got %v", key, v)
	}
	return b, nil
}

func newStateResult(st domain.State) StateResult {
	res := StateResult{
		Pages:        make([]domain.Wire, len(st.Stack)),
		CurrentIndex: st.CurrentIndex,
		CurrentPage:  domain.ToWire(st.Current()),
	}
	for i, d := range st.Stack {
		res.Pages[i] = domain.ToWire(d)
	}
	return res
}
