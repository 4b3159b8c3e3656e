package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/pkg/codec"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
	"github.com/aretw0/espalier/pkg/validate"
	"github.com/aretw0/espalier/pkg/walk"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

// WalkResponse aligns with the HTTP session payload and provides a unified
// structure across adapters.
type WalkResponse struct {
	Session  *domain.Session `json:"session" jsonschema_description:"The session snapshot after the operation"`
	View     domain.View     `json:"view" jsonschema_description:"The projection of the node the session points at"`
	Terminal bool            `json:"terminal" jsonschema_description:"Indicates the walk has reached a recommendation"`
}

// Engine defines the interface required by the MCP server to drive a walk.
type Engine interface {
	ports.Engine
}

// Server wraps the traversal engine and exposes it as an MCP Server.
// It is stateless: the session snapshot travels in the tool arguments,
// so any number of clients can walk the same graph concurrently.
type Server struct {
	engine    Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("espalier-mcp", strings.TrimSpace(espalier.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
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

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		// Create a timeout context for the graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		fmt.Println("\nShutdown signal received, shutting down server...")
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
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, Baggage, Sentry-Trace")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: render_view
	renderTool := mcp.NewTool("render_view",
		mcp.WithDescription("Render the current question or recommendation for a session. If no session is given, renders the graph root."),
		mcp.WithString("node_id", mcp.Description("The ID of the node the session points at (optional if path is provided)")),
		mcp.WithString("path", mcp.Description("JSON array of node IDs visited so far, root first (optional)")),
		mcp.WithOutputSchema[WalkResponse](),
	)
	s.mcpServer.AddTool(renderTool, mcp.NewStructuredToolHandler(s.handleRenderView))

	// TOOL: choose
	chooseTool := mcp.NewTool("choose",
		mcp.WithDescription("Take the option at the given index on the current question node and advance the walk."),
		mcp.WithNumber("option", mcp.Required(), mcp.Description("Zero-based index into the current node's options")),
		mcp.WithString("node_id", mcp.Description("Current node ID (optional if path is provided)")),
		mcp.WithString("path", mcp.Description("JSON array of node IDs visited so far")),
		mcp.WithOutputSchema[WalkResponse](),
	)
	s.mcpServer.AddTool(chooseTool, mcp.NewStructuredToolHandler(s.handleChoose))

	// TOOL: step_back
	backTool := mcp.NewTool("step_back",
		mcp.WithDescription("Undo the most recent choice and return to the previous question."),
		mcp.WithString("path", mcp.Required(), mcp.Description("JSON array of node IDs visited so far")),
		mcp.WithString("node_id", mcp.Description("Current node ID (optional, defaults to the last path entry)")),
		mcp.WithOutputSchema[WalkResponse](),
	)
	s.mcpServer.AddTool(backTool, mcp.NewStructuredToolHandler(s.handleStepBack))

	// TOOL: reset
	resetTool := mcp.NewTool("reset",
		mcp.WithDescription("Abandon the walk and start over at the graph root."),
		mcp.WithOutputSchema[WalkResponse](),
	)
	s.mcpServer.AddTool(resetTool, mcp.NewStructuredToolHandler(s.handleReset))

	// TOOL: validate_graph
	validateTool := mcp.NewTool("validate_graph",
		mcp.WithDescription("Check the loaded graph for structural defects (dangling references, cycles, unreachable nodes)."),
		mcp.WithOutputSchema[validate.Report](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidate))
}

// Handler methods for structured tools

func (s *Server) handleRenderView(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (WalkResponse, error) {
	sess := s.sessionFromArgs(args)

	step, err := walk.ResumeAndView(s.engine, sess)
	if err != nil {
		return WalkResponse{}, fmt.Errorf("render failed: %w", err)
	}
	return toWalkResponse(step), nil
}

func (s *Server) handleChoose(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (WalkResponse, error) {
	option, ok := args["option"].(float64)
	if !ok {
		return WalkResponse{}, fmt.Errorf("missing or non-numeric 'option' argument")
	}
	sess := s.sessionFromArgs(args)

	step, err := walk.ChooseAndView(s.engine, sess, int(option))
	if err != nil {
		s.logger.Warn("MCP Choose: rejected", "node_id", sess.CurrentID, "option", int(option), "error", err)
		return WalkResponse{}, fmt.Errorf("choose failed: %w", err)
	}
	return toWalkResponse(step), nil
}

func (s *Server) handleStepBack(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (WalkResponse, error) {
	sess := s.sessionFromArgs(args)

	step, err := walk.BackAndView(s.engine, sess)
	if err != nil {
		s.logger.Warn("MCP StepBack: rejected", "node_id", sess.CurrentID, "error", err)
		return WalkResponse{}, fmt.Errorf("step back failed: %w", err)
	}
	return toWalkResponse(step), nil
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (WalkResponse, error) {
	step, err := walk.StartAndView(s.engine)
	if err != nil {
		return WalkResponse{}, fmt.Errorf("reset failed: %w", err)
	}
	return toWalkResponse(step), nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (validate.Report, error) {
	return *validate.Graph(s.engine.Graph()), nil
}

func (s *Server) registerResources() {
	// EXPOSE: espalier://graph
	s.mcpServer.AddResource(mcp.NewResource("espalier://graph", "Current Graph Definition",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := codec.DumpJSON(s.engine.Graph())
		if err != nil {
			return nil, fmt.Errorf("failed to dump graph: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "espalier://graph",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

// walkArgs is the session-addressing shape shared by the walk tools.
type walkArgs struct {
	NodeID string `mapstructure:"node_id"`
	Path   string `mapstructure:"path"`
}

// sessionFromArgs reconstructs the session snapshot from tool arguments.
// node_id wins over the path's last entry; the path is extended in that
// case so step_back stays coherent with what the client saw.
func (s *Server) sessionFromArgs(args map[string]interface{}) *domain.Session {
	var wa walkArgs
	_ = mapstructure.Decode(args, &wa)

	sess := &domain.Session{}
	if wa.Path != "" {
		_ = json.Unmarshal([]byte(wa.Path), &sess.Path)
	}

	if wa.NodeID != "" {
		sess.CurrentID = wa.NodeID
	} else if len(sess.Path) > 0 {
		sess.CurrentID = sess.Path[len(sess.Path)-1]
	} else {
		sess.CurrentID = s.engine.Graph().RootID()
	}

	if n := len(sess.Path); n == 0 || sess.Path[n-1] != sess.CurrentID {
		sess.Path = append(sess.Path, sess.CurrentID)
	}
	return sess
}

func toWalkResponse(step *walk.Step) WalkResponse {
	return WalkResponse{
		Session:  step.Session,
		View:     step.View,
		Terminal: step.View.Terminal,
	}
}
