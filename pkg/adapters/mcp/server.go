package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/diagram/internal/logging"
	"github.com/aretw0/diagram/pkg/domain"
	"github.com/aretw0/diagram/pkg/model"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ModelURI is the resource exposing the current model.
const ModelURI = "diagram://model"

// ModelSummary is the structured result of every mutating tool.
type ModelSummary struct {
	RootID   string `json:"root_id" jsonschema_description:"Id of the current root element"`
	Elements int    `json:"elements" jsonschema_description:"Number of elements in the tree, root included"`
}

// Engine is the part of diagram.Engine exposed as MCP tools.
type Engine interface {
	Dispatch(ctx context.Context, action domain.Action) error
	Model(ctx context.Context) (*domain.Element, error)
	SetModel(ctx context.Context, root *domain.Element) error
	PatchModel(ctx context.Context, root *domain.Element) error
	InsertElement(ctx context.Context, item domain.ElementInsertion) error
	RemoveElement(ctx context.Context, id string) error
}

// Server wraps the engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("diagram-mcp", version),
		logger:    logger,
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying server, e.g. for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
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

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("get_model",
		mcp.WithDescription("Get the current diagram model tree as JSON."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := s.modelJSON(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(text), nil
	})

	setTool := mcp.NewTool("set_model",
		mcp.WithDescription("Replace the diagram model. With patch=true the change is sent to renderers as an incremental update."),
		mcp.WithString("model", mcp.Required(), mcp.Description("JSON model tree: {id, type, children}")),
		mcp.WithBoolean("patch", mcp.Description("Reach the new tree through computed matches")),
		mcp.WithOutputSchema[ModelSummary](),
	)
	s.mcpServer.AddTool(setTool, mcp.NewStructuredToolHandler(s.handleSetModel))

	addTool := mcp.NewTool("add_element",
		mcp.WithDescription("Insert an element (with its subtree) into the model."),
		mcp.WithString("element", mcp.Required(), mcp.Description("JSON element: {id, type, children}")),
		mcp.WithString("parent_id", mcp.Description("Parent element id (defaults to the root)")),
		mcp.WithOutputSchema[ModelSummary](),
	)
	s.mcpServer.AddTool(addTool, mcp.NewStructuredToolHandler(s.handleAddElement))

	removeTool := mcp.NewTool("remove_element",
		mcp.WithDescription("Remove an element and its subtree from the model."),
		mcp.WithString("element_id", mcp.Required(), mcp.Description("Id of the element to remove")),
		mcp.WithOutputSchema[ModelSummary](),
	)
	s.mcpServer.AddTool(removeTool, mcp.NewStructuredToolHandler(s.handleRemoveElement))

	s.mcpServer.AddTool(mcp.NewTool("request_model",
		mcp.WithDescription("Ask the engine to resubmit the current model to all renderers."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := s.engine.Dispatch(ctx, domain.RequestModelAction{}); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("request model failed: %v", err)), nil
		}
		return mcp.NewToolResultText("model resubmitted"), nil
	})
}

func (s *Server) handleSetModel(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (ModelSummary, error) {
	raw, _ := args["model"].(string)
	patch, _ := args["patch"].(bool)

	var root domain.Element
	if err := json.Unmarshal([]byte(raw), &root); err != nil {
		return ModelSummary{}, fmt.Errorf("invalid model JSON: %w", err)
	}
	if err := model.Validate(&root); err != nil {
		return ModelSummary{}, err
	}

	submit := s.engine.SetModel
	if patch {
		submit = s.engine.PatchModel
	}
	if err := submit(ctx, &root); err != nil {
		s.logger.Error("MCP set_model failed", "patch", patch, "error", err)
		return ModelSummary{}, err
	}
	return s.summary(ctx)
}

func (s *Server) handleAddElement(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (ModelSummary, error) {
	raw, _ := args["element"].(string)
	parentID, _ := args["parent_id"].(string)

	var element domain.Element
	if err := json.Unmarshal([]byte(raw), &element); err != nil {
		return ModelSummary{}, fmt.Errorf("invalid element JSON: %w", err)
	}
	if err := model.Validate(&element); err != nil {
		return ModelSummary{}, err
	}

	if err := s.engine.InsertElement(ctx, domain.ElementInsertion{Element: &element, ParentID: parentID}); err != nil {
		return ModelSummary{}, err
	}
	return s.summary(ctx)
}

func (s *Server) handleRemoveElement(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (ModelSummary, error) {
	id, _ := args["element_id"].(string)

	if err := s.engine.RemoveElement(ctx, id); err != nil {
		return ModelSummary{}, err
	}
	return s.summary(ctx)
}

func (s *Server) summary(ctx context.Context) (ModelSummary, error) {
	root, err := s.engine.Model(ctx)
	if err != nil {
		return ModelSummary{}, err
	}
	return ModelSummary{RootID: root.ID, Elements: model.Count(root)}, nil
}

func (s *Server) modelJSON(ctx context.Context) (string, error) {
	root, err := s.engine.Model(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read model: %w", err)
	}
	data, err := json.Marshal(root)
	if err != nil {
		return "", fmt.Errorf("failed to encode model: %w", err)
	}
	return string(data), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(ModelURI, "Current Diagram Model",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		text, err := s.modelJSON(ctx)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      ModelURI,
				MIMEType: "application/json",
				Text:     text,
			},
		}, nil
	})
}
