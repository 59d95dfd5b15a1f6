package mcpserver

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"playcheck/internal/models"
	"playcheck/internal/tools"
)

// Server exposes the tool registry to MCP clients.
type Server struct {
	registry  *tools.Registry
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

func NewServer(registry *tools.Registry, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		registry:  registry,
		mcpServer: server.NewMCPServer("playcheck", version, server.WithToolCapabilities(false)),
		logger:    logger,
	}
	for _, spec := range registry.Specs() {
		s.mcpServer.AddTool(newTool(spec), s.handler(spec.Name))
	}
	return s
}

// ServeStdio serves MCP over Stdin/Stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func newTool(spec tools.Spec) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(spec.Description)}
	for _, p := range spec.Parameters {
		propOpts := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			propOpts = append(propOpts, mcp.Required())
		}
		switch p.Type {
		case "number", "integer":
			opts = append(opts, mcp.WithNumber(p.Name, propOpts...))
		case "boolean":
			opts = append(opts, mcp.WithBoolean(p.Name, propOpts...))
		default:
			opts = append(opts, mcp.WithString(p.Name, propOpts...))
		}
	}
	return mcp.NewTool(spec.Name, opts...)
}

// handler runs the named tool. Error-shaped outputs are returned as tool
// errors so MCP clients can tell them apart.
func (s *Server) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out := s.registry.Execute(ctx, models.ToolCall{
			ID:   uuid.NewString(),
			Name: name,
			Args: req.GetArguments(),
		})
		text := models.OutputJSON(out)

		if msg, failed := out["error"]; failed {
			s.logger.Info("mcp tool call failed", "tool", name, "error", msg)
			return mcp.NewToolResultError(text), nil
		}
		return mcp.NewToolResultText(text), nil
	}
}
