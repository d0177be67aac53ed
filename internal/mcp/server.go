package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/shapewin/internal/config"
)

const (
	ServerName    = "shapewin"
	ServerVersion = "0.1.0"

	// DefaultMaxLeaves bounds the leaf list of shape_tree responses.
	DefaultMaxLeaves = 256
)

// Server is the MCP server exposing shape computations as tools.
type Server struct {
	mcpServer *mcpsdk.Server
	config    *config.Config
	logger    *slog.Logger
}

// NewServer creates a new MCP server. cfg supplies the default mode and
// invert flag for tool calls that omit them.
func NewServer(cfg *config.Config, logger *slog.Logger) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		config: cfg,
		logger: logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "shape_tree",
		Description: "Build the shape quadtree of a mask image. Every leaf is a rectangle whose pixels are all opaque or all transparent under the shape mode. Returns the image size, tree statistics and up to max_leaves leaves in up-left, up-right, down-left, down-right order.",
	}, s.handleShapeTree)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "shape_bitmap",
		Description: "Pack the shape mask of an image into a bitmap, pixels_per_byte pixels per byte, least significant bit first, rows running on without padding. A set bit marks a pixel that is part of the window.",
	}, s.handleShapeBitmap)
}
