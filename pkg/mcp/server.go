// Package mcp exposes the gateway operations as Model Context Protocol tools
// over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"io"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/tokenwise/tokenwise/pkg/chat"
	"github.com/tokenwise/tokenwise/pkg/pricing"
	"github.com/tokenwise/tokenwise/pkg/router"
	"github.com/tokenwise/tokenwise/pkg/summarize"
	"github.com/tokenwise/tokenwise/pkg/tokens"
)

// Deps are the services the tools call into.
type Deps struct {
	Router       *router.Router
	Calculator   *pricing.Calculator
	Counter      *tokens.Counter
	Summarizer   *summarize.Summarizer
	Responder    *chat.Responder
	DefaultModel string
}

// Server is an MCP server speaking JSON-RPC 2.0 over stdio.
type Server struct {
	deps Deps
	mcp  *server.MCPServer
}

// New creates a Server and registers every tool.
func New(deps Deps, version string) *Server {
	s := &Server{
		deps: deps,
		mcp: server.NewMCPServer("tokenwise", version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
	}
	for _, t := range s.tools() {
		s.mcp.AddTool(t.def, t.handler)
	}
	return s
}

// Run serves requests read line-by-line from r, writing responses to w.
// It blocks until r is closed or ctx is cancelled.
func (s *Server) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, r, w)
}

// HandleMessage processes a single JSON-RPC message and returns the reply,
// or nil for notifications.
func (s *Server) HandleMessage(ctx context.Context, msg json.RawMessage) mcp.JSONRPCMessage {
	return s.mcp.HandleMessage(ctx, msg)
}
