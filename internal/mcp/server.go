// Package mcp exposes voice profiles to MCP clients over stdio.
package mcp

import (
	"context"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/voiceprint/voiceprint/internal/analyzer"
	"github.com/voiceprint/voiceprint/internal/learn"
	"github.com/voiceprint/voiceprint/internal/personalize"
	"github.com/voiceprint/voiceprint/internal/profile"
	"github.com/voiceprint/voiceprint/internal/store"
)

// Deps are the components the tools run against. Locks must be the table
// Learner was built with so business updates and learning never interleave.
type Deps struct {
	Store    *store.Store
	Learner  *learn.Learner
	Analyzer *analyzer.Analyzer
	Engine   *personalize.Engine
	Manager  *profile.Manager
	Locks    *store.Locks
	Logger   *zap.Logger
}

// Server holds the tool handlers.
type Server struct {
	store   *store.Store
	learner *learn.Learner
	an      *analyzer.Analyzer
	engine  *personalize.Engine
	mgr     *profile.Manager
	locks   *store.Locks
	log     *zap.Logger

	userID  string
	version string

	// renderMu guards engine, whose random source may be seeded.
	renderMu sync.Mutex
}

// NewServer creates a Server that answers for userID by default.
func NewServer(d Deps, userID, version string) *Server {
	s := &Server{
		store:   d.Store,
		learner: d.Learner,
		an:      d.Analyzer,
		engine:  d.Engine,
		mgr:     d.Manager,
		locks:   d.Locks,
		log:     d.Logger,
		userID:  userID,
		version: version,
	}
	if s.an == nil {
		s.an = analyzer.New(nil)
	}
	if s.engine == nil {
		s.engine = personalize.NewEngine(nil)
	}
	if s.mgr == nil {
		s.mgr = profile.NewManager(s.an, nil)
	}
	if s.locks == nil {
		s.locks = &store.Locks{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// MCPServer builds the protocol server with every tool registered.
func (s *Server) MCPServer() *server.MCPServer {
	ms := server.NewMCPServer("voiceprint", s.version, server.WithToolCapabilities(false))

	ms.AddTool(mcp.NewTool("analyze_message",
		mcp.WithDescription("Measure the tone, patterns and vocabulary of one message."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Message to analyze")),
	), s.handleAnalyzeMessage)

	ms.AddTool(mcp.NewTool("rewrite_text",
		mcp.WithDescription("Rewrite text in the user's voice and list every transform applied."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Text to rewrite")),
		mcp.WithString("purpose", mcp.Description("response, suggestion, draft or example"),
			mcp.Enum("response", "suggestion", "draft", "example")),
		mcp.WithString("tone", mcp.Description("Pin a tone instead of the measured one"),
			mcp.Enum("professional", "casual", "friendly", "formal")),
		mcp.WithString("length", mcp.Description("Override length shaping"),
			mcp.Enum("short", "medium", "long")),
		mcp.WithBoolean("emoji", mcp.Description("Force emoji on or off")),
		mcp.WithString("context", mcp.Description("Surrounding conversation, used to match projects")),
		mcp.WithBoolean("alternatives", mcp.Description("Also render professional and casual variants")),
		mcp.WithString("user", mcp.Description("User ID (defaults to the configured user)")),
	), s.handleRewriteText)

	ms.AddTool(mcp.NewTool("get_profile",
		mcp.WithDescription("Return the stored voice profile."),
		mcp.WithString("user", mcp.Description("User ID (defaults to the configured user)")),
		mcp.WithString("format", mcp.Description("json, markdown or prompt"),
			mcp.Enum("json", "markdown", "prompt")),
	), s.handleGetProfile)

	ms.AddTool(mcp.NewTool("learn_messages",
		mcp.WithDescription("Learn one conversation into the user's profile."),
		mcp.WithArray("messages", mcp.Required(),
			mcp.Description("The user's messages, in order"),
			mcp.Items(map[string]any{"type": "string"})),
		mcp.WithArray("responses",
			mcp.Description("AI responses aligned with messages"),
			mcp.Items(map[string]any{"type": "string"})),
		mcp.WithString("user", mcp.Description("User ID (defaults to the configured user)")),
	), s.handleLearnMessages)

	ms.AddTool(mcp.NewTool("update_business",
		mcp.WithDescription("Record what the user does for work. Empty fields are left unchanged."),
		mcp.WithString("company_name"),
		mcp.WithString("industry"),
		mcp.WithString("role"),
		mcp.WithString("products"),
		mcp.WithString("target_customers"),
		mcp.WithString("goals"),
		mcp.WithString("user", mcp.Description("User ID (defaults to the configured user)")),
	), s.handleUpdateBusiness)

	return ms
}

// Serve runs the stdio transport until the client disconnects.
func (s *Server) Serve(_ context.Context) error {
	s.log.Info("mcp server starting", zap.String("user", s.userID))
	return server.ServeStdio(s.MCPServer())
}

func (s *Server) user(req mcp.CallToolRequest) string {
	if u := req.GetString("user", ""); u != "" {
		return u
	}
	return s.userID
}
