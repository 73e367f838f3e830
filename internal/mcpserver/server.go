package mcpserver

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lark-tools/lark-mcp-server/internal/lark"
)

// LarkMCPServer exposes Lark operations as MCP tools
type LarkMCPServer struct {
	server *mcp.Server
	client *lark.Client
}

// NewServer creates a new Lark MCP server around the given API client
func NewServer(client *lark.Client) *LarkMCPServer {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "lark-tools",
		Version: "v1.0.0",
	}, nil)

	s := &LarkMCPServer{
		server: server,
		client: client,
	}

	s.registerTools()

	return s
}

// registerTools registers all Lark tools
func (s *LarkMCPServer) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "send_message",
		Description: "Send a message to a Lark chat or user.",
	}, s.handleSendMessage)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_chat_list",
		Description: "Get the list of chats the bot has access to.",
	}, s.handleGetChatList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_chat_members",
		Description: "Get the members of a specific chat.",
	}, s.handleGetChatMembers)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_calendar_event",
		Description: "Create a calendar event on the primary Lark calendar.",
	}, s.handleCreateCalendarEvent)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "upload_file",
		Description: "Upload a local file to Lark.",
	}, s.handleUploadFile)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_user_info",
		Description: "Get information about a specific Lark user.",
	}, s.handleGetUserInfo)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_doc",
		Description: "Create a new document in Lark Docs, optionally with initial content.",
	}, s.handleCreateDoc)
}

// Run starts the MCP server with stdio transport
func (s *LarkMCPServer) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns an HTTP handler serving the MCP streamable transport
func (s *LarkMCPServer) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)
}

// GetServer returns the underlying MCP server
func (s *LarkMCPServer) GetServer() *mcp.Server {
	return s.server
}
